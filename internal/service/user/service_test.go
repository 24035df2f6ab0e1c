package user

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/WeroML/back-bd-tattoo2/internal/model"
	"github.com/WeroML/back-bd-tattoo2/internal/service/servicetest"
	"github.com/WeroML/back-bd-tattoo2/pkg/auth"
	apperrors "github.com/WeroML/back-bd-tattoo2/pkg/errors"
	"github.com/WeroML/back-bd-tattoo2/pkg/logger"
)

var testLogger = logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard, TimeFormat: time.RFC3339})

func newService() (*Service, *servicetest.UserRepo) {
	users := servicetest.NewUserRepo()
	jwt := auth.NewJWTService("test-secret", time.Hour)
	return NewService(&servicetest.TxManager{}, users, servicetest.NewArtistRepo(), jwt, testLogger), users
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, users := newService()

	user, err := svc.Register(context.Background(), &model.RegisterUserRequest{
		RoleID:    model.RoleFront,
		Username:  "recepcion",
		FirstName: "Sofia",
		LastName:  "Mena",
		Email:     "sofia@example.com",
		Password:  "s3cret-pass",
	})
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret-pass")))
	assert.True(t, user.Active)
	assert.Empty(t, users.Artists)
}

func TestRegisterArtistCreatesProfile(t *testing.T) {
	svc, users := newService()

	user, err := svc.Register(context.Background(), &model.RegisterUserRequest{
		RoleID:      model.RoleArtist,
		Username:    "nmois",
		FirstName:   "Nadia",
		LastName:    "Mois",
		Email:       "nadia@example.com",
		Password:    "s3cret-pass",
		Specialties: "blackwork, fine line",
	})
	require.NoError(t, err)

	require.Len(t, users.Artists, 1)
	assert.Equal(t, user.ID, users.Artists[0].UserID)
	require.NotNil(t, users.Artists[0].Specialties)
	assert.Equal(t, "blackwork, fine line", *users.Artists[0].Specialties)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _ := newService()

	req := &model.RegisterUserRequest{
		RoleID:    model.RoleFront,
		Username:  "recepcion",
		FirstName: "Sofia",
		LastName:  "Mena",
		Email:     "sofia@example.com",
		Password:  "s3cret-pass",
	}
	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	assert.True(t, apperrors.Is(err, apperrors.ErrDuplicate))
}

func TestLogin(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Register(context.Background(), &model.RegisterUserRequest{
		RoleID:    model.RoleAdmin,
		Username:  "admin",
		FirstName: "Ana",
		LastName:  "Ruiz",
		Email:     "ana@example.com",
		Password:  "correct-horse",
	})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), &model.LoginRequest{Username: "admin", Password: "correct-horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "admin", resp.User.Username)

	claims, err := auth.NewJWTService("test-secret", time.Hour).Validate(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, model.RoleAdmin, claims.RoleID)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Register(context.Background(), &model.RegisterUserRequest{
		RoleID:    model.RoleAdmin,
		Username:  "admin",
		FirstName: "Ana",
		LastName:  "Ruiz",
		Email:     "ana@example.com",
		Password:  "correct-horse",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &model.LoginRequest{Username: "admin", Password: "battery-staple"})
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _ := newService()

	// Unknown users get the same answer as bad passwords.
	_, err := svc.Login(context.Background(), &model.LoginRequest{Username: "ghost", Password: "whatever"})
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
}

func TestLoginInactiveUser(t *testing.T) {
	svc, users := newService()

	_, err := svc.Register(context.Background(), &model.RegisterUserRequest{
		RoleID:    model.RoleFront,
		Username:  "former",
		FirstName: "Leo",
		LastName:  "Paz",
		Email:     "leo@example.com",
		Password:  "correct-horse",
	})
	require.NoError(t, err)
	for _, u := range users.Users {
		u.Active = false
	}

	_, err = svc.Login(context.Background(), &model.LoginRequest{Username: "former", Password: "correct-horse"})
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
}
