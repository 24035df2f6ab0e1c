package user

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/WeroML/back-bd-tattoo2/internal/model"
	"github.com/WeroML/back-bd-tattoo2/internal/repository"
	"github.com/WeroML/back-bd-tattoo2/pkg/auth"
	apperrors "github.com/WeroML/back-bd-tattoo2/pkg/errors"
	"github.com/WeroML/back-bd-tattoo2/pkg/logger"
)

const bcryptCost = 12

type Service struct {
	tx      repository.TxManager
	users   repository.UserRepository
	artists repository.ArtistRepository
	jwt     *auth.JWTService
	logger  *logger.Logger
}

func NewService(tx repository.TxManager, users repository.UserRepository, artists repository.ArtistRepository, jwt *auth.JWTService, l *logger.Logger) *Service {
	return &Service{
		tx:      tx,
		users:   users,
		artists: artists,
		jwt:     jwt,
		logger:  l,
	}
}

// Register creates a user and, for the artist role, its artist profile in
// the same transaction.
func (s *Service) Register(ctx context.Context, req *model.RegisterUserRequest) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	user := &model.User{
		RoleID:       req.RoleID,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: string(hash),
		Active:       true,
	}
	if phone := strings.TrimSpace(req.Phone); phone != "" {
		user.Phone = &phone
	}

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.users.Create(ctx, tx, user); err != nil {
			return err
		}
		if req.RoleID != model.RoleArtist {
			return nil
		}
		artist := &model.Artist{
			UserID:            user.ID,
			HourlyRate:        req.HourlyRate,
			CommissionPercent: req.CommissionPercent,
			Active:            true,
		}
		if bio := strings.TrimSpace(req.Biography); bio != "" {
			artist.Biography = &bio
		}
		if spec := strings.TrimSpace(req.Specialties); spec != "" {
			artist.Specialties = &spec
		}
		return s.users.CreateArtist(ctx, tx, artist)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized(nil)
		}
		return nil, err
	}
	if !user.Active {
		return nil, apperrors.Unauthorized(nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.Unauthorized(nil)
	}

	token, err := s.jwt.Generate(user.ID, user.RoleID, user.Username)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &model.LoginResponse{Token: token, User: user}, nil
}

func (s *Service) List(ctx context.Context) ([]*model.User, error) {
	return s.users.List(ctx)
}

func (s *Service) GetArtist(ctx context.Context, id int64) (*model.ArtistView, error) {
	return s.artists.Get(ctx, id)
}

func (s *Service) ListArtists(ctx context.Context) ([]*model.ArtistView, error) {
	return s.artists.List(ctx)
}
