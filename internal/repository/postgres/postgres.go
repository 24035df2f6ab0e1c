package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/WeroML/back-bd-tattoo2/internal/repository"
)

type clientRepository struct {
	db *sqlx.DB
}

type userRepository struct {
	db *sqlx.DB
}

type artistRepository struct {
	db *sqlx.DB
}

type designRepository struct {
	db *sqlx.DB
}

type appointmentRepository struct {
	db *sqlx.DB
}

type sessionRepository struct {
	db *sqlx.DB
}

type materialRepository struct {
	db *sqlx.DB
}

type movementRepository struct {
	db *sqlx.DB
}

type usageRepository struct {
	db *sqlx.DB
}

type paymentRepository struct {
	db *sqlx.DB
}

type supplierRepository struct {
	db *sqlx.DB
}

type purchaseRepository struct {
	db *sqlx.DB
}

type outboxRepository struct {
	db *sqlx.DB
}

type reportRepository struct {
	db *sqlx.DB
}

func NewClientRepository(db *sqlx.DB) repository.ClientRepository {
	return &clientRepository{db: db}
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func NewArtistRepository(db *sqlx.DB) repository.ArtistRepository {
	return &artistRepository{db: db}
}

func NewDesignRepository(db *sqlx.DB) repository.DesignRepository {
	return &designRepository{db: db}
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func NewSessionRepository(db *sqlx.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

func NewMaterialRepository(db *sqlx.DB) repository.MaterialRepository {
	return &materialRepository{db: db}
}

func NewMovementRepository(db *sqlx.DB) repository.MovementRepository {
	return &movementRepository{db: db}
}

func NewUsageRepository(db *sqlx.DB) repository.UsageRepository {
	return &usageRepository{db: db}
}

func NewPaymentRepository(db *sqlx.DB) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

func NewSupplierRepository(db *sqlx.DB) repository.SupplierRepository {
	return &supplierRepository{db: db}
}

func NewPurchaseRepository(db *sqlx.DB) repository.PurchaseRepository {
	return &purchaseRepository{db: db}
}

func NewOutboxRepository(db *sqlx.DB) repository.OutboxRepository {
	return &outboxRepository{db: db}
}

func NewReportRepository(db *sqlx.DB) repository.ReportRepository {
	return &reportRepository{db: db}
}
