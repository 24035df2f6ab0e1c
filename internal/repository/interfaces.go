package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/WeroML/back-bd-tattoo2/internal/model"
)

// TxManager runs a function inside one database transaction: commit on nil,
// rollback on error or panic.
type TxManager interface {
	WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

// Methods that participate in a caller's transaction take a sqlx.ExtContext;
// both *sqlx.DB and *sqlx.Tx satisfy it, so the same method serves plain and
// transactional use.
type (
	ClientRepository interface {
		Create(ctx context.Context, client *model.Client) error
		Get(ctx context.Context, id int64) (*model.Client, error)
		List(ctx context.Context) ([]*model.Client, error)
		ApplyPatch(ctx context.Context, id int64, patch *model.ClientPatch) (*model.Client, error)
		Delete(ctx context.Context, id int64) error
	}

	UserRepository interface {
		Create(ctx context.Context, q sqlx.ExtContext, user *model.User) error
		CreateArtist(ctx context.Context, q sqlx.ExtContext, artist *model.Artist) error
		GetByUsername(ctx context.Context, username string) (*model.User, error)
		List(ctx context.Context) ([]*model.User, error)
	}

	ArtistRepository interface {
		Get(ctx context.Context, id int64) (*model.ArtistView, error)
		List(ctx context.Context) ([]*model.ArtistView, error)
	}

	DesignRepository interface {
		Get(ctx context.Context, id int64) (*model.DesignView, error)
		List(ctx context.Context) ([]*model.DesignView, error)
		Assign(ctx context.Context, q sqlx.ExtContext, link *model.AppointmentDesign) error
		ListAssignments(ctx context.Context) ([]*model.AppointmentDesign, error)
	}

	AppointmentRepository interface {
		Create(ctx context.Context, q sqlx.ExtContext, appointment *model.Appointment) error
		Get(ctx context.Context, q sqlx.ExtContext, id int64) (*model.Appointment, error)
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		UpdateStatus(ctx context.Context, q sqlx.ExtContext, id int64, status model.AppointmentStatus) error
		ApplyPatch(ctx context.Context, q sqlx.ExtContext, id int64, patch *model.AppointmentPatch) error
	}

	SessionRepository interface {
		Insert(ctx context.Context, q sqlx.ExtContext, entry *model.SessionEntry) error
		Get(ctx context.Context, q sqlx.ExtContext, id int64) (*model.SessionEntry, error)
		Latest(ctx context.Context, q sqlx.ExtContext, appointmentID int64) (*model.SessionEntry, error)
		LatestForSequence(ctx context.Context, q sqlx.ExtContext, appointmentID int64, sequence int) (*model.SessionEntry, error)
		History(ctx context.Context, appointmentID int64) ([]*model.SessionEntry, error)
		List(ctx context.Context, limit int) ([]*model.SessionEntry, error)
		Search(ctx context.Context, filters *model.SessionFilters) ([]*model.SessionEntry, error)
	}

	MaterialRepository interface {
		Create(ctx context.Context, material *model.Material) error
		Get(ctx context.Context, id int64) (*model.Material, error)
		GetByCode(ctx context.Context, code string) (*model.Material, error)
		// GetForUpdate locks the material row for the rest of the caller's
		// transaction, serializing concurrent stock checks.
		GetForUpdate(ctx context.Context, tx *sqlx.Tx, id int64) (*model.Material, error)
		List(ctx context.Context) ([]*model.Material, error)
		LowStock(ctx context.Context) ([]*model.Material, error)
		ApplyPatch(ctx context.Context, id int64, patch *model.MaterialPatch) (*model.Material, error)
		Deactivate(ctx context.Context, id int64) error
		AdjustOnHand(ctx context.Context, q sqlx.ExtContext, id int64, delta decimal.Decimal) error
		SetLastPurchase(ctx context.Context, q sqlx.ExtContext, id int64, price decimal.Decimal, supplierID *int64) error
	}

	MovementRepository interface {
		Insert(ctx context.Context, q sqlx.ExtContext, movement *model.InventoryMovement) error
		List(ctx context.Context, filters *model.MovementFilters) ([]*model.MovementView, error)
		// ReplayOnHand recomputes a material's on-hand from the full ledger;
		// audit use only, never on the hot path.
		ReplayOnHand(ctx context.Context, materialID int64) (decimal.Decimal, error)
	}

	UsageRepository interface {
		Insert(ctx context.Context, q sqlx.ExtContext, usage *model.MaterialUsage) error
		List(ctx context.Context, filters *model.UsageFilters) ([]*model.MaterialUsageView, error)
		ListByAppointment(ctx context.Context, appointmentID int64) ([]*model.MaterialUsageView, error)
	}

	PaymentRepository interface {
		Insert(ctx context.Context, q sqlx.ExtContext, payment *model.Payment) error
		// FindPaid returns the paid payment for an appointment, or nil when
		// there is none.
		FindPaid(ctx context.Context, q sqlx.ExtContext, appointmentID int64) (*model.Payment, error)
		List(ctx context.Context) ([]*model.Payment, error)
	}

	SupplierRepository interface {
		Create(ctx context.Context, supplier *model.Supplier) error
		Get(ctx context.Context, id int64) (*model.Supplier, error)
		List(ctx context.Context) ([]*model.Supplier, error)
		ApplyPatch(ctx context.Context, id int64, patch *model.SupplierPatch) (*model.Supplier, error)
		Deactivate(ctx context.Context, id int64) error
	}

	PurchaseRepository interface {
		Create(ctx context.Context, q sqlx.ExtContext, purchase *model.Purchase) error
		InsertLine(ctx context.Context, q sqlx.ExtContext, line *model.PurchaseLine) error
		UpdateTotal(ctx context.Context, q sqlx.ExtContext, id int64, total decimal.Decimal) error
		// GetForUpdate locks the purchase header so concurrent receives
		// cannot both pass the not-yet-received check.
		GetForUpdate(ctx context.Context, tx *sqlx.Tx, id int64) (*model.Purchase, error)
		Lines(ctx context.Context, q sqlx.ExtContext, purchaseID int64) ([]*model.PurchaseLine, error)
		MarkReceived(ctx context.Context, q sqlx.ExtContext, id int64) error
		List(ctx context.Context) ([]*model.PurchaseView, error)
		Get(ctx context.Context, id int64) (*model.PurchaseDetail, error)
	}

	OutboxRepository interface {
		Insert(ctx context.Context, q sqlx.ExtContext, event *model.OutboxEvent) error
		FetchPending(ctx context.Context, limit, maxAttempts int) ([]*model.OutboxEvent, error)
		MarkProcessed(ctx context.Context, id string) error
		MarkFailed(ctx context.Context, id string, errMsg string) error
	}

	ReportRepository interface {
		AppointmentSummary(ctx context.Context, appointmentID int64) (*model.AppointmentSummary, error)
		SupplierReport(ctx context.Context) ([]*model.SupplierReport, error)
	}
)
