package purchase

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/WeroML/back-bd-tattoo2/internal/model"
	"github.com/WeroML/back-bd-tattoo2/internal/repository"
	"github.com/WeroML/back-bd-tattoo2/internal/service/inventory"
	apperrors "github.com/WeroML/back-bd-tattoo2/pkg/errors"
	"github.com/WeroML/back-bd-tattoo2/pkg/logger"
)

// Service manages purchase orders. Creating an order records intent only;
// receiving it is what moves stock, one ledger movement per line.
type Service struct {
	tx        repository.TxManager
	purchases repository.PurchaseRepository
	inventory *inventory.Service
	logger    *logger.Logger
}

func NewService(tx repository.TxManager, purchases repository.PurchaseRepository, inv *inventory.Service, l *logger.Logger) *Service {
	return &Service{
		tx:        tx,
		purchases: purchases,
		inventory: inv,
		logger:    l,
	}
}

// Create books an order header and its lines and totals them from the
// database-computed subtotals.
func (s *Service) Create(ctx context.Context, req *model.CreatePurchaseRequest) (*model.PurchaseDetail, error) {
	for _, line := range req.Lines {
		if line.Quantity.Sign() <= 0 {
			return nil, apperrors.Validation("purchase quantity must be positive")
		}
		if line.UnitPrice.Sign() < 0 {
			return nil, apperrors.Validation("unit price must not be negative")
		}
	}

	purchase := &model.Purchase{
		SupplierID: req.SupplierID,
		CreatedBy:  req.CreatedBy,
	}
	if inv := strings.TrimSpace(req.InvoiceNumber); inv != "" {
		purchase.InvoiceNumber = &inv
	}
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		purchase.Notes = &notes
	}

	err := s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.purchases.Create(ctx, tx, purchase); err != nil {
			return err
		}
		total := decimal.Zero
		for _, lineReq := range req.Lines {
			line := &model.PurchaseLine{
				PurchaseID: purchase.ID,
				MaterialID: lineReq.MaterialID,
				Quantity:   lineReq.Quantity,
				UnitPrice:  lineReq.UnitPrice,
			}
			if err := s.purchases.InsertLine(ctx, tx, line); err != nil {
				return err
			}
			total = total.Add(line.Subtotal)
		}
		purchase.Total = total
		return s.purchases.UpdateTotal(ctx, tx, purchase.ID, total)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("purchase created",
		"purchase_id", purchase.ID,
		"supplier_id", purchase.SupplierID,
		"total", purchase.Total.String(),
	)
	return s.purchases.Get(ctx, purchase.ID)
}

// Receive books the order's stock. The header is locked so two concurrent
// receives cannot both pass the not-yet-received check; each line becomes a
// purchase movement and updates the material's last purchase price.
func (s *Service) Receive(ctx context.Context, purchaseID int64, req *model.ReceivePurchaseRequest) (*model.PurchaseDetail, error) {
	if req.ReceivedBy == 0 {
		return nil, apperrors.Validation("acting user is required")
	}

	err := s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		purchase, err := s.purchases.GetForUpdate(ctx, tx, purchaseID)
		if err != nil {
			return err
		}
		if purchase.Received {
			return apperrors.Conflict("purchase has already been received")
		}

		lines, err := s.purchases.Lines(ctx, tx, purchaseID)
		if err != nil {
			return err
		}
		for _, line := range lines {
			if err := s.inventory.ReceiveLineInTx(ctx, tx, line, purchase.SupplierID, req.ReceivedBy); err != nil {
				return err
			}
		}
		return s.purchases.MarkReceived(ctx, tx, purchaseID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("purchase received", "purchase_id", purchaseID)
	return s.purchases.Get(ctx, purchaseID)
}

func (s *Service) Get(ctx context.Context, id int64) (*model.PurchaseDetail, error) {
	return s.purchases.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*model.PurchaseView, error) {
	return s.purchases.List(ctx)
}
