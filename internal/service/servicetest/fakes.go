// Package servicetest provides in-memory repository fakes for service tests.
package servicetest

import (
	"context"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/WeroML/back-bd-tattoo2/internal/model"
	apperrors "github.com/WeroML/back-bd-tattoo2/pkg/errors"
)

// Restorer captures a fake's current state and returns a function that
// puts it back.
type Restorer interface {
	Checkpoint() func()
}

// TxManager runs the function directly; fakes have no real transactions.
// Repos registered on it are checkpointed before fn runs and restored when
// fn fails, mimicking a database rollback.
type TxManager struct {
	// Fail forces every transaction to report this error after fn runs,
	// simulating a commit failure.
	Fail error
	// Repos to roll back when fn returns an error.
	Repos []Restorer
}

func (m *TxManager) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	restores := make([]func(), len(m.Repos))
	for i, repo := range m.Repos {
		restores[i] = repo.Checkpoint()
	}
	if err := fn(nil); err != nil {
		for _, restore := range restores {
			restore()
		}
		return err
	}
	return m.Fail
}

type AppointmentRepo struct {
	NextID       int64
	Appointments map[int64]*model.Appointment
}

func NewAppointmentRepo() *AppointmentRepo {
	return &AppointmentRepo{NextID: 1, Appointments: make(map[int64]*model.Appointment)}
}

func (r *AppointmentRepo) Create(ctx context.Context, q sqlx.ExtContext, appointment *model.Appointment) error {
	appointment.ID = r.NextID
	r.NextID++
	appointment.CreatedAt = time.Now()
	stored := *appointment
	r.Appointments[appointment.ID] = &stored
	return nil
}

func (r *AppointmentRepo) Get(ctx context.Context, q sqlx.ExtContext, id int64) (*model.Appointment, error) {
	appointment, ok := r.Appointments[id]
	if !ok {
		return nil, apperrors.NotFound("appointment", nil)
	}
	found := *appointment
	return &found, nil
}

func (r *AppointmentRepo) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, appointment := range r.Appointments {
		if filters != nil {
			if filters.ClientID != nil && appointment.ClientID != *filters.ClientID {
				continue
			}
			if filters.ArtistID != nil && appointment.ArtistID != *filters.ArtistID {
				continue
			}
			if filters.Status != nil && appointment.Status != *filters.Status {
				continue
			}
		}
		found := *appointment
		out = append(out, &found)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *AppointmentRepo) UpdateStatus(ctx context.Context, q sqlx.ExtContext, id int64, status model.AppointmentStatus) error {
	appointment, ok := r.Appointments[id]
	if !ok {
		return apperrors.NotFound("appointment", nil)
	}
	appointment.Status = status
	return nil
}

func (r *AppointmentRepo) ApplyPatch(ctx context.Context, q sqlx.ExtContext, id int64, patch *model.AppointmentPatch) error {
	appointment, ok := r.Appointments[id]
	if !ok {
		return apperrors.NotFound("appointment", nil)
	}
	if patch.ScheduledAt != nil {
		appointment.ScheduledAt = *patch.ScheduledAt
	}
	if patch.EstimatedMinutes != nil {
		appointment.EstimatedMinutes = patch.EstimatedMinutes
	}
	if patch.EstimatedTotal != nil {
		appointment.EstimatedTotal = *patch.EstimatedTotal
	}
	if patch.Notes != nil {
		appointment.Notes = patch.Notes
	}
	return nil
}

func (r *AppointmentRepo) Checkpoint() func() {
	saved := make(map[int64]*model.Appointment, len(r.Appointments))
	for id, appointment := range r.Appointments {
		copied := *appointment
		saved[id] = &copied
	}
	nextID := r.NextID
	return func() {
		r.NextID = nextID
		r.Appointments = saved
	}
}

type SessionRepo struct {
	NextID  int64
	Entries []*model.SessionEntry
}

func NewSessionRepo() *SessionRepo {
	return &SessionRepo{NextID: 1}
}

func (r *SessionRepo) Insert(ctx context.Context, q sqlx.ExtContext, entry *model.SessionEntry) error {
	entry.ID = r.NextID
	r.NextID++
	entry.CreatedAt = time.Now()
	stored := *entry
	r.Entries = append(r.Entries, &stored)
	return nil
}

func (r *SessionRepo) Get(ctx context.Context, q sqlx.ExtContext, id int64) (*model.SessionEntry, error) {
	for _, entry := range r.Entries {
		if entry.ID == id {
			found := *entry
			return &found, nil
		}
	}
	return nil, apperrors.NotFound("session", nil)
}

func (r *SessionRepo) Latest(ctx context.Context, q sqlx.ExtContext, appointmentID int64) (*model.SessionEntry, error) {
	for i := len(r.Entries) - 1; i >= 0; i-- {
		if r.Entries[i].AppointmentID == appointmentID {
			found := *r.Entries[i]
			return &found, nil
		}
	}
	return nil, apperrors.NotFound("session", nil)
}

func (r *SessionRepo) LatestForSequence(ctx context.Context, q sqlx.ExtContext, appointmentID int64, sequence int) (*model.SessionEntry, error) {
	for i := len(r.Entries) - 1; i >= 0; i-- {
		if r.Entries[i].AppointmentID == appointmentID && r.Entries[i].SequenceNumber == sequence {
			found := *r.Entries[i]
			return &found, nil
		}
	}
	return nil, apperrors.NotFound("session", nil)
}

func (r *SessionRepo) History(ctx context.Context, appointmentID int64) ([]*model.SessionEntry, error) {
	var out []*model.SessionEntry
	for _, entry := range r.Entries {
		if entry.AppointmentID == appointmentID {
			found := *entry
			out = append(out, &found)
		}
	}
	return out, nil
}

func (r *SessionRepo) List(ctx context.Context, limit int) ([]*model.SessionEntry, error) {
	out := make([]*model.SessionEntry, 0, len(r.Entries))
	for _, entry := range r.Entries {
		found := *entry
		out = append(out, &found)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *SessionRepo) Search(ctx context.Context, filters *model.SessionFilters) ([]*model.SessionEntry, error) {
	var out []*model.SessionEntry
	for _, entry := range r.Entries {
		if filters.AppointmentID != nil && entry.AppointmentID != *filters.AppointmentID {
			continue
		}
		if filters.Status != nil && entry.Status != *filters.Status {
			continue
		}
		found := *entry
		out = append(out, &found)
	}
	return out, nil
}

func (r *SessionRepo) Checkpoint() func() {
	saved := make([]*model.SessionEntry, len(r.Entries))
	for i, entry := range r.Entries {
		copied := *entry
		saved[i] = &copied
	}
	nextID := r.NextID
	return func() {
		r.NextID = nextID
		r.Entries = saved
	}
}

type MaterialRepo struct {
	NextID    int64
	Materials map[int64]*model.Material
}

func NewMaterialRepo() *MaterialRepo {
	return &MaterialRepo{NextID: 1, Materials: make(map[int64]*model.Material)}
}

// Add seeds a material and returns its id.
func (r *MaterialRepo) Add(material *model.Material) int64 {
	material.ID = r.NextID
	r.NextID++
	stored := *material
	r.Materials[material.ID] = &stored
	return material.ID
}

func (r *MaterialRepo) Create(ctx context.Context, material *model.Material) error {
	r.Add(material)
	return nil
}

func (r *MaterialRepo) Get(ctx context.Context, id int64) (*model.Material, error) {
	material, ok := r.Materials[id]
	if !ok {
		return nil, apperrors.NotFound("material", nil)
	}
	found := *material
	return &found, nil
}

func (r *MaterialRepo) GetByCode(ctx context.Context, code string) (*model.Material, error) {
	for _, material := range r.Materials {
		if material.Code == code {
			found := *material
			return &found, nil
		}
	}
	return nil, apperrors.NotFound("material", nil)
}

func (r *MaterialRepo) GetForUpdate(ctx context.Context, tx *sqlx.Tx, id int64) (*model.Material, error) {
	return r.Get(ctx, id)
}

func (r *MaterialRepo) List(ctx context.Context) ([]*model.Material, error) {
	var out []*model.Material
	for _, material := range r.Materials {
		found := *material
		out = append(out, &found)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MaterialRepo) LowStock(ctx context.Context) ([]*model.Material, error) {
	var out []*model.Material
	for _, material := range r.Materials {
		if material.OnHand.LessThanOrEqual(material.ReorderThreshold) {
			found := *material
			out = append(out, &found)
		}
	}
	return out, nil
}

func (r *MaterialRepo) ApplyPatch(ctx context.Context, id int64, patch *model.MaterialPatch) (*model.Material, error) {
	material, ok := r.Materials[id]
	if !ok {
		return nil, apperrors.NotFound("material", nil)
	}
	if patch.Code != nil {
		material.Code = *patch.Code
	}
	if patch.Name != nil {
		material.Name = *patch.Name
	}
	if patch.Description != nil {
		material.Description = patch.Description
	}
	if patch.Unit != nil {
		material.Unit = *patch.Unit
	}
	if patch.UnitCost != nil {
		material.UnitCost = *patch.UnitCost
	}
	if patch.ReorderThreshold != nil {
		material.ReorderThreshold = *patch.ReorderThreshold
	}
	if patch.Active != nil {
		material.Active = *patch.Active
	}
	found := *material
	return &found, nil
}

func (r *MaterialRepo) Deactivate(ctx context.Context, id int64) error {
	material, ok := r.Materials[id]
	if !ok {
		return apperrors.NotFound("material", nil)
	}
	material.Active = false
	return nil
}

func (r *MaterialRepo) AdjustOnHand(ctx context.Context, q sqlx.ExtContext, id int64, delta decimal.Decimal) error {
	material, ok := r.Materials[id]
	if !ok {
		return apperrors.NotFound("material", nil)
	}
	material.OnHand = material.OnHand.Add(delta)
	return nil
}

func (r *MaterialRepo) SetLastPurchase(ctx context.Context, q sqlx.ExtContext, id int64, price decimal.Decimal, supplierID *int64) error {
	material, ok := r.Materials[id]
	if !ok {
		return apperrors.NotFound("material", nil)
	}
	material.LastPurchasePrice = &price
	if supplierID != nil {
		material.LastSupplierID = supplierID
	}
	return nil
}

func (r *MaterialRepo) Checkpoint() func() {
	saved := make(map[int64]*model.Material, len(r.Materials))
	for id, material := range r.Materials {
		copied := *material
		saved[id] = &copied
	}
	nextID := r.NextID
	return func() {
		r.NextID = nextID
		r.Materials = saved
	}
}

type MovementRepo struct {
	NextID    int64
	Movements []*model.InventoryMovement
}

func NewMovementRepo() *MovementRepo {
	return &MovementRepo{NextID: 1}
}

func (r *MovementRepo) Insert(ctx context.Context, q sqlx.ExtContext, movement *model.InventoryMovement) error {
	movement.ID = r.NextID
	r.NextID++
	movement.MovedAt = time.Now()
	stored := *movement
	r.Movements = append(r.Movements, &stored)
	return nil
}

func (r *MovementRepo) List(ctx context.Context, filters *model.MovementFilters) ([]*model.MovementView, error) {
	var out []*model.MovementView
	for _, movement := range r.Movements {
		if filters != nil {
			if filters.MaterialID != nil && movement.MaterialID != *filters.MaterialID {
				continue
			}
			if filters.Kind != nil && movement.Kind != *filters.Kind {
				continue
			}
			if filters.SessionID != nil && (movement.SessionID == nil || *movement.SessionID != *filters.SessionID) {
				continue
			}
			if filters.PurchaseID != nil && (movement.PurchaseID == nil || *movement.PurchaseID != *filters.PurchaseID) {
				continue
			}
		}
		out = append(out, &model.MovementView{InventoryMovement: *movement})
	}
	return out, nil
}

func (r *MovementRepo) ReplayOnHand(ctx context.Context, materialID int64) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, movement := range r.Movements {
		if movement.MaterialID == materialID {
			total = total.Add(movement.Kind.Signed(movement.Quantity))
		}
	}
	return total, nil
}

func (r *MovementRepo) Checkpoint() func() {
	saved := make([]*model.InventoryMovement, len(r.Movements))
	for i, movement := range r.Movements {
		copied := *movement
		saved[i] = &copied
	}
	nextID := r.NextID
	return func() {
		r.NextID = nextID
		r.Movements = saved
	}
}

type UsageRepo struct {
	NextID int64
	Usages []*model.MaterialUsage
}

func NewUsageRepo() *UsageRepo {
	return &UsageRepo{NextID: 1}
}

func (r *UsageRepo) Insert(ctx context.Context, q sqlx.ExtContext, usage *model.MaterialUsage) error {
	usage.ID = r.NextID
	r.NextID++
	usage.Subtotal = usage.Quantity.Mul(usage.UnitCost)
	stored := *usage
	r.Usages = append(r.Usages, &stored)
	return nil
}

func (r *UsageRepo) List(ctx context.Context, filters *model.UsageFilters) ([]*model.MaterialUsageView, error) {
	var out []*model.MaterialUsageView
	for _, usage := range r.Usages {
		if filters != nil {
			if filters.SessionID != nil && usage.SessionID != *filters.SessionID {
				continue
			}
			if filters.MaterialID != nil && usage.MaterialID != *filters.MaterialID {
				continue
			}
		}
		out = append(out, &model.MaterialUsageView{MaterialUsage: *usage})
	}
	return out, nil
}

func (r *UsageRepo) ListByAppointment(ctx context.Context, appointmentID int64) ([]*model.MaterialUsageView, error) {
	return r.List(ctx, nil)
}

func (r *UsageRepo) Checkpoint() func() {
	saved := make([]*model.MaterialUsage, len(r.Usages))
	for i, usage := range r.Usages {
		copied := *usage
		saved[i] = &copied
	}
	nextID := r.NextID
	return func() {
		r.NextID = nextID
		r.Usages = saved
	}
}

type PaymentRepo struct {
	NextID   int64
	Payments []*model.Payment
}

func NewPaymentRepo() *PaymentRepo {
	return &PaymentRepo{NextID: 1}
}

func (r *PaymentRepo) Insert(ctx context.Context, q sqlx.ExtContext, payment *model.Payment) error {
	payment.ID = r.NextID
	r.NextID++
	payment.PaidAt = time.Now()
	stored := *payment
	r.Payments = append(r.Payments, &stored)
	return nil
}

func (r *PaymentRepo) FindPaid(ctx context.Context, q sqlx.ExtContext, appointmentID int64) (*model.Payment, error) {
	for i := len(r.Payments) - 1; i >= 0; i-- {
		payment := r.Payments[i]
		if payment.AppointmentID == appointmentID && payment.Status == model.PaymentStatusPaid {
			found := *payment
			return &found, nil
		}
	}
	return nil, nil
}

func (r *PaymentRepo) List(ctx context.Context) ([]*model.Payment, error) {
	out := make([]*model.Payment, 0, len(r.Payments))
	for _, payment := range r.Payments {
		found := *payment
		out = append(out, &found)
	}
	return out, nil
}

func (r *PaymentRepo) Checkpoint() func() {
	saved := make([]*model.Payment, len(r.Payments))
	for i, payment := range r.Payments {
		copied := *payment
		saved[i] = &copied
	}
	nextID := r.NextID
	return func() {
		r.NextID = nextID
		r.Payments = saved
	}
}

type UserRepo struct {
	NextID  int64
	Users   map[int64]*model.User
	Artists []*model.Artist
}

func NewUserRepo() *UserRepo {
	return &UserRepo{NextID: 1, Users: make(map[int64]*model.User)}
}

func (r *UserRepo) Create(ctx context.Context, q sqlx.ExtContext, user *model.User) error {
	for _, existing := range r.Users {
		if existing.Username == user.Username {
			return apperrors.Duplicate("user already exists", nil)
		}
	}
	user.ID = r.NextID
	r.NextID++
	user.CreatedAt = time.Now()
	stored := *user
	r.Users[user.ID] = &stored
	return nil
}

func (r *UserRepo) CreateArtist(ctx context.Context, q sqlx.ExtContext, artist *model.Artist) error {
	artist.ID = r.NextID
	r.NextID++
	stored := *artist
	r.Artists = append(r.Artists, &stored)
	return nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	for _, user := range r.Users {
		if user.Username == username {
			found := *user
			return &found, nil
		}
	}
	return nil, apperrors.NotFound("user", nil)
}

func (r *UserRepo) List(ctx context.Context) ([]*model.User, error) {
	var out []*model.User
	for _, user := range r.Users {
		found := *user
		out = append(out, &found)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type ArtistRepo struct {
	Views map[int64]*model.ArtistView
}

func NewArtistRepo() *ArtistRepo {
	return &ArtistRepo{Views: make(map[int64]*model.ArtistView)}
}

func (r *ArtistRepo) Get(ctx context.Context, id int64) (*model.ArtistView, error) {
	view, ok := r.Views[id]
	if !ok {
		return nil, apperrors.NotFound("artist", nil)
	}
	found := *view
	return &found, nil
}

func (r *ArtistRepo) List(ctx context.Context) ([]*model.ArtistView, error) {
	var out []*model.ArtistView
	for _, view := range r.Views {
		found := *view
		out = append(out, &found)
	}
	return out, nil
}

type DesignRepo struct {
	NextID      int64
	Designs     map[int64]*model.DesignView
	Assignments []*model.AppointmentDesign
}

func NewDesignRepo() *DesignRepo {
	return &DesignRepo{NextID: 1, Designs: make(map[int64]*model.DesignView)}
}

func (r *DesignRepo) Get(ctx context.Context, id int64) (*model.DesignView, error) {
	design, ok := r.Designs[id]
	if !ok {
		return nil, apperrors.NotFound("design", nil)
	}
	found := *design
	return &found, nil
}

func (r *DesignRepo) List(ctx context.Context) ([]*model.DesignView, error) {
	var out []*model.DesignView
	for _, design := range r.Designs {
		found := *design
		out = append(out, &found)
	}
	return out, nil
}

func (r *DesignRepo) Assign(ctx context.Context, q sqlx.ExtContext, link *model.AppointmentDesign) error {
	link.ID = r.NextID
	r.NextID++
	link.CreatedAt = time.Now()
	stored := *link
	r.Assignments = append(r.Assignments, &stored)
	return nil
}

func (r *DesignRepo) ListAssignments(ctx context.Context) ([]*model.AppointmentDesign, error) {
	out := make([]*model.AppointmentDesign, 0, len(r.Assignments))
	for _, link := range r.Assignments {
		found := *link
		out = append(out, &found)
	}
	return out, nil
}

type PurchaseRepo struct {
	NextID    int64
	Purchases map[int64]*model.Purchase
	PLines    []*model.PurchaseLine
}

func NewPurchaseRepo() *PurchaseRepo {
	return &PurchaseRepo{NextID: 1, Purchases: make(map[int64]*model.Purchase)}
}

func (r *PurchaseRepo) Create(ctx context.Context, q sqlx.ExtContext, purchase *model.Purchase) error {
	purchase.ID = r.NextID
	r.NextID++
	purchase.PurchasedAt = time.Now()
	stored := *purchase
	r.Purchases[purchase.ID] = &stored
	return nil
}

func (r *PurchaseRepo) InsertLine(ctx context.Context, q sqlx.ExtContext, line *model.PurchaseLine) error {
	line.ID = r.NextID
	r.NextID++
	line.Subtotal = line.Quantity.Mul(line.UnitPrice)
	stored := *line
	r.PLines = append(r.PLines, &stored)
	return nil
}

func (r *PurchaseRepo) UpdateTotal(ctx context.Context, q sqlx.ExtContext, id int64, total decimal.Decimal) error {
	purchase, ok := r.Purchases[id]
	if !ok {
		return apperrors.NotFound("purchase", nil)
	}
	purchase.Total = total
	return nil
}

func (r *PurchaseRepo) GetForUpdate(ctx context.Context, tx *sqlx.Tx, id int64) (*model.Purchase, error) {
	purchase, ok := r.Purchases[id]
	if !ok {
		return nil, apperrors.NotFound("purchase", nil)
	}
	found := *purchase
	return &found, nil
}

func (r *PurchaseRepo) Lines(ctx context.Context, q sqlx.ExtContext, purchaseID int64) ([]*model.PurchaseLine, error) {
	var out []*model.PurchaseLine
	for _, line := range r.PLines {
		if line.PurchaseID == purchaseID {
			found := *line
			out = append(out, &found)
		}
	}
	return out, nil
}

func (r *PurchaseRepo) MarkReceived(ctx context.Context, q sqlx.ExtContext, id int64) error {
	purchase, ok := r.Purchases[id]
	if !ok {
		return apperrors.NotFound("purchase", nil)
	}
	purchase.Received = true
	return nil
}

func (r *PurchaseRepo) List(ctx context.Context) ([]*model.PurchaseView, error) {
	var out []*model.PurchaseView
	for _, purchase := range r.Purchases {
		out = append(out, &model.PurchaseView{Purchase: *purchase})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *PurchaseRepo) Get(ctx context.Context, id int64) (*model.PurchaseDetail, error) {
	purchase, ok := r.Purchases[id]
	if !ok {
		return nil, apperrors.NotFound("purchase", nil)
	}
	detail := &model.PurchaseDetail{PurchaseView: model.PurchaseView{Purchase: *purchase}}
	for _, line := range r.PLines {
		if line.PurchaseID == id {
			found := *line
			detail.Lines = append(detail.Lines, &model.PurchaseLineView{PurchaseLine: found})
		}
	}
	return detail, nil
}

type OutboxRepo struct {
	Events []*model.OutboxEvent
}

func NewOutboxRepo() *OutboxRepo {
	return &OutboxRepo{}
}

func (r *OutboxRepo) Insert(ctx context.Context, q sqlx.ExtContext, event *model.OutboxEvent) error {
	event.Status = model.OutboxStatusPending
	event.CreatedAt = time.Now()
	stored := *event
	r.Events = append(r.Events, &stored)
	return nil
}

func (r *OutboxRepo) Checkpoint() func() {
	saved := make([]*model.OutboxEvent, len(r.Events))
	for i, event := range r.Events {
		copied := *event
		saved[i] = &copied
	}
	return func() {
		r.Events = saved
	}
}

func (r *OutboxRepo) FetchPending(ctx context.Context, limit, maxAttempts int) ([]*model.OutboxEvent, error) {
	var out []*model.OutboxEvent
	for _, event := range r.Events {
		deliverable := event.Status == model.OutboxStatusPending ||
			(event.Status == model.OutboxStatusFailed && event.RetryCount < maxAttempts)
		if deliverable {
			found := *event
			out = append(out, &found)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (r *OutboxRepo) MarkProcessed(ctx context.Context, id string) error {
	for _, event := range r.Events {
		if event.ID.String() == id {
			now := time.Now()
			event.Status = model.OutboxStatusProcessed
			event.ProcessedAt = &now
			return nil
		}
	}
	return apperrors.NotFound("outbox event", nil)
}

func (r *OutboxRepo) MarkFailed(ctx context.Context, id string, errMsg string) error {
	for _, event := range r.Events {
		if event.ID.String() == id {
			event.Status = model.OutboxStatusFailed
			event.ErrorMessage = &errMsg
			event.RetryCount++
			return nil
		}
	}
	return apperrors.NotFound("outbox event", nil)
}

// EventTypes lists the recorded event types in insertion order.
func (r *OutboxRepo) EventTypes() []string {
	out := make([]string, 0, len(r.Events))
	for _, event := range r.Events {
		out = append(out, event.EventType)
	}
	return out
}
