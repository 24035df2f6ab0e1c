package report

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WeroML/back-bd-tattoo2/internal/model"
	apperrors "github.com/WeroML/back-bd-tattoo2/pkg/errors"
)

type fakeReports struct {
	summaryCalls  int
	supplierCalls int
	summary       *model.AppointmentSummary
	suppliers     []*model.SupplierReport
}

func (f *fakeReports) AppointmentSummary(ctx context.Context, appointmentID int64) (*model.AppointmentSummary, error) {
	f.summaryCalls++
	if f.summary == nil {
		return nil, apperrors.NotFound("appointment", nil)
	}
	return f.summary, nil
}

func (f *fakeReports) SupplierReport(ctx context.Context) ([]*model.SupplierReport, error) {
	f.supplierCalls++
	return f.suppliers, nil
}

func TestAppointmentSummaryCaches(t *testing.T) {
	reports := &fakeReports{summary: &model.AppointmentSummary{
		AppointmentID:   1,
		Status:          model.AppointmentStatusConfirmed,
		EstimatedTotal:  decimal.NewFromInt(300),
		ClientFirstName: "Iris",
		ArtistFirstName: "Nadia",
		ArtistLastName:  "Mois",
	}}
	svc := NewService(reports)

	first, err := svc.AppointmentSummary(context.Background(), 1)
	require.NoError(t, err)
	second, err := svc.AppointmentSummary(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, reports.summaryCalls)
}

func TestAppointmentSummaryNotFoundIsNotCached(t *testing.T) {
	reports := &fakeReports{}
	svc := NewService(reports)

	_, err := svc.AppointmentSummary(context.Background(), 9)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))

	_, err = svc.AppointmentSummary(context.Background(), 9)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	assert.Equal(t, 2, reports.summaryCalls)
}

func TestSupplierReportCaches(t *testing.T) {
	reports := &fakeReports{suppliers: []*model.SupplierReport{
		{Supplier: "InkCo", ProductCount: 4, UnitsBought: decimal.NewFromInt(120)},
	}}
	svc := NewService(reports)

	_, err := svc.SupplierReport(context.Background())
	require.NoError(t, err)
	rows, err := svc.SupplierReport(context.Background())
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, "InkCo", rows[0].Supplier)
	assert.Equal(t, 1, reports.supplierCalls)
}
