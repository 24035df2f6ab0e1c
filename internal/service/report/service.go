package report

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/WeroML/back-bd-tattoo2/internal/model"
	"github.com/WeroML/back-bd-tattoo2/internal/repository"
)

const (
	cacheTTL         = 5 * time.Minute
	cacheCleanup     = 10 * time.Minute
	supplierCacheKey = "report:suppliers"
)

// Service serves read-only reports. Results are cached briefly; reports
// tolerate slightly stale data.
type Service struct {
	reports repository.ReportRepository
	cache   *cache.Cache
}

func NewService(reports repository.ReportRepository) *Service {
	return &Service{
		reports: reports,
		cache:   cache.New(cacheTTL, cacheCleanup),
	}
}

func (s *Service) AppointmentSummary(ctx context.Context, appointmentID int64) (*model.AppointmentSummary, error) {
	key := fmt.Sprintf("report:appointment:%d", appointmentID)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*model.AppointmentSummary), nil
	}

	summary, err := s.reports.AppointmentSummary(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, summary, cache.DefaultExpiration)
	return summary, nil
}

func (s *Service) SupplierReport(ctx context.Context) ([]*model.SupplierReport, error) {
	if cached, ok := s.cache.Get(supplierCacheKey); ok {
		return cached.([]*model.SupplierReport), nil
	}

	rows, err := s.reports.SupplierReport(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(supplierCacheKey, rows, cache.DefaultExpiration)
	return rows, nil
}
