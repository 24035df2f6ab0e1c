package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/WeroML/back-bd-tattoo2/internal/email"
	"github.com/WeroML/back-bd-tattoo2/internal/model"
	"github.com/WeroML/back-bd-tattoo2/internal/repository"
	"github.com/WeroML/back-bd-tattoo2/pkg/logger"
	"github.com/WeroML/back-bd-tattoo2/pkg/messaging"
	"github.com/WeroML/back-bd-tattoo2/pkg/metrics"
)

type OutboxProcessorConfig struct {
	BatchSize     int
	PollInterval  time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
	// MaxAttempts bounds redelivery across polls: a failed event is picked
	// up again on later polls until its retry count reaches this limit,
	// after which it stays FAILED for manual inspection.
	MaxAttempts int
}

// OutboxProcessor drains the transactional outbox: deliverable events are
// published to the broker and marked processed. A publish failure (after
// RetryAttempts in-place tries) marks the event failed with its error; the
// event is redelivered on later polls until MaxAttempts is spent. Delivery
// is at-least-once, so consumers must tolerate duplicates.
type OutboxProcessor struct {
	repo    repository.OutboxRepository
	broker  messaging.Broker
	mailer  email.Service
	config  OutboxProcessorConfig
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewOutboxProcessor(
	repo repository.OutboxRepository,
	broker messaging.Broker,
	mailer email.Service,
	config OutboxProcessorConfig,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *OutboxProcessor {
	if config.BatchSize <= 0 {
		config.BatchSize = 50
	}
	if config.PollInterval <= 0 {
		config.PollInterval = 5 * time.Second
	}
	if config.RetryAttempts <= 0 {
		config.RetryAttempts = 3
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = time.Second
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 5
	}

	return &OutboxProcessor{
		repo:    repo,
		broker:  broker,
		mailer:  mailer,
		config:  config,
		logger:  logger,
		metrics: metrics,
	}
}

func (p *OutboxProcessor) Start(ctx context.Context) {
	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	p.logger.Info("starting outbox processor")

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("shutting down outbox processor")
			return
		case <-ticker.C:
			if err := p.processEvents(ctx); err != nil {
				p.logger.Error(err, "failed to process outbox batch")
			}
		}
	}
}

func (p *OutboxProcessor) processEvents(ctx context.Context) error {
	timer := prometheus.NewTimer(p.metrics.OutboxProcessingLatency)
	defer timer.ObserveDuration()

	events, err := p.repo.FetchPending(ctx, p.config.BatchSize, p.config.MaxAttempts)
	if err != nil {
		return fmt.Errorf("failed to fetch pending events: %w", err)
	}

	for _, event := range events {
		if err := p.processEvent(ctx, event); err != nil {
			p.logger.Error(err, "failed to process event",
				"event_id", event.ID.String(),
				"event_type", event.EventType,
			)
		}
	}
	return nil
}

func (p *OutboxProcessor) processEvent(ctx context.Context, event *model.OutboxEvent) error {
	err := retry(p.config.RetryAttempts, p.config.RetryDelay, func() error {
		return p.broker.Publish(ctx, event.EventType, event.Payload)
	})
	if err != nil {
		p.metrics.OutboxEventsFailed.Inc()
		if markErr := p.repo.MarkFailed(ctx, event.ID.String(), err.Error()); markErr != nil {
			p.logger.Error(markErr, "failed to mark event failed", "event_id", event.ID.String())
		}
		return err
	}

	if event.EventType == model.EventStockLow {
		p.alertLowStock(event)
	}

	p.metrics.OutboxEventsProcessed.Inc()
	return p.repo.MarkProcessed(ctx, event.ID.String())
}

// alertLowStock sends the operational mail for a stock_low event. Mail
// failure is logged, not retried; the event itself already reached the
// broker.
func (p *OutboxProcessor) alertLowStock(event *model.OutboxEvent) {
	var payload struct {
		Code      string          `json:"code"`
		Name      string          `json:"name"`
		OnHand    decimal.Decimal `json:"on_hand"`
		Threshold decimal.Decimal `json:"threshold"`
	}
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		p.logger.Error(err, "malformed stock_low payload", "event_id", event.ID.String())
		return
	}
	if err := p.mailer.SendLowStockAlert(payload.Code, payload.Name, payload.OnHand.String(), payload.Threshold.String()); err != nil {
		p.logger.Error(err, "failed to send low stock alert", "material", payload.Code)
	}
}

func retry(attempts int, delay time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i < attempts-1 {
			time.Sleep(delay)
		}
	}
	return err
}
