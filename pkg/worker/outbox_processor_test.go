package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WeroML/back-bd-tattoo2/internal/model"
	"github.com/WeroML/back-bd-tattoo2/internal/service/servicetest"
	"github.com/WeroML/back-bd-tattoo2/pkg/logger"
	"github.com/WeroML/back-bd-tattoo2/pkg/metrics"
)

var (
	testMetrics = metrics.NewMetrics("test", "worker")
	testLogger  = logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard, TimeFormat: time.RFC3339})
)

type publishCall struct {
	channel string
	message interface{}
}

type fakeBroker struct {
	published []publishCall
	fail      error
}

func (b *fakeBroker) Publish(ctx context.Context, channel string, message interface{}) error {
	if b.fail != nil {
		return b.fail
	}
	b.published = append(b.published, publishCall{channel: channel, message: message})
	return nil
}

func (b *fakeBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	return nil, nil
}

func (b *fakeBroker) Close() error { return nil }

type fakeMailer struct {
	alerts []string
}

func (m *fakeMailer) SendLowStockAlert(code, name, onHand, threshold string) error {
	m.alerts = append(m.alerts, fmt.Sprintf("%s %s/%s", code, onHand, threshold))
	return nil
}

func seedEvent(repo *servicetest.OutboxRepo, eventType string, payload interface{}) *model.OutboxEvent {
	body, _ := json.Marshal(payload)
	event := &model.OutboxEvent{ID: uuid.New(), EventType: eventType, Payload: body}
	_ = repo.Insert(context.Background(), nil, event)
	return event
}

func TestProcessEventsPublishesAndMarks(t *testing.T) {
	repo := servicetest.NewOutboxRepo()
	broker := &fakeBroker{}
	mailer := &fakeMailer{}
	p := NewOutboxProcessor(repo, broker, mailer,
		OutboxProcessorConfig{RetryAttempts: 1, RetryDelay: time.Millisecond}, testLogger, testMetrics)

	seedEvent(repo, model.EventAppointmentCreated, map[string]int64{"appointment_id": 1})
	require.NoError(t, p.processEvents(context.Background()))

	require.Len(t, broker.published, 1)
	assert.Equal(t, model.EventAppointmentCreated, broker.published[0].channel)
	assert.Equal(t, model.OutboxStatusProcessed, repo.Events[0].Status)
	require.NotNil(t, repo.Events[0].ProcessedAt)
	assert.Empty(t, mailer.alerts)
}

func TestProcessEventsMarksFailures(t *testing.T) {
	repo := servicetest.NewOutboxRepo()
	broker := &fakeBroker{fail: fmt.Errorf("broker down")}
	p := NewOutboxProcessor(repo, broker, &fakeMailer{},
		OutboxProcessorConfig{RetryAttempts: 2, RetryDelay: time.Millisecond}, testLogger, testMetrics)

	seedEvent(repo, model.EventAppointmentCreated, map[string]int64{"appointment_id": 1})
	require.NoError(t, p.processEvents(context.Background()))

	assert.Equal(t, model.OutboxStatusFailed, repo.Events[0].Status)
	assert.Equal(t, 1, repo.Events[0].RetryCount)
	require.NotNil(t, repo.Events[0].ErrorMessage)
	assert.Contains(t, *repo.Events[0].ErrorMessage, "broker down")
}

func TestFailedEventRedeliveredOnLaterPoll(t *testing.T) {
	repo := servicetest.NewOutboxRepo()
	broker := &fakeBroker{fail: fmt.Errorf("broker down")}
	p := NewOutboxProcessor(repo, broker, &fakeMailer{},
		OutboxProcessorConfig{RetryAttempts: 1, RetryDelay: time.Millisecond, MaxAttempts: 3}, testLogger, testMetrics)

	seedEvent(repo, model.EventAppointmentCreated, map[string]int64{"appointment_id": 1})
	require.NoError(t, p.processEvents(context.Background()))
	assert.Equal(t, model.OutboxStatusFailed, repo.Events[0].Status)

	broker.fail = nil
	require.NoError(t, p.processEvents(context.Background()))

	require.Len(t, broker.published, 1)
	assert.Equal(t, model.OutboxStatusProcessed, repo.Events[0].Status)
	require.NotNil(t, repo.Events[0].ProcessedAt)
}

func TestFailedEventAbandonedAfterMaxAttempts(t *testing.T) {
	repo := servicetest.NewOutboxRepo()
	broker := &fakeBroker{fail: fmt.Errorf("broker down")}
	p := NewOutboxProcessor(repo, broker, &fakeMailer{},
		OutboxProcessorConfig{RetryAttempts: 1, RetryDelay: time.Millisecond, MaxAttempts: 2}, testLogger, testMetrics)

	seedEvent(repo, model.EventAppointmentCreated, map[string]int64{"appointment_id": 1})
	require.NoError(t, p.processEvents(context.Background()))
	require.NoError(t, p.processEvents(context.Background()))
	assert.Equal(t, 2, repo.Events[0].RetryCount)

	// The budget is spent; even a healthy broker never sees the event again.
	broker.fail = nil
	require.NoError(t, p.processEvents(context.Background()))

	assert.Empty(t, broker.published)
	assert.Equal(t, model.OutboxStatusFailed, repo.Events[0].Status)
}

func TestStockLowEventSendsAlert(t *testing.T) {
	repo := servicetest.NewOutboxRepo()
	mailer := &fakeMailer{}
	p := NewOutboxProcessor(repo, &fakeBroker{}, mailer,
		OutboxProcessorConfig{RetryAttempts: 1, RetryDelay: time.Millisecond}, testLogger, testMetrics)

	seedEvent(repo, model.EventStockLow, map[string]interface{}{
		"material_id": 3, "code": "INK-BLK", "name": "black ink",
		"on_hand": "7", "threshold": "10",
	})
	require.NoError(t, p.processEvents(context.Background()))

	require.Len(t, mailer.alerts, 1)
	assert.Equal(t, "INK-BLK 7/10", mailer.alerts[0])
	assert.Equal(t, model.OutboxStatusProcessed, repo.Events[0].Status)
}

func TestConfigDefaults(t *testing.T) {
	p := NewOutboxProcessor(servicetest.NewOutboxRepo(), &fakeBroker{}, &fakeMailer{},
		OutboxProcessorConfig{}, testLogger, testMetrics)

	assert.Equal(t, 50, p.config.BatchSize)
	assert.Equal(t, 5*time.Second, p.config.PollInterval)
	assert.Equal(t, 3, p.config.RetryAttempts)
	assert.Equal(t, time.Second, p.config.RetryDelay)
	assert.Equal(t, 5, p.config.MaxAttempts)
}
