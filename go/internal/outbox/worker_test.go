package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mwhite31/squadmarket/go/internal/sqlutil"
)

type mockOutboxRepo struct {
	events    []OutboxEvent
	sentIDs   []uuid.UUID
	unsent    int
	fetchErr  error
	markErr   error
	insertErr error
}

func (m *mockOutboxRepo) InsertEvent(ctx context.Context, q sqlutil.DBTX, eventType, aggregateID string, payload []byte) error {
	return m.insertErr
}
func (m *mockOutboxRepo) FetchUnsent(ctx context.Context, limit int32) ([]OutboxEvent, error) {
	return m.events, m.fetchErr
}
func (m *mockOutboxRepo) MarkSent(ctx context.Context, ids []uuid.UUID) error {
	m.sentIDs = append(m.sentIDs, ids...)
	return m.markErr
}
func (m *mockOutboxRepo) CountUnsent(ctx context.Context) (int, error) {
	return m.unsent, nil
}

type mockPublisher struct {
	calls   map[uuid.UUID]int
	failIDs map[uuid.UUID]bool
}

func newMockPublisher() *mockPublisher {
	return &mockPublisher{calls: map[uuid.UUID]int{}, failIDs: map[uuid.UUID]bool{}}
}

func (m *mockPublisher) Publish(ctx context.Context, event OutboxEvent) error {
	m.calls[event.ID]++
	if m.failIDs[event.ID] {
		return errors.New("broker unavailable")
	}
	return nil
}

func testConfig() Config {
	return Config{
		PollInterval: time.Second,
		BatchSize:    100,
		MaxRetries:   3,
		RetryDelay:   time.Millisecond,
	}
}

func TestProcessOutboxPublishesAndMarksSent(t *testing.T) {
	e1 := OutboxEvent{ID: uuid.New(), EventType: "SquadReady", Payload: []byte(`{}`)}
	e2 := OutboxEvent{ID: uuid.New(), EventType: "PlayerTransferred", Payload: []byte(`{}`)}
	repo := &mockOutboxRepo{events: []OutboxEvent{e1, e2}}
	pub := newMockPublisher()

	w := NewWorker(repo, pub, testConfig(), clockwork.NewRealClock(), nil)
	w.processOutbox(context.Background())

	if pub.calls[e1.ID] != 1 || pub.calls[e2.ID] != 1 {
		t.Errorf("expected each event published once, got %v", pub.calls)
	}
	if len(repo.sentIDs) != 2 {
		t.Fatalf("expected 2 events marked sent, got %d", len(repo.sentIDs))
	}
}

func TestProcessOutboxKeepsFailedEventsUnsent(t *testing.T) {
	good := OutboxEvent{ID: uuid.New(), EventType: "SquadReady", Payload: []byte(`{}`)}
	bad := OutboxEvent{ID: uuid.New(), EventType: "SquadReady", Payload: []byte(`{}`)}
	repo := &mockOutboxRepo{events: []OutboxEvent{good, bad}}
	pub := newMockPublisher()
	pub.failIDs[bad.ID] = true

	cfg := testConfig()
	w := NewWorker(repo, pub, cfg, clockwork.NewRealClock(), nil)
	w.processOutbox(context.Background())

	if pub.calls[bad.ID] != cfg.MaxRetries {
		t.Errorf("expected %d attempts for failing event, got %d", cfg.MaxRetries, pub.calls[bad.ID])
	}
	if len(repo.sentIDs) != 1 || repo.sentIDs[0] != good.ID {
		t.Errorf("expected only the good event marked sent, got %v", repo.sentIDs)
	}
}

func TestProcessOutboxEmptyBatch(t *testing.T) {
	repo := &mockOutboxRepo{}
	pub := newMockPublisher()

	w := NewWorker(repo, pub, testConfig(), clockwork.NewRealClock(), nil)
	w.processOutbox(context.Background())

	if len(pub.calls) != 0 {
		t.Errorf("expected no publishes, got %v", pub.calls)
	}
	if len(repo.sentIDs) != 0 {
		t.Errorf("expected nothing marked sent, got %v", repo.sentIDs)
	}
}

func TestWorkerStartStop(t *testing.T) {
	repo := &mockOutboxRepo{}
	w := NewWorker(repo, newMockPublisher(), testConfig(), clockwork.NewRealClock(), nil)

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := w.Start(context.Background()); err == nil {
		t.Error("expected error starting twice")
	}
	if err := w.Stop(); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if err := w.Stop(); err == nil {
		t.Error("expected error stopping twice")
	}
}
