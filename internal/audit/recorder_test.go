package audit

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/bagdasarian/iam-groups/internal/domain"
	"github.com/bagdasarian/iam-groups/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSink struct {
	name   string
	err    error
	panics bool

	mu      sync.Mutex
	events  []*domain.AuditEvent
	ctxErrs []error
}

func (s *stubSink) Name() string {
	return s.name
}

func (s *stubSink) Report(ctx context.Context, event *domain.AuditEvent) error {
	if s.panics {
		panic("sink is broken")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	s.ctxErrs = append(s.ctxErrs, ctx.Err())
	return s.err
}

func newTestRecorder(sinks ...Sink) *Recorder {
	return NewRecorder(slog.New(slog.DiscardHandler), time.Second, sinks...)
}

func TestRecorder_Report(t *testing.T) {
	t.Run("событие доставляется во все приёмники", func(t *testing.T) {
		first := &stubSink{name: "first"}
		second := &stubSink{name: "second"}
		recorder := newTestRecorder(first, second)

		event := &domain.AuditEvent{
			Type:     domain.EventGroupCreated,
			Domain:   "acme",
			TargetID: "g1",
			Status:   domain.AuditStatusSuccess,
		}
		recorder.Report(context.Background(), event)

		require.Len(t, first.events, 1)
		require.Len(t, second.events, 1)
		assert.NotEmpty(t, event.ID)
		assert.False(t, event.CreatedAt.IsZero())
		assert.Equal(t, event.ID, first.events[0].ID)
		assert.Equal(t, event.ID, second.events[0].ID)
		assert.Equal(t, domain.EventGroupCreated, first.events[0].Type)
	})

	t.Run("заданные id и время не перезаписываются", func(t *testing.T) {
		sink := &stubSink{name: "sink"}
		recorder := newTestRecorder(sink)
		createdAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

		recorder.Report(context.Background(), &domain.AuditEvent{ID: "e1", CreatedAt: createdAt})

		require.Len(t, sink.events, 1)
		assert.Equal(t, "e1", sink.events[0].ID)
		assert.Equal(t, createdAt, sink.events[0].CreatedAt)
	})

	t.Run("ошибка приёмника не мешает остальным", func(t *testing.T) {
		failing := &stubSink{name: "failing", err: errors.New("connection refused")}
		healthy := &stubSink{name: "healthy"}
		recorder := newTestRecorder(failing, healthy)

		recorder.Report(context.Background(), &domain.AuditEvent{Type: domain.EventGroupDeleted})

		assert.Len(t, failing.events, 1)
		assert.Len(t, healthy.events, 1)
	})

	t.Run("паника приёмника перехватывается", func(t *testing.T) {
		broken := &stubSink{name: "broken", panics: true}
		healthy := &stubSink{name: "healthy"}
		recorder := newTestRecorder(broken, healthy)

		assert.NotPanics(t, func() {
			recorder.Report(context.Background(), &domain.AuditEvent{Type: domain.EventGroupUpdated})
		})
		assert.Len(t, healthy.events, 1)
	})

	t.Run("отменённый контекст вызывающего не прерывает запись", func(t *testing.T) {
		sink := &stubSink{name: "sink"}
		recorder := newTestRecorder(sink)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		recorder.Report(ctx, &domain.AuditEvent{Type: domain.EventGroupCreated})

		require.Len(t, sink.ctxErrs, 1)
		assert.NoError(t, sink.ctxErrs[0])
	})

	t.Run("без приёмников ничего не происходит", func(t *testing.T) {
		recorder := newTestRecorder()
		assert.NotPanics(t, func() {
			recorder.Report(context.Background(), &domain.AuditEvent{})
		})
	})
}

func TestRepositorySink(t *testing.T) {
	repo := memory.NewAuditRepository()
	recorder := newTestRecorder(NewRepositorySink(repo))

	recorder.Report(context.Background(), &domain.AuditEvent{
		Type:     domain.EventGroupRolesAssigned,
		Domain:   "acme",
		TargetID: "g1",
		Status:   domain.AuditStatusFailure,
		Error:    "role [r9] can not be found",
	})

	events, err := repo.ListByTarget(context.Background(), "acme", "g1", 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.AuditStatusFailure, events[0].Status)
	assert.Equal(t, "role [r9] can not be found", events[0].Error)
	assert.Nil(t, events[0].NewValue)
}
