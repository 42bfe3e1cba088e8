// Package audit доставляет события аудита в подключенные приёмники.
// Ошибки приёмников логируются и никогда не возвращаются вызывающему.
package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bagdasarian/iam-groups/internal/domain"
	"golang.org/x/sync/errgroup"
)

const defaultSinkTimeout = 5 * time.Second

// Sink - приёмник событий аудита
type Sink interface {
	Name() string
	Report(ctx context.Context, event *domain.AuditEvent) error
}

// Recorder рассылает событие всем приёмникам после того, как результат операции известен
type Recorder struct {
	sinks   []Sink
	logger  *slog.Logger
	timeout time.Duration
}

func NewRecorder(logger *slog.Logger, timeout time.Duration, sinks ...Sink) *Recorder {
	if timeout <= 0 {
		timeout = defaultSinkTimeout
	}
	return &Recorder{
		sinks:   sinks,
		logger:  logger.With("component", "audit"),
		timeout: timeout,
	}
}

// Report заполняет id и время события и ждёт все приёмники.
// Отмена ctx вызывающего не прерывает запись аудита.
func (r *Recorder) Report(ctx context.Context, event *domain.AuditEvent) {
	if event.ID == "" {
		event.ID = domain.NewID()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()

	var g errgroup.Group
	for _, sink := range r.sinks {
		copied := *event
		g.Go(func() error {
			r.deliver(ctx, sink, &copied)
			return nil
		})
	}
	_ = g.Wait()
}

func (r *Recorder) deliver(ctx context.Context, sink Sink, event *domain.AuditEvent) {
	defer func() {
		if recovered := recover(); recovered != nil {
			r.logger.Error("audit sink panicked",
				"sink", sink.Name(),
				"event_type", event.Type,
				"panic", fmt.Sprint(recovered),
			)
		}
	}()

	if err := sink.Report(ctx, event); err != nil {
		r.logger.Error("failed to report audit event",
			"sink", sink.Name(),
			"event_id", event.ID,
			"event_type", event.Type,
			"target_id", event.TargetID,
			"error", err,
		)
	}
}
