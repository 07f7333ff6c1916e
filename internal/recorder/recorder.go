// Package recorder drains completed projections into the history
// repository and fans them out to live subscribers and the optional event
// publisher. The simulate path stays synchronous and pure; everything here
// happens after the result is already assembled.
package recorder

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/mkrell/consequence-mirror/internal/models"
	"github.com/mkrell/consequence-mirror/internal/repository"
)

// Broadcaster fans a record out to live subscribers.
type Broadcaster interface {
	Broadcast(rec *models.ProjectionRecord)
}

// Publisher emits a record to an external event stream.
type Publisher interface {
	Publish(ctx context.Context, rec *models.ProjectionRecord) error
}

// Recorder owns the async history path. Record never blocks; a bounded
// worker pool writes to sqlite and notifies the fan-out sinks.
type Recorder struct {
	repo        repository.ProjectionRepository
	broadcaster Broadcaster
	publisher   Publisher
	clock       clockwork.Clock
	pool        *pool
	logger      *slog.Logger
	onDropped   func()
}

type Option func(*Recorder)

// WithBroadcaster attaches a live fan-out sink.
func WithBroadcaster(b Broadcaster) Option {
	return func(r *Recorder) { r.broadcaster = b }
}

// WithPublisher attaches an external event publisher.
func WithPublisher(p Publisher) Option {
	return func(r *Recorder) { r.publisher = p }
}

// WithClock swaps the time source; tests freeze it for deterministic rows.
func WithClock(c clockwork.Clock) Option {
	return func(r *Recorder) { r.clock = c }
}

// WithDropHook is called whenever a record is dropped on buffer overflow.
func WithDropHook(fn func()) Option {
	return func(r *Recorder) { r.onDropped = fn }
}

func New(repo repository.ProjectionRepository, workers, bufferSize int, opts ...Option) *Recorder {
	r := &Recorder{
		repo:   repo,
		clock:  clockwork.NewRealClock(),
		logger: slog.Default().With("component", "recorder"),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.pool = newPool(workers, bufferSize, r.process, func(rec *models.ProjectionRecord) {
		r.logger.Warn("history buffer full, dropping projection record",
			"category", rec.Category, "delay_days", rec.DelayDays)
		if r.onDropped != nil {
			r.onDropped()
		}
	})
	return r
}

func (r *Recorder) Start(ctx context.Context) {
	r.pool.Start(ctx)
}

// Record queues one completed result for persistence and fan-out.
func (r *Recorder) Record(result models.ConsequenceResult) {
	rec := &models.ProjectionRecord{
		ID:                  uuid.NewString(),
		Category:            result.Category,
		DelayDays:           result.DelayDays,
		ReadinessScore:      result.ReadinessScore,
		CasualtyRiskPercent: result.CostOfDelay.CasualtyRiskPercent,
		Result:              result,
		CreatedAt:           r.clock.Now().UTC(),
	}
	r.pool.Submit(rec)
}

// QueueDepth reports the number of records waiting in the buffer.
func (r *Recorder) QueueDepth() int {
	return r.pool.Depth()
}

func (r *Recorder) Stop() {
	r.pool.Stop()
	r.logger.Info("recorder stopped")
}

func (r *Recorder) process(ctx context.Context, rec *models.ProjectionRecord) error {
	if err := r.repo.Add(ctx, rec); err != nil {
		r.logger.Error("error persisting projection", "id", rec.ID, "error", err)
		return err
	}

	if r.broadcaster != nil {
		r.broadcaster.Broadcast(rec)
	}

	if r.publisher != nil {
		if err := r.publisher.Publish(ctx, rec); err != nil {
			// Publishing is best-effort; the row is already durable.
			r.logger.Error("error publishing projection event", "id", rec.ID, "error", err)
		}
	}

	r.logger.Debug("recorded projection", "id", rec.ID, "category", rec.Category, "delay_days", rec.DelayDays)
	return nil
}
