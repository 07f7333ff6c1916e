package recorder

import (
	"context"
	"sync"

	"github.com/mkrell/consequence-mirror/internal/models"
)

// ProcessFunc handles one completed projection record.
type ProcessFunc func(ctx context.Context, rec *models.ProjectionRecord) error

// pool runs a fixed set of workers draining projection records from a
// bounded buffer. Submission never blocks the simulate path: when the
// buffer is full the record is dropped and reported to onDrop.
type pool struct {
	numWorkers int
	records    chan *models.ProjectionRecord
	processor  ProcessFunc
	onDrop     func(*models.ProjectionRecord)
	wg         sync.WaitGroup
	mu         sync.RWMutex
	closed     bool
}

func newPool(numWorkers, bufferSize int, processor ProcessFunc, onDrop func(*models.ProjectionRecord)) *pool {
	return &pool{
		numWorkers: numWorkers,
		records:    make(chan *models.ProjectionRecord, bufferSize),
		processor:  processor,
		onDrop:     onDrop,
	}
}

func (p *pool) Start(ctx context.Context) {
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
}

func (p *pool) worker(ctx context.Context) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case rec, ok := <-p.records:
			if !ok {
				return
			}
			p.processor(ctx, rec)
		}
	}
}

// Submit enqueues a record without blocking. Returns false when the buffer
// was full and the record was dropped, or when the pool has been stopped;
// a late submitter must never hit the closed channel.
func (p *pool) Submit(rec *models.ProjectionRecord) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return false
	}
	select {
	case p.records <- rec:
		return true
	default:
		if p.onDrop != nil {
			p.onDrop(rec)
		}
		return false
	}
}

func (p *pool) Depth() int {
	return len(p.records)
}

// Stop refuses further submissions, then waits for the workers to drain
// every buffered record. Idempotent.
func (p *pool) Stop() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.records)
	p.mu.Unlock()

	p.wg.Wait()
}
