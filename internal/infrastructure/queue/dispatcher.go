package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/isukupay/waste-platform/internal/core/domain"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// AuditProcessor persists a single audit entry.
type AuditProcessor interface {
	Process(ctx context.Context, entry domain.AuditEntry) error
}

// Dispatcher routes audit entries to a fixed set of workers using consistent
// hashing on the user email, so entries for one account are persisted in the
// order they were recorded.
type Dispatcher struct {
	workers []chan domain.AuditEntry
	service AuditProcessor
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service AuditProcessor, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.AuditEntry, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEntry, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Record enqueues an audit entry without blocking the caller. When the target
// worker's buffer is full the entry is dropped and logged: audit persistence
// must never stall the auth path.
func (d *Dispatcher) Record(entry domain.AuditEntry) {
	select {
	case d.workers[d.shardIndex(entry.UserEmail)] <- entry:
	default:
		d.log.Warn().
			Str("action", entry.Action).
			Str("user_email", entry.UserEmail).
			Msg("audit queue full, entry dropped")
	}
}

// shardIndex maps a user email deterministically to a worker index.
func (d *Dispatcher) shardIndex(email string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(email))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditEntry) {
	for {
		select {
		case <-ctx.Done():
			return
		case entry, ok := <-ch:
			if !ok {
				return
			}
			if err := d.service.Process(ctx, entry); err != nil {
				d.log.Error().Err(err).
					Str("action", entry.Action).
					Int("worker_id", id).
					Msg("audit entry persistence failed")
			}
		}
	}
}
