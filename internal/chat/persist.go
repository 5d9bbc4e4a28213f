package chat

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/parley-chat/parley/internal/metrics"
	"github.com/parley-chat/parley/internal/models"
	"github.com/parley-chat/parley/internal/store"
)

// appendTimeout bounds each durable write so a hung store cannot wedge the
// persistence worker forever.
const appendTimeout = 5 * time.Second

type persistJob struct {
	room  string
	event models.ServerMessage
}

// Persister decouples durable writes from the broadcast hot path. Enqueue
// never blocks; a single worker goroutine drains the bounded queue, so
// events reach the store in the order they were enqueued (which is the
// order their broadcasts acquired room access). A slow or unavailable
// store degrades persistence only, never broadcast latency.
type Persister struct {
	log     zerolog.Logger
	history store.HistoryStore
	queue   chan persistJob
}

// NewPersister creates a persister with the given queue size.
func NewPersister(log zerolog.Logger, history store.HistoryStore, queueSize int) *Persister {
	return &Persister{
		log:     log,
		history: history,
		queue:   make(chan persistJob, queueSize),
	}
}

// Enqueue queues an event for a durable append. When the queue is full the
// write is dropped and logged; persistence is best-effort by contract.
func (p *Persister) Enqueue(room string, event models.ServerMessage) {
	select {
	case p.queue <- persistJob{room: room, event: event}:
	default:
		metrics.PersistQueueDrops.Inc()
		p.log.Warn().Str("room", room).Msg("persist queue full, dropping event")
	}
}

// Run drains the queue until ctx is cancelled. A failed append is logged
// and dropped; it never rolls back or retries the already-delivered
// broadcast.
func (p *Persister) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-p.queue:
			writeCtx, cancel := context.WithTimeout(context.Background(), appendTimeout)
			err := p.history.Append(writeCtx, job.room, job.event)
			cancel()

			if err != nil {
				metrics.PersistFailures.Inc()
				p.log.Error().Err(err).Str("room", job.room).Msg("failed to persist event")
				continue
			}
			metrics.EventsPersisted.Inc()
		}
	}
}
