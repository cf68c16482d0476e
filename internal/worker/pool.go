package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"restonext/internal/service"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueLowStock = "jobs:low_stock"

	JobLowStock = "low_stock"

	maxJobAttempts = 3
)

// popErrorBackoff paces BRPOP retries while Redis is unreachable.
var popErrorBackoff = 2 * time.Second

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// JobHandler processes the payload of one job type. A returned error is
// retried with backoff, then the job goes to the DLQ.
type JobHandler interface {
	Process(ctx context.Context, payload json.RawMessage) error
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb redis.Cmdable
}

func NewDispatcher(rdb redis.Cmdable) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// NotifyLowStock implements service.LowStockNotifier.
func (d *Dispatcher) NotifyLowStock(ctx context.Context, sig service.LowStockSignal) error {
	return d.enqueue(ctx, QueueLowStock, JobLowStock, sig)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// StartWorkerPool launches numWorkers goroutines consuming the job queues.
// Each goroutine blocks on BRPOP, so idle workers cost nothing.
func StartWorkerPool(ctx context.Context, rdb redis.Cmdable, numWorkers int, handlers map[string]JobHandler) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, i, handlers)
	}
	log.Info().Int("workers", numWorkers).Msg("worker pool started")
}

func runWorker(ctx context.Context, rdb redis.Cmdable, id int, handlers map[string]JobHandler) {
	queues := []string{QueueLowStock}
	for {
		select {
		case <-ctx.Done():
			log.Info().Int("worker", id).Msg("worker shutting down")
			return
		default:
			// Blocking pop: waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if errors.Is(err, redis.Nil) {
				continue // timeout
			}
			if err != nil {
				if ctx.Err() == nil {
					log.Warn().Err(err).Int("worker", id).Msg("queue pop failed")
				}
				select {
				case <-ctx.Done():
				case <-time.After(popErrorBackoff):
				}
				continue
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, handlers, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, rdb redis.Cmdable, handlers map[string]JobHandler, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		quoted, _ := json.Marshal(raw)
		SendToDLQ(ctx, rdb, queue, "", quoted, "unparsable job: "+err.Error(), 0)
		return
	}
	h, ok := handlers[job.Type]
	if !ok {
		SendToDLQ(ctx, rdb, queue, job.Type, job.Payload, "no handler for job type", 0)
		return
	}

	err := withRetry(ctx, maxJobAttempts, func(attempt int) error {
		err := h.Process(ctx, job.Payload)
		if err != nil && attempt+1 < maxJobAttempts {
			log.Warn().Err(err).
				Str("queue", queue).
				Str("type", job.Type).
				Int("attempt", attempt+1).
				Msg("job failed, retrying")
		}
		return err
	})
	if err != nil {
		SendToDLQ(ctx, rdb, queue, job.Type, job.Payload, err.Error(), maxJobAttempts)
		return
	}
	log.Debug().Str("type", job.Type).Str("queue", queue).Msg("job processed")
}

// retryBaseDelay is the first backoff step; later steps double it.
var retryBaseDelay = time.Second

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			delay := retryBaseDelay << (attempt - 1)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
		if err = fn(attempt); err == nil {
			return nil
		}
	}
	return err
}
