package worker

// Jobs that cannot be parsed, have no handler, or exhaust their retries are
// parked in a capped Redis list per source queue, dlq:{original_queue},
// newest first.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	DLQPrefix = "dlq:"

	// maxDLQEntries bounds each dead letter list; older entries are trimmed.
	maxDLQEntries = 1000
)

// DLQEntry wraps a failed job with metadata for debugging.
type DLQEntry struct {
	OriginalQueue string          `json:"original_queue"`
	JobType       string          `json:"job_type"`
	TenantID      string          `json:"tenant_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
	Reason        string          `json:"reason"`
	FailedAt      time.Time       `json:"failed_at"`
	Attempts      int             `json:"attempts"`
}

// SendToDLQ parks a failed job. Errors are logged, never returned: the job
// is already lost to the pool.
func SendToDLQ(ctx context.Context, rdb redis.Cmdable, queue, jobType string, payload json.RawMessage, reason string, attempts int) {
	entry := DLQEntry{
		OriginalQueue: queue,
		JobType:       jobType,
		TenantID:      tenantOf(payload),
		Payload:       payload,
		Reason:        reason,
		FailedAt:      time.Now().UTC(),
		Attempts:      attempts,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: failed to marshal entry")
		return
	}

	dlqKey := DLQPrefix + queue
	_, err = rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.LPush(ctx, dlqKey, data)
		p.LTrim(ctx, dlqKey, 0, maxDLQEntries-1)
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("dlq_key", dlqKey).Msg("dlq: failed to push to DLQ")
		return
	}

	log.Warn().
		Str("queue", queue).
		Str("job_type", jobType).
		Str("tenant_id", entry.TenantID).
		Str("reason", reason).
		Int("attempts", attempts).
		Msg("dlq: job moved to dead letter queue")
}

// DLQLength returns the number of entries in a DLQ for monitoring.
func DLQLength(ctx context.Context, rdb redis.Cmdable, queue string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+queue).Result()
}

// PeekDLQ returns up to n of the newest entries without removing them.
func PeekDLQ(ctx context.Context, rdb redis.Cmdable, queue string, n int64) ([]DLQEntry, error) {
	raw, err := rdb.LRange(ctx, DLQPrefix+queue, 0, n-1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]DLQEntry, 0, len(raw))
	for _, r := range raw {
		var e DLQEntry
		if err := json.Unmarshal([]byte(r), &e); err != nil {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// tenantOf pulls tenant_id out of a job payload when it has one.
func tenantOf(payload json.RawMessage) string {
	var probe struct {
		TenantID string `json:"tenant_id"`
	}
	if json.Unmarshal(payload, &probe) != nil {
		return ""
	}
	return probe.TenantID
}
