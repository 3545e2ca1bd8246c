package key_value

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/mohameodo/nova-v5/internal/model"
)

const quotaTxRetries = 5

type quotaInternal struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// QuotaStorage keeps one (user, kind, day) counter per key. Consuming
// runs inside an optimistic WATCH transaction so concurrent consumers
// cannot advance the counter past the ceiling; a contended attempt is
// retried a bounded number of times.
type QuotaStorage struct {
	rdb *redis.Client
	now func() time.Time
}

func NewQuotaStorage(rdb *redis.Client) *QuotaStorage {
	return &QuotaStorage{
		rdb: rdb,
		now: time.Now,
	}
}

func (q *QuotaStorage) CheckAndConsume(
	ctx context.Context, userID uuid.UUID, kind model.QuotaKind, limit int,
) (model.QuotaDecision, error) {
	key := getQuotaKey(userID, kind)
	today := q.now().Format("2006-01-02")

	var decision model.QuotaDecision
	txf := func(tx *redis.Tx) error {
		record := quotaInternal{Date: today, Count: 0}
		raw, err := tx.Get(ctx, key).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("failed to get quota %s: %w", key, err)
		}
		if err == nil {
			if err = json.Unmarshal([]byte(raw), &record); err != nil {
				return fmt.Errorf("failed to unmarshal quota %s: %w", key, err)
			}
		}

		if record.Date != today {
			record.Date = today
			record.Count = 0
		}
		if record.Count >= limit {
			decision = model.QuotaDecision{Allowed: false, Remaining: 0}
			return nil
		}

		record.Count++
		decision = model.QuotaDecision{Allowed: true, Remaining: limit - record.Count}

		recordJSON, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("failed to marshal quota %s: %w", key, err)
		}
		_, err = tx.TxPipelined(
			ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, recordJSON, 0)
				return nil
			},
		)
		return err
	}

	var err error
	for i := 0; i < quotaTxRetries; i++ {
		err = q.rdb.Watch(ctx, txf, key)
		if err == nil {
			return decision, nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	return model.QuotaDecision{}, fmt.Errorf("failed to consume quota %s: %w", key, err)
}

func getQuotaKey(userID uuid.UUID, kind model.QuotaKind) string {
	return fmt.Sprintf("quota_%s_%v", kind, userID.String())
}
