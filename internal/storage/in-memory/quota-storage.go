package in_memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mohameodo/nova-v5/internal/model"
)

type QuotaStorage struct {
	mu      sync.Mutex
	records map[string]model.QuotaRecord

	// Now is swappable so tests can cross a day boundary.
	Now func() time.Time
}

func NewQuotaStorage() *QuotaStorage {
	return &QuotaStorage{
		records: make(map[string]model.QuotaRecord),
		Now:     time.Now,
	}
}

func (q *QuotaStorage) CheckAndConsume(
	ctx context.Context, userID uuid.UUID, kind model.QuotaKind, limit int,
) (model.QuotaDecision, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	key := fmt.Sprintf("%s_%v", kind, userID)
	today := q.Now().Format("2006-01-02")

	record, ok := q.records[key]
	if !ok || record.Date != today {
		record = model.QuotaRecord{UserID: userID, Date: today, Count: 0}
	}
	if record.Count >= limit {
		return model.QuotaDecision{Allowed: false, Remaining: 0}, nil
	}
	record.Count++
	q.records[key] = record
	return model.QuotaDecision{Allowed: true, Remaining: limit - record.Count}, nil
}
