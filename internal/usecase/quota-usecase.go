package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mohameodo/nova-v5/config"
	"github.com/mohameodo/nova-v5/internal/model"
)

type QuotaStorage interface {
	CheckAndConsume(ctx context.Context, userID uuid.UUID, kind model.QuotaKind, limit int) (model.QuotaDecision, error)
}

type QuotaUsecaseDeps struct {
	QuotaStorage QuotaStorage
}

type QuotaUsecase struct {
	QuotaUsecaseDeps
	limits map[model.QuotaKind]int
}

func NewQuotaUsecase(deps QuotaUsecaseDeps, cfg config.Quota) *QuotaUsecase {
	return &QuotaUsecase{
		QuotaUsecaseDeps: deps,
		limits: map[model.QuotaKind]int{
			model.QuotaKindImage:  cfg.DailyImageLimit,
			model.QuotaKindSearch: cfg.DailySearchLimit,
		},
	}
}

func (q *QuotaUsecase) Limit(kind model.QuotaKind) int {
	return q.limits[kind]
}

// Consume spends one unit of the kind's daily quota. A denied decision
// leaves the stored counter untouched.
func (q *QuotaUsecase) Consume(ctx context.Context, userID uuid.UUID, kind model.QuotaKind) (model.QuotaDecision, error) {
	limit, ok := q.limits[kind]
	if !ok {
		return model.QuotaDecision{}, fmt.Errorf("unknown quota kind %q", kind)
	}
	decision, err := q.QuotaStorage.CheckAndConsume(ctx, userID, kind, limit)
	if err != nil {
		return model.QuotaDecision{}, fmt.Errorf("failed to consume %s quota: %w", kind, err)
	}
	return decision, nil
}
