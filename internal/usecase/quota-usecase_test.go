package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohameodo/nova-v5/config"
	"github.com/mohameodo/nova-v5/internal/model"
	in_memory "github.com/mohameodo/nova-v5/internal/storage/in-memory"
)

func newQuotaEnv() (*QuotaUsecase, *in_memory.QuotaStorage) {
	storage := in_memory.NewQuotaStorage()
	quota := NewQuotaUsecase(
		QuotaUsecaseDeps{QuotaStorage: storage},
		config.Quota{DailyImageLimit: 10, DailySearchLimit: 10},
	)
	return quota, storage
}

func TestQuotaConsumeUntilDenied(t *testing.T) {
	quota, _ := newQuotaEnv()
	userID := uuid.New()

	for i := 0; i < 10; i++ {
		decision, err := quota.Consume(context.Background(), userID, model.QuotaKindSearch)
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
		assert.Equal(t, 9-i, decision.Remaining)
	}

	decision, err := quota.Consume(context.Background(), userID, model.QuotaKindSearch)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Zero(t, decision.Remaining)

	// Denials must not burn quota: the counter stays at the ceiling,
	// so the next denial looks identical.
	decision, err = quota.Consume(context.Background(), userID, model.QuotaKindSearch)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
}

func TestQuotaKindsAreIndependent(t *testing.T) {
	quota, _ := newQuotaEnv()
	userID := uuid.New()

	for i := 0; i < 10; i++ {
		decision, err := quota.Consume(context.Background(), userID, model.QuotaKindImage)
		require.NoError(t, err)
		require.True(t, decision.Allowed)
	}

	decision, err := quota.Consume(context.Background(), userID, model.QuotaKindSearch)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, 9, decision.Remaining)
}

func TestQuotaUsersAreIndependent(t *testing.T) {
	quota, _ := newQuotaEnv()
	first, second := uuid.New(), uuid.New()

	for i := 0; i < 10; i++ {
		_, err := quota.Consume(context.Background(), first, model.QuotaKindSearch)
		require.NoError(t, err)
	}

	decision, err := quota.Consume(context.Background(), second, model.QuotaKindSearch)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
}

func TestQuotaResetsNextDay(t *testing.T) {
	quota, storage := newQuotaEnv()
	userID := uuid.New()

	for i := 0; i < 10; i++ {
		_, err := quota.Consume(context.Background(), userID, model.QuotaKindImage)
		require.NoError(t, err)
	}
	decision, err := quota.Consume(context.Background(), userID, model.QuotaKindImage)
	require.NoError(t, err)
	require.False(t, decision.Allowed)

	storage.Now = func() time.Time { return time.Now().Add(24 * time.Hour) }

	decision, err = quota.Consume(context.Background(), userID, model.QuotaKindImage)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, 9, decision.Remaining)
}

func TestQuotaUnknownKind(t *testing.T) {
	quota, _ := newQuotaEnv()

	_, err := quota.Consume(context.Background(), uuid.New(), model.QuotaKind("video"))
	require.Error(t, err)
}
