package key_value

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mohameodo/nova-v5/internal/model"
	"github.com/redis/go-redis/v9"
)

type blobInternal struct {
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

type BlobStorage struct {
	rdb *redis.Client
}

func NewBlobStorage(rdb *redis.Client) *BlobStorage {
	return &BlobStorage{
		rdb: rdb,
	}
}

// Upload stores the bytes and returns the blob key the HTTP layer
// serves them back under.
func (b *BlobStorage) Upload(ctx context.Context, userID uuid.UUID, data []byte, contentType string) (string, error) {
	key := fmt.Sprintf("%s_%d", userID.String(), time.Now().UnixNano())
	blobJSON, err := json.Marshal(blobInternal{ContentType: contentType, Data: data})
	if err != nil {
		return "", fmt.Errorf("failed to marshal blob: %w", err)
	}
	if err = b.rdb.Set(ctx, getBlobKey(key), blobJSON, 0).Err(); err != nil {
		return "", fmt.Errorf("failed to save blob %s: %w", key, err)
	}
	return key, nil
}

func (b *BlobStorage) Get(ctx context.Context, key string) ([]byte, string, error) {
	raw, err := b.rdb.Get(ctx, getBlobKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, "", model.ErrBlobDoesNotExist
		}
		return nil, "", fmt.Errorf("failed to get blob %s: %w", key, err)
	}
	var blob blobInternal
	if err = json.Unmarshal([]byte(raw), &blob); err != nil {
		return nil, "", fmt.Errorf("failed to unmarshal blob %s: %w", key, err)
	}
	return blob.Data, blob.ContentType, nil
}

func getBlobKey(key string) string {
	return fmt.Sprintf("blob_%s", key)
}
