package in_memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mohameodo/nova-v5/internal/model"
)

type blobEntry struct {
	contentType string
	data        []byte
}

type BlobStorage struct {
	mu    sync.Mutex
	blobs map[string]blobEntry
}

func NewBlobStorage() *BlobStorage {
	return &BlobStorage{
		blobs: make(map[string]blobEntry),
	}
}

func (b *BlobStorage) Upload(ctx context.Context, userID uuid.UUID, data []byte, contentType string) (string, error) {
	key := fmt.Sprintf("%s_%d", userID.String(), time.Now().UnixNano())
	stored := make([]byte, len(data))
	copy(stored, data)

	b.mu.Lock()
	b.blobs[key] = blobEntry{contentType: contentType, data: stored}
	b.mu.Unlock()
	return key, nil
}

func (b *BlobStorage) Get(ctx context.Context, key string) ([]byte, string, error) {
	b.mu.Lock()
	entry, ok := b.blobs[key]
	b.mu.Unlock()
	if !ok {
		return nil, "", model.ErrBlobDoesNotExist
	}
	return entry.data, entry.contentType, nil
}
