package handler

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/google/uuid"
	"github.com/mohameodo/nova-v5/internal/model"
)

// BlobStorage stores uploaded attachments, keyed for later retrieval.
type BlobStorage interface {
	Upload(ctx context.Context, userID uuid.UUID, data []byte, contentType string) (string, error)
	Get(ctx context.Context, key string) ([]byte, string, error)
}

const maxUploadBytes = 8 << 20

type BlobHandler struct {
	blobs     BlobStorage
	publicURL string
}

func NewBlobHandler(blobs BlobStorage, publicURL string) *BlobHandler {
	return &BlobHandler{
		blobs:     blobs,
		publicURL: publicURL,
	}
}

// Upload stores a message attachment and returns the key plus a URL
// the client can embed in markdown. POST /api/v1/uploads
func (h *BlobHandler) Upload(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(c)
	if !ok {
		ErrorResponse(c, model.ErrInvalidCredentials)
		return
	}

	data := c.Request.Body()
	if len(data) == 0 {
		BadRequestResponse(c, "empty upload")
		return
	}
	if len(data) > maxUploadBytes {
		BadRequestResponse(c, "upload too large")
		return
	}
	contentType := string(c.ContentType())
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key, err := h.blobs.Upload(ctx, userID, data, contentType)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	CreatedResponse(c, UploadResponse{
		Key: key,
		URL: fmt.Sprintf("%s/blobs/%s", h.publicURL, key),
	})
}

// Serve streams a stored blob back. GET /blobs/:key
func (h *BlobHandler) Serve(ctx context.Context, c *app.RequestContext) {
	key := c.Param("key")
	if key == "" {
		BadRequestResponse(c, "missing blob key")
		return
	}

	data, contentType, err := h.blobs.Get(ctx, key)
	if err != nil {
		if errors.Is(err, model.ErrBlobDoesNotExist) {
			c.JSON(consts.StatusNotFound, Response{
				Code:    "NOT_FOUND",
				Message: "blob not found",
			})
			return
		}
		ErrorResponse(c, err)
		return
	}
	c.Data(consts.StatusOK, contentType, data)
}
