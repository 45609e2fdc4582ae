package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"github.com/MohammedIbrahim8887/helix/internal/models"
	"github.com/MohammedIbrahim8887/helix/internal/repository"
	"github.com/MohammedIbrahim8887/helix/pkg/security"
)

// CaptionStore is the persistence surface the handlers need.
type CaptionStore interface {
	Upsert(ctx context.Context, accountID uuid.UUID, key, caption string) (*models.CaptionGeneration, error)
	FindByAccountAndKey(ctx context.Context, accountID uuid.UUID, key string) (*models.CaptionGeneration, error)
	GetByID(ctx context.Context, accountID, id uuid.UUID) (*models.CaptionGeneration, error)
	UpdateCaption(ctx context.Context, accountID, id uuid.UUID, caption string) (*models.CaptionGeneration, error)
	Delete(ctx context.Context, accountID, id uuid.UUID) error
	ListByAccount(ctx context.Context, accountID uuid.UUID, page, limit int, search string) (*repository.Page, error)
}

// AccountStore resolves sessions to application accounts.
type AccountStore interface {
	GetByUserID(ctx context.Context, userID string) (*models.Account, error)
	Ensure(ctx context.Context, userID string) (*models.Account, error)
}

// Captioner produces caption text for an image URL and tone prompt.
type Captioner interface {
	Generate(ctx context.Context, imageURL, prompt string) (string, error)
	Stream(ctx context.Context, imageURL, prompt string, onDelta func(delta string)) (string, error)
}

// Cache is the subset of the Redis client the handlers use.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
}

// FileStore is the subset of the Minio client the handlers use.
type FileStore interface {
	UploadFile(ctx context.Context, bucketName, objectName string, reader io.Reader, size int64, contentType string) (minio.UploadInfo, error)
	GetFileLink(ctx context.Context, bucketName, objectName string, expires time.Duration) (string, error)
}

// Publisher enqueues background tasks.
type Publisher interface {
	Publish(body []byte) error
}

type Handler struct {
	captions  CaptionStore
	accounts  AccountStore
	captioner Captioner
	cache     Cache
	files     FileStore
	queue     Publisher

	publicFileBaseURL string
}

func NewHandler(captions CaptionStore, accounts AccountStore, captioner Captioner, cache Cache, files FileStore, queue Publisher, publicFileBaseURL string) *Handler {
	return &Handler{
		captions:          captions,
		accounts:          accounts,
		captioner:         captioner,
		cache:             cache,
		files:             files,
		queue:             queue,
		publicFileBaseURL: publicFileBaseURL,
	}
}

// imageURL derives the fetchable URL for an uploaded image key.
func (h *Handler) imageURL(key string) string {
	return fmt.Sprintf("%s/%s", h.publicFileBaseURL, key)
}

func cacheKey(accountID, id uuid.UUID) string {
	return fmt.Sprintf("caption:%s:%s", accountID, id)
}

// account resolves the authenticated caller's account. On failure the error
// response has already been written and nil is returned.
func (h *Handler) account(c *gin.Context) *models.Account {
	userID := c.GetString(security.ContextUserID)
	if userID == "" {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return nil
	}

	acc, err := h.accounts.GetByUserID(c.Request.Context(), userID)
	if errors.Is(err, repository.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Account not found")
		return nil
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to resolve account")
		return nil
	}
	return acc
}

// HealthCheck is the unauthenticated liveness probe.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
