package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	minioclient "github.com/MohammedIbrahim8887/helix/internal/storage/minio"
	"github.com/MohammedIbrahim8887/helix/internal/models"
	"github.com/MohammedIbrahim8887/helix/internal/repository"
	"github.com/MohammedIbrahim8887/helix/internal/worker"
)

const captionCacheTTL = 10 * time.Minute

// CaptionDetail is a caption record plus derived, short-lived links.
type CaptionDetail struct {
	models.CaptionGeneration
	ImageURL     string `json:"image_url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

func (h *Handler) detail(ctx context.Context, gen *models.CaptionGeneration) CaptionDetail {
	d := CaptionDetail{CaptionGeneration: *gen, ImageURL: h.imageURL(gen.Key)}

	// Thumbnail links are attached only once the worker marked them ready.
	if thumbObject, err := h.cache.Get(ctx, worker.ThumbReadyKey(gen.Key)); err == nil && thumbObject != "" {
		if link, err := h.files.GetFileLink(ctx, minioclient.ThumbBucket, thumbObject, 15*time.Minute); err == nil {
			d.ThumbnailURL = link
		}
	}
	return d
}

// GetAll handles GET /api/captions/get-all?page&limit&search.
func (h *Handler) GetAll(c *gin.Context) {
	acc := h.account(c)
	if acc == nil {
		return
	}

	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	search := c.Query("search")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	result, err := h.captions.ListByAccount(ctx, acc.ID, page, limit, search)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to get all captions")
		return
	}

	details := make([]CaptionDetail, 0, len(result.Records))
	for i := range result.Records {
		details = append(details, h.detail(ctx, &result.Records[i]))
	}

	c.JSON(http.StatusOK, ApiPaginatedResponse{
		Data:        details,
		Message:     "Captions fetched successfully",
		Status:      "success",
		Page:        result.Page,
		Total:       result.Total,
		TotalPages:  result.TotalPages,
		CurrentPage: result.Page,
		Limit:       result.Limit,
	})
}

// GetByID handles GET /api/captions/get-by-id?id.
func (h *Handler) GetByID(c *gin.Context) {
	acc := h.account(c)
	if acc == nil {
		return
	}

	id, err := uuid.Parse(c.Query("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Caption ID is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	// Check cache first; links expire, so they are rebuilt per hit.
	if cached, err := h.cache.Get(ctx, cacheKey(acc.ID, id)); err == nil {
		var gen models.CaptionGeneration
		if err := json.Unmarshal([]byte(cached), &gen); err == nil {
			respondSuccess(c, http.StatusOK, h.detail(ctx, &gen), "Caption fetched successfully")
			return
		}
	}

	gen, err := h.captions.GetByID(ctx, acc.ID, id)
	if errors.Is(err, repository.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Caption not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to get caption")
		return
	}

	if raw, err := json.Marshal(gen); err == nil {
		_ = h.cache.Set(ctx, cacheKey(acc.ID, id), string(raw), captionCacheTTL)
	}

	respondSuccess(c, http.StatusOK, h.detail(ctx, gen), "Caption fetched successfully")
}

type updateCaptionRequest struct {
	ID      string `json:"id"`
	Caption string `json:"caption"`
}

// Update handles PUT /api/captions/update.
func (h *Handler) Update(c *gin.Context) {
	acc := h.account(c)
	if acc == nil {
		return
	}

	var req updateCaptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid payload")
		return
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Caption ID is required")
		return
	}

	caption := strings.TrimSpace(req.Caption)
	if caption == "" {
		respondError(c, http.StatusBadRequest, "Valid caption text is required")
		return
	}
	if len([]rune(caption)) > models.MaxCaptionLength {
		respondError(c, http.StatusBadRequest, "Caption exceeds maximum length")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	gen, err := h.captions.UpdateCaption(ctx, acc.ID, id, caption)
	if errors.Is(err, repository.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Caption not found or you don't have permission to edit it")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update caption")
		return
	}

	_ = h.cache.Delete(ctx, cacheKey(acc.ID, id))

	respondSuccess(c, http.StatusOK, gen, "Caption updated successfully")
}

type deleteCaptionRequest struct {
	ID string `json:"id"`
}

// Delete handles DELETE /api/captions/delete.
func (h *Handler) Delete(c *gin.Context) {
	acc := h.account(c)
	if acc == nil {
		return
	}

	var req deleteCaptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid payload")
		return
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid payload")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	err = h.captions.Delete(ctx, acc.ID, id)
	if errors.Is(err, repository.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Caption not found or access denied")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete caption")
		return
	}

	_ = h.cache.Delete(ctx, cacheKey(acc.ID, id))

	respondSuccess(c, http.StatusOK, nil, "Caption deleted successfully")
}
