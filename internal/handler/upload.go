package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	minioclient "github.com/MohammedIbrahim8887/helix/internal/storage/minio"
)

// MaxUploadSize matches the upload provider contract (4MB per image).
const MaxUploadSize = 4 << 20

// ThumbnailTask is the queue payload consumed by the thumbnail worker.
type ThumbnailTask struct {
	Key        string `json:"key"`
	BucketName string `json:"bucket_name"`
	ObjectName string `json:"object_name"`
}

type uploadResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Upload handles POST /api/upload. The returned key is the opaque reference
// all caption endpoints work with; the image URL is derived from it.
func (h *Handler) Upload(c *gin.Context) {
	acc := h.account(c)
	if acc == nil {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadSize)

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Failed to get file from request")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" && ext != ".webp" {
		respondError(c, http.StatusBadRequest, "Only .jpg, .jpeg, .png, and .webp extensions are allowed")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || !strings.HasPrefix(contentType, "image/") {
		switch ext {
		case ".jpg", ".jpeg":
			contentType = "image/jpeg"
		case ".png":
			contentType = "image/png"
		case ".webp":
			contentType = "image/webp"
		}
	}

	key := uuid.New().String()

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	_, err = h.files.UploadFile(ctx, minioclient.ImageBucket, key, file, header.Size, contentType)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to upload file")
		return
	}

	task := ThumbnailTask{
		Key:        key,
		BucketName: minioclient.ImageBucket,
		ObjectName: key,
	}
	msgBytes, err := json.Marshal(task)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create task message")
		return
	}
	if err := h.queue.Publish(msgBytes); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to queue thumbnail task")
		return
	}

	respondSuccess(c, http.StatusCreated, uploadResponse{
		Key: key,
		URL: h.imageURL(key),
	}, "Image uploaded successfully")
}
