package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MohammedIbrahim8887/helix/internal/models"
	"github.com/MohammedIbrahim8887/helix/internal/tones"
)

type generateRequest struct {
	Key  string `json:"key"`
	Tone string `json:"tone"`
}

// clipCaption bounds generated text at a rune boundary before persisting.
func clipCaption(text string) string {
	runes := []rune(text)
	if len(runes) <= models.MaxCaptionLength {
		return text
	}
	return string(runes[:models.MaxCaptionLength])
}

// Generate handles POST /api/captions/generate?type=regenerate.
//
// Caption text is streamed to the client as SSE deltas while being buffered
// server-side; the row is written exactly once, after the stream completes.
// Generate and regenerate share upsert semantics on (account_id, key), so the
// record id is stable across regenerations.
func (h *Handler) Generate(c *gin.Context) {
	acc := h.account(c)
	if acc == nil {
		return
	}

	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Key == "" {
		respondError(c, http.StatusBadRequest, "Image key is required")
		return
	}

	tone := tones.Lookup(req.Tone)
	isRegenerate := c.Query("type") == "regenerate"

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Writer.Flush()

	ctx := c.Request.Context()
	text, err := h.captioner.Stream(ctx, h.imageURL(req.Key), tone.Prompt, func(delta string) {
		c.SSEvent("delta", delta)
		c.Writer.Flush()
	})
	if err != nil {
		if ctx.Err() != nil {
			// Client went away; drop the buffered text, persist nothing.
			log.Printf("Caption stream aborted for key %s: %v", req.Key, ctx.Err())
			return
		}
		log.Printf("Caption stream failed for key %s: %v", req.Key, err)
		c.SSEvent("error", "Failed to generate caption")
		c.Writer.Flush()
		return
	}

	// The full text is known; the write must survive a client disconnect
	// that races stream completion.
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	gen, err := h.captions.Upsert(saveCtx, acc.ID, req.Key, clipCaption(text))
	if err != nil {
		log.Printf("Failed to save caption for key %s: %v", req.Key, err)
		c.SSEvent("error", "Failed to save caption")
		c.Writer.Flush()
		return
	}

	_ = h.cache.Delete(saveCtx, cacheKey(acc.ID, gen.ID))

	if isRegenerate {
		log.Printf("Updated caption for key %s", req.Key)
	} else {
		log.Printf("Saved caption for key %s", req.Key)
	}

	c.SSEvent("done", gen)
	c.Writer.Flush()
}

// GenerateSync handles POST /api/generate-caption: the non-streaming path.
// Returns 201 when a new record was created, 200 when an existing one was
// rewritten.
func (h *Handler) GenerateSync(c *gin.Context) {
	acc := h.account(c)
	if acc == nil {
		return
	}

	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Key == "" {
		respondError(c, http.StatusBadRequest, "Image key is required")
		return
	}

	tone := tones.Lookup(req.Tone)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Minute)
	defer cancel()

	text, err := h.captioner.Generate(ctx, h.imageURL(req.Key), tone.Prompt)
	if err != nil {
		log.Printf("Caption generation failed for key %s: %v", req.Key, err)
		respondError(c, http.StatusInternalServerError, "Failed to generate caption")
		return
	}

	gen, err := h.captions.Upsert(ctx, acc.ID, req.Key, clipCaption(text))
	if err != nil {
		log.Printf("Failed to save caption for key %s: %v", req.Key, err)
		respondError(c, http.StatusInternalServerError, "Failed to save caption")
		return
	}

	_ = h.cache.Delete(ctx, cacheKey(acc.ID, gen.ID))

	code := http.StatusOK
	if gen.CreatedAt.Equal(gen.UpdatedAt) {
		code = http.StatusCreated
	}
	respondSuccess(c, code, gen, "Caption generated successfully")
}
