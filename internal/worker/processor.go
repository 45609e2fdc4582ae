package worker

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"log"
	"time"

	"github.com/disintegration/imaging"

	minioclient "github.com/MohammedIbrahim8887/helix/internal/storage/minio"
	redisclient "github.com/MohammedIbrahim8887/helix/pkg/database/redis"
)

// ThumbWidth is the rendered preview width for the dashboard grid.
const ThumbWidth = 512

// ThumbReadyTTL bounds how long a rendered-thumbnail marker lives in Redis.
const ThumbReadyTTL = 24 * time.Hour

// ThumbReadyKey is the Redis key marking that a thumbnail exists for an
// uploaded image key.
func ThumbReadyKey(key string) string {
	return fmt.Sprintf("thumb:%s", key)
}

// Processor renders preview thumbnails for uploaded images.
type Processor struct {
	minioClient *minioclient.Client
	redisClient *redisclient.Client
}

func NewProcessor(minio *minioclient.Client, redis *redisclient.Client) *Processor {
	return &Processor{
		minioClient: minio,
		redisClient: redis,
	}
}

// RenderThumbnail downloads the original, scales it down, and stores the
// preview in the thumbnail bucket.
func (p *Processor) RenderThumbnail(ctx context.Context, key, objectName string) error {
	log.Printf("Rendering thumbnail for key %s", key)

	obj, err := p.minioClient.DownloadFile(ctx, minioclient.ImageBucket, objectName)
	if err != nil {
		return fmt.Errorf("failed to download image: %w", err)
	}
	defer obj.Close()

	img, err := imaging.Decode(obj)
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}

	// Maintain aspect ratio
	img = imaging.Resize(img, ThumbWidth, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	thumbObject := fmt.Sprintf("%s.png", key)
	_, err = p.minioClient.UploadFile(ctx, minioclient.ThumbBucket, thumbObject, &buf, int64(buf.Len()), "image/png")
	if err != nil {
		return fmt.Errorf("failed to upload thumbnail: %w", err)
	}

	// Mark the thumbnail as available so the API can attach preview links
	// without a storage round-trip.
	if err := p.redisClient.Set(ctx, ThumbReadyKey(key), thumbObject, ThumbReadyTTL); err != nil {
		log.Printf("Warning: failed to mark thumbnail ready for %s: %v", key, err)
	}

	log.Printf("Successfully rendered thumbnail for key %s", key)
	return nil
}
