package photo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const thumbnailQueueKey = "photos:thumbnails"

// ErrQueueUnavailable is returned when the queue was built without a Redis
// client (optional-Redis development mode). Uploads still succeed; thumbnails
// are simply not rendered.
var ErrQueueUnavailable = errors.New("thumbnail queue: redis not configured")

// ThumbnailJob asks the image worker to render a thumbnail for an
// uploaded photo and downsize the original in place.
type ThumbnailJob struct {
	PhotoID  uuid.UUID `json:"photo_id"`
	UserID   uuid.UUID `json:"user_id"`
	Key      string    `json:"key"`
	ThumbKey string    `json:"thumb_key"`
	Filename string    `json:"filename"`
}

// ThumbnailQueue is a Redis-backed work queue between the API and the
// image worker.
type ThumbnailQueue struct {
	redis *redis.Client
}

// NewThumbnailQueue creates a thumbnail queue
func NewThumbnailQueue(redisClient *redis.Client) *ThumbnailQueue {
	return &ThumbnailQueue{redis: redisClient}
}

// Enqueue pushes a job for the worker to pick up.
func (q *ThumbnailQueue) Enqueue(ctx context.Context, job *ThumbnailJob) error {
	if q.redis == nil {
		return ErrQueueUnavailable
	}
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return q.redis.LPush(ctx, thumbnailQueueKey, payload).Err()
}

// Dequeue blocks up to timeout waiting for the next job. Returns
// (nil, nil) when the wait times out without a job.
func (q *ThumbnailQueue) Dequeue(ctx context.Context, timeout time.Duration) (*ThumbnailJob, error) {
	if q.redis == nil {
		return nil, ErrQueueUnavailable
	}
	result, err := q.redis.BRPop(ctx, timeout, thumbnailQueueKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	// BRPop returns [key, value]
	if len(result) != 2 {
		return nil, nil
	}
	var job ThumbnailJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		return nil, err
	}
	return &job, nil
}
