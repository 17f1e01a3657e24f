package photo

import (
	"context"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/roomly/roomly-api/internal/pkg/imaging"
	"github.com/roomly/roomly-api/internal/pkg/storage"
)

// MaxPhotosPerUser caps how many photos a profile can carry.
const MaxPhotosPerUser = 6

// ProfileWriter is the slice of the profile domain the photo service
// needs to keep avatar_url in sync.
type ProfileWriter interface {
	SetAvatar(ctx context.Context, userID uuid.UUID, avatarURL string, verified bool) error
}

// JobQueue hands thumbnail work to the image worker.
type JobQueue interface {
	Enqueue(ctx context.Context, job *ThumbnailJob) error
}

// Service handles photo business logic
type Service struct {
	repo     Repository
	profiles ProfileWriter
	store    storage.Storage
	queue    JobQueue
}

// NewService creates photo service
func NewService(repo Repository, profiles ProfileWriter, store storage.Storage, queue JobQueue) *Service {
	return &Service{
		repo:     repo,
		profiles: profiles,
		store:    store,
		queue:    queue,
	}
}

// Upload stores the original image and registers the photo row. The
// first photo a user uploads automatically becomes their avatar.
// Thumbnail rendering happens asynchronously in the image worker.
func (s *Service) Upload(ctx context.Context, userID uuid.UUID, filename string, size int64, file io.Reader) (*Photo, error) {
	if !imaging.ValidateType(filename) {
		return nil, ErrUnsupportedType
	}
	if size > imaging.MaxFileSize {
		return nil, ErrFileTooLarge
	}

	count, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if count >= MaxPhotosPerUser {
		return nil, ErrPhotoLimitReached
	}

	photoID := uuid.New()
	key, thumbKey := imaging.PhotoPaths(userID.String(), photoID.String(), filename)

	if err := s.store.Put(ctx, key, file, contentTypeFor(filename)); err != nil {
		return nil, err
	}

	photo := &Photo{
		ID:           photoID,
		UserID:       userID,
		Key:          key,
		ThumbKey:     thumbKey,
		URL:          s.store.GetURL(key),
		OriginalName: filename,
		ContentType:  contentTypeFor(filename),
		SizeBytes:    size,
		IsAvatar:     count == 0,
		SortOrder:    count,
		CreatedAt:    time.Now(),
	}

	if err := s.repo.Create(ctx, photo); err != nil {
		return nil, err
	}

	if photo.IsAvatar {
		if err := s.profiles.SetAvatar(ctx, userID, photo.URL, photo.Verified); err != nil {
			log.Warn().Err(err).Str("user_id", userID.String()).Msg("failed to sync avatar url")
		}
	}

	job := &ThumbnailJob{
		PhotoID:  photo.ID,
		UserID:   userID,
		Key:      key,
		ThumbKey: thumbKey,
		Filename: filename,
	}
	if err := s.queue.Enqueue(ctx, job); err != nil {
		log.Warn().Err(err).Str("photo_id", photo.ID.String()).Msg("failed to enqueue thumbnail job")
	}

	return photo, nil
}

// ListByUser returns a user's photos in display order.
func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Photo, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Delete removes a photo. When the avatar is deleted the next photo in
// display order is promoted; with no photos left the avatar is cleared.
func (s *Service) Delete(ctx context.Context, userID, photoID uuid.UUID) error {
	photo, err := s.ownedPhoto(ctx, userID, photoID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, photoID); err != nil {
		return err
	}

	// Storage cleanup must not block the request.
	go func(key, thumbKey string) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.store.Delete(ctx, key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to delete photo object")
		}
		if thumbKey != "" {
			if err := s.store.Delete(ctx, thumbKey); err != nil {
				log.Warn().Err(err).Str("key", thumbKey).Msg("failed to delete thumbnail object")
			}
		}
	}(photo.Key, photo.ThumbKey)

	if !photo.IsAvatar {
		return nil
	}

	remaining, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	if len(remaining) == 0 {
		return s.profiles.SetAvatar(ctx, userID, "", false)
	}

	next := remaining[0]
	if err := s.repo.SetAvatar(ctx, userID, next.ID); err != nil {
		return err
	}
	return s.profiles.SetAvatar(ctx, userID, next.URL, next.Verified)
}

// SetAvatar makes the given photo the user's avatar.
func (s *Service) SetAvatar(ctx context.Context, userID, photoID uuid.UUID) (*Photo, error) {
	photo, err := s.ownedPhoto(ctx, userID, photoID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetAvatar(ctx, userID, photoID); err != nil {
		return nil, err
	}
	if err := s.profiles.SetAvatar(ctx, userID, photo.URL, photo.Verified); err != nil {
		return nil, err
	}

	photo.IsAvatar = true
	return photo, nil
}

// Reorder rewrites the display order. IDs that do not belong to the
// user are skipped rather than failing the whole request.
func (s *Service) Reorder(ctx context.Context, userID uuid.UUID, photoIDs []uuid.UUID) error {
	for i, photoID := range photoIDs {
		photo, err := s.repo.GetByID(ctx, photoID)
		if err != nil || photo == nil || !photo.IsOwnedBy(userID) {
			continue
		}
		if err := s.repo.UpdateSortOrder(ctx, photoID, i); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) ownedPhoto(ctx context.Context, userID, photoID uuid.UUID) (*Photo, error) {
	photo, err := s.repo.GetByID(ctx, photoID)
	if err != nil {
		return nil, err
	}
	if photo == nil {
		return nil, ErrPhotoNotFound
	}
	if !photo.IsOwnedBy(userID) {
		return nil, ErrNotPhotoOwner
	}
	return photo, nil
}

func contentTypeFor(filename string) string {
	ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	if ct == "" {
		return "application/octet-stream"
	}
	return ct
}
