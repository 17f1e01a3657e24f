package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/roomly/roomly-api/internal/config"
	"github.com/roomly/roomly-api/internal/domain/photo"
	"github.com/roomly/roomly-api/internal/pkg/database"
	"github.com/roomly/roomly-api/internal/pkg/imaging"
	"github.com/roomly/roomly-api/internal/pkg/storage"
)

const dequeueTimeout = 5 * time.Second

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	log.Info().Msg("Starting image-worker")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	rdb, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	if rdb == nil {
		log.Fatal().Msg("Redis is required for image-worker, set REDIS_URL")
	}
	defer database.CloseRedis(rdb)

	store, err := buildStorage(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create storage client")
	}

	repo := photo.NewRepository(db)
	queue := photo.NewThumbnailQueue(rdb)
	processor := imaging.NewProcessor(imaging.DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		<-sigChan
		log.Info().Msg("Shutdown signal received")
		cancel()
	}()

	for {
		job, err := queue.Dequeue(ctx, dequeueTimeout)
		if err != nil {
			if ctx.Err() != nil {
				log.Info().Msg("image-worker stopped")
				return
			}
			log.Error().Err(err).Msg("Failed to dequeue thumbnail job")
			time.Sleep(time.Second)
			continue
		}
		if job == nil {
			continue
		}

		start := time.Now()
		if err := processJob(ctx, store, processor, repo, job); err != nil {
			log.Error().
				Err(err).
				Str("photo_id", job.PhotoID.String()).
				Str("key", job.Key).
				Msg("Thumbnail processing failed")
			continue
		}

		log.Info().
			Str("photo_id", job.PhotoID.String()).
			Dur("took", time.Since(start)).
			Msg("Thumbnail rendered")
	}
}

func processJob(ctx context.Context, store storage.Storage, processor *imaging.Processor, repo photo.Repository, job *photo.ThumbnailJob) error {
	rc, err := store.Get(ctx, job.Key)
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}
	defer rc.Close()

	processed, err := processor.Process(rc)
	if err != nil {
		return fmt.Errorf("process: %w", err)
	}

	// Overwrite the original with the downsized version.
	if err := store.Put(ctx, job.Key, bytes.NewReader(processed.Original), processed.ContentType); err != nil {
		return fmt.Errorf("upload original: %w", err)
	}
	if err := store.Put(ctx, job.ThumbKey, bytes.NewReader(processed.Thumbnail), processed.ContentType); err != nil {
		return fmt.Errorf("upload thumbnail: %w", err)
	}

	if err := repo.MarkProcessed(ctx, job.PhotoID, job.ThumbKey, store.GetURL(job.ThumbKey)); err != nil {
		return fmt.Errorf("mark processed: %w", err)
	}
	return nil
}

func buildStorage(cfg *config.Config) (storage.Storage, error) {
	if cfg.StorageEndpoint != "" {
		return storage.NewS3Storage(storage.S3Config{
			Endpoint:        cfg.StorageEndpoint,
			AccessKeyID:     cfg.StorageAccessKeyID,
			AccessKeySecret: cfg.StorageAccessKeySecret,
			BucketName:      cfg.StorageBucketName,
			PublicURL:       cfg.StoragePublicURL,
		})
	}
	if cfg.IsProduction() {
		return nil, errors.New("object storage is not configured")
	}
	return storage.NewLocalStorage(cfg.StorageLocalDir, cfg.StoragePublicURL)
}

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		})
	}
}
