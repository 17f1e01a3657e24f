package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/roomly/roomly-api/internal/config"
	"github.com/roomly/roomly-api/internal/domain/auth"
	"github.com/roomly/roomly-api/internal/domain/chat"
	"github.com/roomly/roomly-api/internal/domain/listing"
	"github.com/roomly/roomly-api/internal/domain/matching"
	"github.com/roomly/roomly-api/internal/domain/photo"
	"github.com/roomly/roomly-api/internal/domain/profile"
	"github.com/roomly/roomly-api/internal/domain/relationships"
	"github.com/roomly/roomly-api/internal/domain/user"
	"github.com/roomly/roomly-api/internal/middleware"
	"github.com/roomly/roomly-api/internal/pkg/database"
	"github.com/roomly/roomly-api/internal/pkg/jwt"
	"github.com/roomly/roomly-api/internal/pkg/response"
	"github.com/roomly/roomly-api/internal/pkg/storage"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting Roomly API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	rdb, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(rdb)

	store, err := buildStorage(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create storage client")
	}

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)

	// ---------- Repositories ----------
	userRepo := user.NewRepository(db)
	refreshTokenRepo := auth.NewRefreshTokenRepository(db)
	profileRepo := profile.NewRepository(db)
	relationshipsRepo := relationships.NewRepository(db)
	matchingRepo := matching.NewRepository(db)
	listingRepo := listing.NewRepository(db)
	chatRepo := chat.NewRepository(db)
	photoRepo := photo.NewRepository(db)

	// ---------- Services ----------
	profileService := profile.NewService(profileRepo)
	relationshipsService := relationships.NewService(relationshipsRepo)
	authService := auth.NewService(userRepo, jwtService, refreshTokenRepo, profileService)
	matchingService := matching.NewService(matchingRepo, profileService, userRepo, relationshipsService, rdb, matching.Config{
		FeedLimit:    cfg.FeedLimit,
		SeenTTL:      cfg.FeedSeenTTL,
		LikeCountTTL: cfg.LikeCountTTL,
		SeenEnabled:  cfg.FeedSeenEnabled,
	})
	listingService := listing.NewService(listingRepo)

	hub := chat.NewHub(rdb)
	go hub.Run()
	chatService := chat.NewService(chatRepo, matchingService, relationshipsService, hub)

	photoQueue := photo.NewThumbnailQueue(rdb)
	photoService := photo.NewService(photoRepo, profileRepo, store, photoQueue)

	// ---------- Handlers ----------
	authHandler := auth.NewHandler(authService)
	profileHandler := profile.NewHandler(profileService)
	relationshipsHandler := relationships.NewHandler(relationshipsService)
	matchingHandler := matching.NewHandler(matchingService)
	listingHandler := listing.NewHandler(listingService)
	chatHandler := chat.NewHandler(chatService, hub, rdb, cfg.AllowedOrigins)
	photoHandler := photo.NewHandler(photoService)

	authMiddleware := middleware.Auth(jwtService)

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	// WebSocket endpoint (before Compress)
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token != "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
		authMiddleware(http.HandlerFunc(chatHandler.WebSocket)).ServeHTTP(w, r)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimw.Compress(5))

		r.Mount("/auth", authHandler.Routes(authMiddleware))
		r.Mount("/profiles", profileHandler.Routes(authMiddleware))
		r.Mount("/users", relationshipsHandler.Routes(authMiddleware))
		r.Mount("/listings", listingHandler.Routes(authMiddleware))
		r.Mount("/chat", chatHandler.Routes(authMiddleware))
		r.Mount("/photos", photoHandler.Routes(authMiddleware))

		// feed, swipes, matches, likes
		r.Mount("/", matchingHandler.Routes(authMiddleware))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	hub.Shutdown()

	log.Info().Msg("Server exited properly")
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
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		})
	}
}
