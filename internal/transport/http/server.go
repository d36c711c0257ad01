package http

import (
	"context"
	"fmt"
	"log"
	stdhttp "net/http"

	"tumas_backend/internal/cache"
	"tumas_backend/internal/config"
	"tumas_backend/internal/database"
	"tumas_backend/internal/handler"
	"tumas_backend/internal/instagram"
	"tumas_backend/internal/redis"
	"tumas_backend/internal/repository"
	"tumas_backend/internal/service"
)

func Run() error {
	ctx := context.Background()

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Connect to Database
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// 3. Connect to Redis. The embed cache degrades to pass-through when
	// Redis is down, so a failed ping is logged, not fatal.
	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer redisClient.Close()
	if err := redisClient.Ping(ctx); err != nil {
		log.Printf("[WARN] Redis unavailable, embed caching disabled: %v", err)
	}

	// 4. Build the Instagram embed pipeline
	store := cache.NewRedisStore(redisClient.Client)
	embedService := instagram.NewEmbedService(cfg, store)

	// 5. Repositories
	postRepo := repository.NewInstagramPostRepository(db)
	configRepo := repository.NewInstagramConfigRepository(db)
	contentRepo := repository.NewContentRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	// Bootstrap the env-configured admin so a fresh deployment can log
	// in without manual SQL.
	if cfg.AdminUsername != "" && cfg.AdminPasswordHash != "" {
		if err := adminRepo.Upsert(ctx, cfg.AdminUsername, cfg.AdminPasswordHash); err != nil {
			return fmt.Errorf("bootstrap admin account: %w", err)
		}
	}

	// 6. Services
	instagramService := service.NewInstagramService(postRepo, configRepo, embedService, store)
	contentService := service.NewContentService(contentRepo, instagramService)
	authService := service.NewAuthService(adminRepo, cfg)
	warmer := instagram.NewWarmer(embedService, postRepo)

	// Media uploads are optional: without R2 credentials the endpoint
	// answers 503 instead of blocking startup.
	var mediaService *service.MediaService
	if ms, err := service.NewMediaService(ctx, cfg); err != nil {
		log.Printf("[WARN] Media uploads disabled: %v", err)
	} else {
		mediaService = ms
	}

	// 7. Handlers + Router
	router := NewRouter(RouterConfig{
		AuthHandler:      handler.NewAuthHandler(authService),
		ContentHandler:   handler.NewContentHandler(contentService),
		InstagramHandler: handler.NewInstagramHandler(instagramService, warmer),
		MediaHandler:     handler.NewMediaHandler(mediaService),
		JWTSecret:        cfg.JWTSecret,
	})

	addr := ":" + cfg.ServerPort
	log.Printf("Starting server on %s", addr)
	return stdhttp.ListenAndServe(addr, router)
}
