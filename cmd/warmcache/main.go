// Command warmcache pre-populates the Instagram embed cache for all
// active curated posts. Meant to be run from cron, e.g. every few hours
// so homepage requests rarely pay for a live oEmbed fetch.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"tumas_backend/internal/cache"
	"tumas_backend/internal/config"
	"tumas_backend/internal/database"
	"tumas_backend/internal/instagram"
	"tumas_backend/internal/redis"
	"tumas_backend/internal/repository"
)

func main() {
	verbose := flag.Bool("verbose", false, "print each failed URL")
	flag.Parse()

	if err := run(*verbose); err != nil {
		log.Fatalf("warmcache: %v", err)
	}
}

func run(verbose bool) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("create redis client: %w", err)
	}
	defer redisClient.Close()
	if err := redisClient.Ping(ctx); err != nil {
		// Warming without a cache backend would fetch and throw away.
		return fmt.Errorf("redis unavailable: %w", err)
	}

	store := cache.NewRedisStore(redisClient.Client)
	embedService := instagram.NewEmbedService(cfg, store)
	postRepo := repository.NewInstagramPostRepository(db)
	warmer := instagram.NewWarmer(embedService, postRepo)

	result, err := warmer.WarmActive(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Warmed %d posts, %d failed\n", result.Success, result.Failed)
	if verbose {
		for _, msg := range result.Errors {
			fmt.Fprintln(os.Stderr, msg)
		}
	}
	if result.Failed > 0 && result.Success == 0 {
		os.Exit(1)
	}
	return nil
}
