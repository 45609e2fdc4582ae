package main

import (
	"context"
	"log"
	"time"

	"github.com/MohammedIbrahim8887/helix/internal/captioner"
	"github.com/MohammedIbrahim8887/helix/internal/config"
	"github.com/MohammedIbrahim8887/helix/internal/handler"
	"github.com/MohammedIbrahim8887/helix/internal/queue/rabbitmq"
	"github.com/MohammedIbrahim8887/helix/internal/repository"
	minioclient "github.com/MohammedIbrahim8887/helix/internal/storage/minio"
	"github.com/MohammedIbrahim8887/helix/pkg/database/postgres"
	redisclient "github.com/MohammedIbrahim8887/helix/pkg/database/redis"
	"github.com/MohammedIbrahim8887/helix/pkg/security"
)

func main() {
	log.Println("Starting Helix API...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize PostgreSQL
	log.Println("Connecting to PostgreSQL...")
	pgPool, err := postgres.NewClient(ctx, cfg.PostgresURL)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer pgPool.Close()

	// Run migrations
	if err := postgres.RunMigrations(ctx, pgPool); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Redis
	log.Println("Connecting to Redis...")
	redisClient, err := redisclient.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Initialize Minio
	log.Println("Connecting to Minio...")
	minioClient, err := minioclient.NewClient(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, false)
	if err != nil {
		log.Fatalf("Failed to connect to Minio: %v", err)
	}

	// Initialize RabbitMQ
	log.Println("Connecting to RabbitMQ...")
	rabbitClient, err := rabbitmq.NewClient(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer rabbitClient.Close()

	log.Println("✓ Successfully connected to all services")

	// Session validation against the identity provider's JWKS
	keyFn, err := security.NewJWKS(cfg.JWKSURL)
	if err != nil {
		log.Fatalf("Failed to initialize JWKS: %v", err)
	}

	captionClient := captioner.NewClient(cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey, cfg.OpenRouterModel)

	h := handler.NewHandler(
		repository.NewCaptionRepo(pgPool),
		repository.NewAccountRepo(pgPool),
		captionClient,
		redisClient,
		minioClient,
		rabbitClient,
		cfg.PublicFileBaseURL,
	)

	router := handler.NewRouter(h, security.AuthMiddleware(keyFn, cfg.OAuthClientID), cfg.FrontendURL)

	log.Printf("Helix API listening on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
