package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/MohammedIbrahim8887/helix/internal/config"
	"github.com/MohammedIbrahim8887/helix/internal/queue/rabbitmq"
	minioclient "github.com/MohammedIbrahim8887/helix/internal/storage/minio"
	"github.com/MohammedIbrahim8887/helix/internal/worker"
	redisclient "github.com/MohammedIbrahim8887/helix/pkg/database/redis"
)

const WorkerPoolSize = 5

type ThumbnailTask struct {
	Key        string `json:"key"`
	BucketName string `json:"bucket_name"`
	ObjectName string `json:"object_name"`
}

func main() {
	log.Println("Starting Thumbnail Worker...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

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

	// Initialize Redis
	log.Println("Connecting to Redis...")
	redisClient, err := redisclient.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	log.Println("✓ Successfully connected to all services")

	processor := worker.NewProcessor(minioClient, redisClient)

	// Start consuming messages
	msgs, err := rabbitClient.Consume()
	if err != nil {
		log.Fatalf("Failed to start consuming: %v", err)
	}

	// Create worker pool
	var wg sync.WaitGroup
	taskChan := make(chan ThumbnailTask, WorkerPoolSize)

	for i := 0; i < WorkerPoolSize; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			log.Printf("Worker %d started", workerID)

			for task := range taskChan {
				log.Printf("Worker %d rendering thumbnail for key %s", workerID, task.Key)

				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
				err := processor.RenderThumbnail(ctx, task.Key, task.ObjectName)
				cancel()

				if err != nil {
					log.Printf("Worker %d: failed to render thumbnail for %s: %v", workerID, task.Key, err)
				}
			}

			log.Printf("Worker %d stopped", workerID)
		}(i + 1)
	}

	// Shutdown channel
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	log.Println("Thumbnail Worker is running. Press Ctrl+C to exit.")

	// Message consumer loop
	done := make(chan struct{})
	go consumeTasks(msgs, taskChan, done)

	// Wait for shutdown signal
	<-sigChan
	log.Println("Shutting down gracefully...")

	// Stop the consumer before the workers: it owns taskChan and closes it
	// on return, so nothing can send on a closed channel.
	close(done)
	rabbitClient.Close()
	wg.Wait()

	log.Println("Thumbnail Worker stopped")
}

// consumeTasks forwards queue messages to the worker pool until the
// deliveries channel closes or done is signaled. It is the only sender on
// taskChan and closes it on return.
func consumeTasks(msgs <-chan amqp.Delivery, taskChan chan<- ThumbnailTask, done <-chan struct{}) {
	defer close(taskChan)

	for msg := range msgs {
		var task ThumbnailTask
		if err := json.Unmarshal(msg.Body, &task); err != nil {
			log.Printf("Failed to unmarshal message: %v", err)
			msg.Nack(false, false) // discard invalid message
			continue
		}

		select {
		case taskChan <- task:
			msg.Ack(false)
		case <-done:
			msg.Nack(false, true) // requeue for the next run
			return
		}
	}
}
