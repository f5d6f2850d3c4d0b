package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/sejour/config"
	"github.com/Domenick1991/sejour/internal/bootstrap"
	"github.com/Domenick1991/sejour/internal/domain"
	"github.com/Domenick1991/sejour/internal/email"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, closeRepos, err := bootstrap.OpenRepositories(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer closeRepos()

	consumer, closeConsumer, err := bootstrap.NewEventConsumer(cfg)
	if err != nil {
		log.Fatalf("events: %v", err)
	}
	defer closeConsumer()

	sender := email.NewSender(repos.Users, log.New(os.Stdout, "email: ", log.LstdFlags))

	log.Printf("worker consuming %s events", cfg.Events.Driver)
	err = consumer.Consume(ctx, func(ctx context.Context, ev domain.Event) error {
		if err := sender.Send(ctx, ev); err != nil {
			log.Printf("send notification for %s: %v", ev.Type, err)
		}
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("consumer stopped: %v", err)
	}
	log.Println("worker stopped")
}
