package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/sejour/api"
	"github.com/Domenick1991/sejour/config"
	bookingsapi "github.com/Domenick1991/sejour/internal/api/bookings_service_api"
	"github.com/Domenick1991/sejour/internal/auth"
	"github.com/Domenick1991/sejour/internal/bootstrap"
	"github.com/Domenick1991/sejour/internal/cache"
	"github.com/Domenick1991/sejour/internal/geocoding"
	"github.com/Domenick1991/sejour/internal/service/booking"
	"github.com/Domenick1991/sejour/internal/service/image"
	"github.com/Domenick1991/sejour/internal/service/message"
	"github.com/Domenick1991/sejour/internal/service/property"
	"github.com/Domenick1991/sejour/internal/service/user"
	"github.com/Domenick1991/sejour/internal/storage"
	"github.com/gin-gonic/gin"
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

	events, closeEvents, err := bootstrap.NewEventPublisher(ctx, cfg)
	if err != nil {
		log.Fatalf("events: %v", err)
	}
	defer closeEvents()

	var (
		propertyCache property.Cache
		bookingOpts   []booking.BookingServiceOption
	)
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisCache(cfg.Redis,
			time.Duration(cfg.Cache.PropertyTTLSeconds)*time.Second,
			time.Duration(cfg.Cache.LockTTLSeconds)*time.Second)
		defer redisCache.Close()
		if err := redisCache.Ping(ctx); err != nil {
			log.Printf("redis ping failed: %v", err)
		}
		propertyCache = redisCache
		bookingOpts = append(bookingOpts, booking.WithPropertyLock(redisCache))
	}
	bookingOpts = append(bookingOpts, booking.WithEvents(events))

	var geocoder property.Geocoder = geocoding.Static{}
	if cfg.Geocoding.APIKey != "" {
		g, err := geocoding.NewGoogleGeocoder(cfg.Geocoding.APIKey)
		if err != nil {
			log.Fatalf("geocoder: %v", err)
		}
		geocoder = g
	}

	if cfg.Storage.Bucket == "" {
		log.Println("storage.bucket is empty, image uploads will fail")
	}
	store, err := storage.NewS3Store(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("s3: %v", err)
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)

	userService := user.NewUserService(repos.Users, tokens, cfg.Auth.BcryptCost)
	propertyService := property.NewPropertyService(repos.Properties, geocoder, propertyCache)
	bookingService := booking.NewBookingService(repos.Bookings, repos.Properties, repos.Tx, bookingOpts...)
	messageService := message.NewMessageService(repos.Messages, repos.Users, events)
	imageService := image.NewImageService(repos.Images, repos.Properties, repos.Tx, store, propertyService, cfg.Storage.MaxFiles)

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(
		api.RouterConfig{CORSOrigins: cfg.HTTP.CORSOrigins, SwaggerDir: cfg.HTTP.SwaggerDir},
		tokens,
		propertyService,
		api.Handlers{
			Auth:       api.NewAuthHandler(userService),
			Users:      api.NewUserHandler(userService, messageService),
			Properties: api.NewPropertyHandler(propertyService),
			Bookings:   api.NewBookingHandler(bookingService),
			Messages:   api.NewMessageHandler(messageService),
			Images:     api.NewImageHandler(imageService, cfg.Storage.MaxUploadBytes, cfg.Storage.MaxFiles),
		},
	)

	servers := bootstrap.NewServers(cfg, router, bookingsapi.NewServer(bookingService, tokens))
	if err := servers.Run(ctx, cfg.GRPC.Address); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
