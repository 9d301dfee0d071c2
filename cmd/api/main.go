package main

import (
	"context"
	"net"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"foodgram/config"
	"foodgram/internal/api"
	"foodgram/internal/database"
	"foodgram/internal/middleware"
	"foodgram/internal/router"
	"foodgram/internal/server"
	"foodgram/internal/service"
	"foodgram/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	db, err := database.New(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}

	ctx := context.Background()

	store, err := storage.New(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialize media storage")
	}

	var writeLimiter *middleware.RateLimiter
	if redisClient, err := database.NewRedisClient(cfg); err != nil {
		logrus.WithError(err).Warn("redis unavailable, recipe write rate limiting disabled")
	} else {
		writeLimiter = middleware.NewWriteRateLimiter(redisClient)
	}

	imageService := service.NewImageService(store, cfg.MaxAvatarBytes)
	authService := service.NewAuthService(db, cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)
	userService := service.NewUserService(db, imageService)
	recipeService := service.NewRecipeService(db)
	shoppingService := service.NewShoppingListService(db)
	catalogService := service.NewCatalogService(db)

	serializer := api.NewSerializer(userService, recipeService, imageService)

	handlers := router.Handlers{
		Auth:      api.NewAuthHandler(authService),
		Users:     api.NewUserHandler(authService, userService, serializer, cfg.PageSize),
		Recipes:   api.NewRecipeHandler(recipeService, imageService, shoppingService, serializer, cfg.PageSize),
		Catalog:   api.NewCatalogHandler(catalogService),
		ShortLink: api.NewShortLinkHandler(recipeService),
	}

	engine := router.SetupRouter(handlers, authService, writeLimiter, store, cfg.StoragePublicBaseURL)

	srv := server.New(engine, net.JoinHostPort(cfg.ServerHost, cfg.ServerPort))
	if err := srv.Start(); err != nil {
		logrus.WithError(err).Fatal("server error")
	}
	logrus.Info("server stopped")
}
