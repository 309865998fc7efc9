package main

import (
	"go.uber.org/zap"

	"flatboard/internal/auth"
	"flatboard/internal/config"
	"flatboard/internal/handler"
	"flatboard/internal/httpserver"
	"flatboard/internal/service"
	"flatboard/internal/store"
	"flatboard/internal/util"
	"flatboard/pkg/logger"
	"flatboard/pkg/mq"
)

func main() {
	// 1. Load config
	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	// 2. Open the document store
	st, err := store.Open(cfg.Storage, log)
	if err != nil {
		log.Fatal("store initialization failed", zap.Error(err))
	}
	defer st.Close()

	// 3. Init event publisher (optional, enabled by mq.url)
	var events service.EventPublisher
	var publisher *mq.Publisher
	if cfg.MQ.URL != "" {
		publisher, err = mq.NewPublisher(cfg.MQ.URL)
		if err != nil {
			log.Fatal("failed to init publisher", zap.Error(err))
		}
		defer publisher.Close()
		events = publisher
	}

	// 4. Init services
	clock := util.NewRealClock()
	tokens := auth.NewTokenService(cfg.JWT.Secret, clock)
	authService := service.NewAuthService(st, tokens, clock, events, log)
	postService := service.NewPostService(st, clock, events, log)

	// 5. Init handlers
	authHandler := handler.NewAuthHandler(authService, log)
	postHandler := handler.NewPostHandler(postService, log)

	// 6. Init router
	router := httpserver.NewRouter(authHandler, postHandler, tokens, st, publisher, log)

	// 7. Run server
	log.Info("starting server",
		zap.String("port", cfg.Server.Port),
		zap.String("storage_driver", cfg.Storage.Driver),
	)
	if err := router.Run(cfg.Server.Port); err != nil {
		log.Fatal("server start failed", zap.Error(err))
	}
}
