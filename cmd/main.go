package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"mercadogo/backend/internal/api/handler"
	"mercadogo/backend/internal/auth"
	"mercadogo/backend/internal/chat"
	"mercadogo/backend/internal/config"
	"mercadogo/backend/internal/dm"
	"mercadogo/backend/internal/listing"
	"mercadogo/backend/internal/profile"
	"mercadogo/backend/internal/storage"
	"mercadogo/backend/pkg/logger"
)

func setupStorage(cfg config.Config, log logger.Logger) *storage.Service {
	// TranslateError is required: the services rely on gorm.ErrDuplicatedKey
	// to tell benign insert races apart from real failures.
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("connect postgres", "err", err)
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	}

	s := storage.NewService(db, rdb)
	s.RateLimit = cfg.ChatRateLimit
	s.RateWindow = cfg.ChatRateWindow

	if err := s.Migrate(); err != nil {
		log.Fatal("run migrations", "err", err)
	}
	log.Info("database ready, migrations complete")
	return s
}

func main() {
	// .env is a development convenience; production reads the environment.
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.New("info").Fatal("load config", "err", err)
	}
	log := logger.New(cfg.LogLevel)
	log.Info("starting mercadogo backend", "addr", cfg.ListenAddr)

	store := setupStorage(cfg, log)

	resolver := auth.NewResolver(auth.Config{
		URL:       cfg.SupabaseURL,
		AnonKey:   cfg.SupabaseAnonKey,
		JWTSecret: cfg.SupabaseJWTSecret,
	})

	profiles := profile.NewService(store, log)
	chatSvc := chat.NewService(store, profiles, log)
	listings := listing.NewService(store, profiles, log)
	dmSvc := dm.NewService(store, profiles, listings, log)

	r := gin.Default()
	h := handler.NewHandler(resolver, profiles, chatSvc, listings, dmSvc, log)
	h.Register(r)

	server := &http.Server{
		Addr:           cfg.ListenAddr,
		Handler:        r,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal("server stopped", "err", server.ListenAndServe())
}
