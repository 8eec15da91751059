// Package storage is the data access layer over PostgreSQL (gorm) with an
// optional Redis fast path for rate limiting. The database is the sole
// synchronization point between concurrent requests: the unique indexes on
// profiles.username and threads(user_a_id, user_b_id, listing_id) back the
// invariants the services rely on.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"mercadogo/backend/internal/models"
)

// ErrDuplicate signals a unique-constraint violation. Services decide per
// call site whether that is a conflict (username taken) or a benign race to
// swallow (profile ensure, thread create).
var ErrDuplicate = errors.New("duplicate key")

// Service implements all the store interfaces the domain services consume.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client

	RateLimit  int
	RateWindow time.Duration
}

// NewService wires the storage layer. rdb may be nil; the rate limiter then
// admits everything.
func NewService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:         db,
		Redis:      rdb,
		RateLimit:  20,
		RateWindow: time.Minute,
	}
}

// Migrate creates or updates the schema for the five entities.
func (s *Service) Migrate() error {
	return s.DB.AutoMigrate(
		&models.Profile{},
		&models.ChatMessage{},
		&models.Listing{},
		&models.Thread{},
		&models.ThreadMessage{},
	)
}

// translate folds driver-level duplicate-key errors into ErrDuplicate.
// Requires gorm.Config{TranslateError: true} on the session.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

func (s *Service) db(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx)
}
