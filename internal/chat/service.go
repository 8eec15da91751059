// Package chat implements the global public chat feed.
package chat

import (
	"context"
	"strings"

	"mercadogo/backend/internal/models"
	"mercadogo/backend/pkg/errors"
	"mercadogo/backend/pkg/logger"
)

const (
	DefaultLimit = 50
	MaxLimit     = 100
	// MaxContentRunes is where over-length messages are silently cut.
	MaxContentRunes = 500
)

type Store interface {
	ListChatMessages(ctx context.Context, afterID int64, limit int) ([]models.ChatMessage, error)
	CreateChatMessage(ctx context.Context, msg *models.ChatMessage) error
	AllowChatSend(ctx context.Context, userID string) (bool, error)
}

// Profiles is the slice of the profile service the feed depends on.
type Profiles interface {
	Ensure(ctx context.Context, identity string) (*models.Profile, error)
}

type Service struct {
	store    Store
	profiles Profiles
	log      logger.Logger
}

func NewService(store Store, profiles Profiles, log logger.Logger) *Service {
	return &Service{store: store, profiles: profiles, log: log.Named("chat")}
}

// List returns messages with id strictly greater than afterID, ascending.
// The limit is clamped to [1, MaxLimit]; zero or negative means the default.
func (s *Service) List(ctx context.Context, afterID int64, limit int) ([]models.ChatMessage, error) {
	msgs, err := s.store.ListChatMessages(ctx, afterID, ClampLimit(limit, DefaultLimit, MaxLimit))
	if err != nil {
		s.log.Error("list chat messages", "err", err)
		return nil, errors.Wrap(errors.CodeInternal, "Server error", err)
	}
	return msgs, nil
}

// Send appends a message to the feed. The caller must have a username set;
// the current display name is snapshotted onto the row. Content is trimmed,
// rejected when empty and silently truncated past MaxContentRunes.
func (s *Service) Send(ctx context.Context, identity, content string) (*models.ChatMessage, error) {
	text := Truncate(strings.TrimSpace(content), MaxContentRunes)
	if text == "" {
		return nil, errors.ErrEmptyMessage
	}

	p, err := s.profiles.Ensure(ctx, identity)
	if err != nil {
		return nil, err
	}
	if p.Username == nil {
		return nil, errors.ErrUsernameNotSet
	}

	if ok, _ := s.store.AllowChatSend(ctx, identity); !ok {
		return nil, errors.ErrRateLimited
	}

	msg := &models.ChatMessage{
		UserID:   identity,
		Username: *p.Username,
		Content:  text,
	}
	if err := s.store.CreateChatMessage(ctx, msg); err != nil {
		s.log.Error("create chat message", "err", err)
		return nil, errors.Wrap(errors.CodeInternal, "Server error", err)
	}
	return msg, nil
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// ClampLimit normalizes a requested page size.
func ClampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
