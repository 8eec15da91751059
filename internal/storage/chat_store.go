package storage

import (
	"context"

	"mercadogo/backend/internal/models"
)

// ListChatMessages returns up to limit messages with id strictly greater
// than afterID, ascending. afterID 0 means from the beginning.
func (s *Service) ListChatMessages(ctx context.Context, afterID int64, limit int) ([]models.ChatMessage, error) {
	q := s.db(ctx).Model(&models.ChatMessage{}).Order("id asc").Limit(limit)
	if afterID > 0 {
		q = q.Where("id > ?", afterID)
	}
	var msgs []models.ChatMessage
	if err := q.Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

// CreateChatMessage appends to the global feed. The id is filled in by the
// database.
func (s *Service) CreateChatMessage(ctx context.Context, msg *models.ChatMessage) error {
	return s.db(ctx).Create(msg).Error
}
