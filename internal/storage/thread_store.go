package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"mercadogo/backend/internal/models"
)

// FindThread looks up the thread for a canonical participant pair and
// listing key. A nil listingID matches only threads with no listing; it is a
// distinct partition from every concrete listing id. Returns (nil, nil) when
// no thread exists.
func (s *Service) FindThread(ctx context.Context, userA, userB string, listingID *int64) (*models.Thread, error) {
	q := s.db(ctx).Where("user_a_id = ? AND user_b_id = ?", userA, userB)
	if listingID == nil {
		q = q.Where("listing_id IS NULL")
	} else {
		q = q.Where("listing_id = ?", *listingID)
	}
	var t models.Thread
	err := q.First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateThread inserts a new thread. ErrDuplicate when another request won
// the race for the same (pair, listing) key.
func (s *Service) CreateThread(ctx context.Context, t *models.Thread) error {
	return translate(s.db(ctx).Create(t).Error)
}

// GetThread loads one thread by id. Returns (nil, nil) when absent.
func (s *Service) GetThread(ctx context.Context, id int64) (*models.Thread, error) {
	var t models.Thread
	err := s.db(ctx).Where("id = ?", id).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListThreadsForUser returns threads where the identity occupies either
// participant slot, newest first, optionally narrowed to one listing.
func (s *Service) ListThreadsForUser(ctx context.Context, userID string, listingID *int64, limit int) ([]models.Thread, error) {
	q := s.db(ctx).Model(&models.Thread{}).
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("id desc").Limit(limit)
	if listingID != nil {
		q = q.Where("listing_id = ?", *listingID)
	}
	var threads []models.Thread
	if err := q.Find(&threads).Error; err != nil {
		return nil, err
	}
	return threads, nil
}

// ListThreadMessages pages messages within a thread with the same cursor
// semantics as the chat feed.
func (s *Service) ListThreadMessages(ctx context.Context, threadID, afterID int64, limit int) ([]models.ThreadMessage, error) {
	q := s.db(ctx).Model(&models.ThreadMessage{}).
		Where("thread_id = ?", threadID).
		Order("id asc").Limit(limit)
	if afterID > 0 {
		q = q.Where("id > ?", afterID)
	}
	var msgs []models.ThreadMessage
	if err := q.Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

// CreateThreadMessage appends to a thread.
func (s *Service) CreateThreadMessage(ctx context.Context, msg *models.ThreadMessage) error {
	return s.db(ctx).Create(msg).Error
}
