// Package dm implements direct-message threads: deterministic
// participant-pair ordering, thread deduplication keyed by
// (pair, listing-or-none), membership enforcement, and the per-thread
// message feed.
package dm

import (
	"context"
	stderrors "errors"
	"strings"

	"mercadogo/backend/internal/models"
	"mercadogo/backend/internal/storage"
	"mercadogo/backend/pkg/errors"
	"mercadogo/backend/pkg/logger"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
	// MaxContentRunes is the silent truncation point for thread messages.
	MaxContentRunes = 1000
)

type Store interface {
	FindThread(ctx context.Context, userA, userB string, listingID *int64) (*models.Thread, error)
	CreateThread(ctx context.Context, t *models.Thread) error
	GetThread(ctx context.Context, id int64) (*models.Thread, error)
	ListThreadsForUser(ctx context.Context, userID string, listingID *int64, limit int) ([]models.Thread, error)
	ListThreadMessages(ctx context.Context, threadID, afterID int64, limit int) ([]models.ThreadMessage, error)
	CreateThreadMessage(ctx context.Context, msg *models.ThreadMessage) error
}

// Profiles resolves identities and usernames. The DM subsystem is the only
// accessor allowed to lean on the profile service directly.
type Profiles interface {
	Ensure(ctx context.Context, identity string) (*models.Profile, error)
	GetByUsername(ctx context.Context, username string) (*models.Profile, error)
}

// Listings resolves a listing to its owner when a DM is started about one.
type Listings interface {
	Get(ctx context.Context, id int64) (*models.Listing, error)
}

type Service struct {
	store    Store
	profiles Profiles
	listings Listings
	log      logger.Logger
}

func NewService(store Store, profiles Profiles, listings Listings, log logger.Logger) *Service {
	return &Service{store: store, profiles: profiles, listings: listings, log: log.Named("dm")}
}

// StartInput selects the counterparty: exactly one of TargetUsername or
// ListingID must be set. Listing mode resolves the listing owner's identity
// instead of trusting the denormalized username on the listing row.
type StartInput struct {
	TargetUsername *string
	ListingID      *int64
}

// Start resolves or creates the thread between the caller and the target.
// The participant pair is canonicalized (lower identity first) and looked up
// under the (pair, listing-or-none) key; a no-listing thread and a
// per-listing thread for the same pair are distinct. Returns the caller's
// annotated view.
func (s *Service) Start(ctx context.Context, identity string, in StartInput) (*models.ThreadView, error) {
	if (in.TargetUsername == nil) == (in.ListingID == nil) {
		return nil, errors.InvalidArg("Provide exactly one of target_username or listing_id")
	}

	me, err := s.profiles.Ensure(ctx, identity)
	if err != nil {
		return nil, err
	}
	if me.Username == nil {
		return nil, errors.InvalidArg("Set your username first")
	}

	var (
		targetID   string
		targetName string
	)
	if in.ListingID != nil {
		l, err := s.listings.Get(ctx, *in.ListingID)
		if err != nil {
			return nil, err
		}
		owner, err := s.profiles.Ensure(ctx, l.UserID)
		if err != nil {
			return nil, err
		}
		targetID = owner.ID
		// The owner may have renamed since the listing snapshot; prefer the
		// live name, fall back to the snapshot.
		targetName = owner.UsernameOrEmpty()
		if targetName == "" {
			targetName = l.Username
		}
	} else {
		t, err := s.profiles.GetByUsername(ctx, strings.TrimSpace(*in.TargetUsername))
		if err != nil {
			if errors.CodeOf(err) == errors.CodeNotFound {
				return nil, errors.ErrUserNotFound
			}
			return nil, err
		}
		targetID = t.ID
		targetName = t.UsernameOrEmpty()
	}

	if targetID == identity {
		return nil, errors.ErrSelfConversation
	}

	a, b := models.OrderPair(identity, targetID)
	existing, err := s.store.FindThread(ctx, a, b, in.ListingID)
	if err != nil {
		return nil, s.internal("find thread", err)
	}
	if existing != nil {
		v := existing.View(identity)
		return &v, nil
	}

	t := &models.Thread{
		UserAID:   a,
		UserBID:   b,
		ListingID: in.ListingID,
	}
	if a == identity {
		t.UserAUsername, t.UserBUsername = *me.Username, targetName
	} else {
		t.UserAUsername, t.UserBUsername = targetName, *me.Username
	}

	err = s.store.CreateThread(ctx, t)
	if stderrors.Is(err, storage.ErrDuplicate) {
		// Lost the creation race; the winner's thread is the thread.
		t, err = s.store.FindThread(ctx, a, b, in.ListingID)
		if err != nil || t == nil {
			return nil, s.internal("reload thread after insert race", err)
		}
	} else if err != nil {
		return nil, s.internal("create thread", err)
	}

	v := t.View(identity)
	return &v, nil
}

// GetThread returns the caller's view of a thread, enforcing membership.
func (s *Service) GetThread(ctx context.Context, identity string, threadID int64) (*models.ThreadView, error) {
	t, err := s.requireMembership(ctx, identity, threadID)
	if err != nil {
		return nil, err
	}
	v := t.View(identity)
	return &v, nil
}

// ListMessages pages a thread's messages with the chat cursor semantics.
// Membership is enforced before any read.
func (s *Service) ListMessages(ctx context.Context, identity string, threadID, afterID int64, limit int) ([]models.ThreadMessage, error) {
	if _, err := s.requireMembership(ctx, identity, threadID); err != nil {
		return nil, err
	}
	msgs, err := s.store.ListThreadMessages(ctx, threadID, afterID, clampLimit(limit))
	if err != nil {
		return nil, s.internal("list thread messages", err)
	}
	return msgs, nil
}

// Send appends a message to a thread the caller belongs to. The sender name
// comes from the thread's own participant slot, not a fresh profile lookup,
// so history stays stable under renames.
func (s *Service) Send(ctx context.Context, identity string, threadID int64, content string) (*models.ThreadMessage, error) {
	text := truncate(strings.TrimSpace(content), MaxContentRunes)
	if text == "" {
		return nil, errors.ErrEmptyMessage
	}

	t, err := s.requireMembership(ctx, identity, threadID)
	if err != nil {
		return nil, err
	}

	msg := &models.ThreadMessage{
		ThreadID:       t.ID,
		SenderID:       identity,
		SenderUsername: t.SlotUsername(identity),
		Content:        text,
	}
	if err := s.store.CreateThreadMessage(ctx, msg); err != nil {
		return nil, s.internal("create thread message", err)
	}
	return msg, nil
}

// ListThreads returns every thread the caller participates in, newest
// first, optionally narrowed to one listing, each annotated with the
// counterparty relative to the caller.
func (s *Service) ListThreads(ctx context.Context, identity string, listingID *int64, limit int) ([]models.ThreadView, error) {
	threads, err := s.store.ListThreadsForUser(ctx, identity, listingID, clampLimit(limit))
	if err != nil {
		return nil, s.internal("list threads", err)
	}
	views := make([]models.ThreadView, 0, len(threads))
	for i := range threads {
		views = append(views, threads[i].View(identity))
	}
	return views, nil
}

// requireMembership loads the thread and checks the caller occupies one of
// the two participant slots.
func (s *Service) requireMembership(ctx context.Context, identity string, threadID int64) (*models.Thread, error) {
	t, err := s.store.GetThread(ctx, threadID)
	if err != nil {
		return nil, s.internal("get thread", err)
	}
	if t == nil {
		return nil, errors.ErrThreadNotFound
	}
	if !t.HasMember(identity) {
		return nil, errors.ErrNotThreadMember
	}
	return t, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

func (s *Service) internal(msg string, err error) error {
	s.log.Error(msg, "err", err)
	return errors.Wrap(errors.CodeInternal, "Server error", err)
}
