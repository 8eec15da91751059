// Package profile implements the profile store accessor: lazy creation on
// first authenticated access, the username policy, and allow-listed patches.
package profile

import (
	"context"
	stderrors "errors"
	"fmt"
	"regexp"
	"strconv"

	"mercadogo/backend/internal/models"
	"mercadogo/backend/internal/storage"
	"mercadogo/backend/pkg/errors"
	"mercadogo/backend/pkg/logger"
)

// Store is the slice of the storage layer this service consumes.
type Store interface {
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	GetProfileByUsername(ctx context.Context, username string) (*models.Profile, error)
	CreateProfile(ctx context.Context, p *models.Profile) error
	UpdateProfile(ctx context.Context, id string, fields map[string]any) (*models.Profile, error)
}

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)

// patchFields is the allow-list for update patches. Keys outside it are
// silently dropped.
var patchFields = []string{"age", "gender", "address", "occupation", "motivation"}

type Service struct {
	store Store
	log   logger.Logger
}

func NewService(store Store, log logger.Logger) *Service {
	return &Service{store: store, log: log.Named("profile")}
}

// Ensure returns the profile for identity, inserting a bare row on first
// access. Idempotent: a duplicate-key failure on insert means another
// request created the row first, so it is read back rather than surfaced.
func (s *Service) Ensure(ctx context.Context, identity string) (*models.Profile, error) {
	p, err := s.store.GetProfile(ctx, identity)
	if err != nil {
		return nil, s.internal("load profile", err)
	}
	if p != nil {
		return p, nil
	}

	p = &models.Profile{ID: identity}
	err = s.store.CreateProfile(ctx, p)
	if stderrors.Is(err, storage.ErrDuplicate) {
		p, err = s.store.GetProfile(ctx, identity)
		if err != nil || p == nil {
			return nil, s.internal("reload profile after insert race", err)
		}
		return p, nil
	}
	if err != nil {
		return nil, s.internal("create profile", err)
	}
	return p, nil
}

// SetUsername validates and claims a display name for identity. Last write
// wins for the same identity; a name held by a different identity is a
// conflict.
func (s *Service) SetUsername(ctx context.Context, identity, candidate string) (*models.Profile, error) {
	if !usernameRe.MatchString(candidate) {
		return nil, errors.ErrInvalidUsername
	}
	if _, err := s.Ensure(ctx, identity); err != nil {
		return nil, err
	}

	existing, err := s.store.GetProfileByUsername(ctx, candidate)
	if err != nil {
		return nil, s.internal("check username uniqueness", err)
	}
	if existing != nil && existing.ID != identity {
		return nil, errors.ErrUsernameTaken
	}

	updated, err := s.store.UpdateProfile(ctx, identity, map[string]any{"username": candidate})
	if stderrors.Is(err, storage.ErrDuplicate) {
		// Lost the race to a concurrent claimer.
		return nil, errors.ErrUsernameTaken
	}
	if err != nil {
		return nil, s.internal("update username", err)
	}
	return updated, nil
}

// GetByUsername is the public profile lookup.
func (s *Service) GetByUsername(ctx context.Context, username string) (*models.Profile, error) {
	p, err := s.store.GetProfileByUsername(ctx, username)
	if err != nil {
		return nil, s.internal("lookup profile by username", err)
	}
	if p == nil {
		return nil, errors.ErrProfileNotFound
	}
	return p, nil
}

// Update applies an allow-listed patch to the caller's own profile. Unknown
// keys are dropped; an empty applied set is a validation failure. A nil
// value clears the field.
func (s *Service) Update(ctx context.Context, identity string, patch map[string]any) (*models.Profile, error) {
	if len(patch) == 0 {
		return nil, errors.InvalidArg("Missing patch")
	}

	fields := make(map[string]any)
	for _, f := range patchFields {
		v, ok := patch[f]
		if !ok {
			continue
		}
		clean, err := validateField(f, v)
		if err != nil {
			return nil, err
		}
		fields[f] = clean
	}
	if len(fields) == 0 {
		return nil, errors.InvalidArg("No valid fields")
	}

	if _, err := s.Ensure(ctx, identity); err != nil {
		return nil, err
	}
	updated, err := s.store.UpdateProfile(ctx, identity, fields)
	if err != nil {
		return nil, s.internal("update profile", err)
	}
	return updated, nil
}

// validateField checks one allow-listed field and returns the value to
// store. Errors are field-specific.
func validateField(name string, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch name {
	case "age":
		n, ok := coerceInt(v)
		if !ok || n < 0 || n > 130 {
			return nil, errors.InvalidArg("Invalid age")
		}
		return n, nil
	case "gender":
		s := fmt.Sprintf("%v", v)
		if len([]rune(s)) > 30 {
			return nil, errors.InvalidArg("Gender too long")
		}
		return s, nil
	default: // address, occupation, motivation
		s := fmt.Sprintf("%v", v)
		if len([]rune(s)) > 500 {
			return nil, errors.InvalidArg(name + " too long")
		}
		return s, nil
	}
}

// coerceInt accepts numeric-like input: JSON numbers (float64 with no
// fractional part) and numeric strings.
func coerceInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != float64(int64(n)) {
			return 0, false
		}
		return int(n), true
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

func (s *Service) internal(msg string, err error) error {
	s.log.Error(msg, "err", err)
	return errors.Wrap(errors.CodeInternal, "Server error", err)
}
