package models

import "time"

// Thread is a deduplicated two-party conversation, optionally scoped to a
// listing. Participants are stored as an ordered pair (lower identity first)
// so the pair is canonical; at most one thread exists per
// (user_a_id, user_b_id, listing_id) where a NULL listing id is its own
// distinct key value. The composite unique index backs the invariant for
// concrete listing ids; Postgres treats NULLs as distinct, so the general
// (no-listing) case additionally relies on the lookup-then-insert path
// re-fetching on a duplicate-key failure. On Postgres 15+ the index can be
// recreated with NULLS NOT DISTINCT to close the gap entirely.
type Thread struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	// UserAID sorts strictly below UserBID.
	UserAID       string `gorm:"type:uuid;not null;uniqueIndex:idx_thread_key;index" json:"user_a_id"`
	UserBID       string `gorm:"type:uuid;not null;uniqueIndex:idx_thread_key;index" json:"user_b_id"`
	UserAUsername string `gorm:"size:20" json:"user_a_username"`
	UserBUsername string `gorm:"size:20" json:"user_b_username"`
	ListingID     *int64 `gorm:"uniqueIndex:idx_thread_key;index" json:"listing_id"`

	CreatedAt time.Time `json:"created_at"`
}

// HasMember reports whether identity is one of the two participants.
func (t *Thread) HasMember(identity string) bool {
	return t.UserAID == identity || t.UserBID == identity
}

// SlotUsername returns the display name stored for identity's participant
// slot. Messages denormalize from this field, not from a live profile
// lookup, so history stays stable under later renames.
func (t *Thread) SlotUsername(identity string) string {
	if t.UserAID == identity {
		return t.UserAUsername
	}
	return t.UserBUsername
}

// ThreadView is a thread annotated with the counterparty relative to the
// requesting identity.
type ThreadView struct {
	ID            int64     `json:"id"`
	ListingID     *int64    `json:"listing_id"`
	UserAID       string    `json:"user_a_id"`
	UserBID       string    `json:"user_b_id"`
	UserAUsername string    `json:"user_a_username"`
	UserBUsername string    `json:"user_b_username"`
	OtherID       string    `json:"other_id"`
	OtherUsername string    `json:"other_username"`
	CreatedAt     time.Time `json:"created_at"`
}

// View computes the counterparty annotation for viewer.
func (t *Thread) View(viewer string) ThreadView {
	v := ThreadView{
		ID:            t.ID,
		ListingID:     t.ListingID,
		UserAID:       t.UserAID,
		UserBID:       t.UserBID,
		UserAUsername: t.UserAUsername,
		UserBUsername: t.UserBUsername,
		CreatedAt:     t.CreatedAt,
	}
	if t.UserAID == viewer {
		v.OtherID, v.OtherUsername = t.UserBID, t.UserBUsername
	} else {
		v.OtherID, v.OtherUsername = t.UserAID, t.UserAUsername
	}
	return v
}

// OrderPair returns the two identities in canonical order, lower first.
func OrderPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

// ThreadMessage is one message inside a thread. Append-only, visible only to
// the thread's participants. SenderUsername is copied from the thread's
// participant slot at write time.
type ThreadMessage struct {
	ID             int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ThreadID       int64  `gorm:"not null;index" json:"thread_id"`
	SenderID       string `gorm:"type:uuid;not null" json:"sender_id"`
	SenderUsername string `gorm:"size:20" json:"sender_username"`
	Content        string `gorm:"size:1000;not null" json:"content"`

	CreatedAt time.Time `json:"created_at"`
}
