package models

import "time"

// Profile is the application-level user record, keyed by the identity the
// auth provider returns for a verified token. It is created lazily on first
// authenticated access and never deleted.
type Profile struct {
	// ID is the opaque auth identity (Supabase user UUID).
	ID string `gorm:"primaryKey;type:uuid" json:"id"`
	// Username is the unique display name. Nil until the user picks one.
	Username *string `gorm:"uniqueIndex;size:20" json:"username"`
	// Optional demographic fields.
	Age        *int    `json:"age"`
	Gender     *string `gorm:"size:30" json:"gender"`
	Address    *string `gorm:"size:500" json:"address"`
	Occupation *string `gorm:"size:500" json:"occupation"`
	Motivation *string `gorm:"size:500" json:"motivation"`

	CreatedAt time.Time `json:"-"`
}

// UsernameOrEmpty avoids nil checks at denormalization points.
func (p *Profile) UsernameOrEmpty() string {
	if p.Username == nil {
		return ""
	}
	return *p.Username
}
