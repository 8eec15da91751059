package models

import "time"

// Listing is a classified-ad record. Append-only from the API's point of
// view: there is no update or delete action. Username is the owner's display
// name snapshotted at creation.
type Listing struct {
	ID          int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      string  `gorm:"type:uuid;not null;index" json:"user_id"`
	Username    string  `gorm:"size:20;not null;index" json:"username"`
	Title       string  `gorm:"size:120;not null" json:"title"`
	Address     string  `gorm:"size:200;not null" json:"address"`
	Price       float64 `gorm:"not null" json:"price"`
	Description string  `gorm:"size:2000;not null" json:"description"`
	ImageURL    *string `gorm:"size:1000" json:"image_url"`
	RegionCode  *string `gorm:"size:8;index" json:"region_code"`

	CreatedAt time.Time `json:"created_at"`
}

// ListingSummary is the public projection used by the list actions. It
// deliberately omits address and description.
type ListingSummary struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Title      string    `json:"title"`
	Price      float64   `json:"price"`
	ImageURL   *string   `json:"image_url"`
	RegionCode *string   `json:"region_code"`
	CreatedAt  time.Time `json:"created_at"`
}

// Summary projects the listing to its public view.
func (l *Listing) Summary() ListingSummary {
	return ListingSummary{
		ID:         l.ID,
		Username:   l.Username,
		Title:      l.Title,
		Price:      l.Price,
		ImageURL:   l.ImageURL,
		RegionCode: l.RegionCode,
		CreatedAt:  l.CreatedAt,
	}
}
