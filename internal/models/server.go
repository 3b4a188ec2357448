package models

import "time"

// Server is a game server listed on the site. ExternalID is the server's id in
// the status API and stays unique even after the row is deactivated.
type Server struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ExternalID  string    `gorm:"size:64;not null;uniqueIndex" json:"external_id"`
	DisplayName string    `gorm:"size:255;not null" json:"display_name"`
	GameTitle   *string   `gorm:"size:100" json:"game_title"`
	Region      *string   `gorm:"size:100" json:"region"`
	Active      bool      `gorm:"not null;index" json:"active"`
	SortOrder   int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
