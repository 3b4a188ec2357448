package models

import "time"

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// ParseSeverity never fails: anything outside the fixed set is info.
func ParseSeverity(s string) Severity {
	switch sev := Severity(s); sev {
	case SeverityInfo, SeveritySuccess, SeverityWarning, SeverityError:
		return sev
	default:
		return SeverityInfo
	}
}

// Announcement is a notice shown on the site. A nil ServerID makes it global.
// Removing the referenced server turns the announcement global instead of
// removing it.
type Announcement struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	ServerID  *uint      `gorm:"index" json:"server_id"`
	Server    *Server    `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	Message   string     `gorm:"type:text;not null" json:"message"`
	Severity  Severity   `gorm:"size:16;not null" json:"severity"`
	StartsAt  *time.Time `json:"starts_at"`
	EndsAt    *time.Time `json:"ends_at"`
	Active    bool       `gorm:"not null;index" json:"active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
