package dto

// CreateAnnouncementRequest is the body of an announcement save. Start and
// end times are local date-time text in the site's time zone.
type CreateAnnouncementRequest struct {
	ServerID *int64  `json:"server_id"`
	Message  string  `json:"message"`
	Severity string  `json:"severity"`
	StartsAt *string `json:"starts_at"`
	EndsAt   *string `json:"ends_at"`
	Active   *bool   `json:"active"`
}
