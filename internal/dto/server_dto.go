package dto

// UpsertServerRequest creates or refreshes a server by external id. Omitted
// descriptive fields are filled from the status API when it answers.
type UpsertServerRequest struct {
	ExternalID  string  `json:"external_id"`
	DisplayName *string `json:"display_name"`
	GameTitle   *string `json:"game_title"`
	Region      *string `json:"region"`
	SortOrder   *int    `json:"sort_order"`
}
