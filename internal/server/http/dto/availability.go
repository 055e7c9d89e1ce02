package dto

// AvailabilityResponse reports category capacity for a rental period.
type AvailabilityResponse struct {
	CategoryID int64   `json:"category_id"`
	StartDate  string  `json:"start_date"`
	EndDate    *string `json:"end_date,omitempty"`
	Available  int     `json:"available"`
}
