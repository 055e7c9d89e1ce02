package dto

import "time"

// OrderCreateRequest describes a reservation request payload.
type OrderCreateRequest struct {
	CategoryID int64  `json:"category_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date,omitempty"`
}

// OrderResponse describes one order in API responses.
type OrderResponse struct {
	Reference     string    `json:"reference"`
	Status        string    `json:"status"`
	CategoryID    int64     `json:"category_id"`
	StorageUnitID int64     `json:"storage_unit_id"`
	StartDate     string    `json:"start_date"`
	EndDate       *string   `json:"end_date,omitempty"`
	Price         string    `json:"price"`
	Currency      string    `json:"currency"`
	ExpiresAt     time.Time `json:"expires_at"`
	CreatedAt     time.Time `json:"created_at"`
}
