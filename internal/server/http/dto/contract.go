package dto

import "time"

// ContractResponse describes one contract in API responses.
type ContractResponse struct {
	Number        string     `json:"number"`
	CategoryID    int64      `json:"category_id"`
	StorageUnitID int64      `json:"storage_unit_id"`
	StartDate     string     `json:"start_date"`
	EndDate       *string    `json:"end_date,omitempty"`
	SignedAt      *time.Time `json:"signed_at,omitempty"`
	TerminatedAt  *time.Time `json:"terminated_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}
