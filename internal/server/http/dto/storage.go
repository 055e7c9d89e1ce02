package dto

// CategoryCreateRequest describes a new storage category.
type CategoryCreateRequest struct {
	Place string `json:"place"`
	Name  string `json:"name"`
}

// CategoryResponse describes one category in API responses.
type CategoryResponse struct {
	ID    int64  `json:"id"`
	Place string `json:"place"`
	Name  string `json:"name"`
}

// UnitCreateRequest describes a new storage unit within a category.
type UnitCreateRequest struct {
	Number string `json:"number"`
}

// UnitResponse describes one storage unit in API responses.
type UnitResponse struct {
	ID         int64  `json:"id"`
	CategoryID int64  `json:"category_id"`
	Number     string `json:"number"`
	Status     string `json:"status"`
}

// UnavailabilityRequest declares a blackout window on a unit. MarkUnit
// additionally moves the unit to MANUALLY_UNAVAILABLE.
type UnavailabilityRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date,omitempty"`
	Reason    string `json:"reason"`
	MarkUnit  bool   `json:"mark_unit"`
}

// UnavailabilityResponse describes one blackout window.
type UnavailabilityResponse struct {
	ID            int64   `json:"id"`
	StorageUnitID int64   `json:"storage_unit_id"`
	StartDate     string  `json:"start_date"`
	EndDate       *string `json:"end_date,omitempty"`
	Reason        string  `json:"reason"`
}
