package model

import "time"

// StorageUnavailability is a landlord-declared blackout window on one
// unit, independent of any order or contract. It is always consulted by
// the claim ledger; marking the unit MANUALLY_UNAVAILABLE is a separate,
// explicit step.
type StorageUnavailability struct {
	ID            int64
	StorageUnitID int64
	Period        DateRange
	Reason        string
	CreatedAt     time.Time
}
