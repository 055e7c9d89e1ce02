package model

import (
	"fmt"
	"time"

	domainErrors "github.com/veresko/boxroom/internal/domain/errors"
)

// StorageStatus describes the physical unit lifecycle.
type StorageStatus string

const (
	StorageStatusAvailable           StorageStatus = "AVAILABLE"
	StorageStatusReserved            StorageStatus = "RESERVED"
	StorageStatusOccupied            StorageStatus = "OCCUPIED"
	StorageStatusManuallyUnavailable StorageStatus = "MANUALLY_UNAVAILABLE"
)

// StorageCategory is a class of interchangeable units at a place.
// Units within a category are candidates for interchangeable assignment.
type StorageCategory struct {
	ID        int64
	Place     string
	Name      string
	CreatedAt time.Time
}

// StorageUnit is a concrete rentable box belonging to one category.
type StorageUnit struct {
	ID         int64
	CategoryID int64
	Number     string
	Status     StorageStatus
	UpdatedAt  time.Time
}

// Reserve moves the unit from AVAILABLE to RESERVED.
func (u *StorageUnit) Reserve(now time.Time) (Event, error) {
	if err := u.transition(StorageStatusReserved, now, StorageStatusAvailable); err != nil {
		return Event{}, err
	}
	return u.event(EventStorageReserved, now), nil
}

// Occupy moves the unit from RESERVED to OCCUPIED.
func (u *StorageUnit) Occupy(now time.Time) (Event, error) {
	if err := u.transition(StorageStatusOccupied, now, StorageStatusReserved); err != nil {
		return Event{}, err
	}
	return u.event(EventStorageOccupied, now), nil
}

// Release returns a reserved or occupied unit to AVAILABLE.
func (u *StorageUnit) Release(now time.Time) (Event, error) {
	if err := u.transition(StorageStatusAvailable, now, StorageStatusReserved, StorageStatusOccupied); err != nil {
		return Event{}, err
	}
	return u.event(EventStorageReleased, now), nil
}

// MarkUnavailable takes an available unit out of assignment candidacy.
func (u *StorageUnit) MarkUnavailable(now time.Time) (Event, error) {
	if err := u.transition(StorageStatusManuallyUnavailable, now, StorageStatusAvailable); err != nil {
		return Event{}, err
	}
	return u.event(EventStorageUnavailable, now), nil
}

// MarkAvailable returns a manually withheld unit to AVAILABLE.
func (u *StorageUnit) MarkAvailable(now time.Time) (Event, error) {
	if err := u.transition(StorageStatusAvailable, now, StorageStatusManuallyUnavailable); err != nil {
		return Event{}, err
	}
	return u.event(EventStorageAvailable, now), nil
}

// CanBeDeleted reports whether the unit carries no live claim state.
// Deletion is permitted from AVAILABLE and MANUALLY_UNAVAILABLE only.
func (u StorageUnit) CanBeDeleted() bool {
	return u.Status == StorageStatusAvailable || u.Status == StorageStatusManuallyUnavailable
}

func (u *StorageUnit) transition(to StorageStatus, now time.Time, from ...StorageStatus) error {
	for _, s := range from {
		if u.Status == s {
			u.Status = to
			u.UpdatedAt = now
			return nil
		}
	}
	return fmt.Errorf("%w: storage unit %s %s -> %s",
		domainErrors.ErrInvalidStateTransition, u.Number, u.Status, to)
}

func (u StorageUnit) event(kind EventKind, now time.Time) Event {
	return NewEvent(kind, now, map[string]any{
		"storage_unit_id": u.ID,
		"category_id":     u.CategoryID,
		"number":          u.Number,
		"status":          string(u.Status),
	})
}
