package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/veresko/boxroom/internal/domain/model"
	"github.com/veresko/boxroom/internal/domain/repository"
)

// ForecastUseCase warns about contracts whose holder will have no
// same-category unit to move into when their own term ends.
type ForecastUseCase struct {
	repos repository.Factory
}

// NewForecastUseCase constructs ForecastUseCase.
func NewForecastUseCase(repos repository.Factory) *ForecastUseCase {
	return &ForecastUseCase{repos: repos}
}

// FindAtRiskContracts returns the currently active, date-bounded
// contracts of the category that are at risk: at the instant after the
// contract's end date, no other unit of the category is claim-free.
// Unlimited contracts are never at risk. Contracts expiring on the same
// day count as alternatives for each other. Results are ordered by end
// date ascending, ties in stable input order.
func (u *ForecastUseCase) FindAtRiskContracts(ctx context.Context, categoryID int64, now time.Time) ([]model.Contract, error) {
	units, err := u.repos.Storages().ListUnitsByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	contracts, err := u.repos.Contracts().ListActiveByCategory(ctx, categoryID, now)
	if err != nil {
		return nil, err
	}

	orders, err := u.repos.Orders().ListBindingByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	windows, err := u.repos.Unavailabilities().ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	candidates := make([]model.Contract, 0, len(contracts))
	for _, c := range contracts {
		if c.Bounded() {
			candidates = append(candidates, c)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		di, _ := candidates[i].Period.End.Date()
		dj, _ := candidates[j].Period.End.Date()
		return di.Before(dj)
	})

	var atRisk []model.Contract
	for _, c := range candidates {
		end, _ := c.Period.End.Date()
		moveIn := model.NextDay(end)
		if !hasAlternative(units, contracts, orders, windows, c, moveIn) {
			atRisk = append(atRisk, c)
		}
	}
	return atRisk, nil
}

// hasAlternative reports whether any unit other than the contract's own
// is free of claims on the move-in day, simulating the category's
// occupancy at the instant after the contract ends: claims ending
// on-or-before that instant have released their units, claims spanning
// past it still block.
func hasAlternative(units []model.StorageUnit, contracts []model.Contract, orders []model.Order, windows []model.StorageUnavailability, c model.Contract, moveIn time.Time) bool {
	for i := range units {
		u := &units[i]
		if u.ID == c.StorageUnitID || u.Status == model.StorageStatusManuallyUnavailable {
			continue
		}
		if unitClaimedOn(u.ID, contracts, orders, windows, moveIn) {
			continue
		}
		return true
	}
	return false
}

func unitClaimedOn(unitID int64, contracts []model.Contract, orders []model.Order, windows []model.StorageUnavailability, day time.Time) bool {
	for _, c := range contracts {
		if c.StorageUnitID == unitID && c.Period.Contains(day) {
			return true
		}
	}
	for _, o := range orders {
		if o.StorageUnitID == unitID && o.Period.Contains(day) {
			return true
		}
	}
	for _, w := range windows {
		if w.StorageUnitID == unitID && w.Period.Contains(day) {
			return true
		}
	}
	return false
}
