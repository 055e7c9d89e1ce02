package usecase

import (
	"context"
	"time"

	"github.com/veresko/boxroom/internal/domain/model"
	"github.com/veresko/boxroom/internal/domain/repository"
)

// ContractUseCase manages the binding claims produced by completed
// orders.
type ContractUseCase struct {
	repos repository.Factory
	now   func() time.Time
}

// NewContractUseCase constructs ContractUseCase.
func NewContractUseCase(repos repository.Factory) *ContractUseCase {
	return &ContractUseCase{repos: repos, now: time.Now}
}

// GetByNumber fetches one contract.
func (u *ContractUseCase) GetByNumber(ctx context.Context, number string) (*model.Contract, error) {
	return u.repos.Contracts().GetByNumber(ctx, number)
}

// ListByUser returns the user's contracts.
func (u *ContractUseCase) ListByUser(ctx context.Context, userID int64) ([]model.Contract, error) {
	return u.repos.Contracts().ListByUser(ctx, userID)
}

// Sign records the tenant signature on the contract.
func (u *ContractUseCase) Sign(ctx context.Context, number string) (*model.Contract, error) {
	now := u.now()

	var signed *model.Contract
	err := u.repos.WithinTransaction(ctx, func(tx repository.Factory) error {
		contract, err := tx.Contracts().GetByNumber(ctx, number)
		if err != nil {
			return err
		}

		ev, err := contract.Sign(now)
		if err != nil {
			return err
		}
		if err := tx.Contracts().SetSigned(ctx, contract.ID, now); err != nil {
			return err
		}
		if err := tx.Events().Append(ctx, ev); err != nil {
			return err
		}
		signed = contract
		return nil
	})
	if err != nil {
		return nil, err
	}
	return signed, nil
}

// Terminate ends the contract and releases its storage unit back to
// AVAILABLE.
func (u *ContractUseCase) Terminate(ctx context.Context, number string) (*model.Contract, error) {
	now := u.now()

	var terminated *model.Contract
	err := u.repos.WithinTransaction(ctx, func(tx repository.Factory) error {
		contract, err := tx.Contracts().GetByNumber(ctx, number)
		if err != nil {
			return err
		}

		ev, err := contract.Terminate(now)
		if err != nil {
			return err
		}
		if err := tx.Contracts().SetTerminated(ctx, contract.ID, now); err != nil {
			return err
		}
		events := []model.Event{ev}

		released, err := releaseUnit(ctx, tx, contract.StorageUnitID, contract.OrderID, now)
		if err != nil {
			return err
		}
		events = append(events, released...)

		if err := tx.Events().Append(ctx, events...); err != nil {
			return err
		}
		terminated = contract
		return nil
	})
	if err != nil {
		return nil, err
	}
	return terminated, nil
}
