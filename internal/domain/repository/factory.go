package repository

import "context"

// Factory describes access to the domain repositories. WithinTransaction
// yields a factory whose repositories share one transaction, so that
// assignment-then-reserve is atomic with respect to concurrent
// reservation attempts on the same category.
type Factory interface {
	Storages() StorageRepository
	Orders() OrderRepository
	Contracts() ContractRepository
	Unavailabilities() UnavailabilityRepository
	Events() EventRepository

	WithinTransaction(ctx context.Context, fn func(Factory) error) error
}
