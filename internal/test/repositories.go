package test

import (
	"context"
	"sort"
	"sync"
	"time"

	domainErrors "github.com/veresko/boxroom/internal/domain/errors"
	"github.com/veresko/boxroom/internal/domain/model"
	"github.com/veresko/boxroom/internal/domain/repository"
)

// RepositoryFactory is an in-memory repository.Factory for tests. All
// overlap queries reuse the model's interval predicate, so use case
// tests run against the same arithmetic as production SQL.
type RepositoryFactory struct {
	mu sync.Mutex

	Categories   map[int64]*model.StorageCategory
	Units        []*model.StorageUnit
	OrderList    []*model.Order
	ContractList []*model.Contract
	Windows      []*model.StorageUnavailability
	EventLog     []model.Event

	// Err, when set, is returned by every repository call.
	Err error

	nextID int64
}

// NewRepositoryFactory constructs an empty in-memory factory.
func NewRepositoryFactory() *RepositoryFactory {
	return &RepositoryFactory{Categories: make(map[int64]*model.StorageCategory)}
}

// NextID hands out sequential identifiers.
func (f *RepositoryFactory) NextID() int64 {
	f.nextID++
	return f.nextID
}

// AddCategory seeds a category.
func (f *RepositoryFactory) AddCategory(place, name string) *model.StorageCategory {
	c := &model.StorageCategory{ID: f.NextID(), Place: place, Name: name}
	f.Categories[c.ID] = c
	return c
}

// AddUnit seeds a unit in the given category.
func (f *RepositoryFactory) AddUnit(categoryID int64, number string, status model.StorageStatus) *model.StorageUnit {
	u := &model.StorageUnit{ID: f.NextID(), CategoryID: categoryID, Number: number, Status: status}
	f.Units = append(f.Units, u)
	return u
}

// AddOrder seeds an order.
func (f *RepositoryFactory) AddOrder(o model.Order) *model.Order {
	o.ID = f.NextID()
	stored := o
	f.OrderList = append(f.OrderList, &stored)
	return &stored
}

// AddContract seeds a contract.
func (f *RepositoryFactory) AddContract(c model.Contract) *model.Contract {
	c.ID = f.NextID()
	stored := c
	f.ContractList = append(f.ContractList, &stored)
	return &stored
}

// AddWindow seeds a blackout window.
func (f *RepositoryFactory) AddWindow(unitID int64, period model.DateRange) *model.StorageUnavailability {
	w := &model.StorageUnavailability{ID: f.NextID(), StorageUnitID: unitID, Period: period}
	f.Windows = append(f.Windows, w)
	return w
}

func (f *RepositoryFactory) Storages() repository.StorageRepository {
	return &storageRepositoryStub{f}
}

func (f *RepositoryFactory) Orders() repository.OrderRepository {
	return &orderRepositoryStub{f}
}

func (f *RepositoryFactory) Contracts() repository.ContractRepository {
	return &contractRepositoryStub{f}
}

func (f *RepositoryFactory) Unavailabilities() repository.UnavailabilityRepository {
	return &unavailabilityRepositoryStub{f}
}

func (f *RepositoryFactory) Events() repository.EventRepository {
	return &eventRepositoryStub{f}
}

func (f *RepositoryFactory) WithinTransaction(ctx context.Context, fn func(repository.Factory) error) error {
	if f.Err != nil {
		return f.Err
	}
	return fn(f)
}

type storageRepositoryStub struct{ f *RepositoryFactory }
type orderRepositoryStub struct{ f *RepositoryFactory }
type contractRepositoryStub struct{ f *RepositoryFactory }
type unavailabilityRepositoryStub struct{ f *RepositoryFactory }
type eventRepositoryStub struct{ f *RepositoryFactory }

func (s *storageRepositoryStub) CreateCategory(_ context.Context, category *model.StorageCategory) (*model.StorageCategory, error) {
	f := s.f
	if f.Err != nil {
		return nil, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	category.ID = f.NextID()
	f.Categories[category.ID] = category
	return category, nil
}

func (s *storageRepositoryStub) GetCategory(_ context.Context, id int64) (*model.StorageCategory, error) {
	f := s.f
	if f.Err != nil {
		return nil, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.Categories[id]; ok {
		return c, nil
	}
	return nil, domainErrors.ErrNotFound
}

func (s *storageRepositoryStub) CreateUnit(_ context.Context, unit *model.StorageUnit) (*model.StorageUnit, error) {
	f := s.f
	if f.Err != nil {
		return nil, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	unit.ID = f.NextID()
	f.Units = append(f.Units, unit)
	return unit, nil
}

func (s *storageRepositoryStub) GetUnit(_ context.Context, id int64) (*model.StorageUnit, error) {
	f := s.f
	if f.Err != nil {
		return nil, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.Units {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (s *storageRepositoryStub) ListUnitsByCategory(_ context.Context, categoryID int64) ([]model.StorageUnit, error) {
	f := s.f
	if f.Err != nil {
		return nil, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var units []model.StorageUnit
	for _, u := range f.Units {
		if u.CategoryID == categoryID {
			units = append(units, *u)
		}
	}
	sort.Slice(units, func(i, j int) bool { return units[i].Number < units[j].Number })
	return units, nil
}

func (s *storageRepositoryStub) LockUnitsByCategory(ctx context.Context, categoryID int64) ([]model.StorageUnit, error) {
	return s.ListUnitsByCategory(ctx, categoryID)
}

func (s *storageRepositoryStub) UpdateUnitStatus(_ context.Context, unitID int64, status model.StorageStatus, updatedAt time.Time) error {
	f := s.f
	if f.Err != nil {
		return f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.Units {
		if u.ID == unitID {
			u.Status = status
			u.UpdatedAt = updatedAt
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

func (s *storageRepositoryStub) DeleteUnit(_ context.Context, unitID int64) error {
	f := s.f
	if f.Err != nil {
		return f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, u := range f.Units {
		if u.ID == unitID {
			f.Units = append(f.Units[:i], f.Units[i+1:]...)
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

func (s *orderRepositoryStub) Create(_ context.Context, order *model.Order) (*model.Order, error) {
	f := s.f
	if f.Err != nil {
		return nil, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	order.ID = f.NextID()
	f.OrderList = append(f.OrderList, order)
	return order, nil
}

func (s *orderRepositoryStub) GetByReference(_ context.Context, reference string) (*model.Order, error) {
	f := s.f
	if f.Err != nil {
		return nil, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.OrderList {
		if o.Reference == reference {
			return o, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (s *orderRepositoryStub) ListByUser(_ context.Context, userID int64) ([]model.Order, error) {
	f := s.f
	if f.Err != nil {
		return nil, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var orders []model.Order
	for _, o := range f.OrderList {
		if o.UserID == userID {
			orders = append(orders, *o)
		}
	}
	return orders, nil
}

func (s *orderRepositoryStub) ListOverlapping(_ context.Context, unitID int64, period model.DateRange, excludeOrderID int64) ([]model.Order, error) {
	f := s.f
	if f.Err != nil {
		return nil, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var orders []model.Order
	for _, o := range f.OrderList {
		if o.StorageUnitID != unitID || !o.Binds() || o.ID == excludeOrderID {
			continue
		}
		if o.Period.Overlaps(period) {
			orders = append(orders, *o)
		}
	}
	return orders, nil
}

func (s *orderRepositoryStub) ListBindingByCategory(_ context.Context, categoryID int64) ([]model.Order, error) {
	f := s.f
	if f.Err != nil {
		return nil, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var orders []model.Order
	for _, o := range f.OrderList {
		if o.CategoryID == categoryID && o.Binds() {
			orders = append(orders, *o)
		}
	}
	return orders, nil
}

func (s *orderRepositoryStub) SelectExpiredBatch(_ context.Context, now time.Time, limit int) ([]model.Order, error) {
	f := s.f
	if f.Err != nil {
		return nil, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var orders []model.Order
	for _, o := range f.OrderList {
		if o.IsExpired(now) {
			orders = append(orders, *o)
			if len(orders) == limit {
				break
			}
		}
	}
	return orders, nil
}

func (s *orderRepositoryStub) UpdateStatus(_ context.Context, orderID int64, status model.OrderStatus, updatedAt time.Time) error {
	f := s.f
	if f.Err != nil {
		return f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.OrderList {
		if o.ID == orderID {
			o.Status = status
			o.UpdatedAt = updatedAt
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

func (s *contractRepositoryStub) Create(_ context.Context, contract *model.Contract) (*model.Contract, error) {
	f := s.f
	if f.Err != nil {
		return nil, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	contract.ID = f.NextID()
	f.ContractList = append(f.ContractList, contract)
	return contract, nil
}

func (s *contractRepositoryStub) GetByNumber(_ context.Context, number string) (*model.Contract, error) {
	f := s.f
	if f.Err != nil {
		return nil, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.ContractList {
		if c.Number == number {
			return c, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (s *contractRepositoryStub) ListByUser(_ context.Context, userID int64) ([]model.Contract, error) {
	f := s.f
	if f.Err != nil {
		return nil, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var contracts []model.Contract
	for _, c := range f.ContractList {
		if c.UserID == userID {
			contracts = append(contracts, *c)
		}
	}
	return contracts, nil
}

func (s *contractRepositoryStub) ListOverlapping(_ context.Context, unitID int64, period model.DateRange) ([]model.Contract, error) {
	f := s.f
	if f.Err != nil {
		return nil, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var contracts []model.Contract
	for _, c := range f.ContractList {
		if c.StorageUnitID != unitID || c.TerminatedAt != nil {
			continue
		}
		if c.Period.Overlaps(period) {
			contracts = append(contracts, *c)
		}
	}
	return contracts, nil
}

func (s *contractRepositoryStub) ListActiveByCategory(_ context.Context, categoryID int64, now time.Time) ([]model.Contract, error) {
	f := s.f
	if f.Err != nil {
		return nil, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var contracts []model.Contract
	for _, c := range f.ContractList {
		if c.CategoryID == categoryID && c.IsActive(now) {
			contracts = append(contracts, *c)
		}
	}
	return contracts, nil
}

func (s *contractRepositoryStub) ListActiveByUserAndCategory(_ context.Context, userID, categoryID int64, now time.Time) ([]model.Contract, error) {
	f := s.f
	if f.Err != nil {
		return nil, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var contracts []model.Contract
	for _, c := range f.ContractList {
		if c.UserID == userID && c.CategoryID == categoryID && c.IsActive(now) {
			contracts = append(contracts, *c)
		}
	}
	return contracts, nil
}

func (s *contractRepositoryStub) SetSigned(_ context.Context, contractID int64, signedAt time.Time) error {
	f := s.f
	if f.Err != nil {
		return f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.ContractList {
		if c.ID == contractID {
			c.SignedAt = &signedAt
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

func (s *contractRepositoryStub) SetTerminated(_ context.Context, contractID int64, terminatedAt time.Time) error {
	f := s.f
	if f.Err != nil {
		return f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.ContractList {
		if c.ID == contractID {
			c.TerminatedAt = &terminatedAt
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

func (s *unavailabilityRepositoryStub) Create(_ context.Context, window *model.StorageUnavailability) (*model.StorageUnavailability, error) {
	f := s.f
	if f.Err != nil {
		return nil, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	window.ID = f.NextID()
	f.Windows = append(f.Windows, window)
	return window, nil
}

func (s *unavailabilityRepositoryStub) ListOverlapping(_ context.Context, unitID int64, period model.DateRange) ([]model.StorageUnavailability, error) {
	f := s.f
	if f.Err != nil {
		return nil, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var windows []model.StorageUnavailability
	for _, w := range f.Windows {
		if w.StorageUnitID == unitID && w.Period.Overlaps(period) {
			windows = append(windows, *w)
		}
	}
	return windows, nil
}

func (s *unavailabilityRepositoryStub) ListByCategory(_ context.Context, categoryID int64) ([]model.StorageUnavailability, error) {
	f := s.f
	if f.Err != nil {
		return nil, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	units := make(map[int64]bool)
	for _, u := range f.Units {
		if u.CategoryID == categoryID {
			units[u.ID] = true
		}
	}
	var windows []model.StorageUnavailability
	for _, w := range f.Windows {
		if units[w.StorageUnitID] {
			windows = append(windows, *w)
		}
	}
	return windows, nil
}

func (s *unavailabilityRepositoryStub) Delete(_ context.Context, id int64) error {
	f := s.f
	if f.Err != nil {
		return f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, w := range f.Windows {
		if w.ID == id {
			f.Windows = append(f.Windows[:i], f.Windows[i+1:]...)
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

func (s *eventRepositoryStub) Append(_ context.Context, events ...model.Event) error {
	f := s.f
	if f.Err != nil {
		return f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.EventLog = append(f.EventLog, events...)
	return nil
}
