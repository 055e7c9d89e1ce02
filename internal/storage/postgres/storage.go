package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	domainErrors "github.com/veresko/boxroom/internal/domain/errors"
	"github.com/veresko/boxroom/internal/domain/model"
	"github.com/veresko/boxroom/internal/domain/repository"
)

// querier is the subset of pgx shared by the pool and a transaction, so
// one repository implementation serves both.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pgxPool is the pgxpool surface the storage needs. pgxmock satisfies
// it for tests.
type pgxPool interface {
	querier
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository factory backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	p, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: p, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		p.Close()
		return nil, err
	}

	return storage, nil
}

// NewWithPool wraps an existing pool without schema initialization.
func NewWithPool(p pgxPool, logger *slog.Logger) *Storage {
	return &Storage{pool: p, logger: logger}
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Storages() repository.StorageRepository {
	return &storageRepository{db: s.pool}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{db: s.pool}
}

func (s *Storage) Contracts() repository.ContractRepository {
	return &contractRepository{db: s.pool}
}

func (s *Storage) Unavailabilities() repository.UnavailabilityRepository {
	return &unavailabilityRepository{db: s.pool}
}

func (s *Storage) Events() repository.EventRepository {
	return &eventRepository{db: s.pool}
}

// WithinTransaction runs fn with a factory whose repositories share one
// transaction.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(repository.Factory) error) (err error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(&txFactory{db: tx})
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}

// txFactory is the repository factory bound to one open transaction.
type txFactory struct {
	db querier
}

func (f *txFactory) Storages() repository.StorageRepository {
	return &storageRepository{db: f.db}
}

func (f *txFactory) Orders() repository.OrderRepository {
	return &orderRepository{db: f.db}
}

func (f *txFactory) Contracts() repository.ContractRepository {
	return &contractRepository{db: f.db}
}

func (f *txFactory) Unavailabilities() repository.UnavailabilityRepository {
	return &unavailabilityRepository{db: f.db}
}

func (f *txFactory) Events() repository.EventRepository {
	return &eventRepository{db: f.db}
}

// WithinTransaction inside an open transaction reuses it.
func (f *txFactory) WithinTransaction(_ context.Context, fn func(repository.Factory) error) error {
	return fn(f)
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS storage_categories (
            id BIGSERIAL PRIMARY KEY,
            place TEXT NOT NULL,
            name TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            UNIQUE (place, name)
        )`,
		`CREATE TABLE IF NOT EXISTS storage_units (
            id BIGSERIAL PRIMARY KEY,
            category_id BIGINT NOT NULL REFERENCES storage_categories(id),
            number TEXT NOT NULL,
            status TEXT NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            UNIQUE (category_id, number)
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id BIGSERIAL PRIMARY KEY,
            reference TEXT UNIQUE NOT NULL,
            user_id BIGINT NOT NULL,
            storage_unit_id BIGINT NOT NULL REFERENCES storage_units(id),
            category_id BIGINT NOT NULL REFERENCES storage_categories(id),
            status TEXT NOT NULL,
            start_date DATE NOT NULL,
            end_date DATE,
            price NUMERIC(12,2) NOT NULL,
            currency TEXT NOT NULL,
            expires_at TIMESTAMPTZ NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS contracts (
            id BIGSERIAL PRIMARY KEY,
            number TEXT UNIQUE NOT NULL,
            order_id BIGINT NOT NULL REFERENCES orders(id),
            user_id BIGINT NOT NULL,
            storage_unit_id BIGINT NOT NULL REFERENCES storage_units(id),
            category_id BIGINT NOT NULL REFERENCES storage_categories(id),
            start_date DATE NOT NULL,
            end_date DATE,
            signed_at TIMESTAMPTZ,
            terminated_at TIMESTAMPTZ,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS storage_unavailabilities (
            id BIGSERIAL PRIMARY KEY,
            storage_unit_id BIGINT NOT NULL REFERENCES storage_units(id),
            start_date DATE NOT NULL,
            end_date DATE,
            reason TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS events (
            id BIGSERIAL PRIMARY KEY,
            kind TEXT NOT NULL,
            occurred_at TIMESTAMPTZ NOT NULL,
            payload JSONB NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_units_category ON storage_units(category_id, number)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_unit ON orders(storage_unit_id) WHERE status NOT IN ('CANCELLED', 'EXPIRED')`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_expiry ON orders(expires_at) WHERE status NOT IN ('PAID', 'COMPLETED', 'CANCELLED', 'EXPIRED')`,
		`CREATE INDEX IF NOT EXISTS idx_contracts_unit ON contracts(storage_unit_id) WHERE terminated_at IS NULL`,
		`CREATE INDEX IF NOT EXISTS idx_contracts_user ON contracts(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_windows_unit ON storage_unavailabilities(storage_unit_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// rangeEndArg maps an open range end to SQL NULL.
func rangeEndArg(r model.DateRange) any {
	if d, ok := r.End.Date(); ok {
		return d
	}
	return nil
}

func makeRange(start time.Time, end *time.Time) model.DateRange {
	if end != nil {
		return model.DateRange{Start: model.Day(start), End: model.EndOn(*end)}
	}
	return model.DateRange{Start: model.Day(start), End: model.Unbounded()}
}

// --- StorageRepository implementation ---

type storageRepository struct {
	db querier
}

const unitColumns = `id, category_id, number, status, updated_at`

func (r *storageRepository) CreateCategory(ctx context.Context, category *model.StorageCategory) (*model.StorageCategory, error) {
	const query = `INSERT INTO storage_categories (place, name, created_at) VALUES ($1, $2, $3) RETURNING id`
	err := r.db.QueryRow(ctx, query, category.Place, category.Name, category.CreatedAt).Scan(&category.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return category, nil
}

func (r *storageRepository) GetCategory(ctx context.Context, id int64) (*model.StorageCategory, error) {
	const query = `SELECT id, place, name, created_at FROM storage_categories WHERE id=$1`
	var c model.StorageCategory
	err := r.db.QueryRow(ctx, query, id).Scan(&c.ID, &c.Place, &c.Name, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *storageRepository) CreateUnit(ctx context.Context, unit *model.StorageUnit) (*model.StorageUnit, error) {
	const query = `INSERT INTO storage_units (category_id, number, status, updated_at) VALUES ($1, $2, $3, $4) RETURNING id`
	err := r.db.QueryRow(ctx, query, unit.CategoryID, unit.Number, unit.Status, unit.UpdatedAt).Scan(&unit.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return unit, nil
}

func (r *storageRepository) GetUnit(ctx context.Context, id int64) (*model.StorageUnit, error) {
	query := `SELECT ` + unitColumns + ` FROM storage_units WHERE id=$1`
	var u model.StorageUnit
	err := r.db.QueryRow(ctx, query, id).Scan(&u.ID, &u.CategoryID, &u.Number, &u.Status, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *storageRepository) ListUnitsByCategory(ctx context.Context, categoryID int64) ([]model.StorageUnit, error) {
	query := `SELECT ` + unitColumns + ` FROM storage_units WHERE category_id=$1 ORDER BY number`
	return r.listUnits(ctx, query, categoryID)
}

func (r *storageRepository) LockUnitsByCategory(ctx context.Context, categoryID int64) ([]model.StorageUnit, error) {
	query := `SELECT ` + unitColumns + ` FROM storage_units WHERE category_id=$1 ORDER BY number FOR UPDATE`
	return r.listUnits(ctx, query, categoryID)
}

func (r *storageRepository) listUnits(ctx context.Context, query string, categoryID int64) ([]model.StorageUnit, error) {
	rows, err := r.db.Query(ctx, query, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.StorageUnit
	for rows.Next() {
		var u model.StorageUnit
		if err := rows.Scan(&u.ID, &u.CategoryID, &u.Number, &u.Status, &u.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *storageRepository) UpdateUnitStatus(ctx context.Context, unitID int64, status model.StorageStatus, updatedAt time.Time) error {
	const query = `UPDATE storage_units SET status=$1, updated_at=$2 WHERE id=$3`
	tag, err := r.db.Exec(ctx, query, status, updatedAt, unitID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *storageRepository) DeleteUnit(ctx context.Context, unitID int64) error {
	const query = `DELETE FROM storage_units WHERE id=$1`
	tag, err := r.db.Exec(ctx, query, unitID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// --- OrderRepository implementation ---

type orderRepository struct {
	db querier
}

const orderColumns = `id, reference, user_id, storage_unit_id, category_id, status,
                      start_date, end_date, price::text, currency, expires_at, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		o     model.Order
		start time.Time
		end   *time.Time
		price string
	)
	err := row.Scan(&o.ID, &o.Reference, &o.UserID, &o.StorageUnitID, &o.CategoryID, &o.Status,
		&start, &end, &price, &o.Currency, &o.ExpiresAt, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.Period = makeRange(start, end)
	p, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("parse price: %w", err)
	}
	o.Price = p
	return &o, nil
}

func (r *orderRepository) collectOrders(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	const query = `INSERT INTO orders (reference, user_id, storage_unit_id, category_id, status,
                       start_date, end_date, price, currency, expires_at, created_at, updated_at)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
                   RETURNING id`
	err := r.db.QueryRow(ctx, query,
		order.Reference, order.UserID, order.StorageUnitID, order.CategoryID, order.Status,
		order.Period.Start, rangeEndArg(order.Period), order.Price.String(), order.Currency,
		order.ExpiresAt, order.CreatedAt, order.UpdatedAt).Scan(&order.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) GetByReference(ctx context.Context, reference string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE reference=$1`
	order, err := scanOrder(r.db.QueryRow(ctx, query, reference))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id=$1 ORDER BY created_at DESC`
	return r.collectOrders(ctx, query, userID)
}

func (r *orderRepository) ListOverlapping(ctx context.Context, unitID int64, period model.DateRange, excludeOrderID int64) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + `
              FROM orders
              WHERE storage_unit_id=$1
                AND id<>$4
                AND status NOT IN ('CANCELLED', 'EXPIRED')
                AND start_date <= COALESCE($3::date, 'infinity'::date)
                AND COALESCE(end_date, 'infinity'::date) >= $2`
	return r.collectOrders(ctx, query, unitID, period.Start, rangeEndArg(period), excludeOrderID)
}

func (r *orderRepository) ListBindingByCategory(ctx context.Context, categoryID int64) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + `
              FROM orders
              WHERE category_id=$1 AND status NOT IN ('CANCELLED', 'EXPIRED')`
	return r.collectOrders(ctx, query, categoryID)
}

func (r *orderRepository) SelectExpiredBatch(ctx context.Context, now time.Time, limit int) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + `
              FROM orders
              WHERE expires_at < $1
                AND status NOT IN ('PAID', 'COMPLETED', 'CANCELLED', 'EXPIRED')
              ORDER BY expires_at
              LIMIT $2
              FOR UPDATE SKIP LOCKED`
	return r.collectOrders(ctx, query, now, limit)
}

func (r *orderRepository) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus, updatedAt time.Time) error {
	const query = `UPDATE orders SET status=$1, updated_at=$2 WHERE id=$3`
	tag, err := r.db.Exec(ctx, query, status, updatedAt, orderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// --- ContractRepository implementation ---

type contractRepository struct {
	db querier
}

const contractColumns = `id, number, order_id, user_id, storage_unit_id, category_id,
                         start_date, end_date, signed_at, terminated_at, created_at`

func scanContract(row pgx.Row) (*model.Contract, error) {
	var (
		c     model.Contract
		start time.Time
		end   *time.Time
	)
	err := row.Scan(&c.ID, &c.Number, &c.OrderID, &c.UserID, &c.StorageUnitID, &c.CategoryID,
		&start, &end, &c.SignedAt, &c.TerminatedAt, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	c.Period = makeRange(start, end)
	return &c, nil
}

func (r *contractRepository) collectContracts(ctx context.Context, query string, args ...any) ([]model.Contract, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *contractRepository) Create(ctx context.Context, contract *model.Contract) (*model.Contract, error) {
	const query = `INSERT INTO contracts (number, order_id, user_id, storage_unit_id, category_id,
                       start_date, end_date, created_at)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
                   RETURNING id`
	err := r.db.QueryRow(ctx, query,
		contract.Number, contract.OrderID, contract.UserID, contract.StorageUnitID, contract.CategoryID,
		contract.Period.Start, rangeEndArg(contract.Period), contract.CreatedAt).Scan(&contract.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return contract, nil
}

func (r *contractRepository) GetByNumber(ctx context.Context, number string) (*model.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts WHERE number=$1`
	contract, err := scanContract(r.db.QueryRow(ctx, query, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return contract, nil
}

func (r *contractRepository) ListByUser(ctx context.Context, userID int64) ([]model.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts WHERE user_id=$1 ORDER BY created_at DESC`
	return r.collectContracts(ctx, query, userID)
}

func (r *contractRepository) ListOverlapping(ctx context.Context, unitID int64, period model.DateRange) ([]model.Contract, error) {
	query := `SELECT ` + contractColumns + `
              FROM contracts
              WHERE storage_unit_id=$1
                AND terminated_at IS NULL
                AND start_date <= COALESCE($3::date, 'infinity'::date)
                AND COALESCE(end_date, 'infinity'::date) >= $2`
	return r.collectContracts(ctx, query, unitID, period.Start, rangeEndArg(period))
}

func (r *contractRepository) ListActiveByCategory(ctx context.Context, categoryID int64, now time.Time) ([]model.Contract, error) {
	query := `SELECT ` + contractColumns + `
              FROM contracts
              WHERE category_id=$1
                AND terminated_at IS NULL
                AND COALESCE(end_date, 'infinity'::date) >= $2::date`
	return r.collectContracts(ctx, query, categoryID, model.Day(now))
}

func (r *contractRepository) ListActiveByUserAndCategory(ctx context.Context, userID, categoryID int64, now time.Time) ([]model.Contract, error) {
	query := `SELECT ` + contractColumns + `
              FROM contracts
              WHERE user_id=$1
                AND category_id=$2
                AND terminated_at IS NULL
                AND COALESCE(end_date, 'infinity'::date) >= $3::date`
	return r.collectContracts(ctx, query, userID, categoryID, model.Day(now))
}

func (r *contractRepository) SetSigned(ctx context.Context, contractID int64, signedAt time.Time) error {
	const query = `UPDATE contracts SET signed_at=$1 WHERE id=$2`
	tag, err := r.db.Exec(ctx, query, signedAt, contractID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *contractRepository) SetTerminated(ctx context.Context, contractID int64, terminatedAt time.Time) error {
	const query = `UPDATE contracts SET terminated_at=$1 WHERE id=$2`
	tag, err := r.db.Exec(ctx, query, terminatedAt, contractID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// --- UnavailabilityRepository implementation ---

type unavailabilityRepository struct {
	db querier
}

const windowColumns = `id, storage_unit_id, start_date, end_date, reason, created_at`

func (r *unavailabilityRepository) collectWindows(ctx context.Context, query string, args ...any) ([]model.StorageUnavailability, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.StorageUnavailability
	for rows.Next() {
		var (
			w     model.StorageUnavailability
			start time.Time
			end   *time.Time
		)
		if err := rows.Scan(&w.ID, &w.StorageUnitID, &start, &end, &w.Reason, &w.CreatedAt); err != nil {
			return nil, err
		}
		w.Period = makeRange(start, end)
		result = append(result, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *unavailabilityRepository) Create(ctx context.Context, window *model.StorageUnavailability) (*model.StorageUnavailability, error) {
	const query = `INSERT INTO storage_unavailabilities (storage_unit_id, start_date, end_date, reason, created_at)
                   VALUES ($1, $2, $3, $4, $5)
                   RETURNING id`
	err := r.db.QueryRow(ctx, query,
		window.StorageUnitID, window.Period.Start, rangeEndArg(window.Period),
		window.Reason, window.CreatedAt).Scan(&window.ID)
	if err != nil {
		return nil, err
	}
	return window, nil
}

func (r *unavailabilityRepository) ListOverlapping(ctx context.Context, unitID int64, period model.DateRange) ([]model.StorageUnavailability, error) {
	query := `SELECT ` + windowColumns + `
              FROM storage_unavailabilities
              WHERE storage_unit_id=$1
                AND start_date <= COALESCE($3::date, 'infinity'::date)
                AND COALESCE(end_date, 'infinity'::date) >= $2`
	return r.collectWindows(ctx, query, unitID, period.Start, rangeEndArg(period))
}

func (r *unavailabilityRepository) ListByCategory(ctx context.Context, categoryID int64) ([]model.StorageUnavailability, error) {
	query := `SELECT w.id, w.storage_unit_id, w.start_date, w.end_date, w.reason, w.created_at
              FROM storage_unavailabilities w
              JOIN storage_units u ON u.id = w.storage_unit_id
              WHERE u.category_id=$1`
	return r.collectWindows(ctx, query, categoryID)
}

func (r *unavailabilityRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM storage_unavailabilities WHERE id=$1`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// --- EventRepository implementation ---

type eventRepository struct {
	db querier
}

func (r *eventRepository) Append(ctx context.Context, events ...model.Event) error {
	const query = `INSERT INTO events (kind, occurred_at, payload) VALUES ($1, $2, $3)`
	for _, ev := range events {
		if _, err := r.db.Exec(ctx, query, ev.Kind, ev.OccurredAt, ev.Payload); err != nil {
			return err
		}
	}
	return nil
}
