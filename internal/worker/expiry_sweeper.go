package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// OrderExpirer exposes the subset of application functionality required
// by the sweeper.
type OrderExpirer interface {
	ExpireOrders(ctx context.Context, limit int) (int, error)
}

// ExpirySweeper periodically expires overdue unpaid orders and releases
// their reservations. Batches are claimed with row-level skip locking,
// so multiple workers can sweep the same backlog concurrently.
type ExpirySweeper struct {
	facade    OrderExpirer
	interval  time.Duration
	batchSize int
	workers   int
	logger    *slog.Logger

	jobs   chan struct{}
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewExpirySweeper constructs the sweeper worker pool.
func NewExpirySweeper(facade OrderExpirer, interval time.Duration, batchSize, workers int, logger *slog.Logger) *ExpirySweeper {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &ExpirySweeper{
		facade:    facade,
		interval:  interval,
		batchSize: batchSize,
		workers:   workers,
		logger:    logger,
		jobs:      make(chan struct{}, workers),
	}
}

// Start launches background sweeping.
func (p *ExpirySweeper) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(runCtx)
	}

	p.wg.Add(1)
	go p.dispatch(runCtx)
}

// Stop waits for all workers to finish. Safe to call without Start.
func (p *ExpirySweeper) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *ExpirySweeper) dispatch(ctx context.Context) {
	defer p.wg.Done()
	defer close(p.jobs)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			select {
			case p.jobs <- struct{}{}:
			default:
				// Previous sweep still running, skip the tick.
			}
		}
	}
}

func (p *ExpirySweeper) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-p.jobs:
			if !ok {
				return
			}
			p.sweep(ctx)
		}
	}
}

// sweep drains the overdue backlog batch by batch until a short batch
// signals there is nothing left to expire.
func (p *ExpirySweeper) sweep(ctx context.Context) {
	for {
		expired, err := p.facade.ExpireOrders(ctx, p.batchSize)
		if err != nil {
			p.logger.Error("order expiry sweep failed", slog.String("error", err.Error()))
			return
		}
		if expired > 0 {
			p.logger.Info("expired overdue orders", slog.Int("count", expired))
		}
		if expired < p.batchSize {
			return
		}
	}
}
