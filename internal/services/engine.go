package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/abrezinsky/lottoledger/internal/cache"
	"github.com/abrezinsky/lottoledger/internal/errors"
	"github.com/abrezinsky/lottoledger/internal/logger"
	"github.com/abrezinsky/lottoledger/internal/models"
)

// AggregationCache memoizes node and child figures per session and window.
// Implementations only ever return values stored under the requested window.
type AggregationCache interface {
	Stats(ctx context.Context, session string, window models.DateWindow, nodeID int64) (models.EntityStats, cache.Hit)
	PutStats(ctx context.Context, session string, window models.DateWindow, stats models.EntityStats)
	Children(ctx context.Context, session string, window models.DateWindow, nodeID int64) ([]models.EntityStats, cache.Hit)
	PutChildren(ctx context.Context, session string, window models.DateWindow, nodeID int64, children []models.EntityStats)
	Invalidate(ctx context.Context)
}

// Engine is the back-office entry point: fund movements go to the ledger,
// subtree figures come from the commission engine through the cache.
//
// Aggregation failures never fail hard. When the wager store cannot be read,
// the last cached figures are returned flagged stale together with a
// DataUnavailable error; with nothing cached the result is empty.
type Engine struct {
	log        logger.Logger
	ledger     *LedgerService
	hierarchy  *HierarchyResolver
	commission *CommissionEngine
	cache      AggregationCache
}

// NewEngine wires the ledger, hierarchy, commission engine and cache together
func NewEngine(log logger.Logger, ledger *LedgerService, hierarchy *HierarchyResolver, commission *CommissionEngine, cache AggregationCache) *Engine {
	return &Engine{
		log:        log.With("component", "engine"),
		ledger:     ledger,
		hierarchy:  hierarchy,
		commission: commission,
		cache:      cache,
	}
}

// DistributeWager splits a settled stake across the pots
func (e *Engine) DistributeWager(ctx context.Context, stake decimal.Decimal) ([]models.PotAmount, error) {
	return e.ledger.Distribute(ctx, stake)
}

// TransferFunds moves amount between two pots
func (e *Engine) TransferFunds(ctx context.Context, from, to models.PotName, amount decimal.Decimal) (*models.Transfer, error) {
	return e.ledger.Transfer(ctx, from, to, amount)
}

// WithdrawFunds removes amount from a pot
func (e *Engine) WithdrawFunds(ctx context.Context, from models.PotName, amount decimal.Decimal, note string) (*models.Withdrawal, error) {
	return e.ledger.Withdraw(ctx, from, amount, note)
}

// SettleDraw pays a draw's winners out of the prize fund
func (e *Engine) SettleDraw(ctx context.Context, drawRef string, totalPayout decimal.Decimal) (*models.DrawSettlement, error) {
	return e.ledger.DeductPayout(ctx, drawRef, totalPayout)
}

// Snapshot returns the current pot balances
func (e *Engine) Snapshot(ctx context.Context) (*models.LedgerSnapshot, error) {
	return e.ledger.Snapshot(ctx)
}

// GetStats computes a node's subtree figures for window. The result is
// always recomputed; the cached copy only backs up a failed read.
func (e *Engine) GetStats(ctx context.Context, session string, nodeID int64, window models.DateWindow) (models.EntityStats, error) {
	cached, hit := e.cache.Stats(ctx, session, window, nodeID)
	found := hit != cache.Miss

	h, err := e.hierarchy.Current(ctx)
	if err != nil {
		return e.staleStats(cached, found, nodeID, err)
	}

	stats, err := e.commission.NodeStats(ctx, h, nodeID, window)
	if err != nil {
		if !errors.Is(err, errors.ErrDataUnavailable) {
			return models.EntityStats{}, err
		}
		return e.staleStats(cached, found, nodeID, err)
	}

	e.cache.PutStats(ctx, session, window, stats)
	return stats, nil
}

// ExpandChildren returns one level of the tree below nodeID, highest sales
// first. A repeated expansion under the same window is served from the cache
// unless refresh is set.
func (e *Engine) ExpandChildren(ctx context.Context, session string, nodeID int64, window models.DateWindow, refresh bool) (*models.ChildrenStats, error) {
	result := &models.ChildrenStats{NodeID: nodeID, Window: window.Key(), Children: []models.EntityStats{}}

	cached, hit := e.cache.Children(ctx, session, window, nodeID)
	if hit == cache.Fresh && !refresh {
		result.Children = cached
		return result, nil
	}
	found := hit != cache.Miss

	h, err := e.hierarchy.Current(ctx)
	if err != nil {
		return e.staleChildren(result, cached, found, err)
	}

	children, err := e.commission.ChildStats(ctx, h, nodeID, window)
	if err != nil {
		if !errors.Is(err, errors.ErrDataUnavailable) {
			return nil, err
		}
		return e.staleChildren(result, cached, found, err)
	}

	e.cache.PutChildren(ctx, session, window, nodeID, children)
	result.Children = children
	return result, nil
}

// RefreshHierarchy rebuilds the tree index and marks every cached figure
// stale, since subtree membership may have changed. Stale figures are
// recomputed on the next request and still back the fallback if the wager
// store is unavailable.
func (e *Engine) RefreshHierarchy(ctx context.Context) error {
	if _, err := e.hierarchy.Refresh(ctx); err != nil {
		return err
	}
	e.cache.Invalidate(ctx)
	return nil
}

func (e *Engine) staleStats(cached models.EntityStats, hit bool, nodeID int64, err error) (models.EntityStats, error) {
	e.log.Warn("Serving stale stats", "node", nodeID, "cached", hit, "error", err)
	if !hit {
		return models.EntityStats{EntityID: nodeID, Stale: true}, err
	}
	cached.Stale = true
	return cached, err
}

func (e *Engine) staleChildren(result *models.ChildrenStats, cached []models.EntityStats, hit bool, err error) (*models.ChildrenStats, error) {
	e.log.Warn("Serving stale children", "node", result.NodeID, "cached", hit, "error", err)
	result.Stale = true
	if hit {
		for i := range cached {
			cached[i].Stale = true
		}
		result.Children = cached
	}
	return result, err
}
