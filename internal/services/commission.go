package services

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/abrezinsky/lottoledger/internal/errors"
	"github.com/abrezinsky/lottoledger/internal/logger"
	"github.com/abrezinsky/lottoledger/internal/models"
	"github.com/abrezinsky/lottoledger/internal/repository"
)

// CommissionEngine aggregates wager figures over organizational subtrees.
// It never mutates anything and is safe for concurrent use.
type CommissionEngine struct {
	log   logger.Logger
	stats repository.WagerStatsReader
}

// NewCommissionEngine creates a CommissionEngine reading from stats
func NewCommissionEngine(log logger.Logger, stats repository.WagerStatsReader) *CommissionEngine {
	return &CommissionEngine{log: log.With("component", "commission"), stats: stats}
}

// boothSums holds per-booth stake and payout totals for one window
type boothSums struct {
	stakes  map[int64]decimal.Decimal
	payouts map[int64]decimal.Decimal
}

// NodeStats computes the figures for one node's whole subtree. A reversed
// window yields zero figures and no children.
func (e *CommissionEngine) NodeStats(ctx context.Context, h *Hierarchy, id int64, window models.DateWindow) (models.EntityStats, error) {
	entity, ok := h.Entity(id)
	if !ok {
		return models.EntityStats{}, errors.InvalidOperationf("unknown entity %d", id)
	}

	booths := h.BoothSet(id)
	sums, err := e.query(ctx, booths, window)
	if err != nil {
		return models.EntityStats{}, err
	}
	stats := computeStats(entity, booths, sums)
	if window.Empty() {
		stats.HasChildren = false
	}
	return stats, nil
}

// ChildStats computes the figures for each direct child of id, highest sales
// first. Ties keep directory order.
func (e *CommissionEngine) ChildStats(ctx context.Context, h *Hierarchy, id int64, window models.DateWindow) ([]models.EntityStats, error) {
	if _, ok := h.Entity(id); !ok {
		return nil, errors.InvalidOperationf("unknown entity %d", id)
	}
	children := h.Children(id)
	if len(children) == 0 || window.Empty() {
		return []models.EntityStats{}, nil
	}

	childBooths := make([][]int64, len(children))
	var all []int64
	for i, child := range children {
		childBooths[i] = h.BoothSet(child.ID)
		all = append(all, childBooths[i]...)
	}

	sums, err := e.query(ctx, all, window)
	if err != nil {
		return nil, err
	}

	out := make([]models.EntityStats, len(children))
	for i, child := range children {
		out[i] = computeStats(child, childBooths[i], sums)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Sales.GreaterThan(out[j].Sales)
	})
	return out, nil
}

// query fetches stake and payout sums for booths in parallel. An empty booth
// set or an empty window needs no store access.
func (e *CommissionEngine) query(ctx context.Context, booths []int64, window models.DateWindow) (boothSums, error) {
	sums := boothSums{
		stakes:  map[int64]decimal.Decimal{},
		payouts: map[int64]decimal.Decimal{},
	}
	if len(booths) == 0 || window.Empty() {
		return sums, nil
	}

	from, to := window.Start(), window.End()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stakes, err := e.stats.QueryStakes(gctx, booths, from, to)
		sums.stakes = stakes
		return err
	})
	g.Go(func() error {
		payouts, err := e.stats.QueryPayouts(gctx, booths, from, to)
		sums.payouts = payouts
		return err
	})
	if err := g.Wait(); err != nil {
		e.log.Warn("Wager query failed", "booths", len(booths), "window", window.Key(), "error", err)
		return boothSums{}, errors.DataUnavailable(err)
	}
	return sums, nil
}

// computeStats applies the commission and profit rules to one node. Profit is
// only paid to reseller tiers, and only on a positive balance. Commission is
// owed regardless of balance.
func computeStats(entity models.OrgEntity, booths []int64, sums boothSums) models.EntityStats {
	sales, prizes := decimal.Zero, decimal.Zero
	for _, b := range booths {
		if v, ok := sums.stakes[b]; ok {
			sales = sales.Add(v)
		}
		if v, ok := sums.payouts[b]; ok {
			prizes = prizes.Add(v)
		}
	}

	commission := sales.Mul(entity.SalesShare).Div(hundred)
	balance := sales.Sub(prizes).Sub(commission)
	profit := decimal.Zero
	if entity.Type.EarnsProfit() && balance.IsPositive() {
		profit = balance.Mul(entity.ProfitShare).Div(hundred)
	}

	return models.EntityStats{
		EntityID:    entity.ID,
		Name:        entity.Name,
		Type:        entity.Type,
		Active:      entity.Active,
		Sales:       sales,
		Prizes:      prizes,
		Commission:  commission,
		Balance:     balance,
		Profit:      profit,
		HasChildren: entity.Type != models.EntityBooth && len(booths) > 0,
	}
}
