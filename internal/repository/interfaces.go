//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/abrezinsky/lottoledger/internal/repository WagerStatsReader,EntityLister

package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/abrezinsky/lottoledger/internal/models"
)

// WagerStatsReader answers the per-booth sums the commission engine aggregates.
// Windows are half-open: placed_at in [from, to).
type WagerStatsReader interface {
	QueryStakes(ctx context.Context, boothIDs []int64, from, to time.Time) (map[int64]decimal.Decimal, error)
	QueryPayouts(ctx context.Context, boothIDs []int64, from, to time.Time) (map[int64]decimal.Decimal, error)
}

// WagerRepository defines wager data operations
type WagerRepository interface {
	WagerStatsReader
	RecordWager(ctx context.Context, w *models.Wager) (int64, error)
	GetWagerByTicket(ctx context.Context, ticket string) (*models.Wager, error)
	ListWagersByBooth(ctx context.Context, boothID int64, limit int) ([]models.Wager, error)
	SettleWager(ctx context.Context, ticket string, status models.WagerStatus, payout decimal.Decimal, settledAt time.Time, credits []models.PotAmount) error
	MarkWagerPaid(ctx context.Context, ticket string) error
}

// EntityLister is the read-only org directory the hierarchy is built from
type EntityLister interface {
	ListEntities(ctx context.Context) ([]models.OrgEntity, error)
}

// EntityRepository defines organizational entity data operations
type EntityRepository interface {
	EntityLister
	ListChildEntities(ctx context.Context, parentID int64) ([]models.OrgEntity, error)
	GetEntity(ctx context.Context, id int64) (*models.OrgEntity, error)
	CreateEntity(ctx context.Context, e *models.OrgEntity) (int64, error)
	UpdateEntity(ctx context.Context, e *models.OrgEntity) error
	SetEntityActive(ctx context.Context, id int64, active bool) error
}

// LedgerRepository defines pot balance and audit trail operations
type LedgerRepository interface {
	SeedPots(ctx context.Context, pots []models.Pot) error
	ListPots(ctx context.Context) ([]models.Pot, error)
	LedgerSnapshot(ctx context.Context) (*models.LedgerSnapshot, error)
	CreditPots(ctx context.Context, credits []models.PotAmount) error
	TransferFunds(ctx context.Context, t *models.Transfer) error
	WithdrawFunds(ctx context.Context, w *models.Withdrawal) error
	DeductPrizeFund(ctx context.Context, s *models.DrawSettlement) error
	ListTransfers(ctx context.Context, limit int) ([]models.Transfer, error)
	ListWithdrawals(ctx context.Context, limit int) ([]models.Withdrawal, error)
	ListDrawSettlements(ctx context.Context, limit int) ([]models.DrawSettlement, error)
}

// FullRepository combines all repository interfaces
// Use this when a service needs access to multiple domains
type FullRepository interface {
	WagerRepository
	EntityRepository
	LedgerRepository
	Ping(ctx context.Context) error
}

// Ensure Repository implements all interfaces
var _ FullRepository = (*Repository)(nil)
