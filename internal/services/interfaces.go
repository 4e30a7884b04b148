package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/abrezinsky/lottoledger/internal/models"
)

// LedgerServicer defines the interface for pot ledger operations
type LedgerServicer interface {
	Pots() []models.Pot
	Split(stake decimal.Decimal) ([]models.PotAmount, error)
	Distribute(ctx context.Context, stake decimal.Decimal) ([]models.PotAmount, error)
	Transfer(ctx context.Context, from, to models.PotName, amount decimal.Decimal) (*models.Transfer, error)
	Withdraw(ctx context.Context, from models.PotName, amount decimal.Decimal, note string) (*models.Withdrawal, error)
	DeductPayout(ctx context.Context, drawRef string, amount decimal.Decimal) (*models.DrawSettlement, error)
	Snapshot(ctx context.Context) (*models.LedgerSnapshot, error)
	ListTransfers(ctx context.Context, limit int) ([]models.Transfer, error)
	ListWithdrawals(ctx context.Context, limit int) ([]models.Withdrawal, error)
	ListDrawSettlements(ctx context.Context, limit int) ([]models.DrawSettlement, error)
	Announce(ctx context.Context)
	SetBroadcaster(b Broadcaster)
}

// EntityServicer defines the interface for reseller tree operations
type EntityServicer interface {
	ListEntities(ctx context.Context) ([]models.OrgEntity, error)
	GetEntity(ctx context.Context, id int64) (*models.OrgEntity, error)
	CreateEntity(ctx context.Context, in Entity) (*models.OrgEntity, error)
	UpdateEntity(ctx context.Context, id int64, upd EntityUpdate) (*models.OrgEntity, error)
	SetActive(ctx context.Context, id int64, active bool) error
}

// WagerServicer defines the interface for ticket operations
type WagerServicer interface {
	PlaceWager(ctx context.Context, in Wager) (*models.Wager, error)
	GetWager(ctx context.Context, ticket string) (*models.Wager, error)
	ListBoothWagers(ctx context.Context, boothID int64, limit int) ([]models.Wager, error)
	SettleWager(ctx context.Context, ticket string, status models.WagerStatus, payout decimal.Decimal) (*models.Wager, error)
	MarkPaid(ctx context.Context, ticket string) (*models.Wager, error)
	TicketQR(ctx context.Context, ticket string) ([]byte, error)
}

// EngineServicer defines the back-office API consumed by the HTTP layer
type EngineServicer interface {
	DistributeWager(ctx context.Context, stake decimal.Decimal) ([]models.PotAmount, error)
	TransferFunds(ctx context.Context, from, to models.PotName, amount decimal.Decimal) (*models.Transfer, error)
	WithdrawFunds(ctx context.Context, from models.PotName, amount decimal.Decimal, note string) (*models.Withdrawal, error)
	SettleDraw(ctx context.Context, drawRef string, totalPayout decimal.Decimal) (*models.DrawSettlement, error)
	Snapshot(ctx context.Context) (*models.LedgerSnapshot, error)
	GetStats(ctx context.Context, session string, nodeID int64, window models.DateWindow) (models.EntityStats, error)
	ExpandChildren(ctx context.Context, session string, nodeID int64, window models.DateWindow, refresh bool) (*models.ChildrenStats, error)
	RefreshHierarchy(ctx context.Context) error
}

// Ensure concrete types implement interfaces
var (
	_ LedgerServicer     = (*LedgerService)(nil)
	_ EntityServicer     = (*EntityService)(nil)
	_ WagerServicer      = (*WagerService)(nil)
	_ EngineServicer     = (*Engine)(nil)
	_ HierarchyRefresher = (*Engine)(nil)
)
