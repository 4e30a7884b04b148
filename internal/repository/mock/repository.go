package mock

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/abrezinsky/lottoledger/internal/models"
	"github.com/abrezinsky/lottoledger/internal/repository"
)

// Repository wraps a real repository and allows injecting errors for testing.
// This provides a flexible way to test error paths without complex database manipulation.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.QueryStakesError = errors.New("database is locked")
//	engine := services.NewEngine(log, mockRepo, ...)
//	_, err := engine.GetStats(ctx, "default", boothID, window)
//	// err will now carry the DataUnavailable kind
//
// Error fields may be set and cleared between calls to simulate a store
// that fails and recovers.
type Repository struct {
	repository.FullRepository

	// ===== Wager Errors =====
	QueryStakesError       error
	QueryPayoutsError      error
	RecordWagerError       error
	GetWagerByTicketError  error
	ListWagersByBoothError error
	SettleWagerError       error
	MarkWagerPaidError     error

	// ===== Entity Errors =====
	ListEntitiesError      error
	ListChildEntitiesError error
	GetEntityError         error
	CreateEntityError      error
	UpdateEntityError      error
	SetEntityActiveError   error

	// ===== Ledger Errors =====
	SeedPotsError            error
	ListPotsError            error
	LedgerSnapshotError      error
	CreditPotsError          error
	TransferFundsError       error
	WithdrawFundsError       error
	DeductPrizeFundError     error
	ListTransfersError       error
	ListWithdrawalsError     error
	ListDrawSettlementsError error

	PingError error

	queryStakesCalls atomic.Int64
}

// NewRepository creates a mock repository wrapping a real one
func NewRepository(real repository.FullRepository) *Repository {
	return &Repository{
		FullRepository: real,
	}
}

// QueryStakesCalls returns how many stake queries were attempted
func (m *Repository) QueryStakesCalls() int64 {
	return m.queryStakesCalls.Load()
}

// ===== Wager Methods =====

func (m *Repository) QueryStakes(ctx context.Context, boothIDs []int64, from, to time.Time) (map[int64]decimal.Decimal, error) {
	m.queryStakesCalls.Add(1)
	if m.QueryStakesError != nil {
		return nil, m.QueryStakesError
	}
	return m.FullRepository.QueryStakes(ctx, boothIDs, from, to)
}

func (m *Repository) QueryPayouts(ctx context.Context, boothIDs []int64, from, to time.Time) (map[int64]decimal.Decimal, error) {
	if m.QueryPayoutsError != nil {
		return nil, m.QueryPayoutsError
	}
	return m.FullRepository.QueryPayouts(ctx, boothIDs, from, to)
}

func (m *Repository) RecordWager(ctx context.Context, w *models.Wager) (int64, error) {
	if m.RecordWagerError != nil {
		return 0, m.RecordWagerError
	}
	return m.FullRepository.RecordWager(ctx, w)
}

func (m *Repository) GetWagerByTicket(ctx context.Context, ticket string) (*models.Wager, error) {
	if m.GetWagerByTicketError != nil {
		return nil, m.GetWagerByTicketError
	}
	return m.FullRepository.GetWagerByTicket(ctx, ticket)
}

func (m *Repository) ListWagersByBooth(ctx context.Context, boothID int64, limit int) ([]models.Wager, error) {
	if m.ListWagersByBoothError != nil {
		return nil, m.ListWagersByBoothError
	}
	return m.FullRepository.ListWagersByBooth(ctx, boothID, limit)
}

func (m *Repository) SettleWager(ctx context.Context, ticket string, status models.WagerStatus, payout decimal.Decimal, settledAt time.Time, credits []models.PotAmount) error {
	if m.SettleWagerError != nil {
		return m.SettleWagerError
	}
	return m.FullRepository.SettleWager(ctx, ticket, status, payout, settledAt, credits)
}

func (m *Repository) MarkWagerPaid(ctx context.Context, ticket string) error {
	if m.MarkWagerPaidError != nil {
		return m.MarkWagerPaidError
	}
	return m.FullRepository.MarkWagerPaid(ctx, ticket)
}

// ===== Entity Methods =====

func (m *Repository) ListEntities(ctx context.Context) ([]models.OrgEntity, error) {
	if m.ListEntitiesError != nil {
		return nil, m.ListEntitiesError
	}
	return m.FullRepository.ListEntities(ctx)
}

func (m *Repository) ListChildEntities(ctx context.Context, parentID int64) ([]models.OrgEntity, error) {
	if m.ListChildEntitiesError != nil {
		return nil, m.ListChildEntitiesError
	}
	return m.FullRepository.ListChildEntities(ctx, parentID)
}

func (m *Repository) GetEntity(ctx context.Context, id int64) (*models.OrgEntity, error) {
	if m.GetEntityError != nil {
		return nil, m.GetEntityError
	}
	return m.FullRepository.GetEntity(ctx, id)
}

func (m *Repository) CreateEntity(ctx context.Context, e *models.OrgEntity) (int64, error) {
	if m.CreateEntityError != nil {
		return 0, m.CreateEntityError
	}
	return m.FullRepository.CreateEntity(ctx, e)
}

func (m *Repository) UpdateEntity(ctx context.Context, e *models.OrgEntity) error {
	if m.UpdateEntityError != nil {
		return m.UpdateEntityError
	}
	return m.FullRepository.UpdateEntity(ctx, e)
}

func (m *Repository) SetEntityActive(ctx context.Context, id int64, active bool) error {
	if m.SetEntityActiveError != nil {
		return m.SetEntityActiveError
	}
	return m.FullRepository.SetEntityActive(ctx, id, active)
}

// ===== Ledger Methods =====

func (m *Repository) SeedPots(ctx context.Context, pots []models.Pot) error {
	if m.SeedPotsError != nil {
		return m.SeedPotsError
	}
	return m.FullRepository.SeedPots(ctx, pots)
}

func (m *Repository) ListPots(ctx context.Context) ([]models.Pot, error) {
	if m.ListPotsError != nil {
		return nil, m.ListPotsError
	}
	return m.FullRepository.ListPots(ctx)
}

func (m *Repository) LedgerSnapshot(ctx context.Context) (*models.LedgerSnapshot, error) {
	if m.LedgerSnapshotError != nil {
		return nil, m.LedgerSnapshotError
	}
	return m.FullRepository.LedgerSnapshot(ctx)
}

func (m *Repository) CreditPots(ctx context.Context, credits []models.PotAmount) error {
	if m.CreditPotsError != nil {
		return m.CreditPotsError
	}
	return m.FullRepository.CreditPots(ctx, credits)
}

func (m *Repository) TransferFunds(ctx context.Context, t *models.Transfer) error {
	if m.TransferFundsError != nil {
		return m.TransferFundsError
	}
	return m.FullRepository.TransferFunds(ctx, t)
}

func (m *Repository) WithdrawFunds(ctx context.Context, w *models.Withdrawal) error {
	if m.WithdrawFundsError != nil {
		return m.WithdrawFundsError
	}
	return m.FullRepository.WithdrawFunds(ctx, w)
}

func (m *Repository) DeductPrizeFund(ctx context.Context, s *models.DrawSettlement) error {
	if m.DeductPrizeFundError != nil {
		return m.DeductPrizeFundError
	}
	return m.FullRepository.DeductPrizeFund(ctx, s)
}

func (m *Repository) ListTransfers(ctx context.Context, limit int) ([]models.Transfer, error) {
	if m.ListTransfersError != nil {
		return nil, m.ListTransfersError
	}
	return m.FullRepository.ListTransfers(ctx, limit)
}

func (m *Repository) ListWithdrawals(ctx context.Context, limit int) ([]models.Withdrawal, error) {
	if m.ListWithdrawalsError != nil {
		return nil, m.ListWithdrawalsError
	}
	return m.FullRepository.ListWithdrawals(ctx, limit)
}

func (m *Repository) ListDrawSettlements(ctx context.Context, limit int) ([]models.DrawSettlement, error) {
	if m.ListDrawSettlementsError != nil {
		return nil, m.ListDrawSettlementsError
	}
	return m.FullRepository.ListDrawSettlements(ctx, limit)
}

func (m *Repository) Ping(ctx context.Context) error {
	if m.PingError != nil {
		return m.PingError
	}
	return m.FullRepository.Ping(ctx)
}

var _ repository.FullRepository = (*Repository)(nil)
