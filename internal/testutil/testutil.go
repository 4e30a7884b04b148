package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/abrezinsky/lottoledger/internal/models"
	"github.com/abrezinsky/lottoledger/internal/repository"
)

// NewTestRepository creates a new in-memory repository for testing.
// Each call creates a fresh database with all migrations applied.
func NewTestRepository(t *testing.T) *repository.Repository {
	t.Helper()

	repo, err := repository.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}

	t.Cleanup(func() {
		repo.Close()
	})

	return repo
}

// Dec parses a decimal literal, failing the test on bad input
func Dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

// DefaultPots is the 70/20/10 prize/reserve/profit split
func DefaultPots() []models.Pot {
	return []models.Pot{
		{Name: models.PotPrizeFund, Percentage: decimal.NewFromInt(70)},
		{Name: models.PotReserve, Percentage: decimal.NewFromInt(20)},
		{Name: models.PotOperatorProfit, Percentage: decimal.NewFromInt(10)},
	}
}

// SeedPots creates the default pots in repo
func SeedPots(t *testing.T, repo repository.LedgerRepository) {
	t.Helper()
	if err := repo.SeedPots(context.Background(), DefaultPots()); err != nil {
		t.Fatalf("failed to seed pots: %v", err)
	}
}

// CreateEntity inserts an active entity directly, bypassing cap validation
func CreateEntity(t *testing.T, repo repository.EntityRepository, name string, typ models.EntityType, parentID *int64, salesShare, profitShare string) int64 {
	t.Helper()
	id, err := repo.CreateEntity(context.Background(), &models.OrgEntity{
		Name:        name,
		Type:        typ,
		ParentID:    parentID,
		SalesShare:  Dec(t, salesShare),
		ProfitShare: Dec(t, profitShare),
		Active:      true,
	})
	if err != nil {
		t.Fatalf("failed to create entity %q: %v", name, err)
	}
	return id
}

// PlaceWager inserts a wager and settles it to status with payout, without touching pots
func PlaceWager(t *testing.T, repo repository.WagerRepository, ticket string, boothID int64, stake string, status models.WagerStatus, payout string, placedAt time.Time) {
	t.Helper()
	ctx := context.Background()
	_, err := repo.RecordWager(ctx, &models.Wager{
		Ticket:      ticket,
		BoothID:     boothID,
		LotteryCode: "PICK3",
		Outcome:     "123",
		Stake:       Dec(t, stake),
		PlacedAt:    placedAt,
	})
	if err != nil {
		t.Fatalf("failed to record wager %s: %v", ticket, err)
	}
	if status == models.WagerPending {
		return
	}
	settleStatus := status
	if status == models.WagerPaid {
		settleStatus = models.WagerWon
	}
	if err := repo.SettleWager(ctx, ticket, settleStatus, Dec(t, payout), placedAt, nil); err != nil {
		t.Fatalf("failed to settle wager %s: %v", ticket, err)
	}
	if status == models.WagerPaid {
		if err := repo.MarkWagerPaid(ctx, ticket); err != nil {
			t.Fatalf("failed to mark wager %s paid: %v", ticket, err)
		}
	}
}

// Ptr returns a pointer to v
func Ptr[T any](v T) *T {
	return &v
}
