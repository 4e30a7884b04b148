package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/abrezinsky/lottoledger/internal/errors"
	"github.com/abrezinsky/lottoledger/internal/logger"
	"github.com/abrezinsky/lottoledger/internal/models"
	"github.com/abrezinsky/lottoledger/internal/repository"
)

var hundred = decimal.NewFromInt(100)

// Broadcaster defines the interface for broadcasting messages to clients
type Broadcaster interface {
	BroadcastPotBalances(snapshot *models.LedgerSnapshot)
}

// LedgerService owns the three-pot fund split. Every mutation is applied by
// the repository as one transaction, and once submitted it runs to completion
// even if the caller's context is cancelled.
type LedgerService struct {
	log         logger.Logger
	repo        repository.LedgerRepository
	pots        []models.Pot
	broadcaster Broadcaster
	now         func() time.Time
	newID       func() string
}

// NewLedgerService creates a LedgerService for the configured pot split.
// The percentages must name every pot exactly once and sum to 100.
func NewLedgerService(log logger.Logger, repo repository.LedgerRepository, pots []models.Pot) (*LedgerService, error) {
	if err := ValidatePotSplit(pots); err != nil {
		return nil, err
	}
	cfg := make([]models.Pot, len(pots))
	copy(cfg, pots)
	return &LedgerService{
		log:   log.With("component", "ledger"),
		repo:  repo,
		pots:  cfg,
		now:   time.Now,
		newID: uuid.NewString,
	}, nil
}

// ValidatePotSplit checks that pots covers every pot once with percentages in
// [0, 100] summing to exactly 100
func ValidatePotSplit(pots []models.Pot) error {
	if len(pots) != len(models.PotNames) {
		return errors.Validationf("expected %d pots, got %d", len(models.PotNames), len(pots))
	}
	seen := make(map[models.PotName]bool, len(pots))
	total := decimal.Zero
	for _, p := range pots {
		if !p.Name.Valid() {
			return errors.Validationf("unknown pot %q", p.Name)
		}
		if seen[p.Name] {
			return errors.Validationf("pot %q configured twice", p.Name)
		}
		seen[p.Name] = true
		if p.Percentage.IsNegative() || p.Percentage.GreaterThan(hundred) {
			return errors.Validationf("pot %q percentage %s outside 0-100", p.Name, p.Percentage)
		}
		total = total.Add(p.Percentage)
	}
	if !total.Equal(hundred) {
		return errors.Validationf("pot percentages sum to %s, not 100", total)
	}
	return nil
}

// SetBroadcaster sets the broadcaster for sending updates to clients
func (s *LedgerService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Init creates the pots in the store and applies the configured percentages
func (s *LedgerService) Init(ctx context.Context) error {
	if err := s.repo.SeedPots(ctx, s.pots); err != nil {
		return fmt.Errorf("seed pots: %w", err)
	}
	return nil
}

// Pots returns the configured split
func (s *LedgerService) Pots() []models.Pot {
	out := make([]models.Pot, len(s.pots))
	copy(out, s.pots)
	return out
}

// Split computes each pot's share of stake. Every credit but the last is
// truncated to cents and the last pot takes the remainder, so the credits are
// never negative and always sum to stake exactly.
func (s *LedgerService) Split(stake decimal.Decimal) ([]models.PotAmount, error) {
	if stake.IsNegative() {
		return nil, ErrNegativeStake
	}
	if err := checkPrecision(stake); err != nil {
		return nil, err
	}

	credits := make([]models.PotAmount, len(s.pots))
	allocated := decimal.Zero
	for i, p := range s.pots {
		var amount decimal.Decimal
		if i == len(s.pots)-1 {
			amount = stake.Sub(allocated)
		} else {
			amount = stake.Mul(p.Percentage).Div(hundred).RoundDown(2)
			allocated = allocated.Add(amount)
		}
		credits[i] = models.PotAmount{Pot: p.Name, Amount: amount}
	}
	return credits, nil
}

// Distribute credits every pot with its share of stake
func (s *LedgerService) Distribute(ctx context.Context, stake decimal.Decimal) ([]models.PotAmount, error) {
	credits, err := s.Split(stake)
	if err != nil {
		return nil, err
	}
	if stake.IsZero() {
		return credits, nil
	}

	ctx = context.WithoutCancel(ctx)
	if err := s.repo.CreditPots(ctx, credits); err != nil {
		return nil, s.translate(err, "distribute")
	}
	s.log.Info("Stake distributed", "stake", stake.StringFixed(2))
	s.Announce(ctx)
	return credits, nil
}

// Transfer moves amount from one pot to another
func (s *LedgerService) Transfer(ctx context.Context, from, to models.PotName, amount decimal.Decimal) (*models.Transfer, error) {
	if err := checkPot(from); err != nil {
		return nil, err
	}
	if err := checkPot(to); err != nil {
		return nil, err
	}
	if from == to {
		return nil, ErrSamePot
	}
	if err := checkAmount(amount); err != nil {
		return nil, err
	}

	t := &models.Transfer{ID: s.newID(), From: from, To: to, Amount: amount, CreatedAt: s.now()}
	ctx = context.WithoutCancel(ctx)
	if err := s.repo.TransferFunds(ctx, t); err != nil {
		if stderrors.Is(err, repository.ErrInsufficientFunds) {
			return nil, errors.InsufficientFundsf("%s cannot cover a transfer of %s", from, amount.StringFixed(2))
		}
		return nil, s.translate(err, "transfer")
	}
	s.log.Info("Funds transferred", "from", from, "to", to, "amount", amount.StringFixed(2))
	s.Announce(ctx)
	return t, nil
}

// Withdraw removes amount from a pot. By convention funds leave through the
// operator profit pot, but any pot may be named.
func (s *LedgerService) Withdraw(ctx context.Context, from models.PotName, amount decimal.Decimal, note string) (*models.Withdrawal, error) {
	if err := checkPot(from); err != nil {
		return nil, err
	}
	if err := checkAmount(amount); err != nil {
		return nil, err
	}

	w := &models.Withdrawal{ID: s.newID(), Pot: from, Amount: amount, Note: note, CreatedAt: s.now()}
	ctx = context.WithoutCancel(ctx)
	if err := s.repo.WithdrawFunds(ctx, w); err != nil {
		if stderrors.Is(err, repository.ErrInsufficientFunds) {
			return nil, errors.InsufficientFundsf("%s cannot cover a withdrawal of %s", from, amount.StringFixed(2))
		}
		return nil, s.translate(err, "withdraw")
	}
	s.log.Info("Funds withdrawn", "pot", from, "amount", amount.StringFixed(2))
	s.Announce(ctx)
	return w, nil
}

// DeductPayout debits the prize fund by the total paid to a draw's winners.
// An underfunded prize fund is a hard failure.
func (s *LedgerService) DeductPayout(ctx context.Context, drawRef string, amount decimal.Decimal) (*models.DrawSettlement, error) {
	if err := checkAmount(amount); err != nil {
		return nil, err
	}

	d := &models.DrawSettlement{ID: s.newID(), DrawRef: drawRef, Amount: amount, CreatedAt: s.now()}
	ctx = context.WithoutCancel(ctx)
	if err := s.repo.DeductPrizeFund(ctx, d); err != nil {
		if stderrors.Is(err, repository.ErrInsufficientFunds) {
			s.log.Error("Prize fund underfunded", "draw", drawRef, "payout", amount.StringFixed(2))
			return nil, errors.InsufficientFundsf("prize fund cannot cover a payout of %s", amount.StringFixed(2))
		}
		return nil, s.translate(err, "deduct payout")
	}
	s.log.Info("Payout deducted", "draw", drawRef, "amount", amount.StringFixed(2))
	s.Announce(ctx)
	return d, nil
}

// Snapshot returns every pot balance at one ledger version
func (s *LedgerService) Snapshot(ctx context.Context) (*models.LedgerSnapshot, error) {
	snap, err := s.repo.LedgerSnapshot(ctx)
	if err != nil {
		return nil, errors.DataUnavailable(err)
	}
	return snap, nil
}

// ListTransfers returns the newest transfers first
func (s *LedgerService) ListTransfers(ctx context.Context, limit int) ([]models.Transfer, error) {
	return s.repo.ListTransfers(ctx, clampLimit(limit))
}

// ListWithdrawals returns the newest withdrawals first
func (s *LedgerService) ListWithdrawals(ctx context.Context, limit int) ([]models.Withdrawal, error) {
	return s.repo.ListWithdrawals(ctx, clampLimit(limit))
}

// ListDrawSettlements returns the newest payout deductions first
func (s *LedgerService) ListDrawSettlements(ctx context.Context, limit int) ([]models.DrawSettlement, error) {
	return s.repo.ListDrawSettlements(ctx, clampLimit(limit))
}

// Announce broadcasts the current balances to connected clients
func (s *LedgerService) Announce(ctx context.Context) {
	if s.broadcaster == nil {
		return
	}
	snap, err := s.repo.LedgerSnapshot(ctx)
	if err != nil {
		s.log.Warn("Failed to read ledger for broadcast", "error", err)
		return
	}
	s.broadcaster.BroadcastPotBalances(snap)
}

func (s *LedgerService) translate(err error, op string) error {
	if stderrors.Is(err, repository.ErrUnknownPot) {
		return errors.InvalidOperation("unknown pot")
	}
	s.log.Error("Ledger mutation failed", "op", op, "error", err)
	return errors.Wrap(err, errors.ErrInternal, op)
}

func checkPot(name models.PotName) error {
	if !name.Valid() {
		return errors.InvalidOperationf("unknown pot %q", name)
	}
	return nil
}

func checkAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	return checkPrecision(amount)
}

func checkPrecision(amount decimal.Decimal) error {
	if !amount.Equal(amount.Truncate(2)) {
		return ErrAmountPrecision
	}
	return nil
}

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
