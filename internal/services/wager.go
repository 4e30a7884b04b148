package services

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"

	"github.com/abrezinsky/lottoledger/internal/errors"
	"github.com/abrezinsky/lottoledger/internal/logger"
	"github.com/abrezinsky/lottoledger/internal/models"
	"github.com/abrezinsky/lottoledger/internal/repository"
)

// Wager is the input for selling a ticket at a booth
type Wager struct {
	BoothID     int64
	LotteryCode string
	Outcome     string
	Stake       decimal.Decimal
}

// WagerService handles ticket sales and settlement
type WagerService struct {
	log       logger.Logger
	repo      repository.WagerRepository
	entities  repository.EntityRepository
	ledger    *LedgerService
	now       func() time.Time
	newTicket func() string
}

// NewWagerService creates a new WagerService. Settled stakes are split with
// ledger's configured percentages.
func NewWagerService(log logger.Logger, repo repository.WagerRepository, entities repository.EntityRepository, ledger *LedgerService) *WagerService {
	return &WagerService{
		log:       log,
		repo:      repo,
		entities:  entities,
		ledger:    ledger,
		now:       time.Now,
		newTicket: uuid.NewString,
	}
}

// PlaceWager records a pending wager at an active booth. The pots are not
// touched until the wager settles.
func (s *WagerService) PlaceWager(ctx context.Context, in Wager) (*models.Wager, error) {
	if err := checkAmount(in.Stake); err != nil {
		return nil, err
	}
	lottery := strings.TrimSpace(in.LotteryCode)
	outcome := strings.TrimSpace(in.Outcome)
	if lottery == "" || outcome == "" {
		return nil, errors.Validation("lottery code and outcome are required")
	}

	booth, err := s.entities.GetEntity(ctx, in.BoothID)
	if stderrors.Is(err, repository.ErrNotFound) {
		return nil, errors.InvalidOperationf("unknown booth %d", in.BoothID)
	}
	if err != nil {
		return nil, err
	}
	if booth.Type != models.EntityBooth {
		return nil, errors.InvalidOperationf("entity %d is a %s, not a booth", booth.ID, booth.Type)
	}
	if !booth.Active {
		return nil, errors.InvalidOperationf("booth %d is inactive", booth.ID)
	}

	w := &models.Wager{
		Ticket:      s.newTicket(),
		BoothID:     booth.ID,
		LotteryCode: lottery,
		Outcome:     outcome,
		Stake:       in.Stake,
		Payout:      decimal.Zero,
		Status:      models.WagerPending,
		PlacedAt:    s.now().Truncate(time.Second),
	}

	id, err := s.repo.RecordWager(context.WithoutCancel(ctx), w)
	if err != nil {
		s.log.Error("Failed to record wager", "booth", w.BoothID, "error", err)
		return nil, errors.Wrap(err, errors.ErrInternal, "place wager")
	}
	w.ID = id

	s.log.Info("Wager placed", "ticket", w.Ticket, "booth", w.BoothID, "stake", w.Stake.StringFixed(2))
	return w, nil
}

// GetWager looks a wager up by ticket code
func (s *WagerService) GetWager(ctx context.Context, ticket string) (*models.Wager, error) {
	w, err := s.repo.GetWagerByTicket(ctx, ticket)
	if stderrors.Is(err, repository.ErrNotFound) {
		return nil, errors.NotFoundf("wager %s not found", ticket)
	}
	return w, err
}

// ListBoothWagers returns a booth's most recent wagers
func (s *WagerService) ListBoothWagers(ctx context.Context, boothID int64, limit int) ([]models.Wager, error) {
	wagers, err := s.repo.ListWagersByBooth(ctx, boothID, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	if wagers == nil {
		wagers = []models.Wager{}
	}
	return wagers, nil
}

// SettleWager records the draw outcome of a pending wager. Lost and won
// wagers have their stake distributed to the pots in the same transaction;
// voided wagers never reach the ledger.
func (s *WagerService) SettleWager(ctx context.Context, ticket string, status models.WagerStatus, payout decimal.Decimal) (*models.Wager, error) {
	switch status {
	case models.WagerWon:
		if !payout.IsPositive() {
			return nil, ErrPayoutRequired
		}
		if err := checkPrecision(payout); err != nil {
			return nil, err
		}
	case models.WagerLost, models.WagerVoided:
		if !payout.IsZero() {
			return nil, ErrPayoutNotAllowed
		}
	default:
		return nil, errors.Validationf("cannot settle a wager as %q", status)
	}

	w, err := s.GetWager(ctx, ticket)
	if err != nil {
		return nil, err
	}
	if w.Status != models.WagerPending {
		return nil, ErrWagerNotPending
	}

	var credits []models.PotAmount
	if status != models.WagerVoided {
		if credits, err = s.ledger.Split(w.Stake); err != nil {
			return nil, err
		}
	}

	ctx = context.WithoutCancel(ctx)
	err = s.repo.SettleWager(ctx, ticket, status, payout, s.now(), credits)
	switch {
	case stderrors.Is(err, repository.ErrNotFound):
		return nil, errors.NotFoundf("wager %s not found", ticket)
	case stderrors.Is(err, repository.ErrWagerState):
		return nil, ErrWagerNotPending
	case err != nil:
		return nil, s.ledger.translate(err, "settle wager")
	}

	s.log.Info("Wager settled", "ticket", ticket, "status", status, "payout", payout.StringFixed(2))
	if len(credits) > 0 {
		s.ledger.Announce(ctx)
	}
	return s.GetWager(ctx, ticket)
}

// MarkPaid records that a won wager's payout was handed over
func (s *WagerService) MarkPaid(ctx context.Context, ticket string) (*models.Wager, error) {
	err := s.repo.MarkWagerPaid(context.WithoutCancel(ctx), ticket)
	switch {
	case stderrors.Is(err, repository.ErrNotFound):
		return nil, errors.NotFoundf("wager %s not found", ticket)
	case stderrors.Is(err, repository.ErrWagerState):
		return nil, ErrWagerNotWon
	case err != nil:
		return nil, err
	}

	s.log.Info("Wager paid", "ticket", ticket)
	return s.GetWager(ctx, ticket)
}

// TicketQR renders the ticket code as a PNG QR image
func (s *WagerService) TicketQR(ctx context.Context, ticket string) ([]byte, error) {
	w, err := s.GetWager(ctx, ticket)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(w.Ticket, qrcode.Medium, 256)
}
