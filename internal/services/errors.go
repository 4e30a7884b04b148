package services

import (
	"github.com/abrezinsky/lottoledger/internal/errors"
)

// Service errors
var (
	ErrSamePot           = errors.InvalidOperation("source and destination pot must differ")
	ErrNonPositiveAmount = errors.InvalidOperation("amount must be greater than zero")
	ErrNegativeStake     = errors.InvalidOperation("stake must not be negative")
	ErrAmountPrecision   = errors.InvalidOperation("amount must have at most two decimal places")
	ErrWagerNotPending   = errors.Conflict("wager has already been settled")
	ErrWagerNotWon       = errors.Conflict("only won wagers can be marked paid")
	ErrPayoutRequired    = errors.Validation("a won wager needs a positive payout")
	ErrPayoutNotAllowed  = errors.Validation("only won wagers carry a payout")
	ErrNameRequired      = errors.Validation("name is required")
)
