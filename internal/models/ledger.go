package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PotName identifies one of the three fund pots
type PotName string

const (
	PotPrizeFund      PotName = "prize_fund"
	PotReserve        PotName = "reserve"
	PotOperatorProfit PotName = "operator_profit"
)

// PotNames lists the pots in distribution order. The last pot absorbs rounding remainders.
var PotNames = []PotName{PotPrizeFund, PotReserve, PotOperatorProfit}

// Valid reports whether n names a known pot
func (n PotName) Valid() bool {
	switch n {
	case PotPrizeFund, PotReserve, PotOperatorProfit:
		return true
	}
	return false
}

// Pot is a named fund bucket with a fixed share of every stake
type Pot struct {
	Name       PotName         `json:"name"`
	Percentage decimal.Decimal `json:"percentage"`
	Balance    decimal.Decimal `json:"balance"`
}

// PotAmount is a signed or unsigned amount attributed to a pot
type PotAmount struct {
	Pot    PotName         `json:"pot"`
	Amount decimal.Decimal `json:"amount"`
}

// Transfer records funds moved between two pots
type Transfer struct {
	ID        string          `json:"id"`
	From      PotName         `json:"from"`
	To        PotName         `json:"to"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

// Withdrawal records funds leaving the system from a pot
type Withdrawal struct {
	ID        string          `json:"id"`
	Pot       PotName         `json:"pot"`
	Amount    decimal.Decimal `json:"amount"`
	Note      string          `json:"note,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// DrawSettlement records the prize fund debit for a draw's winners
type DrawSettlement struct {
	ID        string          `json:"id"`
	DrawRef   string          `json:"draw_ref,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

// LedgerSnapshot is a consistent read of every pot at one ledger version
type LedgerSnapshot struct {
	Pots    []Pot           `json:"pots"`
	Total   decimal.Decimal `json:"total"`
	Version int64           `json:"version"`
}

// Pot returns the named pot from the snapshot
func (s *LedgerSnapshot) Pot(name PotName) (Pot, bool) {
	for _, p := range s.Pots {
		if p.Name == name {
			return p, true
		}
	}
	return Pot{}, false
}
