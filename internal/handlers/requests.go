package handlers

import (
	"github.com/shopspring/decimal"

	"github.com/abrezinsky/lottoledger/internal/models"
)

// DistributeRequest credits a stake to the pots without recording a wager
type DistributeRequest struct {
	Stake decimal.Decimal `json:"stake"`
}

// TransferRequest moves funds between two pots
type TransferRequest struct {
	From   models.PotName  `json:"from"`
	To     models.PotName  `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

// WithdrawRequest takes funds out of a pot
type WithdrawRequest struct {
	Pot    models.PotName  `json:"pot"`
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note"`
}

// SettleDrawRequest pays a draw's winners from the prize fund
type SettleDrawRequest struct {
	DrawRef     string          `json:"draw_ref"`
	TotalPayout decimal.Decimal `json:"total_payout"`
}

// EntityCreateRequest adds a node to the reseller tree
type EntityCreateRequest struct {
	Name        string            `json:"name"`
	Type        models.EntityType `json:"type"`
	ParentID    *int64            `json:"parent_id"`
	SalesShare  decimal.Decimal   `json:"sales_share"`
	ProfitShare decimal.Decimal   `json:"profit_share"`
}

// EntityUpdateRequest changes a node's name and shares
type EntityUpdateRequest struct {
	Name        string          `json:"name"`
	SalesShare  decimal.Decimal `json:"sales_share"`
	ProfitShare decimal.Decimal `json:"profit_share"`
}

// ActiveRequest enables or disables a node
type ActiveRequest struct {
	Active bool `json:"active"`
}

// WagerRequest sells a ticket at a booth
type WagerRequest struct {
	BoothID     int64           `json:"booth_id"`
	LotteryCode string          `json:"lottery_code"`
	Outcome     string          `json:"outcome"`
	Stake       decimal.Decimal `json:"stake"`
}

// SettleWagerRequest records a ticket's result
type SettleWagerRequest struct {
	Status models.WagerStatus `json:"status"`
	Payout decimal.Decimal    `json:"payout"`
}

// LogLevelRequest changes the runtime log level
type LogLevelRequest struct {
	Level string `json:"level"`
}

// HTTPLoggingRequest toggles request logging
type HTTPLoggingRequest struct {
	Enabled bool `json:"enabled"`
}
