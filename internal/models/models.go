package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntityType is the tier of an organizational entity in the reseller hierarchy
type EntityType string

const (
	EntityOperatorAdmin       EntityType = "operator_admin"
	EntityRegionalDistributor EntityType = "regional_distributor"
	EntitySubDistributor      EntityType = "sub_distributor"
	EntityAgency              EntityType = "agency"
	EntityBooth               EntityType = "booth"
)

// EntityTypes lists every tier from the root down to the leaves
var EntityTypes = []EntityType{
	EntityOperatorAdmin,
	EntityRegionalDistributor,
	EntitySubDistributor,
	EntityAgency,
	EntityBooth,
}

// childTypes is the per-tier child rule. Regional distributors are the only
// tier with two child kinds: they may own agencies directly.
var childTypes = map[EntityType][]EntityType{
	EntityOperatorAdmin:       {EntityRegionalDistributor},
	EntityRegionalDistributor: {EntitySubDistributor, EntityAgency},
	EntitySubDistributor:      {EntityAgency},
	EntityAgency:              {EntityBooth},
	EntityBooth:               nil,
}

// Valid reports whether t is one of the known tiers
func (t EntityType) Valid() bool {
	_, ok := childTypes[t]
	return ok
}

// ChildTypes returns the tiers that may appear directly below t
func (t EntityType) ChildTypes() []EntityType {
	return childTypes[t]
}

// CanParent reports whether an entity of type child may have a parent of type t
func (t EntityType) CanParent(child EntityType) bool {
	for _, ct := range childTypes[t] {
		if ct == child {
			return true
		}
	}
	return false
}

// EarnsProfit reports whether the tier participates in net profit
func (t EntityType) EarnsProfit() bool {
	switch t {
	case EntityRegionalDistributor, EntitySubDistributor, EntityAgency:
		return true
	}
	return false
}

// OrgEntity is one node in the reseller hierarchy
type OrgEntity struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Type        EntityType      `json:"type"`
	ParentID    *int64          `json:"parent_id"`
	SalesShare  decimal.Decimal `json:"sales_share"`
	ProfitShare decimal.Decimal `json:"profit_share"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
}

// WagerStatus is the settlement state of a wager
type WagerStatus string

const (
	WagerPending WagerStatus = "pending"
	WagerLost    WagerStatus = "lost"
	WagerWon     WagerStatus = "won"
	WagerPaid    WagerStatus = "paid"
	WagerVoided  WagerStatus = "voided"
)

// Wager is a single ticket sold at a booth
type Wager struct {
	ID          int64           `json:"id"`
	Ticket      string          `json:"ticket"`
	BoothID     int64           `json:"booth_id"`
	LotteryCode string          `json:"lottery_code"`
	Outcome     string          `json:"outcome"`
	Stake       decimal.Decimal `json:"stake"`
	Payout      decimal.Decimal `json:"payout"`
	Status      WagerStatus     `json:"status"`
	PlacedAt    time.Time       `json:"placed_at"`
	SettledAt   *time.Time      `json:"settled_at,omitempty"`
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
