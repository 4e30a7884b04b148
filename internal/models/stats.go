package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-day format used for window bounds
const DateLayout = "2006-01-02"

// DateWindow is an inclusive range of calendar days
type DateWindow struct {
	From time.Time
	To   time.Time
}

// NewDateWindow builds a window from two calendar days
func NewDateWindow(from, to time.Time) DateWindow {
	return DateWindow{From: from, To: to}
}

// ParseDateWindow parses two YYYY-MM-DD days in loc
func ParseDateWindow(from, to string, loc *time.Location) (DateWindow, error) {
	f, err := time.ParseInLocation(DateLayout, from, loc)
	if err != nil {
		return DateWindow{}, err
	}
	t, err := time.ParseInLocation(DateLayout, to, loc)
	if err != nil {
		return DateWindow{}, err
	}
	return DateWindow{From: f, To: t}, nil
}

// Start is midnight at the beginning of From's day
func (w DateWindow) Start() time.Time {
	return startOfDay(w.From)
}

// End is midnight after To's day, exclusive
func (w DateWindow) End() time.Time {
	return startOfDay(w.To).AddDate(0, 0, 1)
}

// Empty reports whether From falls after To
func (w DateWindow) Empty() bool {
	return startOfDay(w.From).After(startOfDay(w.To))
}

// Key identifies the window by its calendar days
func (w DateWindow) Key() string {
	return w.From.Format(DateLayout) + ".." + w.To.Format(DateLayout)
}

func (w DateWindow) String() string {
	return w.Key()
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EntityStats holds the aggregated figures for one node's subtree over a window
type EntityStats struct {
	EntityID    int64           `json:"entity_id"`
	Name        string          `json:"name"`
	Type        EntityType      `json:"type"`
	Active      bool            `json:"active"`
	Sales       decimal.Decimal `json:"sales"`
	Prizes      decimal.Decimal `json:"prizes"`
	Commission  decimal.Decimal `json:"commission"`
	Balance     decimal.Decimal `json:"balance"`
	Profit      decimal.Decimal `json:"profit"`
	HasChildren bool            `json:"has_children"`
	Stale       bool            `json:"stale,omitempty"`
}

// ChildrenStats is one level of expansion below a node
type ChildrenStats struct {
	NodeID   int64         `json:"node_id"`
	Window   string        `json:"window"`
	Children []EntityStats `json:"children"`
	Stale    bool          `json:"stale"`
}
