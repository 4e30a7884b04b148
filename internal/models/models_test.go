package models

import (
	"testing"
	"time"
)

func TestEntityType_ChildRules(t *testing.T) {
	tests := []struct {
		parent EntityType
		child  EntityType
		want   bool
	}{
		{EntityOperatorAdmin, EntityRegionalDistributor, true},
		{EntityOperatorAdmin, EntityAgency, false},
		{EntityRegionalDistributor, EntitySubDistributor, true},
		{EntityRegionalDistributor, EntityAgency, true},
		{EntityRegionalDistributor, EntityBooth, false},
		{EntitySubDistributor, EntityAgency, true},
		{EntitySubDistributor, EntitySubDistributor, false},
		{EntityAgency, EntityBooth, true},
		{EntityBooth, EntityBooth, false},
		{EntityType("kiosk"), EntityBooth, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.parent)+"/"+string(tt.child), func(t *testing.T) {
			if got := tt.parent.CanParent(tt.child); got != tt.want {
				t.Errorf("CanParent = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEntityType_Valid(t *testing.T) {
	for _, et := range EntityTypes {
		if !et.Valid() {
			t.Errorf("expected %s to be valid", et)
		}
	}
	if EntityType("kiosk").Valid() {
		t.Error("expected unknown type to be invalid")
	}
}

func TestEntityType_EarnsProfit(t *testing.T) {
	want := map[EntityType]bool{
		EntityOperatorAdmin:       false,
		EntityRegionalDistributor: true,
		EntitySubDistributor:      true,
		EntityAgency:              true,
		EntityBooth:               false,
	}
	for et, expected := range want {
		if got := et.EarnsProfit(); got != expected {
			t.Errorf("%s.EarnsProfit() = %v, want %v", et, got, expected)
		}
	}
}

func TestPotName_Valid(t *testing.T) {
	for _, n := range PotNames {
		if !n.Valid() {
			t.Errorf("expected %s to be valid", n)
		}
	}
	if PotName("jackpot").Valid() {
		t.Error("expected unknown pot to be invalid")
	}
}

func TestDateWindow_Bounds(t *testing.T) {
	w := NewDateWindow(
		time.Date(2024, 3, 1, 15, 30, 0, 0, time.UTC),
		time.Date(2024, 3, 3, 8, 0, 0, 0, time.UTC),
	)

	if got := w.Start(); !got.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected start %v", got)
	}
	if got := w.End(); !got.Equal(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected end %v", got)
	}
	if w.Empty() {
		t.Error("expected window to be non-empty")
	}
	if w.Key() != "2024-03-01..2024-03-03" {
		t.Errorf("unexpected key %q", w.Key())
	}
}

func TestDateWindow_SameDayIsNotEmpty(t *testing.T) {
	day := time.Date(2024, 3, 1, 23, 0, 0, 0, time.UTC)
	w := NewDateWindow(day, day.Add(-22*time.Hour))
	if w.Empty() {
		t.Error("expected a single-day window to be non-empty")
	}
}

func TestDateWindow_Reversed(t *testing.T) {
	w := NewDateWindow(
		time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	)
	if !w.Empty() {
		t.Error("expected reversed window to be empty")
	}
}

func TestParseDateWindow(t *testing.T) {
	w, err := ParseDateWindow("2024-01-01", "2024-01-31", time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Key() != "2024-01-01..2024-01-31" {
		t.Errorf("unexpected key %q", w.Key())
	}

	if _, err := ParseDateWindow("01/01/2024", "2024-01-31", time.UTC); err == nil {
		t.Error("expected error for bad from")
	}
	if _, err := ParseDateWindow("2024-01-01", "tomorrow", time.UTC); err == nil {
		t.Error("expected error for bad to")
	}
}
