package handlers_test

import (
	"bytes"
	"fmt"
	"net/http"
	"testing"

	"github.com/abrezinsky/lottoledger/internal/handlers"
	"github.com/abrezinsky/lottoledger/internal/models"
	"github.com/abrezinsky/lottoledger/internal/testutil"
)

func placeWager(t *testing.T, ts *testSetup, stake string) models.Wager {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/api/wagers", handlers.WagerRequest{
		BoothID:     ts.tree.boothA2,
		LotteryCode: "PICK3",
		Outcome:     "427",
		Stake:       testutil.Dec(t, stake),
	})
	expectStatus(t, w, http.StatusCreated)
	var wager models.Wager
	decode(t, w, &wager)
	return wager
}

func TestPlaceWager(t *testing.T) {
	ts := newTestSetup(t)

	wager := placeWager(t, ts, "10")
	if wager.Ticket == "" || wager.Status != models.WagerPending {
		t.Errorf("unexpected wager %+v", wager)
	}
	if got := potBalance(t, ts, models.PotPrizeFund); got != "0.00" {
		t.Errorf("prize fund = %s before settlement, want 0.00", got)
	}

	w := ts.do(t, http.MethodGet, "/api/wagers/"+wager.Ticket, nil)
	expectStatus(t, w, http.StatusOK)
	var got models.Wager
	decode(t, w, &got)
	if got.BoothID != ts.tree.boothA2 || got.LotteryCode != "PICK3" {
		t.Errorf("stored wager differs: %+v", got)
	}
}

func TestSettleWager_Pots(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		prizes string
	}{
		{"lost distributes the stake", `{"status":"lost"}`, "7.00"},
		{"voided leaves the pots", `{"status":"voided"}`, "0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestSetup(t)
			wager := placeWager(t, ts, "10")

			w := ts.do(t, http.MethodPost, "/api/wagers/"+wager.Ticket+"/settle", tt.body)
			expectStatus(t, w, http.StatusOK)
			if got := potBalance(t, ts, models.PotPrizeFund); got != tt.prizes {
				t.Errorf("prize fund = %s, want %s", got, tt.prizes)
			}
		})
	}
}

func TestPlaceWager_Rejections(t *testing.T) {
	ts := newTestSetup(t)

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"not a booth", fmt.Sprintf(`{"booth_id":%d,"lottery_code":"PICK3","outcome":"1","stake":"1"}`, ts.tree.agencyA), http.StatusBadRequest, handlers.ErrCodeInvalidOperation},
		{"zero stake", fmt.Sprintf(`{"booth_id":%d,"lottery_code":"PICK3","outcome":"1","stake":"0"}`, ts.tree.boothA1), http.StatusBadRequest, handlers.ErrCodeInvalidOperation},
		{"missing outcome", fmt.Sprintf(`{"booth_id":%d,"lottery_code":"PICK3","stake":"1"}`, ts.tree.boothA1), http.StatusUnprocessableEntity, handlers.ErrCodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectError(t, ts.do(t, http.MethodPost, "/api/wagers", tt.body), tt.status, tt.code)
		})
	}
}

func TestWagerLifecycle(t *testing.T) {
	ts := newTestSetup(t)
	wager := placeWager(t, ts, "2")
	base := "/api/wagers/" + wager.Ticket

	w := ts.do(t, http.MethodPost, base+"/paid", nil)
	expectError(t, w, http.StatusConflict, handlers.ErrCodeConflict)

	w = ts.do(t, http.MethodPost, base+"/settle", `{"status":"won","payout":"0"}`)
	expectError(t, w, http.StatusUnprocessableEntity, handlers.ErrCodeValidation)

	w = ts.do(t, http.MethodPost, base+"/settle", `{"status":"won","payout":"250"}`)
	expectStatus(t, w, http.StatusOK)
	var settled models.Wager
	decode(t, w, &settled)
	if settled.Status != models.WagerWon || !settled.Payout.Equal(testutil.Dec(t, "250")) {
		t.Errorf("unexpected settlement %+v", settled)
	}

	w = ts.do(t, http.MethodPost, base+"/settle", `{"status":"lost","payout":"0"}`)
	expectError(t, w, http.StatusConflict, handlers.ErrCodeConflict)

	w = ts.do(t, http.MethodPost, base+"/paid", nil)
	expectStatus(t, w, http.StatusOK)
	var paid models.Wager
	decode(t, w, &paid)
	if paid.Status != models.WagerPaid {
		t.Errorf("status = %s, want paid", paid.Status)
	}
}

func TestWager_NotFound(t *testing.T) {
	ts := newTestSetup(t)

	expectError(t, ts.do(t, http.MethodGet, "/api/wagers/nope", nil), http.StatusNotFound, handlers.ErrCodeNotFound)
	expectError(t, ts.do(t, http.MethodPost, "/api/wagers/nope/settle", `{"status":"lost"}`), http.StatusNotFound, handlers.ErrCodeNotFound)
	expectError(t, ts.do(t, http.MethodPost, "/api/wagers/nope/paid", nil), http.StatusNotFound, handlers.ErrCodeNotFound)
	expectError(t, ts.do(t, http.MethodGet, "/api/wagers/nope/qr", nil), http.StatusNotFound, handlers.ErrCodeNotFound)
}

func TestWagerQR(t *testing.T) {
	ts := newTestSetup(t)
	wager := placeWager(t, ts, "1")

	w := ts.do(t, http.MethodGet, "/api/wagers/"+wager.Ticket+"/qr", nil)
	expectStatus(t, w, http.StatusOK)
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", ct)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")) {
		t.Error("expected PNG body")
	}
}
