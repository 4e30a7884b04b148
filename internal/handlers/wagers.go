package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abrezinsky/lottoledger/internal/services"
)

func (h *Handlers) handlePlaceWager(w http.ResponseWriter, r *http.Request) {
	var req WagerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	wager, err := h.Wagers.PlaceWager(r.Context(), services.Wager{
		BoothID:     req.BoothID,
		LotteryCode: req.LotteryCode,
		Outcome:     req.Outcome,
		Stake:       req.Stake,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondCreated(w, wager)
}

func (h *Handlers) handleGetWager(w http.ResponseWriter, r *http.Request) {
	wager, err := h.Wagers.GetWager(r.Context(), chi.URLParam(r, "ticket"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, wager)
}

func (h *Handlers) handleSettleWager(w http.ResponseWriter, r *http.Request) {
	var req SettleWagerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	wager, err := h.Wagers.SettleWager(r.Context(), chi.URLParam(r, "ticket"), req.Status, req.Payout)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, wager)
}

func (h *Handlers) handleMarkPaid(w http.ResponseWriter, r *http.Request) {
	wager, err := h.Wagers.MarkPaid(r.Context(), chi.URLParam(r, "ticket"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, wager)
}

func (h *Handlers) handleWagerQR(w http.ResponseWriter, r *http.Request) {
	png, err := h.Wagers.TicketQR(r.Context(), chi.URLParam(r, "ticket"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
