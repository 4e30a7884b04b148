package handlers

import (
	"net/http"
)

func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Engine.Snapshot(r.Context())
	if err != nil {
		h.Log.Warn("Health check could not read ledger", "error", err)
		respondJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
		return
	}
	respondOK(w, HealthResponse{Status: "ok", LedgerVersion: snap.Version})
}

func (h *Handlers) handleGetPots(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Engine.Snapshot(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, snap)
}

func (h *Handlers) handleDistribute(w http.ResponseWriter, r *http.Request) {
	var req DistributeRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	credits, err := h.Engine.DistributeWager(r.Context(), req.Stake)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, DistributeResponse{Credits: credits})
}

func (h *Handlers) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	t, err := h.Engine.TransferFunds(r.Context(), req.From, req.To, req.Amount)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondCreated(w, t)
}

func (h *Handlers) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	var req WithdrawRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	wd, err := h.Engine.WithdrawFunds(r.Context(), req.Pot, req.Amount, req.Note)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondCreated(w, wd)
}

func (h *Handlers) handleSettleDraw(w http.ResponseWriter, r *http.Request) {
	var req SettleDrawRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	s, err := h.Engine.SettleDraw(r.Context(), req.DrawRef, req.TotalPayout)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondCreated(w, s)
}

func (h *Handlers) handleListTransfers(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	list, err := h.Ledger.ListTransfers(r.Context(), limit)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, list)
}

func (h *Handlers) handleListWithdrawals(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	list, err := h.Ledger.ListWithdrawals(r.Context(), limit)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, list)
}

func (h *Handlers) handleListSettlements(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	list, err := h.Ledger.ListDrawSettlements(r.Context(), limit)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, list)
}
