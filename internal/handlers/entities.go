package handlers

import (
	"net/http"

	"github.com/abrezinsky/lottoledger/internal/services"
)

func (h *Handlers) handleListEntities(w http.ResponseWriter, r *http.Request) {
	list, err := h.Entities.ListEntities(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, list)
}

func (h *Handlers) handleGetEntity(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	e, err := h.Entities.GetEntity(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, e)
}

func (h *Handlers) handleCreateEntity(w http.ResponseWriter, r *http.Request) {
	var req EntityCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	e, err := h.Entities.CreateEntity(r.Context(), services.Entity{
		Name:        req.Name,
		Type:        req.Type,
		ParentID:    req.ParentID,
		SalesShare:  req.SalesShare,
		ProfitShare: req.ProfitShare,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondCreated(w, e)
}

func (h *Handlers) handleUpdateEntity(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	var req EntityUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	e, err := h.Entities.UpdateEntity(r.Context(), id, services.EntityUpdate{
		Name:        req.Name,
		SalesShare:  req.SalesShare,
		ProfitShare: req.ProfitShare,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, e)
}

func (h *Handlers) handleSetEntityActive(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	var req ActiveRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	if err := h.Entities.SetActive(r.Context(), id, req.Active); err != nil {
		h.respondError(w, r, err)
		return
	}
	respondSuccess(w, "Entity updated")
}

func (h *Handlers) handleEntityStats(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	window, err := h.parseWindow(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	stats, err := h.Engine.GetStats(r.Context(), sessionFrom(r), id, window)
	if err != nil {
		h.respondStale(w, r, err, stats)
		return
	}
	respondOK(w, stats)
}

func (h *Handlers) handleEntityChildren(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	window, err := h.parseWindow(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	refresh := r.URL.Query().Get("refresh") == "true"

	children, err := h.Engine.ExpandChildren(r.Context(), sessionFrom(r), id, window, refresh)
	if err != nil {
		h.respondStale(w, r, err, children)
		return
	}
	respondOK(w, children)
}

func (h *Handlers) handleBoothWagers(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	limit, err := parseLimit(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	list, err := h.Wagers.ListBoothWagers(r.Context(), id, limit)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, list)
}
