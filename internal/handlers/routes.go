package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)
	r.Use(middleware.Timeout(60 * time.Second))

	if h.Hub != nil {
		r.Get("/ws", h.Hub.ServeWs)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.handleHealth)

		// Pots
		r.Get("/pots", h.handleGetPots)
		r.Post("/pots/distribute", h.handleDistribute)
		r.Post("/pots/transfer", h.handleTransfer)
		r.Post("/pots/withdraw", h.handleWithdraw)
		r.Get("/pots/transfers", h.handleListTransfers)
		r.Get("/pots/withdrawals", h.handleListWithdrawals)
		r.Get("/pots/settlements", h.handleListSettlements)
		r.Post("/draws/settle", h.handleSettleDraw)

		// Reseller tree
		r.Get("/entities", h.handleListEntities)
		r.Post("/entities", h.handleCreateEntity)
		r.Get("/entities/{id}", h.handleGetEntity)
		r.Put("/entities/{id}", h.handleUpdateEntity)
		r.Put("/entities/{id}/active", h.handleSetEntityActive)
		r.Get("/entities/{id}/stats", h.handleEntityStats)
		r.Get("/entities/{id}/children", h.handleEntityChildren)
		r.Get("/entities/{id}/wagers", h.handleBoothWagers)

		// Tickets
		r.Post("/wagers", h.handlePlaceWager)
		r.Get("/wagers/{ticket}", h.handleGetWager)
		r.Post("/wagers/{ticket}/settle", h.handleSettleWager)
		r.Post("/wagers/{ticket}/paid", h.handleMarkPaid)
		r.Get("/wagers/{ticket}/qr", h.handleWagerQR)

		// Settings
		r.Put("/settings/log-level", h.handleSetLogLevel)
		r.Put("/settings/http-logging", h.handleSetHTTPLogging)
	})

	return r
}
