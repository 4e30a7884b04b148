package handlers

import (
	"time"

	"github.com/abrezinsky/lottoledger/internal/logger"
	"github.com/abrezinsky/lottoledger/internal/services"
	"github.com/abrezinsky/lottoledger/internal/websocket"
)

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Engine   services.EngineServicer
	Ledger   services.LedgerServicer
	Entities services.EntityServicer
	Wagers   services.WagerServicer
	Hub      *websocket.Hub
	Log      logger.Logger

	loc *time.Location
	now func() time.Time
}

// New creates a new Handlers instance with all dependencies. The hub may be
// nil, in which case /ws is not served.
func New(
	engine services.EngineServicer,
	ledger services.LedgerServicer,
	entities services.EntityServicer,
	wagers services.WagerServicer,
	hub *websocket.Hub,
	log logger.Logger,
) *Handlers {
	return &Handlers{
		Engine:   engine,
		Ledger:   ledger,
		Entities: entities,
		Wagers:   wagers,
		Hub:      hub,
		Log:      log,
		loc:      time.Local,
		now:      time.Now,
	}
}

// SetLocation sets the time zone date windows are interpreted in
func (h *Handlers) SetLocation(loc *time.Location) {
	h.loc = loc
}
