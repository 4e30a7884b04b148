package handlers

import (
	"net/http"
	"strings"

	"github.com/abrezinsky/lottoledger/internal/logger"
)

func (h *Handlers) handleSetLogLevel(w http.ResponseWriter, r *http.Request) {
	var req LogLevelRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	switch strings.ToLower(req.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		h.respondError(w, r, BadRequest("Unknown log level "+req.Level))
		return
	}

	h.Log.SetLevel(logger.ParseLevel(req.Level))
	h.Log.Info("Log level changed", "level", h.Log.GetLevel().String())
	respondOK(w, LogLevelResponse{Level: strings.ToLower(h.Log.GetLevel().String())})
}

func (h *Handlers) handleSetHTTPLogging(w http.ResponseWriter, r *http.Request) {
	var req HTTPLoggingRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	if req.Enabled {
		h.Log.EnableHTTPLogging()
	} else {
		h.Log.DisableHTTPLogging()
	}
	respondOK(w, HTTPLoggingResponse{Enabled: h.Log.IsHTTPLoggingEnabled()})
}
