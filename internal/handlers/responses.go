package handlers

import "github.com/abrezinsky/lottoledger/internal/models"

// HealthResponse reports liveness and the ledger version
type HealthResponse struct {
	Status        string `json:"status"`
	LedgerVersion int64  `json:"ledger_version"`
}

// DistributeResponse lists the credit applied to each pot
type DistributeResponse struct {
	Credits []models.PotAmount `json:"credits"`
}

// LogLevelResponse is the response for log level changes
type LogLevelResponse struct {
	Level string `json:"level"`
}

// HTTPLoggingResponse is the response for request logging changes
type HTTPLoggingResponse struct {
	Enabled bool `json:"enabled"`
}
