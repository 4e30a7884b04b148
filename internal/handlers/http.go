package handlers

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/abrezinsky/lottoledger/internal/errors"
	"github.com/abrezinsky/lottoledger/internal/models"
)

// Error codes for standardized API error responses
const (
	ErrCodeBadRequest        = "BAD_REQUEST"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeConflict          = "CONFLICT"
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeInvalidOperation  = "INVALID_OPERATION"
	ErrCodeInsufficientFunds = "INSUFFICIENT_FUNDS"
	ErrCodeDataUnavailable   = "DATA_UNAVAILABLE"
	ErrCodeInternalServer    = "INTERNAL_SERVER_ERROR"
)

// SessionHeader names the back-office session whose aggregation cache a
// request uses
const SessionHeader = "X-Session-ID"

// DefaultSession is used when a request carries no session header
const DefaultSession = "default"

// APIError represents an error with an HTTP status code and error code.
// Data carries the last known result when the live one is unavailable.
type APIError struct {
	Status  int         `json:"-"`
	Code    string      `json:"code"`
	Message string      `json:"error"`
	Data    interface{} `json:"data,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// Common errors
var (
	ErrBadRequest     = &APIError{Status: http.StatusBadRequest, Code: ErrCodeBadRequest, Message: "Bad request"}
	ErrNotFound       = &APIError{Status: http.StatusNotFound, Code: ErrCodeNotFound, Message: "Not found"}
	ErrInternalServer = &APIError{Status: http.StatusInternalServerError, Code: ErrCodeInternalServer, Message: "Internal server error"}
)

// NewAPIError creates a new API error with custom message and code
func NewAPIError(status int, code, message string) *APIError {
	return &APIError{Status: status, Code: code, Message: message}
}

// BadRequest creates a 400 error with custom message
func BadRequest(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: ErrCodeBadRequest, Message: message}
}

// NotFound creates a 404 error with custom message
func NotFound(message string) *APIError {
	return &APIError{Status: http.StatusNotFound, Code: ErrCodeNotFound, Message: message}
}

// Conflict creates a 409 error with custom message
func Conflict(message string) *APIError {
	return &APIError{Status: http.StatusConflict, Code: ErrCodeConflict, Message: message}
}

// InternalError creates a 500 error that hides the original message
func InternalError() *APIError {
	return &APIError{Status: http.StatusInternalServerError, Code: ErrCodeInternalServer, Message: "Internal server error"}
}

// respondJSON writes a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondOK writes a 200 OK JSON response
func respondOK(w http.ResponseWriter, data interface{}) {
	respondJSON(w, http.StatusOK, data)
}

// respondCreated writes a 201 Created JSON response
func respondCreated(w http.ResponseWriter, data interface{}) {
	respondJSON(w, http.StatusCreated, data)
}

// respondSuccess writes a 200 OK with a message
func respondSuccess(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusOK, map[string]string{"message": message})
}

// respondError writes an error response, logging anything that maps to a 500
func (h *Handlers) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *APIError
	if !stderrors.As(err, &apiErr) {
		apiErr = ToAPIError(err)
	}
	if apiErr.Status >= http.StatusInternalServerError && h.Log != nil {
		h.Log.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	respondJSON(w, apiErr.Status, apiErr)
}

// respondStale reports an unavailable store while still handing back the
// last known result flagged as stale
func (h *Handlers) respondStale(w http.ResponseWriter, r *http.Request, err error, data interface{}) {
	apiErr := ToAPIError(err)
	if apiErr.Code == ErrCodeDataUnavailable {
		apiErr.Data = data
	}
	h.respondError(w, r, apiErr)
}

// decodeJSON decodes JSON from request body into the target
func decodeJSON(r *http.Request, target interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		if err == io.EOF {
			return BadRequest("Request body is empty")
		}
		return BadRequest("Invalid JSON: " + err.Error())
	}
	return nil
}

// parseIDParam extracts and parses an integer URL parameter
func parseIDParam(r *http.Request, name string) (int64, error) {
	param := chi.URLParam(r, name)
	if param == "" {
		return 0, BadRequest("Missing " + name + " parameter")
	}
	id, err := strconv.ParseInt(param, 10, 64)
	if err != nil {
		return 0, BadRequest("Invalid " + name + " parameter")
	}
	return id, nil
}

// parseLimit reads the optional limit query parameter; zero means the
// service default
func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, BadRequest("Invalid limit parameter")
	}
	return limit, nil
}

// parseWindow reads the from/to query parameters as calendar days. A missing
// to means today and a missing from means the same day as to.
func (h *Handlers) parseWindow(r *http.Request) (models.DateWindow, error) {
	q := r.URL.Query()
	to := q.Get("to")
	if to == "" {
		to = h.now().In(h.loc).Format(models.DateLayout)
	}
	from := q.Get("from")
	if from == "" {
		from = to
	}
	window, err := models.ParseDateWindow(from, to, h.loc)
	if err != nil {
		return models.DateWindow{}, BadRequest("Invalid date window: dates must be YYYY-MM-DD")
	}
	return window, nil
}

func sessionFrom(r *http.Request) string {
	if s := r.Header.Get(SessionHeader); s != "" {
		return s
	}
	return DefaultSession
}

// ToAPIError converts service errors to appropriate API errors
func ToAPIError(err error) *APIError {
	var appErr *errors.Error
	if !stderrors.As(err, &appErr) {
		return InternalError()
	}

	switch appErr.Kind {
	case errors.ErrNotFound:
		return NotFound(appErr.Message)
	case errors.ErrValidation:
		return &APIError{Status: http.StatusUnprocessableEntity, Code: ErrCodeValidation, Message: appErr.Message}
	case errors.ErrInvalidOperation:
		return &APIError{Status: http.StatusBadRequest, Code: ErrCodeInvalidOperation, Message: appErr.Message}
	case errors.ErrInsufficientFunds:
		return &APIError{Status: http.StatusConflict, Code: ErrCodeInsufficientFunds, Message: appErr.Message}
	case errors.ErrConflict:
		return Conflict(appErr.Message)
	case errors.ErrDataUnavailable:
		return &APIError{Status: http.StatusServiceUnavailable, Code: ErrCodeDataUnavailable, Message: appErr.Message}
	default:
		return InternalError()
	}
}
