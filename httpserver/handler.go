package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ruteri/memory-registry-backend/interfaces"
	"github.com/ruteri/memory-registry-backend/metrics"
	"github.com/ruteri/memory-registry-backend/registry"
)

// maxBodySize is the maximum allowed request body size (64KB). Append
// bodies are tiny; anything larger is malformed.
const maxBodySize = 64 * 1024

// RequestError provides structured error information for HTTP responses.
type RequestError struct {
	// StatusCode is the HTTP status code to return.
	StatusCode int

	// Err is the underlying error.
	Err error
}

// Error returns the error message from the underlying error.
func (e *RequestError) Error() string {
	return e.Err.Error()
}

// AppendRequest is the JSON body of an append call.
type AppendRequest struct {
	ContentHash    string `json:"content_hash"`
	MemoryType     uint8  `json:"memory_type"`
	ImportanceTier uint8  `json:"importance_tier"`
	MemoryID       uint64 `json:"memory_id"`
	Encrypted      bool   `json:"encrypted"`
}

// RegistryInfoResponse is the JSON body of a registry info call.
type RegistryInfoResponse struct {
	Authority  string `json:"authority"`
	EntryCount uint64 `json:"entry_count"`
	Nonce      uint8  `json:"addressing_nonce"`
	Capacity   uint32 `json:"reserved_capacity"`
}

// Handler processes HTTP requests for the memory registry service.
type Handler struct {
	service *registry.Service
	metrics *metrics.Metrics
	log     *slog.Logger
}

// NewHandler creates a new HTTP request handler around a registry service.
func NewHandler(service *registry.Service, m *metrics.Metrics, log *slog.Logger) *Handler {
	return &Handler{
		service: service,
		metrics: m,
		log:     log,
	}
}

// HandleCreate processes POST /api/registry/{owner_id}.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerFromRequest(r)
	if err != nil {
		h.fail(w, "create", &RequestError{http.StatusBadRequest, err})
		return
	}

	if err := h.service.CreateRegistry(r.Context(), owner); err != nil {
		h.fail(w, "create", requestErrorFor(err))
		return
	}

	h.metrics.RecordOperation("create", "ok")
	writeJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

// HandleAppend processes POST /api/registry/{owner_id}/entries.
func (h *Handler) HandleAppend(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerFromRequest(r)
	if err != nil {
		h.fail(w, "append", &RequestError{http.StatusBadRequest, err})
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		h.fail(w, "append", &RequestError{http.StatusBadRequest, fmt.Errorf("could not read request body: %w", err)})
		return
	}

	var req AppendRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.fail(w, "append", &RequestError{http.StatusBadRequest, fmt.Errorf("could not parse append request: %w", err)})
		return
	}

	hash, err := interfaces.NewContentHashFromHex(req.ContentHash)
	if err != nil {
		h.fail(w, "append", &RequestError{http.StatusBadRequest, err})
		return
	}

	err = h.service.AppendEntry(r.Context(), owner, hash,
		interfaces.MemoryType(req.MemoryType),
		interfaces.ImportanceTier(req.ImportanceTier),
		req.MemoryID, req.Encrypted)
	if err != nil {
		h.fail(w, "append", requestErrorFor(err))
		return
	}

	h.metrics.RecordOperation("append", "ok")
	writeJSON(w, http.StatusCreated, map[string]string{"status": "registered"})
}

// HandleVerify processes GET /api/registry/{owner_id}/entries/{content_hash}.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerFromRequest(r)
	if err != nil {
		h.fail(w, "verify", &RequestError{http.StatusBadRequest, err})
		return
	}

	hash, err := interfaces.NewContentHashFromHex(chi.URLParam(r, "content_hash"))
	if err != nil {
		h.fail(w, "verify", &RequestError{http.StatusBadRequest, err})
		return
	}

	if err := h.service.VerifyEntry(r.Context(), owner, hash); err != nil {
		h.fail(w, "verify", requestErrorFor(err))
		return
	}

	h.metrics.RecordOperation("verify", "ok")
	writeJSON(w, http.StatusOK, map[string]string{"status": "registered"})
}

// HandleRegistryInfo processes GET /api/registry/{owner_id}.
func (h *Handler) HandleRegistryInfo(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerFromRequest(r)
	if err != nil {
		h.fail(w, "info", &RequestError{http.StatusBadRequest, err})
		return
	}

	container, err := h.service.Registry(r.Context(), owner)
	if err != nil {
		h.fail(w, "info", requestErrorFor(err))
		return
	}

	h.metrics.RecordOperation("info", "ok")
	writeJSON(w, http.StatusOK, RegistryInfoResponse{
		Authority:  container.Authority.String(),
		EntryCount: container.EntryCount(),
		Nonce:      container.Nonce,
		Capacity:   container.Capacity,
	})
}

// fail records the failed operation and writes the error response.
func (h *Handler) fail(w http.ResponseWriter, operation string, reqErr *RequestError) {
	h.metrics.RecordOperation(operation, "error")

	if reqErr.StatusCode >= http.StatusInternalServerError {
		h.log.Error("Registry operation failed", "operation", operation, "err", reqErr.Err)
	} else {
		h.log.Debug("Registry operation rejected", "operation", operation, "err", reqErr.Err)
	}

	writeJSON(w, reqErr.StatusCode, map[string]string{"error": reqErr.Error()})
}

// requestErrorFor maps registry sentinel errors to HTTP status codes.
func requestErrorFor(err error) *RequestError {
	switch {
	case errors.Is(err, interfaces.ErrInvalidMemoryType):
		return &RequestError{http.StatusBadRequest, err}
	case errors.Is(err, interfaces.ErrDuplicateHash), errors.Is(err, interfaces.ErrAlreadyExists):
		return &RequestError{http.StatusConflict, err}
	case errors.Is(err, interfaces.ErrHashNotFound), errors.Is(err, interfaces.ErrRegistryNotFound):
		return &RequestError{http.StatusNotFound, err}
	case errors.Is(err, interfaces.ErrAuthorizationMismatch):
		return &RequestError{http.StatusForbidden, err}
	case errors.Is(err, interfaces.ErrResourceExhausted), errors.Is(err, interfaces.ErrAllocationFailed):
		return &RequestError{http.StatusInsufficientStorage, err}
	default:
		return &RequestError{http.StatusInternalServerError, err}
	}
}

func ownerFromRequest(r *http.Request) (interfaces.OwnerID, error) {
	return interfaces.NewOwnerIDFromHex(chi.URLParam(r, "owner_id"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
