package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	dErrors "integrity/pkg/domain-errors"
	"integrity/pkg/platform/httputil"
)

// AgreeRequest is the HTTP request body for POST /integrity/statements/agree.
// UserID zero means the authenticated user agrees for themselves; any other
// value is an on-behalf agreement and requires permission.
type AgreeRequest struct {
	Name      string `json:"name"`
	ContextID int64  `json:"context_id"`
	UserID    int64  `json:"user_id"`
}

// Validate checks required fields.
func (r *AgreeRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeBadRequest, "name is required")
	}
	if r.ContextID <= 0 {
		return dErrors.New(dErrors.CodeBadRequest, "context_id must be positive")
	}
	if r.UserID < 0 {
		return dErrors.New(dErrors.CodeBadRequest, "user_id must not be negative")
	}
	return nil
}

// RevokeRequest is the HTTP request body for POST /integrity/statements/revoke.
type RevokeRequest struct {
	Name      string `json:"name"`
	ContextID int64  `json:"context_id"`
	UserID    int64  `json:"user_id"`
}

func (r *RevokeRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeBadRequest, "name is required")
	}
	if r.ContextID <= 0 {
		return dErrors.New(dErrors.CodeBadRequest, "context_id must be positive")
	}
	if r.UserID <= 0 {
		return dErrors.New(dErrors.CodeBadRequest, "user_id must be positive")
	}
	return nil
}

// SetEnabledRequest is the HTTP request body for the setting upsert endpoint.
type SetEnabledRequest struct {
	Enabled bool `json:"enabled"`
}

func decodeAgreeRequest(w http.ResponseWriter, r *http.Request, log *slog.Logger) (*AgreeRequest, bool) {
	var req AgreeRequest
	if !decode(w, r, log, &req) {
		return nil, false
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return nil, false
	}
	return &req, true
}

func decodeRevokeRequest(w http.ResponseWriter, r *http.Request, log *slog.Logger) (*RevokeRequest, bool) {
	var req RevokeRequest
	if !decode(w, r, log, &req) {
		return nil, false
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return nil, false
	}
	return &req, true
}

func decodeSetEnabledRequest(w http.ResponseWriter, r *http.Request, log *slog.Logger) (*SetEnabledRequest, bool) {
	var req SetEnabledRequest
	if !decode(w, r, log, &req) {
		return nil, false
	}
	return &req, true
}

func decode(w http.ResponseWriter, r *http.Request, log *slog.Logger, into any) bool {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		log.WarnContext(r.Context(), "invalid request body", "error", err.Error())
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return false
	}
	return true
}
