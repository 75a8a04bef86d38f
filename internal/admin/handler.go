// Package admin exposes the operator surface over HTTP: bulk agreement
// resets, context removal and the data-subject operations. Everything here is
// gated on an admin principal.
package admin

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"integrity/internal/platform/metrics"
	"integrity/internal/platform/middleware"
	"integrity/internal/privacy"
	"integrity/internal/reset"
	dErrors "integrity/pkg/domain-errors"
	"integrity/pkg/platform/httputil"
)

// Handler wires the admin endpoints to the reset and privacy services.
type Handler struct {
	reset   *reset.Service
	privacy *privacy.Service
	logger  *slog.Logger
	metrics *metrics.Metrics
	auth    middleware.Authenticator
}

// New constructs the admin handler.
func New(resetSvc *reset.Service, privacySvc *privacy.Service, auth middleware.Authenticator, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		reset:   resetSvc,
		privacy: privacySvc,
		logger:  logger,
		metrics: m,
		auth:    auth,
	}
}

// ResetRequest is the HTTP request body for POST /admin/reset. Exactly one
// selector must be set.
type ResetRequest struct {
	All        bool     `json:"all"`
	CourseIDs  []int64  `json:"course_ids"`
	ContextIDs []int64  `json:"context_ids"`
	UserIDs    []int64  `json:"user_ids"`
	Policies   []string `json:"policies"`
}

// RemoveContextsRequest is the HTTP request body for POST /admin/contexts/remove.
type RemoveContextsRequest struct {
	ContextIDs []int64 `json:"context_ids"`
}

// Register mounts the admin routes on the router.
func (h *Handler) Register(r chi.Router) {
	router := chi.NewRouter()
	router.Use(middleware.Recovery(h.logger))
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(h.logger))
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(middleware.Latency(h.metrics))
	router.Use(middleware.RequireAuth(h.auth, h.logger))
	router.Use(middleware.RequireAdmin)

	router.With(middleware.ContentTypeJSON).Post("/reset", h.handleReset)
	router.With(middleware.ContentTypeJSON).Post("/contexts/remove", h.handleRemoveContexts)
	router.Get("/users/{userID}/export", h.handleExport)
	router.Delete("/users/{userID}", h.handleErase)

	r.Mount("/admin", router)
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, _ := middleware.GetPrincipal(ctx)

	var req ResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	sel := reset.Selector{
		All:        req.All,
		CourseIDs:  req.CourseIDs,
		ContextIDs: req.ContextIDs,
		UserIDs:    req.UserIDs,
		Policies:   req.Policies,
	}
	if err := h.reset.Reset(ctx, sel, principal.UserID); err != nil {
		h.logger.ErrorContext(ctx, "reset failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRemoveContexts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, _ := middleware.GetPrincipal(ctx)

	var req RemoveContextsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	if err := h.reset.RemoveContexts(ctx, req.ContextIDs, principal.UserID); err != nil {
		h.logger.ErrorContext(ctx, "context removal failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	export, err := h.privacy.Export(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "privacy export failed",
			"request_id", middleware.GetRequestID(ctx),
			"user_id", userID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, export)
}

func (h *Handler) handleErase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	if err := h.privacy.Erase(ctx, userID); err != nil {
		h.logger.ErrorContext(ctx, "privacy erasure failed",
			"request_id", middleware.GetRequestID(ctx),
			"user_id", userID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func userIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil || userID <= 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "user id must be a positive integer"))
		return 0, false
	}
	return userID, true
}
