// Package handler exposes the consent prompt operations over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"integrity/internal/integrity"
	"integrity/internal/platform/metrics"
	"integrity/internal/platform/middleware"
	"integrity/internal/settings"
	dErrors "integrity/pkg/domain-errors"
	"integrity/pkg/platform/httputil"
)

// Service defines the facade operations the handler depends on.
type Service interface {
	Notice(policyName string) (string, error)
	Resolve(ctx context.Context, policyName, pageURL string, contextID, userID int64) (integrity.Resolution, error)
	AgreeStatement(ctx context.Context, policyName string, contextID, userID int64, actor middleware.Principal) error
	RevokeStatement(ctx context.Context, policyName string, contextID, userID int64, actor middleware.Principal) error
	SetEnabled(ctx context.Context, policyName string, contextID int64, enabled bool, actor middleware.Principal) (*settings.Setting, error)
	DeleteSetting(ctx context.Context, policyName string, contextID int64, actor middleware.Principal) error
}

// Handler wires the statement endpoints to the integrity service.
type Handler struct {
	service Service
	logger  *slog.Logger
	metrics *metrics.Metrics
	auth    middleware.Authenticator
}

// New constructs a Handler with its dependencies.
func New(service Service, auth middleware.Authenticator, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
		metrics: m,
		auth:    auth,
	}
}

// Register mounts all statement routes on the router.
func (h *Handler) Register(r chi.Router) {
	router := chi.NewRouter()
	router.Use(middleware.Recovery(h.logger))
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(h.logger))
	router.Use(middleware.Timeout(30 * time.Second))
	router.Use(middleware.Latency(h.metrics))
	router.Use(middleware.RequireAuth(h.auth, h.logger))

	router.Get("/integrity/statements/{name}/notice", h.handleNotice)
	router.Get("/integrity/statements/{name}/resolution", h.handleResolution)
	router.With(middleware.ContentTypeJSON).
		Post("/integrity/statements/agree", h.handleAgree)

	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireAdmin)
		admin.With(middleware.ContentTypeJSON).
			Post("/integrity/statements/revoke", h.handleRevoke)
		admin.With(middleware.ContentTypeJSON).
			Put("/integrity/contexts/{contextID}/policies/{name}", h.handleSetEnabled)
		admin.Delete("/integrity/contexts/{contextID}/policies/{name}", h.handleDeleteSetting)
	})

	r.Mount("/", router)
}

// handleNotice returns the statement text for a policy.
func (h *Handler) handleNotice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "name")

	notice, err := h.service.Notice(name)
	if err != nil {
		h.logger.WarnContext(ctx, "notice lookup failed",
			"request_id", middleware.GetRequestID(ctx),
			"policy", name,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, NoticeResponse{Notice: notice})
}

// handleResolution evaluates the prompt state machine for the authenticated
// user on a given page.
func (h *Handler) handleResolution(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, _ := middleware.GetPrincipal(ctx)
	name := chi.URLParam(r, "name")

	contextID, err := strconv.ParseInt(r.URL.Query().Get("context_id"), 10, 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "context_id must be an integer"))
		return
	}
	pageURL := r.URL.Query().Get("page_url")
	if pageURL == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "page_url is required"))
		return
	}

	resolution, err := h.service.Resolve(ctx, name, pageURL, contextID, principal.UserID)
	if err != nil {
		h.logger.ErrorContext(ctx, "resolution failed",
			"request_id", middleware.GetRequestID(ctx),
			"policy", name,
			"context_id", contextID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ResolutionResponse{Resolution: string(resolution)})
}

// handleAgree records an agreement for the authenticated user, or for another
// user when the actor has the required permission.
func (h *Handler) handleAgree(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	principal, _ := middleware.GetPrincipal(ctx)

	req, ok := decodeAgreeRequest(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.service.AgreeStatement(ctx, req.Name, req.ContextID, req.UserID, principal); err != nil {
		h.logger.WarnContext(ctx, "agree statement failed",
			"request_id", requestID,
			"policy", req.Name,
			"context_id", req.ContextID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRevoke removes an agreement. Admin only.
func (h *Handler) handleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, _ := middleware.GetPrincipal(ctx)

	req, ok := decodeRevokeRequest(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.service.RevokeStatement(ctx, req.Name, req.ContextID, req.UserID, principal); err != nil {
		h.logger.WarnContext(ctx, "revoke statement failed",
			"request_id", middleware.GetRequestID(ctx),
			"policy", req.Name,
			"context_id", req.ContextID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSetEnabled creates or updates a policy setting for a context.
func (h *Handler) handleSetEnabled(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, _ := middleware.GetPrincipal(ctx)
	name := chi.URLParam(r, "name")

	contextID, err := strconv.ParseInt(chi.URLParam(r, "contextID"), 10, 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "context id must be an integer"))
		return
	}

	req, ok := decodeSetEnabledRequest(w, r, h.logger)
	if !ok {
		return
	}

	stored, err := h.service.SetEnabled(ctx, name, contextID, req.Enabled, principal)
	if err != nil {
		h.logger.ErrorContext(ctx, "set enabled failed",
			"request_id", middleware.GetRequestID(ctx),
			"policy", name,
			"context_id", contextID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromSetting(stored))
}

// handleDeleteSetting removes a policy setting for a context.
func (h *Handler) handleDeleteSetting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, _ := middleware.GetPrincipal(ctx)
	name := chi.URLParam(r, "name")

	contextID, err := strconv.ParseInt(chi.URLParam(r, "contextID"), 10, 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "context id must be an integer"))
		return
	}

	if err := h.service.DeleteSetting(ctx, name, contextID, principal); err != nil {
		h.logger.ErrorContext(ctx, "delete setting failed",
			"request_id", middleware.GetRequestID(ctx),
			"policy", name,
			"context_id", contextID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
