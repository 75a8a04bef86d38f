package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"integrity/internal/agreement"
	"integrity/internal/contextdir"
	"integrity/internal/platform/cache"
	"integrity/internal/platform/metrics"
	"integrity/internal/platform/middleware"
	"integrity/internal/privacy"
	"integrity/internal/reset"
	"integrity/internal/settings"
	"integrity/pkg/platform/audit/publisher"
	auditmem "integrity/pkg/platform/audit/store/memory"
)

// stubAuth authenticates every request as a fixed principal.
type stubAuth struct {
	principal middleware.Principal
	err       error
}

func (a *stubAuth) Authenticate(*http.Request) (middleware.Principal, error) {
	return a.principal, a.err
}

type AdminHandlerSuite struct {
	suite.Suite

	ctx        context.Context
	auth       *stubAuth
	agreements *agreement.InMemoryStore
	settings   *settings.InMemoryStore
	cache      *cache.Memory
	router     chi.Router
}

func TestAdminHandlerSuite(t *testing.T) {
	suite.Run(t, new(AdminHandlerSuite))
}

func (s *AdminHandlerSuite) SetupTest() {
	s.ctx = context.Background()
	s.auth = &stubAuth{principal: middleware.Principal{UserID: 42, Admin: true}}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.agreements = agreement.NewInMemoryStore()
	s.settings = settings.NewInMemoryStore()
	s.cache = cache.NewMemory()
	contexts := contextdir.NewInMemoryDirectory()
	contexts.Add(1, 10)
	contexts.Add(1, 11)
	auditPub := publisher.New(auditmem.NewInMemoryStore(), log)

	resetSvc := reset.New(s.agreements, s.settings, contexts, s.cache, auditPub, log)
	privacySvc := privacy.New(s.agreements, s.settings, s.cache, auditPub, log)

	h := New(resetSvc, privacySvc, s.auth, log, metrics.NewWithRegistry(prometheus.NewRegistry()))
	s.router = chi.NewRouter()
	h.Register(s.router)

	for _, a := range []agreement.Agreement{
		{PolicyName: "forum", UserID: 7, ContextID: 10},
		{PolicyName: "forum", UserID: 7, ContextID: 11},
		{PolicyName: "forum", UserID: 8, ContextID: 20},
	} {
		a := a
		s.Require().NoError(s.agreements.Insert(s.ctx, &a))
	}
	_, err := s.settings.Upsert(s.ctx, &settings.Setting{PolicyName: "forum", ContextID: 10, Enabled: true, ModifiedBy: 7})
	s.Require().NoError(err)
	s.Require().NoError(s.cache.Set(s.ctx, "agreements:forum:7", []byte(`[10,11]`)))
}

func (s *AdminHandlerSuite) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *AdminHandlerSuite) postJSON(path string, body any) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	s.Require().NoError(err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return s.do(req)
}

func (s *AdminHandlerSuite) TestResetAll() {
	w := s.postJSON("/admin/reset", ResetRequest{All: true})

	s.Equal(http.StatusNoContent, w.Code)
	s.Zero(s.agreements.Count())
	s.Zero(s.cache.Len(), "reset purges the cache")
}

func (s *AdminHandlerSuite) TestResetByCourses() {
	w := s.postJSON("/admin/reset", ResetRequest{CourseIDs: []int64{1}})

	s.Equal(http.StatusNoContent, w.Code)
	s.Equal(1, s.agreements.Count(), "only course 1 contexts wiped")
}

func (s *AdminHandlerSuite) TestResetRejectsAmbiguousSelector() {
	w := s.postJSON("/admin/reset", ResetRequest{All: true, UserIDs: []int64{7}})

	s.Equal(http.StatusBadRequest, w.Code)
	var resp map[string]string
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&resp))
	s.Equal("bad_request", resp["error"])
	s.Equal(3, s.agreements.Count(), "nothing deleted")
}

func (s *AdminHandlerSuite) TestResetRejectsInvalidBody() {
	req := httptest.NewRequest(http.MethodPost, "/admin/reset", bytes.NewReader([]byte(`{`)))
	req.Header.Set("Content-Type", "application/json")

	s.Equal(http.StatusBadRequest, s.do(req).Code)
}

func (s *AdminHandlerSuite) TestResetRequiresJSONContentType() {
	req := httptest.NewRequest(http.MethodPost, "/admin/reset", bytes.NewReader([]byte(`{"all":true}`)))
	req.Header.Set("Content-Type", "text/plain")

	s.Equal(http.StatusUnsupportedMediaType, s.do(req).Code)
}

func (s *AdminHandlerSuite) TestResetRequiresAdmin() {
	s.auth.principal = middleware.Principal{UserID: 7}

	w := s.postJSON("/admin/reset", ResetRequest{All: true})

	s.Equal(http.StatusForbidden, w.Code)
	s.Equal(3, s.agreements.Count())
}

func (s *AdminHandlerSuite) TestRemoveContexts() {
	w := s.postJSON("/admin/contexts/remove", RemoveContextsRequest{ContextIDs: []int64{10}})

	s.Equal(http.StatusNoContent, w.Code)
	s.Equal(2, s.agreements.Count())
	s.Zero(s.settings.Count(), "context settings removed with the context")
}

func (s *AdminHandlerSuite) TestRemoveContextsRequiresIDs() {
	w := s.postJSON("/admin/contexts/remove", RemoveContextsRequest{})

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *AdminHandlerSuite) TestExport() {
	w := s.do(httptest.NewRequest(http.MethodGet, "/admin/users/7/export", nil))

	s.Equal(http.StatusOK, w.Code)
	var export privacy.Export
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&export))
	s.Equal(int64(7), export.UserID)
	s.Len(export.Agreements, 2)
	s.Len(export.SettingsModified, 1)
}

func (s *AdminHandlerSuite) TestExportRejectsBadUserID() {
	s.Equal(http.StatusBadRequest,
		s.do(httptest.NewRequest(http.MethodGet, "/admin/users/abc/export", nil)).Code)
}

func (s *AdminHandlerSuite) TestErase() {
	w := s.do(httptest.NewRequest(http.MethodDelete, "/admin/users/7", nil))

	s.Equal(http.StatusNoContent, w.Code)
	remaining, err := s.agreements.ListByUser(s.ctx, 7)
	s.Require().NoError(err)
	s.Empty(remaining)
	s.Equal(1, s.settings.Count(), "setting rows survive erasure")
	modified, err := s.settings.ListModifiedBy(s.ctx, 7)
	s.Require().NoError(err)
	s.Empty(modified, "settings detached from the erased user")
	s.Zero(s.cache.Len())
}

func (s *AdminHandlerSuite) TestUnauthenticated() {
	s.auth.err = errors.New("no credentials")

	w := s.do(httptest.NewRequest(http.MethodDelete, "/admin/users/7", nil))

	s.Equal(http.StatusUnauthorized, w.Code)
}
