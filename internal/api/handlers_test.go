// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/coloratura-app/coloratura/internal/catalog"
	"github.com/coloratura-app/coloratura/internal/config"
	"github.com/coloratura-app/coloratura/internal/limits"
	"github.com/coloratura-app/coloratura/internal/models"
	"github.com/coloratura-app/coloratura/internal/recommend"
	"github.com/coloratura-app/coloratura/internal/search"
)

// Hand-rolled stubs for the handler's collaborator interfaces.

type stubRecommender struct {
	resp    *recommend.Response
	err     error
	lastReq recommend.Request
}

func (s *stubRecommender) Recommend(_ context.Context, req recommend.Request) (*recommend.Response, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

type stubCatalog struct {
	pages     map[string]*models.ColoringPage
	queryOut  []models.ColoringPage
	queryErr  error
	lastQuery catalog.PageQuery
	count     int
	countErr  error
}

func (s *stubCatalog) GetPage(_ context.Context, id string) (*models.ColoringPage, error) {
	page, ok := s.pages[id]
	if !ok {
		return nil, catalog.ErrPageNotFound
	}
	return page, nil
}

func (s *stubCatalog) QueryPages(_ context.Context, q catalog.PageQuery) ([]models.ColoringPage, error) {
	s.lastQuery = q
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	out := s.queryOut
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *stubCatalog) CountPages(_ context.Context) (int, error) {
	return s.count, s.countErr
}

type stubSearcher struct {
	results []search.Result
	err     error
	ready   bool
}

func (s *stubSearcher) Search(_ context.Context, _ string, _ int) ([]search.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

func (s *stubSearcher) Ready() bool { return s.ready }

type stubAllowance struct {
	decision limits.Decision
	lastUser string
}

func (s *stubAllowance) Check(_ context.Context, userID string) limits.Decision {
	s.lastUser = userID
	return s.decision
}

type stubPublisher struct {
	err        error
	lastUserID string
	lastPageID string
	lastSource string
	calls      int
}

func (s *stubPublisher) PublishDownload(_ context.Context, userID, pageID, source string) error {
	s.calls++
	s.lastUserID = userID
	s.lastPageID = pageID
	s.lastSource = source
	return s.err
}

type stubNewsletter struct {
	sub            *models.Subscription
	subscribeErr   error
	unsubscribeErr error
	lastEmail      string
	lastLanguage   string
	lastToken      string
}

func (s *stubNewsletter) Subscribe(_ context.Context, email, language string) (*models.Subscription, error) {
	s.lastEmail = email
	s.lastLanguage = language
	if s.subscribeErr != nil {
		return nil, s.subscribeErr
	}
	return s.sub, nil
}

func (s *stubNewsletter) Unsubscribe(_ context.Context, email, token string) error {
	s.lastEmail = email
	s.lastToken = token
	return s.unsubscribeErr
}

type stubPinger struct {
	err error
}

func (s *stubPinger) Ping(_ context.Context) error { return s.err }

// testConfig returns a minimal request-handling config.
func testConfig() *config.Config {
	return &config.Config{
		API: config.APIConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
		},
		Security: config.SecurityConfig{
			AuthMode:    "header",
			CORSOrigins: []string{"*"},
		},
	}
}

// newTestHandler wires a Handler over stubs, returning the stubs for
// per-test configuration.
func newTestHandler(t *testing.T) (*Handler, *stubCatalog, *stubRecommender) {
	t.Helper()

	cat := &stubCatalog{pages: map[string]*models.ColoringPage{}}
	rec := &stubRecommender{resp: &recommend.Response{StrategyUsed: "hybrid_popularity", Confidence: 0.5}}
	h := NewHandler(HandlerDeps{
		Config:  testConfig(),
		Engine:  rec,
		Catalog: cat,
		DB:      &stubPinger{},
		Version: "test",
	})
	return h, cat, rec
}

// withURLParam injects a chi route parameter the way the router would.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// withIdentity attaches a resolved user identity to the request.
func withIdentity(r *http.Request, userID string) *http.Request {
	return r.WithContext(ContextWithIdentity(r.Context(), Identity{UserID: userID}))
}

// decodeEnvelope decodes the recorded response into the envelope.
func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()

	var resp APIResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return resp
}

// requireErrorCode asserts a failed envelope with the given code.
func requireErrorCode(t *testing.T, w *httptest.ResponseRecorder, wantStatus int, wantCode string) {
	t.Helper()

	if w.Code != wantStatus {
		t.Fatalf("Expected status %d, got %d: %s", wantStatus, w.Code, w.Body.String())
	}
	resp := decodeEnvelope(t, w)
	if resp.Success {
		t.Fatal("Expected success=false")
	}
	if resp.Error == nil {
		t.Fatal("Expected error block")
	}
	if resp.Error.Code != wantCode {
		t.Errorf("Expected error code %s, got %s", wantCode, resp.Error.Code)
	}
}
