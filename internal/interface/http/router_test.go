package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/critter-checklist/internal/domain/catalog"
	"github.com/yanqian/critter-checklist/internal/domain/checklist"
	"github.com/yanqian/critter-checklist/internal/infra/config"
	apperrors "github.com/yanqian/critter-checklist/pkg/errors"
)

func TestRouter_Health(t *testing.T) {
	recorder := performRequest(http.MethodGet, "/healthz", "", newRouterUnderTest(t, &stubService{}, ""))
	require.Equal(t, http.StatusOK, recorder.Code)
	require.NotEmpty(t, recorder.Header().Get(requestIDHeader))
}

func TestRouter_ListItemsSuccess(t *testing.T) {
	svc := &stubService{
		listFn: func(ctx context.Context, category catalog.Category) (checklist.ListView, error) {
			require.Equal(t, catalog.CategoryBugs, category)
			return checklist.ListView{Category: category, Count: 1, Rows: []checklist.Row{{ID: "bugs-001", Name: "Common butterfly", Available: true}}}, nil
		},
	}

	recorder := performRequest(http.MethodGet, "/api/v1/categories/bugs/items", "", newRouterUnderTest(t, svc, ""))
	require.Equal(t, http.StatusOK, recorder.Code)

	var got checklist.ListView
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, 1, got.Count)
	require.Equal(t, "bugs-001", got.Rows[0].ID)
	require.True(t, got.Rows[0].Available)
}

func TestRouter_UnknownCategory(t *testing.T) {
	recorder := performRequest(http.MethodGet, "/api/v1/categories/birds/items", "", newRouterUnderTest(t, &stubService{}, ""))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "invalid_input", errBody["error"]["code"])
	require.Contains(t, errBody["error"]["message"], "birds")
}

func TestRouter_DatasetUnavailable(t *testing.T) {
	svc := &stubService{
		listFn: func(ctx context.Context, category catalog.Category) (checklist.ListView, error) {
			return checklist.ListView{}, apperrors.Wrap(apperrors.CodeDatasetUnavailable, "fish dataset could not be loaded", io.ErrUnexpectedEOF)
		},
	}

	recorder := performRequest(http.MethodGet, "/api/v1/categories/fish/items", "", newRouterUnderTest(t, svc, ""))
	require.Equal(t, http.StatusBadGateway, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "dataset_unavailable", errBody["error"]["code"])
	require.Contains(t, errBody["error"]["message"], "unexpected EOF")
}

func TestRouter_UpdateSettingsInvalidInput(t *testing.T) {
	svc := &stubService{
		updateSettingsFn: func(ctx context.Context, patch checklist.SettingsPatch) (checklist.Settings, error) {
			require.NotNil(t, patch.ManualMonth)
			require.Equal(t, 13, *patch.ManualMonth)
			return checklist.Settings{}, apperrors.Wrap(apperrors.CodeInvalidInput, "manualMonth must be between 1 and 12", nil)
		},
	}

	recorder := performRequest(http.MethodPatch, "/api/v1/settings", `{"manualMonth":13}`, newRouterUnderTest(t, svc, ""))
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	require.Equal(t, "invalid_input", decodeErrorBody(t, recorder.Body.Bytes())["error"]["code"])
}

func TestRouter_UpdateSettingsMalformedJSON(t *testing.T) {
	recorder := performRequest(http.MethodPatch, "/api/v1/settings", `{"manualMonth":"x"}`, newRouterUnderTest(t, &stubService{}, ""))
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	require.Equal(t, "invalid_request", decodeErrorBody(t, recorder.Body.Bytes())["error"]["code"])
}

func TestRouter_SetMark(t *testing.T) {
	svc := &stubService{
		setMarkFn: func(ctx context.Context, id string, caught bool) (checklist.Mark, error) {
			if id == "missing" {
				return checklist.Mark{}, apperrors.Wrap(apperrors.CodeNotFound, "item missing not found", nil)
			}
			return checklist.Mark{Caught: caught}, nil
		},
	}
	server := newRouterUnderTest(t, svc, "")

	recorder := performRequest(http.MethodPut, "/api/v1/marks/fish-001", `{"caught":true}`, server)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.JSONEq(t, `{"id":"fish-001","caught":true}`, recorder.Body.String())

	recorder = performRequest(http.MethodPut, "/api/v1/marks/missing", `{"caught":true}`, server)
	require.Equal(t, http.StatusNotFound, recorder.Code)

	recorder = performRequest(http.MethodPut, "/api/v1/marks/fish-001", `{}`, server)
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	require.Equal(t, "caught is required", decodeErrorBody(t, recorder.Body.Bytes())["error"]["message"])
}

func TestRouter_BulkMark(t *testing.T) {
	svc := &stubService{
		bulkMarkFn: func(ctx context.Context, category catalog.Category, caught bool) (int, error) {
			require.Equal(t, catalog.CategorySea, category)
			require.False(t, caught)
			return 4, nil
		},
	}

	recorder := performRequest(http.MethodPost, "/api/v1/categories/sea/marks", `{"caught":false}`, newRouterUnderTest(t, svc, ""))
	require.Equal(t, http.StatusOK, recorder.Code)
	require.JSONEq(t, `{"updated":4,"caught":false}`, recorder.Body.String())
}

func TestRouter_SetTab(t *testing.T) {
	var got catalog.Category
	svc := &stubService{
		setTabFn: func(ctx context.Context, category catalog.Category) error {
			got = category
			return nil
		},
	}
	server := newRouterUnderTest(t, svc, "")

	recorder := performRequest(http.MethodPut, "/api/v1/tab", `{"tab":"sea"}`, server)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, catalog.CategorySea, got)

	recorder = performRequest(http.MethodPut, "/api/v1/tab", `{"tab":"birds"}`, server)
	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestRouter_WriteGuard(t *testing.T) {
	const secret = "test-secret"
	svc := &stubService{
		setMarkFn: func(ctx context.Context, id string, caught bool) (checklist.Mark, error) {
			return checklist.Mark{Caught: caught}, nil
		},
	}
	server := newRouterUnderTest(t, svc, secret)

	recorder := performRequest(http.MethodPut, "/api/v1/marks/fish-001", `{"caught":true}`, server)
	require.Equal(t, http.StatusUnauthorized, recorder.Code)

	expired := signToken(t, secret, time.Now().Add(-time.Minute))
	recorder = performAuthorizedRequest(http.MethodPut, "/api/v1/marks/fish-001", `{"caught":true}`, expired, server)
	require.Equal(t, http.StatusForbidden, recorder.Code)
	require.Equal(t, "token expired", decodeErrorBody(t, recorder.Body.Bytes())["error"]["message"])

	wrongKey := signToken(t, "other", time.Now().Add(time.Hour))
	recorder = performAuthorizedRequest(http.MethodPut, "/api/v1/marks/fish-001", `{"caught":true}`, wrongKey, server)
	require.Equal(t, http.StatusForbidden, recorder.Code)

	valid := signToken(t, secret, time.Now().Add(time.Hour))
	recorder = performAuthorizedRequest(http.MethodPut, "/api/v1/marks/fish-001", `{"caught":true}`, valid, server)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = performRequest(http.MethodGet, "/api/v1/state", "", server)
	require.Equal(t, http.StatusOK, recorder.Code, "reads stay open")
}

func TestRouter_CORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/settings", nil)
	req.Header.Set("Origin", "https://ui.example")
	rec := httptest.NewRecorder()
	newRouterUnderTest(t, &stubService{}, "").Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PATCH")
}

func TestIPRateLimiterRefills(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := newIPRateLimiter(config.RateLimitConfig{Enabled: true, RequestsPerMinute: 60, Burst: 2}, func() time.Time { return now })

	_, ok := limiter.reserve("1.2.3.4")
	require.True(t, ok)
	_, ok = limiter.reserve("1.2.3.4")
	require.True(t, ok)
	wait, ok := limiter.reserve("1.2.3.4")
	require.False(t, ok)
	require.Equal(t, time.Second, wait)

	_, ok = limiter.reserve("5.6.7.8")
	require.True(t, ok, "buckets are per ip")

	now = now.Add(time.Second)
	_, ok = limiter.reserve("1.2.3.4")
	require.True(t, ok)
}

func performRequest(method, path, body string, server *http.Server) *httptest.ResponseRecorder {
	return performAuthorizedRequest(method, path, body, "", server)
}

func performAuthorizedRequest(method, path, body, token string, server *http.Server) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func newRouterUnderTest(t *testing.T, svc checklist.Service, secret string) *http.Server {
	t.Helper()
	handler := NewHandler(svc, newTestLogger())
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
		Auth: config.AuthConfig{WriteTokenSecret: secret},
	}
	return NewRouter(cfg, handler)
}

func signToken(t *testing.T, secret string, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "tester",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

type stubService struct {
	listFn           func(ctx context.Context, category catalog.Category) (checklist.ListView, error)
	setMarkFn        func(ctx context.Context, id string, caught bool) (checklist.Mark, error)
	bulkMarkFn       func(ctx context.Context, category catalog.Category, caught bool) (int, error)
	updateSettingsFn func(ctx context.Context, patch checklist.SettingsPatch) (checklist.Settings, error)
	setTabFn         func(ctx context.Context, category catalog.Category) error
}

func (s *stubService) Snapshot(ctx context.Context) (checklist.State, error) {
	return checklist.DefaultState(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)), nil
}

func (s *stubService) List(ctx context.Context, category catalog.Category) (checklist.ListView, error) {
	if s.listFn != nil {
		return s.listFn(ctx, category)
	}
	return checklist.ListView{Category: category}, nil
}

func (s *stubService) Availability(ctx context.Context, category catalog.Category, id string) (bool, error) {
	return false, nil
}

func (s *stubService) SetMark(ctx context.Context, id string, caught bool) (checklist.Mark, error) {
	if s.setMarkFn != nil {
		return s.setMarkFn(ctx, id, caught)
	}
	return checklist.Mark{Caught: caught}, nil
}

func (s *stubService) BulkMark(ctx context.Context, category catalog.Category, caught bool) (int, error) {
	if s.bulkMarkFn != nil {
		return s.bulkMarkFn(ctx, category, caught)
	}
	return 0, nil
}

func (s *stubService) UpdateFilter(ctx context.Context, category catalog.Category, patch checklist.FilterPatch) (checklist.Filter, error) {
	return checklist.Filter{}, nil
}

func (s *stubService) UpdateSettings(ctx context.Context, patch checklist.SettingsPatch) (checklist.Settings, error) {
	if s.updateSettingsFn != nil {
		return s.updateSettingsFn(ctx, patch)
	}
	return checklist.Settings{}, nil
}

func (s *stubService) SetTab(ctx context.Context, category catalog.Category) error {
	if s.setTabFn != nil {
		return s.setTabFn(ctx, category)
	}
	return nil
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}
