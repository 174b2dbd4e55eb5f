// internal/server/handlers/session_test.go

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrownBean2017/SpotShare-MVP/internal/service/geo"
	"github.com/BrownBean2017/SpotShare-MVP/internal/service/marketplace"
	"github.com/BrownBean2017/SpotShare-MVP/internal/service/session"
)

func sessionEcho(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(SessionFrom(r.Context()).ID))
}

func TestRequireSessionRejectsMissingAndUnknown(t *testing.T) {
	manager := newTestManager(t)
	handler := RequireSession(manager)(http.HandlerFunc(sessionEcho))

	tests := []struct {
		name    string
		prepare func(r *http.Request)
		message string
	}{
		{"no session", func(r *http.Request) {}, "Session required"},
		{"forged header", func(r *http.Request) { r.Header.Set(SessionHeader, "forged") }, "Session not found or expired"},
		{"forged cookie", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "forged"})
		}, "Session not found or expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
			tt.prepare(req)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.message, body["error"])
			assert.Empty(t, rec.Result().Cookies())
		})
	}

	assert.Zero(t, manager.Len())
}

func TestRequireSessionAttachesExisting(t *testing.T) {
	manager := newTestManager(t)
	s := manager.Create()
	handler := RequireSession(manager)(http.HandlerFunc(sessionEcho))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: s.ID})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, s.ID, rec.Body.String())
	assert.Equal(t, s.ID, rec.Header().Get(SessionHeader))
	assert.Equal(t, 1, manager.Len())
}

func TestSessionMiddlewareStartsSession(t *testing.T) {
	manager := newTestManager(t)
	handler := SessionMiddleware(manager, false)(http.HandlerFunc(sessionEcho))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, rec.Body.String(), cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, 1, manager.Len())

	// A known cookie is reused without a new Set-Cookie
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, cookies[0].Value, rec.Body.String())
	assert.Empty(t, rec.Result().Cookies())
	assert.Equal(t, 1, manager.Len())
}

func TestCreateSession(t *testing.T) {
	manager := newTestManager(t)

	rec := httptest.NewRecorder()
	CreateSession(manager, true).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/sessions", nil))

	require.Equal(t, http.StatusCreated, rec.Code)
	var state session.State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, state.SessionID, rec.Header().Get(SessionHeader))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].Secure)

	_, ok := manager.Get(state.SessionID)
	assert.True(t, ok)
}

func TestReadsKeepSessionAlive(t *testing.T) {
	manager := session.NewManager(session.Dependencies{
		Market: marketplace.NewService(
			marketplace.NewSequenceGenerator("id"),
			geo.NewLocator(geo.ReferencePoint, geo.DefaultSpread, 1),
			marketplace.Config{},
		),
		Assistant: nopAssistant{},
	}, session.ManagerConfig{IdleTTL: 100 * time.Millisecond, SweepInterval: 10 * time.Millisecond})
	defer manager.Stop(context.Background())

	s := manager.Create()
	handler := RequireSession(manager)(http.HandlerFunc(GetSession))

	deadline := time.Now().Add(300 * time.Millisecond)
	for time.Now().Before(deadline) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
		req.Header.Set(SessionHeader, s.ID)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		time.Sleep(20 * time.Millisecond)
	}

	_, ok := manager.Get(s.ID)
	assert.True(t, ok)

	// Without reads the session goes idle
	assert.Eventually(t, func() bool {
		_, ok := manager.Get(s.ID)
		return !ok
	}, 2*time.Second, 10*time.Millisecond)
}
