// internal/server/handlers/websocket_test.go

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrownBean2017/SpotShare-MVP/internal/domain/assist"
	"github.com/BrownBean2017/SpotShare-MVP/internal/domain/spot"
	"github.com/BrownBean2017/SpotShare-MVP/internal/service/geo"
	"github.com/BrownBean2017/SpotShare-MVP/internal/service/marketplace"
	"github.com/BrownBean2017/SpotShare-MVP/internal/service/session"
)

type nopAssistant struct{}

func (nopAssistant) RecommendSpots(ctx context.Context, query string, candidates []assist.Candidate) []assist.Recommendation {
	return []assist.Recommendation{}
}

func (nopAssistant) GenerateDescription(ctx context.Context, draft spot.ListingDraft) string {
	return ""
}

func (nopAssistant) SuggestPrice(ctx context.Context, address string, spotType spot.Type) float64 {
	return 0
}

func newTestManager(t *testing.T) *session.Manager {
	t.Helper()

	m := session.NewManager(session.Dependencies{
		Market: marketplace.NewService(
			marketplace.NewSequenceGenerator("id"),
			geo.NewLocator(geo.ReferencePoint, geo.DefaultSpread, 1),
			marketplace.Config{},
		),
		Assistant: nopAssistant{},
	}, session.ManagerConfig{})
	t.Cleanup(func() { m.Stop(context.Background()) })
	return m
}

func TestHubSessionFromSubject(t *testing.T) {
	h := NewHub("spotshare", DefaultWebSocketConfig())

	id, ok := h.sessionFromSubject("spotshare.abc-123.spot.created")
	assert.True(t, ok)
	assert.Equal(t, "abc-123", id)

	_, ok = h.sessionFromSubject("other.abc-123.spot.created")
	assert.False(t, ok)
	_, ok = h.sessionFromSubject("spotshare.noevent")
	assert.False(t, ok)
}

func TestHubDeliversOnlyToOwnSession(t *testing.T) {
	manager := newTestManager(t)
	s := manager.Create()

	hub := NewHub("spotshare", DefaultWebSocketConfig())
	defer hub.Close()

	srv := httptest.NewServer(RequireSession(manager)(http.HandlerFunc(hub.EventsWebSocketHandler)))
	defer srv.Close()

	header := http.Header{}
	header.Set(SessionHeader, s.ID)
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), header)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, welcome, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(welcome), `"type":"welcome"`)
	assert.Equal(t, 1, hub.ClientCount(s.ID))

	require.NoError(t, hub.Publish("spotshare.someone-else.spot.created", []byte(`{"type":"other"}`)))
	require.NoError(t, hub.Publish("spotshare."+s.ID+".booking.created", []byte(`{"type":"booking.created"}`)))

	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, `{"type":"booking.created"}`, string(msg))
}

func TestHubCloseDisconnectsClients(t *testing.T) {
	manager := newTestManager(t)
	s := manager.Create()

	hub := NewHub("spotshare", DefaultWebSocketConfig())

	srv := httptest.NewServer(RequireSession(manager)(http.HandlerFunc(hub.EventsWebSocketHandler)))
	defer srv.Close()

	header := http.Header{}
	header.Set(SessionHeader, s.ID)
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), header)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	require.NoError(t, err)

	hub.Close()
	assert.Zero(t, hub.ClientCount(s.ID))

	_, _, err = conn.ReadMessage()
	assert.Error(t, err)

	// Publishing after close is a no-op
	assert.NoError(t, hub.Publish("spotshare."+s.ID+".spot.created", []byte("x")))
}

func TestWebSocketRequiresKnownSession(t *testing.T) {
	manager := newTestManager(t)

	hub := NewHub("spotshare", DefaultWebSocketConfig())
	defer hub.Close()

	srv := httptest.NewServer(RequireSession(manager)(http.HandlerFunc(hub.EventsWebSocketHandler)))
	defer srv.Close()

	header := http.Header{}
	header.Set(SessionHeader, "forged")
	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Zero(t, manager.Len())
}
