package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestHealthHandler(t *testing.T) {
	srv := New(nil, zaptest.NewLogger(t))
	rec := httptest.NewRecorder()

	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
	body, _ := io.ReadAll(rec.Body)
	assert.Equal(t, "Chat relay is running!", string(body))
}

func TestWebSocketHandlerRejectsNonGet(t *testing.T) {
	srv := New(nil, zaptest.NewLogger(t))

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.Routes().ServeHTTP(rec, httptest.NewRequest(method, "/ws", nil))
			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		})
	}
}

func TestWebSocketHandlerRejectsPlainGet(t *testing.T) {
	srv := New(nil, zaptest.NewLogger(t))
	rec := httptest.NewRecorder()

	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, srv.Hub().ClientCount())
}

func TestPresenceHandler(t *testing.T) {
	srv := New(nil, zaptest.NewLogger(t))
	srv.Stores().Presence.SetOnline("alice")
	srv.Stores().Presence.SetOnline("bob")
	srv.Stores().Presence.SetOffline("bob")

	tests := []struct {
		userID string
		want   string
	}{
		{"alice", "online"},
		{"bob", "offline"},
		{"carol", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.userID, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/presence?userId="+tt.userID, nil))

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var resp presenceResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.userID, resp.UserID)
			assert.Equal(t, tt.want, resp.Status)
		})
	}
}

func TestPresenceHandlerRequiresUserID(t *testing.T) {
	srv := New(nil, zaptest.NewLogger(t))
	rec := httptest.NewRecorder()

	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/presence", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPresenceHandlerRejectsNonGet(t *testing.T) {
	srv := New(nil, zaptest.NewLogger(t))
	rec := httptest.NewRecorder()

	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/presence?userId=a", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
