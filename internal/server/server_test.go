package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickgao/coin-ticker/internal/history"
	"github.com/rickgao/coin-ticker/internal/hub"
	"github.com/rickgao/coin-ticker/internal/program"
	"github.com/rickgao/coin-ticker/internal/ticker"
	"github.com/rickgao/coin-ticker/internal/view"
)

type fakeSource struct {
	frame program.Frame
	stats program.Stats
}

func (f *fakeSource) Current() program.Frame { return f.frame }
func (f *fakeSource) Stats() program.Stats   { return f.stats }

type fakeHistory struct{ m history.Metrics }

func (f fakeHistory) Stats() history.Metrics { return f.m }

type buildInfo struct {
	Version string `json:"version"`
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(ctx context.Context) error { return f.err }

func newSource() *fakeSource {
	return &fakeSource{
		frame: program.Frame{
			Snapshot: ticker.Snapshot{
				Price:       45983.2,
				Rate:        "45,983.2",
				LastUpdated: "Jan 1, 2024 00:00:00 UTC",
				Currency:    "USD",
				Symbol:      "$",
				Digits:      [ticker.DigitCount]int{0, 0, 0, 4, 5, 9, 8, 3},
				Revision:    4,
			},
			View: view.El("div", "ticker-widget", "display: block",
				view.El("p", "last-updated", "", view.TextNode("<Jan 1>")),
			),
			At: time.Date(2024, 1, 1, 0, 0, 5, 0, time.UTC),
		},
	}
}

func TestHandlePage(t *testing.T) {
	src := newSource()
	h := hub.New(hub.DefaultConfig(), nil)
	defer h.Close()

	server := httptest.NewServer(New(src, h).Handler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `<div class="ticker-widget" style="display: block">`)
	assert.Contains(t, string(body), "&lt;Jan 1&gt;")
	assert.Contains(t, string(body), `"/ws"`)
	assert.Contains(t, string(body), ".dollar-sign {")
}

func TestHandlePage_UnknownPath(t *testing.T) {
	h := hub.New(hub.DefaultConfig(), nil)
	defer h.Close()

	server := httptest.NewServer(New(newSource(), h).Handler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandleTicker(t *testing.T) {
	h := hub.New(hub.DefaultConfig(), nil)
	defer h.Close()

	server := httptest.NewServer(New(newSource(), h).Handler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/ticker")
	require.NoError(t, err)
	defer resp.Body.Close()

	var got TickerResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))

	assert.Equal(t, 45983.2, got.Price)
	assert.Equal(t, "00045983", got.Display)
	assert.Equal(t, "45,983.2", got.Rate)
	assert.Equal(t, []int{0, 0, 0, 4, 5, 9, 8, 3}, got.Digits)
	assert.Equal(t, uint64(4), got.Revision)
	assert.Equal(t, "2024-01-01T00:00:05Z", got.At)
}

func TestHandleHealth(t *testing.T) {
	tests := []struct {
		name       string
		stats      program.Stats
		opts       []Option
		wantStatus string
		wantCode   int
		wantKeys   []string
	}{
		{
			name:       "healthy without database",
			wantStatus: "healthy",
			wantCode:   http.StatusOK,
			wantKeys:   []string{"program", "hub"},
		},
		{
			name:       "degraded after fetch failure",
			stats:      program.Stats{FetchFailures: 1, LastError: "get current price: timeout"},
			wantStatus: "degraded",
			wantCode:   http.StatusOK,
		},
		{
			name:       "history and database reported",
			opts:       []Option{WithHistory(fakeHistory{history.Metrics{Inserts: 3}}), WithDatabase(fakePinger{})},
			wantStatus: "healthy",
			wantCode:   http.StatusOK,
			wantKeys:   []string{"program", "hub", "history", "database"},
		},
		{
			name:       "database down",
			opts:       []Option{WithDatabase(fakePinger{err: errors.New("connection refused")})},
			wantStatus: "unhealthy",
			wantCode:   http.StatusServiceUnavailable,
			wantKeys:   []string{"database"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newSource()
			src.stats = tt.stats
			h := hub.New(hub.DefaultConfig(), nil)
			defer h.Close()

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			rec := httptest.NewRecorder()
			New(src, h, tt.opts...).Handler().ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)

			var body struct {
				Status     string                     `json:"status"`
				Version    buildInfo                  `json:"version"`
				Components map[string]json.RawMessage `json:"components"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.NotEmpty(t, body.Version.Version)
			for _, k := range tt.wantKeys {
				assert.Contains(t, body.Components, k)
			}
		})
	}
}

func TestWebSocketRoute(t *testing.T) {
	src := newSource()
	h := hub.New(hub.DefaultConfig(), nil)
	defer h.Close()

	server := httptest.NewServer(New(src, h).Handler())
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return h.Clients() == 1 }, 2*time.Second, 5*time.Millisecond)

	h.Observe(src.frame)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg hub.Message
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, uint64(4), msg.Revision)
}
