package hub

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickgao/coin-ticker/internal/program"
	"github.com/rickgao/coin-ticker/internal/ticker"
	"github.com/rickgao/coin-ticker/internal/view"
)

func testFrame(rev uint64, price float64) program.Frame {
	return program.Frame{
		Snapshot: ticker.Snapshot{
			Price:       price,
			LastUpdated: "Jan 1, 2024 00:00:00 UTC",
			Currency:    "USD",
			Symbol:      "$",
			Revision:    rev,
		},
		View: view.El("div", "ticker-widget", "display: block",
			view.El("p", "last-updated", "", view.TextNode("Jan 1, 2024 00:00:00 UTC")),
		),
		At: time.Now(),
	}
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func waitForClients(t *testing.T, h *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if h.Clients() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("clients = %d, want %d", h.Clients(), want)
}

func TestEncode(t *testing.T) {
	data, err := Encode(testFrame(3, 43210))
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, MessageTypeFrame, msg.Type)
	assert.Equal(t, uint64(3), msg.Revision)
	assert.Equal(t, 43210.0, msg.Price)
	assert.Equal(t, "Jan 1, 2024 00:00:00 UTC", msg.Updated)
	assert.Contains(t, msg.HTML, `class="last-updated"`)
}

func TestHub_BroadcastReachesClients(t *testing.T) {
	h := New(DefaultConfig(), nil)
	server := httptest.NewServer(h)
	defer server.Close()
	defer h.Close()

	a := dial(t, server)
	b := dial(t, server)
	waitForClients(t, h, 2)

	require.NoError(t, h.Broadcast(testFrame(1, 50000)))

	for _, conn := range []*websocket.Conn{a, b} {
		msg := readMessage(t, conn)
		assert.Equal(t, uint64(1), msg.Revision)
		assert.Equal(t, 50000.0, msg.Price)
	}
}

func TestHub_SendsLatestOnConnect(t *testing.T) {
	h := New(DefaultConfig(), nil)
	server := httptest.NewServer(h)
	defer server.Close()
	defer h.Close()

	h.Observe(testFrame(1, 100))
	h.Observe(testFrame(2, 200))

	conn := dial(t, server)
	msg := readMessage(t, conn)
	assert.Equal(t, uint64(2), msg.Revision)
	assert.Equal(t, 200.0, msg.Price)
}

func TestHub_ClientDisconnectUnregisters(t *testing.T) {
	h := New(DefaultConfig(), nil)
	server := httptest.NewServer(h)
	defer server.Close()
	defer h.Close()

	conn := dial(t, server)
	waitForClients(t, h, 1)

	conn.Close()
	waitForClients(t, h, 0)
}

func TestHub_SlowClientDropped(t *testing.T) {
	h := New(Config{SendBuffer: 1}, nil)

	slow := &client{id: uuid.New(), hub: h, send: make(chan []byte, 1)}
	h.clients[slow.id] = slow
	slow.send <- []byte("backlog")

	require.NoError(t, h.Broadcast(testFrame(1, 1)))

	assert.Equal(t, 0, h.Clients())
	assert.Equal(t, int64(1), h.Dropped())

	<-slow.send
	_, ok := <-slow.send
	assert.False(t, ok, "send channel should be closed")
}

func TestHub_Close(t *testing.T) {
	h := New(DefaultConfig(), nil)
	server := httptest.NewServer(h)
	defer server.Close()

	conn := dial(t, server)
	waitForClients(t, h, 1)

	h.Close()
	assert.Equal(t, 0, h.Clients())
	assert.ErrorIs(t, h.Broadcast(testFrame(1, 1)), ErrClosed)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	h.Close()
}

func TestNew_PingPeriodBelowPongWait(t *testing.T) {
	h := New(Config{PongWait: time.Second, PingPeriod: 2 * time.Second}, nil)
	assert.Less(t, h.cfg.PingPeriod, h.cfg.PongWait)
}
