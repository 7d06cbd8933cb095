package monitor

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnatoleLucet/railsig/host"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestServer(t *testing.T) {
	t.Run("broadcasts published snapshots", func(t *testing.T) {
		s := NewServer(quietLogger())
		srv := httptest.NewServer(s.Handler())
		defer srv.Close()
		defer s.Close()

		a := dial(t, srv)
		b := dial(t, srv)
		require.Eventually(t, func() bool { return s.Clients() == 2 }, time.Second, 10*time.Millisecond)

		mem := host.NewMemory()
		mem.SetFloat("Door_1_1", 0.64)
		mem.SetBool("Snd_Klingel_Loop", true)
		require.NoError(t, s.Publish(12, 1.2, mem.Snapshot()))

		for _, conn := range []*websocket.Conn{a, b} {
			msg := readMessage(t, conn)
			assert.Equal(t, uint64(12), msg.Tick)
			assert.Equal(t, 1.2, msg.Elapsed)
			assert.Equal(t, 0.64, msg.Floats["Door_1_1"])
			assert.True(t, msg.Bools["Snd_Klingel_Loop"])
		}
	})

	t.Run("new clients get the latest snapshot", func(t *testing.T) {
		s := NewServer(quietLogger())
		srv := httptest.NewServer(s.Handler())
		defer srv.Close()
		defer s.Close()

		require.NoError(t, s.Publish(3, 0.3, host.Snapshot{Floats: map[string]float64{"Standlicht": 1}}))

		conn := dial(t, srv)
		msg := readMessage(t, conn)
		assert.Equal(t, uint64(3), msg.Tick)
		assert.Equal(t, 1.0, msg.Floats["Standlicht"])
	})

	t.Run("forgets disconnected clients", func(t *testing.T) {
		s := NewServer(quietLogger())
		srv := httptest.NewServer(s.Handler())
		defer srv.Close()

		conn := dial(t, srv)
		require.Eventually(t, func() bool { return s.Clients() == 1 }, time.Second, 10*time.Millisecond)

		conn.Close()
		require.Eventually(t, func() bool { return s.Clients() == 0 }, time.Second, 10*time.Millisecond)
	})
}

func TestSnapshotHandler(t *testing.T) {
	t.Run("unavailable before the first publish", func(t *testing.T) {
		s := NewServer(quietLogger())
		rr := httptest.NewRecorder()
		s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/snapshot", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})

	t.Run("serves the latest snapshot", func(t *testing.T) {
		s := NewServer(quietLogger())
		require.NoError(t, s.Publish(1, 0.1, host.Snapshot{Floats: map[string]float64{"A": 1}}))
		require.NoError(t, s.Publish(2, 0.2, host.Snapshot{Floats: map[string]float64{"A": 2}}))

		rr := httptest.NewRecorder()
		s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/snapshot", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

		var msg Message
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &msg))
		assert.Equal(t, uint64(2), msg.Tick)
		assert.Equal(t, 2.0, msg.Floats["A"])
	})
}
