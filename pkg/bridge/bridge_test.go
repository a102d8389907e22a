package bridge

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalProducesValidJSON(t *testing.T) {
	b, err := Marshal(Frame{SimTimeS: 1.5, Kind: "state", Data: map[string]int{"n": 3}})

	require.NoError(t, err)
	assert.Contains(t, string(b), `"sim_time_s":1.5`)
	assert.Contains(t, string(b), `"kind":"state"`)
}

func TestPublishWithNoClientsDoesNotPanic(t *testing.T) {
	b := New("127.0.0.1:0")

	assert.NotPanics(t, func() { b.Publish(Frame{SimTimeS: 1}) })
}

func TestHealthEndpointReturnsOK(t *testing.T) {
	b := New("127.0.0.1:0")
	srv := httptest.NewServer(b.router)
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 200, resp.StatusCode)
}

func TestWebsocketClientReceivesPublishedFrame(t *testing.T) {
	b := New("127.0.0.1:0")
	srv := httptest.NewServer(b.router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// give the server goroutine time to register the client before publishing
	time.Sleep(50 * time.Millisecond)
	b.Publish(Frame{SimTimeS: 42, Kind: "state"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got Frame
	require.NoError(t, conn.ReadJSON(&got))

	assert.Equal(t, 42.0, got.SimTimeS)
	assert.Equal(t, "state", got.Kind)
}
