package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/DoyleJ11/portfolio-backend/internal/catalog"
	"github.com/DoyleJ11/portfolio-backend/internal/clock"
	"github.com/DoyleJ11/portfolio-backend/internal/hub"
	"github.com/DoyleJ11/portfolio-backend/internal/types"
	"github.com/DoyleJ11/portfolio-backend/internal/visibility"
)

func setup(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	h := hub.NewHub(context.Background(), hub.Config{Clock: clock.NewFake(time.Unix(0, 0))})
	t.Cleanup(func() { h.Inbox() <- hub.ShutdownHub{} })

	s, err := h.MountSection(context.Background(), catalog.Skills, "", 1300)
	require.NoError(t, err)

	srv := httptest.NewServer(Handler(h, nil, zaptest.NewLogger(t)))
	t.Cleanup(srv.Close)
	return srv, s.ID()
}

func dial(t *testing.T, srv *httptest.Server, id string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"?id="+id, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })
	return conn
}

func recv(t *testing.T, conn *websocket.Conn) types.ServerMessage {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, data, err := conn.Read(ctx)
	require.NoError(t, err)
	var msg types.ServerMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func sendJSON(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, conn.Write(context.Background(), websocket.MessageText, data))
}

func TestHandler_StreamsFramesAndAppliesCommands(t *testing.T) {
	srv, id := setup(t)
	conn := dial(t, srv, id)

	first := recv(t, conn)
	require.Equal(t, types.MsgFrame, first.Type)
	require.NotNil(t, first.View)
	assert.Equal(t, 0, first.Version)
	assert.Len(t, first.View.Frame.Nodes, 6)

	sendJSON(t, conn, types.ClientMessage{Type: types.MsgHoverEnter, ItemID: "backend"})
	hovered := recv(t, conn)
	assert.Equal(t, 1, hovered.Version)
	assert.Equal(t, 3, hovered.View.Frame.Display.Index)
	assert.NotEmpty(t, hovered.View.Frame.SubNodes)

	sendJSON(t, conn, types.ClientMessage{Type: types.MsgObserve, Observation: &visibility.Observation{Top: 100, Bottom: 700, ViewportHeight: 900}})
	revealed := recv(t, conn)
	assert.True(t, revealed.View.State.Visible)
}

func TestHandler_BadMessagesKeepConnectionOpen(t *testing.T) {
	srv, id := setup(t)
	conn := dial(t, srv, id)
	recv(t, conn)

	require.NoError(t, conn.Write(context.Background(), websocket.MessageText, []byte("{not json")))
	msg := recv(t, conn)
	assert.Equal(t, types.MsgError, msg.Type)
	assert.Equal(t, "bad json", msg.Error)

	sendJSON(t, conn, types.ClientMessage{Type: "Explode"})
	msg = recv(t, conn)
	assert.Equal(t, "unknown type", msg.Error)

	sendJSON(t, conn, types.ClientMessage{Type: types.MsgPause})
	msg = recv(t, conn)
	assert.Equal(t, types.MsgFrame, msg.Type)
	assert.True(t, msg.View.State.Paused)
}

func TestHandler_RejectsUnknownSection(t *testing.T) {
	srv, _ := setup(t)

	resp, err := http.Get(srv.URL + "?id=missing")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandler_ClosedTabLetsSectionBeReaped(t *testing.T) {
	ctx := context.Background()
	fake := clock.NewFake(time.Unix(0, 0))
	h := hub.NewHub(ctx, hub.Config{Clock: fake, IdleTimeout: 30 * time.Second})
	t.Cleanup(func() { h.Inbox() <- hub.ShutdownHub{} })

	s, err := h.MountSection(ctx, catalog.Skills, "", 1300)
	require.NoError(t, err)
	srv := httptest.NewServer(Handler(h, nil, zaptest.NewLogger(t)))
	t.Cleanup(srv.Close)

	conn := dial(t, srv, s.ID())
	recv(t, conn)
	sendJSON(t, conn, types.ClientMessage{Type: types.MsgObserve, Observation: &visibility.Observation{Top: 100, Bottom: 700, ViewportHeight: 900}})
	revealed := recv(t, conn)
	require.True(t, revealed.View.State.Visible)

	require.NoError(t, conn.Close(websocket.StatusNormalClosure, "tab closed"))
	require.Eventually(t, func() bool {
		v, err := s.State(ctx)
		return err == nil && v.NumClients == 0
	}, time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		fake.Advance(31*time.Second, 50*time.Millisecond)
		select {
		case <-s.Done():
			return true
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, fake.Live(), "no timer may outlive the section")

	require.Eventually(t, func() bool {
		_, err := h.Section(ctx, s.ID())
		return errors.Is(err, hub.ErrNotFound)
	}, time.Second, 5*time.Millisecond)
}
