package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DoyleJ11/portfolio-backend/internal/hub"
	"github.com/DoyleJ11/portfolio-backend/internal/section"
	"github.com/DoyleJ11/portfolio-backend/internal/types"
)

const (
	writeTimeout = 3 * time.Second
	readTimeout  = 60 * time.Second
)

// Handler streams a mounted section's frames to the browser and forwards
// pointer, scroll and resize events back to it.
func Handler(h *hub.Hub, originPatterns []string, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		if id == "" {
			http.Error(w, "missing id", http.StatusBadRequest)
			return
		}

		s, err := h.Section(r.Context(), id)
		if err != nil {
			if errors.Is(err, hub.ErrNotFound) {
				http.Error(w, "section not found", http.StatusNotFound)
				return
			}
			http.Error(w, "hub unavailable", http.StatusServiceUnavailable)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: originPatterns,
		})
		if err != nil {
			log.Debug("websocket accept failed", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan section.Snapshot, 8)
		clientID := uuid.NewString()
		clog := log.With(zap.String("section", id), zap.String("client", clientID))

		if err := s.Send(r.Context(), section.Join{ClientID: clientID, Outbox: out}); err != nil {
			conn.Close(websocket.StatusGoingAway, "section closed")
			return
		}
		defer func() { _ = s.Send(context.Background(), section.Leave{ClientID: clientID}) }()

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			defer writeCancel()
			for snap := range out {
				view := snap.View
				if err := write(writeCtx, conn, types.ServerMessage{Type: types.MsgFrame, Version: snap.Version, View: &view}); err != nil {
					clog.Debug("write failed", zap.Error(err))
					return
				}
			}
			// Outbox closed: the section shut down or dropped us as too slow.
			conn.Close(websocket.StatusGoingAway, "stream ended")
		}()

		// Reader loop
		for {
			ctx, cancel := context.WithTimeout(writeCtx, readTimeout)
			_, data, err := conn.Read(ctx)
			cancel()
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				default:
					clog.Debug("read ended", zap.Error(err))
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = write(writeCtx, conn, types.ServerMessage{Type: types.MsgError, Error: "bad json"})
				continue
			}

			msg, ok := types.ToSectionMsg(cm)
			if !ok {
				_ = write(writeCtx, conn, types.ServerMessage{Type: types.MsgError, Error: "unknown type"})
				continue
			}

			if err := s.Send(writeCtx, msg); err != nil {
				return
			}
		}
	}
}

func write(ctx context.Context, conn *websocket.Conn, msg types.ServerMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, payload)
}
