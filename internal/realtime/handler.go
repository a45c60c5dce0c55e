package realtime

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/softpunk/emberfell/internal/model"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong before the connection is
	// considered dead
	pongWait = 60 * time.Second

	// Ping interval; must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Largest client message we accept
	maxMessageSize = 4096
)

// Handler serves the websocket synchronization endpoint. Each accepted
// connection gets a session, a read loop on the request goroutine and a
// write loop goroutine draining the session's send buffer; the transport
// preserves per-connection ordering on both sides.
type Handler struct {
	coord    *Coordinator
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates the synchronization endpoint handler
func NewHandler(coord *Coordinator, logger *slog.Logger) *Handler {
	return &Handler{
		coord: coord,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The game client is embedded in the host platform's
			// pages, so the origin never matches ours
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger.With(slog.String("component", "sync-handler")),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}

	s := h.coord.Connect()
	go h.writeLoop(conn, s)

	h.readLoop(conn, s)

	// Whatever ended the read loop, the session is done. Disconnect is
	// idempotent, so an explicit leave having already closed it is fine.
	h.coord.Disconnect(s)
}

func (h *Handler) readLoop(conn *websocket.Conn, s *Session) {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Debug("connection dropped",
					slog.String("transport_id", s.TransportID()),
					slog.Any("error", err))
			}
			return
		}

		env, err := DecodeEnvelope(data)
		if err != nil {
			h.logger.Debug("discarding malformed message",
				slog.String("transport_id", s.TransportID()),
				slog.Any("error", err))
			continue
		}

		switch env.Type {
		case model.EventJoin:
			var req model.JoinPayload
			if err := json.Unmarshal(env.Payload, &req); err != nil {
				continue
			}
			snapshot, err := h.coord.Join(s, req)
			if err != nil {
				h.reply(s, model.EventError, errorPayload(err))
				continue
			}
			h.reply(s, model.EventSnapshot, snapshot)

		case model.EventMove:
			var req model.MovePayload
			if err := json.Unmarshal(env.Payload, &req); err != nil {
				continue
			}
			h.coord.Move(s, req)

		case model.EventLeave:
			h.coord.Leave(s)
			return

		default:
			h.logger.Debug("unknown event type",
				slog.String("type", string(env.Type)),
				slog.String("transport_id", s.TransportID()))
		}
	}
}

func (h *Handler) writeLoop(conn *websocket.Conn, s *Session) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case data := <-s.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.coord.Disconnect(s)
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.coord.Disconnect(s)
				return
			}

		case <-s.closed:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (h *Handler) reply(s *Session, eventType model.EventType, payload any) {
	data, err := EncodeEvent(eventType, payload)
	if err != nil {
		h.logger.Error("failed to encode reply",
			slog.String("event", string(eventType)),
			slog.Any("error", err))
		return
	}
	s.trySend(data)
}

func errorPayload(err error) model.ErrorPayload {
	code := ErrorCodeInvalidJoin
	switch {
	case errors.Is(err, model.ErrDuplicateIdentity):
		code = ErrorCodeDuplicateIdentity
	case errors.Is(err, model.ErrSessionAlreadyBound):
		code = ErrorCodeAlreadyBound
	case errors.Is(err, model.ErrSessionClosed):
		code = ErrorCodeSessionClosed
	}
	return model.ErrorPayload{Code: code, Message: err.Error()}
}
