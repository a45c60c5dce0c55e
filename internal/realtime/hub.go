package realtime

import (
	"log/slog"
	"sync"

	"github.com/softpunk/emberfell/internal/model"
)

type broadcastMessage struct {
	event model.EventType
	data  []byte
	// except is the originating session; it never receives its own
	// move/join/leave fan-out
	except *Session
}

// command is one hub operation. Exactly one field is set. Registrations
// and broadcasts share a single FIFO queue so that a session registered
// before a broadcast was enqueued always receives it, and a session
// registered after never does.
type command struct {
	register   *Session
	unregister *Session
	broadcast  *broadcastMessage
}

// Hub fans events out to every connected session. One hub owns the full
// connected-session set for the process.
type Hub struct {
	sessions map[*Session]bool
	mu       sync.RWMutex
	logger   *slog.Logger

	commands chan command
	done     chan struct{}
}

// NewHub creates a hub; call Run on its own goroutine to start it
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		sessions: make(map[*Session]bool),
		logger:   logger.With(slog.String("component", "sync-hub")),
		commands: make(chan command, 256),
		done:     make(chan struct{}),
	}
}

// Run processes registrations and fan-out until Close is called
func (h *Hub) Run() {
	h.logger.Info("sync hub started")
	for {
		select {
		case cmd := <-h.commands:
			switch {
			case cmd.register != nil:
				h.addSession(cmd.register)
			case cmd.unregister != nil:
				h.removeSession(cmd.unregister)
			case cmd.broadcast != nil:
				h.fanOut(cmd.broadcast)
			}

		case <-h.done:
			h.mu.Lock()
			count := len(h.sessions)
			for s := range h.sessions {
				s.close()
				delete(h.sessions, s)
			}
			h.mu.Unlock()
			h.logger.Info("sync hub stopped", slog.Int("disconnected_sessions", count))
			return
		}
	}
}

func (h *Hub) addSession(s *Session) {
	h.mu.Lock()
	h.sessions[s] = true
	count := len(h.sessions)
	h.mu.Unlock()
	h.logger.Info("session registered",
		slog.String("transport_id", s.TransportID()),
		slog.Int("total_sessions", count))
}

func (h *Hub) removeSession(s *Session) {
	h.mu.Lock()
	if _, ok := h.sessions[s]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.sessions, s)
	count := len(h.sessions)
	h.mu.Unlock()
	h.logger.Info("session unregistered",
		slog.String("transport_id", s.TransportID()),
		slog.Int("total_sessions", count))
}

// fanOut delivers one broadcast. A full send buffer means the client has
// stalled; dropping a moved event is harmless because the next move
// overwrites it, but dropping a joined or left event would desync that
// client's world for good, so state-transition events evict the stalled
// session instead. Its transport tears down and the client reconnects
// with a fresh snapshot.
func (h *Hub) fanOut(msg *broadcastMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	dropped := 0
	for s := range h.sessions {
		if s == msg.except {
			continue
		}
		if s.trySend(msg.data) {
			continue
		}
		if msg.event == model.EventMoved {
			dropped++
			continue
		}
		s.close()
		delete(h.sessions, s)
		h.logger.Warn("evicted stalled session",
			slog.String("transport_id", s.TransportID()),
			slog.String("event", string(msg.event)))
	}
	if dropped > 0 {
		h.logger.Warn("fan-out partially dropped",
			slog.String("event", string(msg.event)),
			slog.Int("dropped", dropped))
	}
}

// Register adds a session to the fan-out set. It queues behind any
// broadcast already submitted, so the session only sees events enqueued
// after this call.
func (h *Hub) Register(s *Session) {
	h.submit(command{register: s})
}

// Unregister removes a session from the fan-out set
func (h *Hub) Unregister(s *Session) {
	h.submit(command{unregister: s})
}

// BroadcastEvent encodes an event and sends it to every session except
// the originator. Pass a nil originator to reach every session.
func (h *Hub) BroadcastEvent(eventType model.EventType, payload any, except *Session) {
	data, err := EncodeEvent(eventType, payload)
	if err != nil {
		h.logger.Error("failed to encode broadcast",
			slog.String("event", string(eventType)),
			slog.Any("error", err))
		return
	}
	h.submit(command{broadcast: &broadcastMessage{
		event:  eventType,
		data:   data,
		except: except,
	}})
}

// submit blocks until the hub accepts the command. The queue drains fast
// because per-session delivery never blocks; skipping the queue when it
// fills would reorder registrations against broadcasts.
func (h *Hub) submit(cmd command) {
	select {
	case h.commands <- cmd:
	case <-h.done:
	}
}

// Close shuts the hub down and closes every registered session
func (h *Hub) Close() {
	close(h.done)
}

// SessionCount returns the number of registered sessions
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}
