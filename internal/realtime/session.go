package realtime

import (
	"sync"

	"github.com/softpunk/emberfell/internal/model"
)

const sendBufferSize = 256

type sessionState int

const (
	// stateConnected is the initial state: a live transport with no
	// player identity bound yet
	stateConnected sessionState = iota
	// stateBound means a join was accepted and the session owns a
	// registry entry
	stateBound
	// stateClosed is terminal
	stateClosed
)

// Session is one physical client connection. It is independent of player
// identity until a join event binds it; the bound id is set at most once
// per session.
type Session struct {
	transportID string

	mu       sync.Mutex
	state    sessionState
	playerID model.PlayerID

	// send carries encoded events to the transport write loop. It is
	// never closed; closed signals the write loop to stop instead, so
	// concurrent trySend calls can never hit a closed channel.
	send      chan []byte
	closed    chan struct{}
	closeOnce sync.Once
}

func newSession(transportID string) *Session {
	return &Session{
		transportID: transportID,
		state:       stateConnected,
		send:        make(chan []byte, sendBufferSize),
		closed:      make(chan struct{}),
	}
}

// TransportID returns the opaque per-connection handle
func (s *Session) TransportID() string {
	return s.transportID
}

// PlayerID returns the bound player id, if the session is bound
func (s *Session) PlayerID() (model.PlayerID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateBound {
		return "", false
	}
	return s.playerID, true
}

// trySend queues data for the transport write loop without blocking.
// Returns false when the session is closed or its buffer is full; a full
// buffer drops the message rather than stalling the sender.
func (s *Session) trySend(data []byte) bool {
	select {
	case <-s.closed:
		return false
	default:
	}
	select {
	case s.send <- data:
		return true
	case <-s.closed:
		return false
	default:
		return false
	}
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		close(s.closed)
	})
}
