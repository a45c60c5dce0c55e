package realtime

import (
	"log/slog"
	"sync"

	"github.com/softpunk/emberfell/internal/dependencies/random"
	"github.com/softpunk/emberfell/internal/model"
	"github.com/softpunk/emberfell/internal/presence"
)

const (
	transportIDLength   = 12
	transportIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// Coordinator binds physical connections to presence registry entries and
// drives the fan-out of join/move/leave. It is the only writer to the
// registry; transports hand it decoded events and it decides what, if
// anything, the rest of the world hears about them.
type Coordinator struct {
	registry *presence.Registry
	hub      *Hub
	random   random.Random
	logger   *slog.Logger

	// mu serializes presence transitions with their fan-out. Together
	// with the hub's FIFO command queue it guarantees that a joiner's
	// seed snapshot and the joined/left events it later receives are
	// disjoint: every snapshot player had its fan-out before the joiner
	// registered, every later event is for a player the snapshot lacks.
	mu sync.Mutex
}

// NewCoordinator wires a coordinator to its registry and hub
func NewCoordinator(registry *presence.Registry, hub *Hub, rnd random.Random, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		registry: registry,
		hub:      hub,
		random:   rnd,
		logger:   logger.With(slog.String("component", "sync")),
	}
}

// Connect creates a session for a new transport connection. The session
// receives no fan-out and owns no registry entry until it joins; a
// connection that never joins hears nothing and is seen by no one.
func (c *Coordinator) Connect() *Session {
	return newSession(c.random.String(transportIDLength, transportIDAlphabet))
}

// Join binds the session to a player identity. On success the caller
// receives a point-in-time snapshot of every live player (including the
// joiner) to seed its world, the session starts receiving fan-out, and
// every other session hears a joined event. A session that is already
// bound or closed, a duplicate identity, and an invalid gender all reject
// the join; the session stays in its current state and nothing is
// broadcast.
func (c *Coordinator) Join(s *Session, req model.JoinPayload) (model.SnapshotPayload, error) {
	if req.ID == "" {
		return model.SnapshotPayload{}, errInvalidJoin
	}
	if !req.Gender.Valid() {
		return model.SnapshotPayload{}, model.ErrInvalidGender
	}

	s.mu.Lock()
	switch s.state {
	case stateClosed:
		s.mu.Unlock()
		return model.SnapshotPayload{}, model.ErrSessionClosed
	case stateBound:
		s.mu.Unlock()
		return model.SnapshotPayload{}, model.ErrSessionAlreadyBound
	}

	c.mu.Lock()
	snap, err := c.registry.Join(req.ID, req.Name, req.Gender)
	if err != nil {
		c.mu.Unlock()
		s.mu.Unlock()
		return model.SnapshotPayload{}, err
	}
	s.state = stateBound
	s.playerID = req.ID

	players := c.registry.Snapshot()
	c.hub.Register(s)
	c.hub.BroadcastEvent(model.EventJoined, model.JoinedPayload{Player: snap}, s)
	c.mu.Unlock()
	s.mu.Unlock()

	return model.SnapshotPayload{Players: players}, nil
}

// Move applies a position update. Updates are only accepted from the
// session bound to the id they name; anything else, including moves that
// race a disconnect, is dropped without an error reply.
func (c *Coordinator) Move(s *Session, req model.MovePayload) {
	id, ok := s.PlayerID()
	if !ok || id != req.ID {
		return
	}
	if err := c.registry.Move(req.ID, req.Position); err != nil {
		// Benign: stale update after leave/disconnect
		return
	}
	c.hub.BroadcastEvent(model.EventMoved, model.MovedPayload{
		ID:       req.ID,
		Position: req.Position,
	}, s)
}

// Leave closes the session after an explicit leave event
func (c *Coordinator) Leave(s *Session) {
	c.closeSession(s)
}

// Disconnect closes the session after a transport-level disconnect. It is
// deliberately the same path as Leave: abrupt disconnects are the common
// case, not graceful leaves.
func (c *Coordinator) Disconnect(s *Session) {
	c.closeSession(s)
}

// closeSession transitions the session to its terminal state, removing
// the registry entry and broadcasting the removal if the session was
// bound. Safe to call more than once; only the first call acts.
func (c *Coordinator) closeSession(s *Session) {
	s.mu.Lock()
	if s.state == stateClosed {
		s.mu.Unlock()
		return
	}
	wasBound := s.state == stateBound
	id := s.playerID
	s.state = stateClosed
	s.mu.Unlock()

	s.close()
	if !wasBound {
		return
	}

	c.mu.Lock()
	c.hub.Unregister(s)
	if err := c.registry.Leave(id); err == nil {
		c.hub.BroadcastEvent(model.EventLeft, model.LeftPayload{ID: id}, s)
	}
	c.mu.Unlock()
}
