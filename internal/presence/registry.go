package presence

import (
	"log/slog"
	"sync"

	"github.com/softpunk/emberfell/internal/model"
)

// Registry is the authoritative set of connected players and their live
// state. It is the single owner of that state: snapshots are mutated only
// through Join, Move and Leave, and everything returned to callers is a
// copy. Every connection runs on its own goroutine, so the registry
// carries its own lock rather than relying on any caller-side
// serialization.
type Registry struct {
	mu      sync.RWMutex
	players map[model.PlayerID]*model.PlayerSnapshot
	logger  *slog.Logger
}

// NewRegistry creates an empty registry
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		players: make(map[model.PlayerID]*model.PlayerSnapshot),
		logger:  logger.With(slog.String("component", "presence")),
	}
}

// Join inserts a snapshot for id at the zero position and returns a copy
// of it. It fails with ErrDuplicateIdentity if id already has a live
// snapshot; the existing snapshot is left untouched.
func (r *Registry) Join(id model.PlayerID, name string, gender model.Gender) (model.PlayerSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.players[id]; ok {
		return model.PlayerSnapshot{}, model.ErrDuplicateIdentity
	}

	snap := &model.PlayerSnapshot{
		ID:     id,
		Name:   name,
		Gender: gender,
	}
	r.players[id] = snap

	r.logger.Info("player joined",
		slog.String("player_id", string(id)),
		slog.Int("online", len(r.players)))

	return *snap, nil
}

// Move overwrites the position of id in place. No interpolation, bounds
// checking or rate limiting happens here; position is last-write-wins.
// Returns ErrUnknownPlayer when id has no live snapshot, which callers
// treat as a benign race with leave/disconnect.
func (r *Registry) Move(id model.PlayerID, position model.Vec3) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap, ok := r.players[id]
	if !ok {
		return model.ErrUnknownPlayer
	}
	snap.Position = position
	return nil
}

// Leave removes the snapshot for id. Returns ErrUnknownPlayer when the
// snapshot is already gone; idempotent callers treat that as a non-error.
func (r *Registry) Leave(id model.PlayerID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.players[id]; !ok {
		return model.ErrUnknownPlayer
	}
	delete(r.players, id)

	r.logger.Info("player left",
		slog.String("player_id", string(id)),
		slog.Int("online", len(r.players)))

	return nil
}

// Snapshot returns a point-in-time copy of every live player. A Join or
// Leave racing with this call is either fully visible or not visible at
// all; the returned slice never aliases registry-owned state.
func (r *Registry) Snapshot() []model.PlayerSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	players := make([]model.PlayerSnapshot, 0, len(r.players))
	for _, snap := range r.players {
		players = append(players, *snap)
	}
	return players
}

// Count returns the number of live players
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players)
}
