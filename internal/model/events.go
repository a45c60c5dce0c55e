package model

// EventType identifies a message on the synchronization channel
type EventType string

const (
	// Client to server
	EventJoin  EventType = "join"
	EventMove  EventType = "move"
	EventLeave EventType = "leave"

	// Server to client
	EventSnapshot EventType = "snapshot"
	EventJoined   EventType = "joined"
	EventMoved    EventType = "moved"
	EventLeft     EventType = "left"
	EventError    EventType = "error"
)

// JoinPayload is sent by a client to bind its session to a player identity
type JoinPayload struct {
	ID     PlayerID `json:"id"`
	Name   string   `json:"name"`
	Gender Gender   `json:"gender"`
}

// MovePayload carries a position update from the session owning the id
type MovePayload struct {
	ID       PlayerID `json:"id"`
	Position Vec3     `json:"position"`
}

// LeavePayload is sent by a client leaving gracefully
type LeavePayload struct {
	ID PlayerID `json:"id"`
}

// SnapshotPayload seeds a newly joined client with every live player,
// including itself
type SnapshotPayload struct {
	Players []PlayerSnapshot `json:"players"`
}

// JoinedPayload announces a new player to every other session
type JoinedPayload struct {
	Player PlayerSnapshot `json:"player"`
}

// MovedPayload fans a position update out to every other session
type MovedPayload struct {
	ID       PlayerID `json:"id"`
	Position Vec3     `json:"position"`
}

// LeftPayload announces a player's removal to every other session
type LeftPayload struct {
	ID PlayerID `json:"id"`
}

// ErrorPayload reports a rejected request back to the originating session
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
