package model

// PlayerID uniquely identifies a player across the system.
// IDs are issued by the host platform's account system; this
// server never generates them.
type PlayerID string

// Gender selects which character model a player is rendered with
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Valid reports whether g is a known gender variant
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// Identity is who the host platform says is making a request.
// It arrives on trusted headers set by the platform's embedding layer.
type Identity struct {
	ID   PlayerID
	Name string
}

// Vec3 is a position in world space
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// PlayerSnapshot is the live state of a connected player.
// The presence registry is the exclusive owner of snapshot mutation;
// everything handed out of the registry is a copy.
type PlayerSnapshot struct {
	ID       PlayerID `json:"id"`
	Name     string   `json:"name"`
	Gender   Gender   `json:"gender"`
	Position Vec3     `json:"position"`
}
