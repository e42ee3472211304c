// state/interfaces.go
package state

// RoomContext is the minimal view of a room that lifecycle states need.
// Defined here to break the import cycle between room and state.
type RoomContext interface {
	GetID() string
	PlayerCount() int
}
