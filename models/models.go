// models/models.go
package models

import (
	"github.com/wfunc/bingoserver/game"
)

// PlayerInfo is the public view of a room member.
type PlayerInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RoomSnapshot is the room state sent back on create/join and carried by
// player-list broadcasts.
type RoomSnapshot struct {
	Code          string       `json:"code"`
	HostID        string       `json:"host_id"`
	Phase         string       `json:"phase"`
	Players       []PlayerInfo `json:"players"`
	CalledNumbers []int        `json:"called_numbers"`
	WinnerID      string       `json:"winner_id,omitempty"`
}

// CreateRoomAck answers a create-room action. The board belongs to the
// requesting actor only.
type CreateRoomAck struct {
	Room  RoomSnapshot `json:"room"`
	Board *game.Board  `json:"board"`
}

// JoinRoomAck answers a join-room action.
type JoinRoomAck struct {
	Room  RoomSnapshot `json:"room"`
	Board *game.Board  `json:"board"`
}

// NumberCalled is broadcast after a successful call-number action.
type NumberCalled struct {
	Number int `json:"number"`
}

// CellMarked is broadcast after a successful mark-cell action.
type CellMarked struct {
	ActorID string `json:"actor_id"`
	Row     int    `json:"row"`
	Col     int    `json:"col"`
	Marked  bool   `json:"marked"`
}

// BingoClaimed is broadcast after a verified claim.
type BingoClaimed struct {
	ActorID string `json:"actor_id"`
	Name    string `json:"name"`
}

// PlayerLeft is broadcast when a player leaves or disconnects.
type PlayerLeft struct {
	ActorID string `json:"actor_id"`
}

// ErrorResult is the structured failure sent only to the originator.
type ErrorResult struct {
	Action  string `json:"action"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
