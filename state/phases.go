// state/phases.go
package state

import (
	"github.com/wfunc/bingoserver/logger"
)

// Bingo lifecycle phase IDs. Joining is legal only in the lobby; a set
// winner is what makes a room "finished".
const (
	PhaseLobby    = "lobby"
	PhasePlaying  = "playing"
	PhaseFinished = "finished"
)

// roomStateBase carries the shared phase plumbing.
type roomStateBase struct {
	ID   string
	Room RoomContext
}

func (s *roomStateBase) GetID() string {
	return s.ID
}

func (s *roomStateBase) OnExit() {}

// LobbyState is the initial phase: players join, nothing else happens.
type LobbyState struct {
	roomStateBase
}

func NewLobbyState(room RoomContext) *LobbyState {
	return &LobbyState{roomStateBase{ID: PhaseLobby, Room: room}}
}

func (s *LobbyState) OnEnter() {
	logger.Log.Infof("Room %s waiting in lobby", s.Room.GetID())
}

// PlayingState is the in-progress phase: the host calls numbers, players
// mark cells and claim wins.
type PlayingState struct {
	roomStateBase
}

func NewPlayingState(room RoomContext) *PlayingState {
	return &PlayingState{roomStateBase{ID: PhasePlaying, Room: room}}
}

func (s *PlayingState) OnEnter() {
	logger.Log.Infof("Room %s game started with %d players", s.Room.GetID(), s.Room.PlayerCount())
}

// FinishedState is entered when a claim verifies. The room stays permissive:
// calls and marks are still accepted, and a later verified claim may enter
// this phase again with a new winner.
type FinishedState struct {
	roomStateBase
}

func NewFinishedState(room RoomContext) *FinishedState {
	return &FinishedState{roomStateBase{ID: PhaseFinished, Room: room}}
}

func (s *FinishedState) OnEnter() {
	logger.Log.Infof("Room %s finished", s.Room.GetID())
}
