// broadcast/broadcast.go
package broadcast

import (
	"errors"

	"github.com/wfunc/bingoserver/room"
	"github.com/wfunc/bingoserver/session"
)

var ErrRoomNotFound = errors.New("room not found")

// Broadcaster fans messages out to connected sessions.
type Broadcaster interface {
	BroadcastToRoom(roomCode string, msgID uint16, data []byte) error
	BroadcastToActors(actorIDs []string, msgID uint16, data []byte) error
}

// RoomBroadcaster resolves room membership through the room manager and
// delivers through the session manager. Session IDs are actor IDs, so the
// two line up directly.
type RoomBroadcaster struct {
	roomManager    *room.Manager
	sessionManager *session.Manager
}

func NewRoomBroadcaster(roomManager *room.Manager, sessionManager *session.Manager) *RoomBroadcaster {
	return &RoomBroadcaster{
		roomManager:    roomManager,
		sessionManager: sessionManager,
	}
}

func (b *RoomBroadcaster) BroadcastToRoom(roomCode string, msgID uint16, data []byte) error {
	r, exists := b.roomManager.GetRoom(roomCode)
	if !exists {
		return ErrRoomNotFound
	}
	return b.BroadcastToActors(r.ActorIDs(), msgID, data)
}

func (b *RoomBroadcaster) BroadcastToActors(actorIDs []string, msgID uint16, data []byte) error {
	for _, id := range actorIDs {
		s, exists := b.sessionManager.Get(id)
		if !exists {
			continue
		}
		if err := s.Send(msgID, data); err != nil {
			// Dead connections are reaped by their own read loop.
			continue
		}
	}
	return nil
}
