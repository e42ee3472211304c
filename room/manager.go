// room/manager.go
package room

import (
	"math/rand"
	"sync"

	"github.com/wfunc/bingoserver/game"
)

// Room codes avoid 0/O/1/I so they survive being read aloud.
const (
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength   = 6
)

// Manager owns the process-wide room registry. It also keeps a reverse
// index actor -> room codes so a disconnect never has to scan every room.
type Manager struct {
	rooms       map[string]*Room
	memberships map[string]map[string]struct{} // actorID -> set of room codes
	mutex       sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		rooms:       make(map[string]*Room),
		memberships: make(map[string]map[string]struct{}),
	}
}

// CreateRoom registers a new room with the creator as host and sole player,
// under a freshly minted collision-checked code.
func (m *Manager) CreateRoom(hostID, hostName string, broadcaster Broadcaster) (*Room, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	code := m.newCode()
	r := NewRoom(code, hostID, broadcaster)
	if _, err := r.AddPlayer(hostID, hostName); err != nil {
		return nil, err
	}

	m.rooms[code] = r
	m.addMembership(hostID, code)
	return r, nil
}

// newCode mints a room code not currently in use. Caller holds the lock.
func (m *Manager) newCode() string {
	buf := make([]byte, codeLength)
	for {
		for i := range buf {
			buf[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
		}
		if _, taken := m.rooms[string(buf)]; !taken {
			return string(buf)
		}
	}
}

// JoinRoom adds an actor to an existing lobby-phase room.
func (m *Manager) JoinRoom(code, actorID, name string) (*Room, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	r, exists := m.rooms[code]
	if !exists {
		return nil, game.ErrRoomNotFound
	}
	if _, err := r.AddPlayer(actorID, name); err != nil {
		return nil, err
	}

	m.addMembership(actorID, code)
	return r, nil
}

// RemovePlayer takes an actor out of one room. An emptied room is deleted
// from the registry.
func (m *Manager) RemovePlayer(code, actorID string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	r, exists := m.rooms[code]
	if !exists {
		return game.ErrRoomNotFound
	}

	m.removeFromRoom(r, actorID)
	return nil
}

// RemoveActor handles a disconnect: the actor leaves every room it occupies.
// Returns the codes of the rooms it was removed from.
func (m *Manager) RemoveActor(actorID string) []string {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	codes := make([]string, 0, len(m.memberships[actorID]))
	for code := range m.memberships[actorID] {
		codes = append(codes, code)
	}
	for _, code := range codes {
		if r, exists := m.rooms[code]; exists {
			m.removeFromRoom(r, actorID)
		}
	}
	return codes
}

// removeFromRoom drops the actor and reaps the room if empty. Caller holds
// the lock.
func (m *Manager) removeFromRoom(r *Room, actorID string) {
	if empty := r.RemovePlayer(actorID); empty {
		delete(m.rooms, r.Code)
	}
	if set, ok := m.memberships[actorID]; ok {
		delete(set, r.Code)
		if len(set) == 0 {
			delete(m.memberships, actorID)
		}
	}
}

func (m *Manager) addMembership(actorID, code string) {
	set, ok := m.memberships[actorID]
	if !ok {
		set = make(map[string]struct{})
		m.memberships[actorID] = set
	}
	set[code] = struct{}{}
}

// GetRoom looks up a room by code.
func (m *Manager) GetRoom(code string) (*Room, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	r, exists := m.rooms[code]
	return r, exists
}

// RoomCount reports the number of live rooms, for metrics and admin stats.
func (m *Manager) RoomCount() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.rooms)
}

// RoomCodes lists all live room codes.
func (m *Manager) RoomCodes() []string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	codes := make([]string, 0, len(m.rooms))
	for code := range m.rooms {
		codes = append(codes, code)
	}
	return codes
}
