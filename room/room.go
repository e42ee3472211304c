// room/room.go
package room

import (
	"sync"
	"time"

	"github.com/wfunc/bingoserver/game"
	"github.com/wfunc/bingoserver/models"
	"github.com/wfunc/bingoserver/state"
)

// Player is one room member and their board. The board's numbers never
// change after creation; only cell marks do.
type Player struct {
	ID    string
	Name  string
	Board *game.Board
}

// Room is one bingo session. Every action method locks mu for its whole
// read-modify-write, which is the mutual exclusion the single dispatch path
// relies on: two concurrent calls can never draw the same number and claims
// cannot race on the winner.
type Room struct {
	Code          string
	HostID        string
	CalledNumbers []int
	WinnerID      string
	CreatedAt     time.Time

	players     map[string]*Player // actorID -> player
	machine     state.StateMachine
	broadcaster Broadcaster
	mu          sync.Mutex
	playerMutex sync.RWMutex
}

// NewRoom creates a room in the lobby phase with no players yet.
func NewRoom(code, hostID string, broadcaster Broadcaster) *Room {
	r := &Room{
		Code:        code,
		HostID:      hostID,
		players:     make(map[string]*Player),
		broadcaster: broadcaster,
		CreatedAt:   time.Now(),
	}
	r.machine = state.NewBaseStateMachine(state.NewLobbyState(r))
	return r
}

// --- state.RoomContext ---

func (r *Room) GetID() string {
	return r.Code
}

func (r *Room) PlayerCount() int {
	r.playerMutex.RLock()
	defer r.playerMutex.RUnlock()
	return len(r.players)
}

// Broadcast sends a message to every session in the room.
func (r *Room) Broadcast(msgID uint16, data []byte) error {
	return r.broadcaster.BroadcastToRoom(r.Code, msgID, data)
}

// Phase returns the current lifecycle phase ID.
func (r *Room) Phase() string {
	return r.machine.GetCurrentState().GetID()
}

// --- actions ---

// AddPlayer adds (or re-adds) an actor with a freshly generated board.
// Joining is legal only in the lobby; a duplicate actor ID overwrites its
// previous entry, which is the re-join path.
func (r *Room) AddPlayer(actorID, name string) (*Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Phase() != state.PhaseLobby {
		return nil, game.ErrAlreadyStarted
	}

	p := &Player{ID: actorID, Name: name, Board: game.NewBoard()}
	r.playerMutex.Lock()
	r.players[actorID] = p
	r.playerMutex.Unlock()
	return p, nil
}

// RemovePlayer drops an actor and reports whether the room is now empty.
// When the host leaves with others remaining, HostID keeps pointing at the
// departed actor; nobody inherits the role.
func (r *Room) RemovePlayer(actorID string) (empty bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.playerMutex.Lock()
	delete(r.players, actorID)
	empty = len(r.players) == 0
	r.playerMutex.Unlock()
	return empty
}

// GetPlayer looks up a room member.
func (r *Room) GetPlayer(actorID string) (*Player, bool) {
	r.playerMutex.RLock()
	defer r.playerMutex.RUnlock()
	p, exists := r.players[actorID]
	return p, exists
}

// ActorIDs returns the IDs of all members (thread-safe copy).
func (r *Room) ActorIDs() []string {
	r.playerMutex.RLock()
	defer r.playerMutex.RUnlock()

	ids := make([]string, 0, len(r.players))
	for id := range r.players {
		ids = append(ids, id)
	}
	return ids
}

// Start begins (or restarts) the game. Host only. The called-numbers
// sequence and any previous winner are cleared.
func (r *Room) Start(actorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if actorID != r.HostID {
		return game.ErrForbidden
	}

	r.CalledNumbers = nil
	r.WinnerID = ""
	return r.machine.ChangeState(state.NewPlayingState(r))
}

// CallNumber draws the next number. Host only. Never repeats a number
// already called in this session; ErrExhausted after all 75.
func (r *Room) CallNumber(actorID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if actorID != r.HostID {
		return 0, game.ErrForbidden
	}

	n, err := game.Draw(r.CalledNumbers)
	if err != nil {
		return 0, err
	}
	r.CalledNumbers = append(r.CalledNumbers, n)
	return n, nil
}

// ToggleMark flips the actor's mark on one cell. The free cell is immutable,
// so a toggle aimed at it is a no-op. Marking is deliberately not validated
// against the called numbers. Returns whether the cell ended up marked.
func (r *Room) ToggleMark(actorID string, row, col int) (marked bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, exists := r.GetPlayer(actorID)
	if !exists {
		return false, game.ErrPlayerNotFound
	}
	if !game.ValidCell(row, col) {
		return false, game.ErrInvalidCell
	}

	cell := &p.Board[row][col]
	switch cell.MarkedBy {
	case game.MarkedByFree:
		return true, nil
	case actorID:
		cell.MarkedBy = game.MarkedByEmpty
		return false, nil
	default:
		cell.MarkedBy = actorID
		return true, nil
	}
}

// Claim verifies the actor's board and records the win. There is no
// already-won guard: a later verified claim overwrites the winner, matching
// the room's permissive post-win behavior.
func (r *Room) Claim(actorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, exists := r.GetPlayer(actorID)
	if !exists {
		return game.ErrPlayerNotFound
	}
	if !game.CheckWin(p.Board, actorID) {
		return game.ErrInvalidClaim
	}

	r.WinnerID = actorID
	return r.machine.ChangeState(state.NewFinishedState(r))
}

// Snapshot captures the shared room state for acks and broadcasts.
func (r *Room) Snapshot() models.RoomSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.playerMutex.RLock()
	players := make([]models.PlayerInfo, 0, len(r.players))
	for _, p := range r.players {
		players = append(players, models.PlayerInfo{ID: p.ID, Name: p.Name})
	}
	r.playerMutex.RUnlock()

	called := make([]int, len(r.CalledNumbers))
	copy(called, r.CalledNumbers)

	return models.RoomSnapshot{
		Code:          r.Code,
		HostID:        r.HostID,
		Phase:         r.Phase(),
		Players:       players,
		CalledNumbers: called,
		WinnerID:      r.WinnerID,
	}
}
