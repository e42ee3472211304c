package room

import (
	"errors"
	"os"
	"testing"

	"github.com/wfunc/bingoserver/game"
	"github.com/wfunc/bingoserver/logger"
	"github.com/wfunc/bingoserver/state"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// MockBroadcaster is a test double for the Broadcaster interface.
type MockBroadcaster struct{}

func (m *MockBroadcaster) BroadcastToRoom(roomCode string, msgID uint16, data []byte) error {
	return nil
}

func newTestRoom(t *testing.T, manager *Manager, hostID, hostName string) *Room {
	t.Helper()
	r, err := manager.CreateRoom(hostID, hostName, &MockBroadcaster{})
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}
	return r
}

func TestManager_CreateAndGetRoom(t *testing.T) {
	manager := NewManager()
	r := newTestRoom(t, manager, "host", "Alice")

	if r.Code == "" {
		t.Fatal("CreateRoom should mint a room code")
	}
	if r.HostID != "host" {
		t.Errorf("Expected host ID host, got %s", r.HostID)
	}
	if r.Phase() != state.PhaseLobby {
		t.Errorf("Expected new room in lobby phase, got %s", r.Phase())
	}
	if r.PlayerCount() != 1 {
		t.Errorf("Expected the host as sole player, got %d players", r.PlayerCount())
	}

	retrieved, exists := manager.GetRoom(r.Code)
	if !exists {
		t.Fatal("GetRoom should find the created room")
	}
	if retrieved != r {
		t.Error("GetRoom should return the same room instance")
	}
}

func TestManager_JoinRoom(t *testing.T) {
	manager := NewManager()
	r := newTestRoom(t, manager, "host", "Alice")

	joined, err := manager.JoinRoom(r.Code, "bob", "Bob")
	if err != nil {
		t.Fatalf("JoinRoom failed: %v", err)
	}
	if joined != r {
		t.Fatal("JoinRoom should return the existing room")
	}
	if r.PlayerCount() != 2 {
		t.Errorf("Expected 2 players, got %d", r.PlayerCount())
	}

	p, exists := r.GetPlayer("bob")
	if !exists {
		t.Fatal("Joined player should be present")
	}
	if p.Board == nil {
		t.Fatal("Joined player should hold a generated board")
	}
}

func TestManager_JoinRoom_NotFound(t *testing.T) {
	manager := NewManager()

	_, err := manager.JoinRoom("NOSUCH", "bob", "Bob")
	if !errors.Is(err, game.ErrRoomNotFound) {
		t.Fatalf("Expected ErrRoomNotFound, got %v", err)
	}
}

func TestManager_JoinRoom_AfterStart(t *testing.T) {
	manager := NewManager()
	r := newTestRoom(t, manager, "host", "Alice")

	if err := r.Start("host"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	_, err := manager.JoinRoom(r.Code, "bob", "Bob")
	if !errors.Is(err, game.ErrAlreadyStarted) {
		t.Fatalf("Expected ErrAlreadyStarted, got %v", err)
	}
}

func TestRoom_Rejoin_OverwritesPlayer(t *testing.T) {
	manager := NewManager()
	r := newTestRoom(t, manager, "host", "Alice")

	manager.JoinRoom(r.Code, "bob", "Bob")
	first, _ := r.GetPlayer("bob")

	// Same actor joins again while still in the lobby.
	if _, err := manager.JoinRoom(r.Code, "bob", "Bobby"); err != nil {
		t.Fatalf("Re-join failed: %v", err)
	}
	if r.PlayerCount() != 2 {
		t.Errorf("Re-join should not grow the player set, got %d", r.PlayerCount())
	}

	second, _ := r.GetPlayer("bob")
	if second == first {
		t.Error("Re-join should replace the previous player entry")
	}
	if second.Name != "Bobby" {
		t.Errorf("Expected updated name Bobby, got %s", second.Name)
	}
}

func TestRoom_Start_HostOnly(t *testing.T) {
	manager := NewManager()
	r := newTestRoom(t, manager, "host", "Alice")
	manager.JoinRoom(r.Code, "bob", "Bob")

	if err := r.Start("bob"); !errors.Is(err, game.ErrForbidden) {
		t.Fatalf("Expected ErrForbidden for non-host start, got %v", err)
	}
	if r.Phase() != state.PhaseLobby {
		t.Errorf("Room should stay in lobby after rejected start, got %s", r.Phase())
	}

	if err := r.Start("host"); err != nil {
		t.Fatalf("Host start failed: %v", err)
	}
	if r.Phase() != state.PhasePlaying {
		t.Errorf("Expected playing phase, got %s", r.Phase())
	}
	if len(r.CalledNumbers) != 0 {
		t.Errorf("Start should clear called numbers, got %d", len(r.CalledNumbers))
	}
}

func TestRoom_CallNumber(t *testing.T) {
	manager := NewManager()
	r := newTestRoom(t, manager, "host", "Alice")
	manager.JoinRoom(r.Code, "bob", "Bob")
	r.Start("host")

	if _, err := r.CallNumber("bob"); !errors.Is(err, game.ErrForbidden) {
		t.Fatalf("Expected ErrForbidden for non-host call, got %v", err)
	}

	seen := make(map[int]bool)
	for i := 0; i < game.MaxNumber; i++ {
		n, err := r.CallNumber("host")
		if err != nil {
			t.Fatalf("Call %d failed: %v", i+1, err)
		}
		if n < 1 || n > game.MaxNumber {
			t.Fatalf("Called number %d out of range", n)
		}
		if seen[n] {
			t.Fatalf("Number %d called twice", n)
		}
		seen[n] = true
	}

	if _, err := r.CallNumber("host"); !errors.Is(err, game.ErrExhausted) {
		t.Fatalf("Expected ErrExhausted, got %v", err)
	}
}

func TestRoom_ToggleMark(t *testing.T) {
	manager := NewManager()
	r := newTestRoom(t, manager, "host", "Alice")

	if _, err := r.ToggleMark("ghost", 0, 0); !errors.Is(err, game.ErrPlayerNotFound) {
		t.Fatalf("Expected ErrPlayerNotFound, got %v", err)
	}
	if _, err := r.ToggleMark("host", 5, 0); !errors.Is(err, game.ErrInvalidCell) {
		t.Fatalf("Expected ErrInvalidCell for row 5, got %v", err)
	}
	if _, err := r.ToggleMark("host", 0, -1); !errors.Is(err, game.ErrInvalidCell) {
		t.Fatalf("Expected ErrInvalidCell for col -1, got %v", err)
	}

	// Toggle law: mark then unmark returns the cell to its initial state.
	marked, err := r.ToggleMark("host", 0, 0)
	if err != nil || !marked {
		t.Fatalf("First toggle should mark, got marked=%v err=%v", marked, err)
	}
	marked, err = r.ToggleMark("host", 0, 0)
	if err != nil || marked {
		t.Fatalf("Second toggle should unmark, got marked=%v err=%v", marked, err)
	}

	p, _ := r.GetPlayer("host")
	if p.Board[0][0].MarkedBy != game.MarkedByEmpty {
		t.Errorf("Cell should be unmarked after double toggle, got %q", p.Board[0][0].MarkedBy)
	}
}

func TestRoom_ToggleMark_FreeCellNoOp(t *testing.T) {
	manager := NewManager()
	r := newTestRoom(t, manager, "host", "Alice")

	marked, err := r.ToggleMark("host", 2, 2)
	if err != nil {
		t.Fatalf("Toggle on free cell failed: %v", err)
	}
	if !marked {
		t.Error("Free cell should report as marked")
	}

	p, _ := r.GetPlayer("host")
	if p.Board[2][2].MarkedBy != game.MarkedByFree {
		t.Errorf("Free cell mark should be immutable, got %q", p.Board[2][2].MarkedBy)
	}
}

func TestRoom_Claim(t *testing.T) {
	manager := NewManager()
	r := newTestRoom(t, manager, "host", "Alice")
	r.Start("host")

	if err := r.Claim("ghost"); !errors.Is(err, game.ErrPlayerNotFound) {
		t.Fatalf("Expected ErrPlayerNotFound, got %v", err)
	}
	if err := r.Claim("host"); !errors.Is(err, game.ErrInvalidClaim) {
		t.Fatalf("Expected ErrInvalidClaim on a fresh board, got %v", err)
	}
	if r.WinnerID != "" {
		t.Fatal("Rejected claim must not set a winner")
	}

	for col := 0; col < game.BoardSize; col++ {
		if _, err := r.ToggleMark("host", 0, col); err != nil {
			t.Fatalf("Marking (0, %d) failed: %v", col, err)
		}
	}

	if err := r.Claim("host"); err != nil {
		t.Fatalf("Claim with a complete row failed: %v", err)
	}
	if r.WinnerID != "host" {
		t.Errorf("Expected winner host, got %q", r.WinnerID)
	}
	if r.Phase() != state.PhaseFinished {
		t.Errorf("Expected finished phase, got %s", r.Phase())
	}
}

func TestRoom_Claim_LaterVerifiedClaimOverwritesWinner(t *testing.T) {
	manager := NewManager()
	r := newTestRoom(t, manager, "host", "Alice")
	manager.JoinRoom(r.Code, "bob", "Bob")
	r.Start("host")

	for col := 0; col < game.BoardSize; col++ {
		r.ToggleMark("host", 0, col)
	}
	if err := r.Claim("host"); err != nil {
		t.Fatalf("First claim failed: %v", err)
	}
	if r.WinnerID != "host" {
		t.Fatalf("Expected winner host, got %q", r.WinnerID)
	}

	// There is no already-won guard: a later verified claim by another
	// actor is still evaluated and takes over the winner slot.
	for col := 0; col < game.BoardSize; col++ {
		if _, err := r.ToggleMark("bob", 0, col); err != nil {
			t.Fatalf("Marking (0, %d) for bob failed: %v", col, err)
		}
	}
	if err := r.Claim("bob"); err != nil {
		t.Fatalf("Second claim failed: %v", err)
	}
	if r.WinnerID != "bob" {
		t.Errorf("Expected the later claim to overwrite the winner, got %q", r.WinnerID)
	}
	if r.Phase() != state.PhaseFinished {
		t.Errorf("Expected finished phase, got %s", r.Phase())
	}
}

func TestRoom_Start_RestartClearsFinishedGame(t *testing.T) {
	manager := NewManager()
	r := newTestRoom(t, manager, "host", "Alice")
	r.Start("host")
	r.CallNumber("host")
	r.CallNumber("host")

	for col := 0; col < game.BoardSize; col++ {
		r.ToggleMark("host", 0, col)
	}
	if err := r.Claim("host"); err != nil {
		t.Fatalf("Claim failed: %v", err)
	}
	if r.Phase() != state.PhaseFinished {
		t.Fatalf("Setup failed: expected finished phase, got %s", r.Phase())
	}

	// A rematch: the host starts again from the finished phase, which
	// clears the call history and the previous winner.
	if err := r.Start("host"); err != nil {
		t.Fatalf("Restart failed: %v", err)
	}
	if r.Phase() != state.PhasePlaying {
		t.Errorf("Expected playing phase after restart, got %s", r.Phase())
	}
	if len(r.CalledNumbers) != 0 {
		t.Errorf("Restart should clear called numbers, got %d", len(r.CalledNumbers))
	}
	if r.WinnerID != "" {
		t.Errorf("Restart should clear the winner, got %q", r.WinnerID)
	}

	n, err := r.CallNumber("host")
	if err != nil {
		t.Fatalf("Call after restart failed: %v", err)
	}
	if n < 1 || n > game.MaxNumber {
		t.Errorf("Called number %d out of range after restart", n)
	}
}

func TestManager_RemovePlayer_DeletesEmptyRoom(t *testing.T) {
	manager := NewManager()
	r := newTestRoom(t, manager, "host", "Alice")
	manager.JoinRoom(r.Code, "bob", "Bob")

	if err := manager.RemovePlayer(r.Code, "bob"); err != nil {
		t.Fatalf("RemovePlayer failed: %v", err)
	}
	if _, exists := manager.GetRoom(r.Code); !exists {
		t.Fatal("Room with remaining players should survive")
	}

	if err := manager.RemovePlayer(r.Code, "host"); err != nil {
		t.Fatalf("RemovePlayer failed: %v", err)
	}
	if _, exists := manager.GetRoom(r.Code); exists {
		t.Fatal("Emptied room should be deleted from the registry")
	}

	_, err := manager.JoinRoom(r.Code, "carol", "Carol")
	if !errors.Is(err, game.ErrRoomNotFound) {
		t.Fatalf("Join on a deleted room should fail with ErrRoomNotFound, got %v", err)
	}
}

func TestManager_HostDeparture_KeepsStaleHost(t *testing.T) {
	manager := NewManager()
	r := newTestRoom(t, manager, "host", "Alice")
	manager.JoinRoom(r.Code, "bob", "Bob")

	manager.RemovePlayer(r.Code, "host")

	// No reassignment: the room keeps pointing at the departed host, so
	// nobody left can start or call.
	if r.HostID != "host" {
		t.Errorf("HostID should remain the departed host, got %s", r.HostID)
	}
	if err := r.Start("bob"); !errors.Is(err, game.ErrForbidden) {
		t.Errorf("Remaining player should not inherit host rights, got %v", err)
	}
}

func TestManager_RemoveActor_AllRooms(t *testing.T) {
	manager := NewManager()
	r1 := newTestRoom(t, manager, "host1", "Alice")
	r2 := newTestRoom(t, manager, "host2", "Carol")
	manager.JoinRoom(r1.Code, "bob", "Bob")
	manager.JoinRoom(r2.Code, "bob", "Bob")

	codes := manager.RemoveActor("bob")
	if len(codes) != 2 {
		t.Fatalf("Expected removal from 2 rooms, got %d", len(codes))
	}
	if r1.PlayerCount() != 1 || r2.PlayerCount() != 1 {
		t.Error("Both rooms should have lost the actor")
	}

	// A second disconnect is a no-op.
	if codes := manager.RemoveActor("bob"); len(codes) != 0 {
		t.Errorf("Expected no rooms on repeat removal, got %d", len(codes))
	}
}

func TestRoom_Snapshot(t *testing.T) {
	manager := NewManager()
	r := newTestRoom(t, manager, "host", "Alice")
	r.Start("host")
	r.CallNumber("host")

	snap := r.Snapshot()
	if snap.Code != r.Code {
		t.Errorf("Snapshot code mismatch: %s vs %s", snap.Code, r.Code)
	}
	if snap.Phase != state.PhasePlaying {
		t.Errorf("Expected playing phase in snapshot, got %s", snap.Phase)
	}
	if len(snap.Players) != 1 {
		t.Errorf("Expected 1 player in snapshot, got %d", len(snap.Players))
	}
	if len(snap.CalledNumbers) != 1 {
		t.Errorf("Expected 1 called number in snapshot, got %d", len(snap.CalledNumbers))
	}

	// The snapshot is a copy; mutating it must not touch the room.
	snap.CalledNumbers[0] = -1
	if r.CalledNumbers[0] == -1 {
		t.Error("Snapshot should copy the called-numbers sequence")
	}
}
