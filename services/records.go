// services/records.go
package services

import (
	"encoding/json"

	"github.com/wfunc/bingoserver/logger"
	"github.com/wfunc/bingoserver/models"
	"github.com/wfunc/bingoserver/persistence"
)

// RecordService writes finished-game history. A nil database makes every
// call a no-op, which is how the server runs with database.enabled false.
type RecordService struct {
	db persistence.Database
}

func NewRecordService(db persistence.Database) *RecordService {
	return &RecordService{db: db}
}

// SaveWin records a verified claim against the room snapshot taken at claim
// time. Failures are logged, never surfaced to the game.
func (s *RecordService) SaveWin(snapshot models.RoomSnapshot, winnerName string) {
	if s.db == nil {
		return
	}

	players, err := json.Marshal(snapshot.Players)
	if err != nil {
		logger.Log.Errorf("Failed to marshal player roster for room %s: %v", snapshot.Code, err)
		return
	}

	record := &models.GormGameRecord{
		RoomCode:      snapshot.Code,
		WinnerID:      snapshot.WinnerID,
		WinnerName:    winnerName,
		Players:       string(players),
		NumbersCalled: len(snapshot.CalledNumbers),
	}
	if err := s.db.SaveGameRecord(record); err != nil {
		logger.Log.Errorf("Failed to save game record for room %s: %v", snapshot.Code, err)
	}
}

// Recent returns the latest finished games, newest first.
func (s *RecordService) Recent(limit int) ([]models.GormGameRecord, error) {
	if s.db == nil {
		return nil, nil
	}
	return s.db.RecentRecords(limit)
}
