// persistence/interface.go
package persistence

import (
	"fmt"

	"github.com/wfunc/bingoserver/models"
)

// Database stores finished-game records. Room state itself is never
// persisted; a restart forgets every room by design.
type Database interface {
	SaveGameRecord(record *models.GormGameRecord) error
	RecentRecords(limit int) ([]models.GormGameRecord, error)
	Close() error
}

var ErrRecordNotFound = fmt.Errorf("record not found")
