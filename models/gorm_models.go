// models/gorm_models.go
package models

import (
	"gorm.io/gorm"
)

// GormGameRecord is one finished game. Write-only history: nothing in the
// room lifecycle ever reads it back.
type GormGameRecord struct {
	gorm.Model
	RoomCode      string `gorm:"index;not null"`
	WinnerID      string `gorm:"not null"`
	WinnerName    string `gorm:"not null"`
	Players       string `gorm:"type:jsonb;not null"` // JSON array of PlayerInfo
	NumbersCalled int    `gorm:"default:0"`
}
