// persistence/postgresql.go
package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/wfunc/bingoserver/models"
)

// PostgreSQL is the raw-SQL Database implementation, selected with
// database.driver "pq".
type PostgreSQL struct {
	db *sql.DB
}

func NewPostgreSQL(host string, port int, user, password, dbname string) (*PostgreSQL, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := initTables(db); err != nil {
		return nil, err
	}

	return &PostgreSQL{db: db}, nil
}

func initTables(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS game_records (
            id SERIAL PRIMARY KEY,
            room_code TEXT NOT NULL,
            winner_id TEXT NOT NULL,
            winner_name TEXT NOT NULL,
            players JSONB NOT NULL,
            numbers_called INT NOT NULL DEFAULT 0,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_game_records_room_code ON game_records(room_code);
    `)
	return err
}

func (p *PostgreSQL) SaveGameRecord(record *models.GormGameRecord) error {
	_, err := p.db.Exec(`
        INSERT INTO game_records (room_code, winner_id, winner_name, players, numbers_called)
        VALUES ($1, $2, $3, $4, $5)`,
		record.RoomCode, record.WinnerID, record.WinnerName, record.Players, record.NumbersCalled)
	return err
}

func (p *PostgreSQL) RecentRecords(limit int) ([]models.GormGameRecord, error) {
	rows, err := p.db.Query(`
        SELECT id, room_code, winner_id, winner_name, players, numbers_called, created_at
        FROM game_records ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.GormGameRecord
	for rows.Next() {
		var r models.GormGameRecord
		if err := rows.Scan(&r.ID, &r.RoomCode, &r.WinnerID, &r.WinnerName,
			&r.Players, &r.NumbersCalled, &r.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (p *PostgreSQL) Close() error {
	return p.db.Close()
}
