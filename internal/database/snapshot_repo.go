package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/diegoclair/shift-board/internal/domain/contract"
	"github.com/diegoclair/shift-board/internal/domain/entity"
)

type snapshotRepo struct {
	db dbConn
}

func newSnapshotRepo(db dbConn) contract.SnapshotRepo {
	return &snapshotRepo{db: db}
}

// Save stores the snapshot, replacing any earlier copy of the same week.
func (r *snapshotRepo) Save(snapshot *entity.WeekSnapshot) error {
	query := `
		INSERT INTO week_snapshots (week_start, payload, fetched_at)
		VALUES (?, ?, ?)
		ON CONFLICT(week_start) DO UPDATE SET
			payload = excluded.payload,
			fetched_at = excluded.fetched_at
	`

	// Shifts are stored as JSON
	payload, err := json.Marshal(snapshot.Shifts)
	if err != nil {
		return fmt.Errorf("failed to marshal shifts: %w", err)
	}

	_, err = r.db.Exec(query, snapshot.WeekStart, string(payload), snapshot.FetchedAt)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	return nil
}

func (r *snapshotRepo) GetByWeek(weekStart string) (*entity.WeekSnapshot, error) {
	query := `
		SELECT week_start, payload, fetched_at
		FROM week_snapshots
		WHERE week_start = ?
	`

	return r.scanOne(r.db.QueryRow(query, weekStart))
}

// GetLatest returns the most recently fetched week.
func (r *snapshotRepo) GetLatest() (*entity.WeekSnapshot, error) {
	query := `
		SELECT week_start, payload, fetched_at
		FROM week_snapshots
		ORDER BY fetched_at DESC
		LIMIT 1
	`

	return r.scanOne(r.db.QueryRow(query))
}

func (r *snapshotRepo) scanOne(row *sql.Row) (*entity.WeekSnapshot, error) {
	snapshot := &entity.WeekSnapshot{}

	var payload string
	err := row.Scan(&snapshot.WeekStart, &payload, &snapshot.FetchedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	if err := json.Unmarshal([]byte(payload), &snapshot.Shifts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shifts: %w", err)
	}

	return snapshot, nil
}
