package database

import (
	"fmt"

	"github.com/diegoclair/shift-board/internal/domain/contract"
	"github.com/diegoclair/shift-board/internal/domain/entity"
)

type moveRepo struct {
	db dbConn
}

func newMoveRepo(db dbConn) contract.MoveRepo {
	return &moveRepo{db: db}
}

func (r *moveRepo) Create(move *entity.MoveRecord) error {
	query := `
		INSERT INTO moves (shift_id, shift_name, from_start, to_start, conflict_confirmed, moved_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		move.ShiftID,
		move.ShiftName,
		move.FromStart,
		move.ToStart,
		move.ConflictConfirmed,
		move.MovedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create move: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	move.ID = id
	return nil
}

// ListRecent returns up to limit moves, newest first.
func (r *moveRepo) ListRecent(limit int) ([]*entity.MoveRecord, error) {
	query := `
		SELECT id, shift_id, shift_name, from_start, to_start, conflict_confirmed, moved_at
		FROM moves
		ORDER BY moved_at DESC, id DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list moves: %w", err)
	}
	defer rows.Close()

	var moves []*entity.MoveRecord
	for rows.Next() {
		move := &entity.MoveRecord{}
		err := rows.Scan(
			&move.ID,
			&move.ShiftID,
			&move.ShiftName,
			&move.FromStart,
			&move.ToStart,
			&move.ConflictConfirmed,
			&move.MovedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan move: %w", err)
		}
		moves = append(moves, move)
	}

	return moves, rows.Err()
}
