package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/diegoclair/shift-board/internal/domain/contract"
	"github.com/diegoclair/shift-board/internal/domain/entity"
)

// the store keeps a single session row
const sessionRowID = 1

type sessionRepo struct {
	db dbConn
}

func newSessionRepo(db dbConn) contract.SessionRepo {
	return &sessionRepo{db: db}
}

func (r *sessionRepo) Get() (*entity.Session, error) {
	session := &entity.Session{}
	query := `
		SELECT email, access_token, refresh_token, updated_at
		FROM sessions
		WHERE id = ?
	`

	err := r.db.QueryRow(query, sessionRowID).Scan(
		&session.Email,
		&session.AccessToken,
		&session.RefreshToken,
		&session.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if session.IsZero() {
		return nil, nil
	}
	return session, nil
}

// Save replaces the stored session.
func (r *sessionRepo) Save(session *entity.Session) error {
	query := `
		INSERT INTO sessions (id, email, access_token, refresh_token, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email = excluded.email,
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			updated_at = excluded.updated_at
	`

	if session.UpdatedAt.IsZero() {
		session.UpdatedAt = time.Now()
	}

	_, err := r.db.Exec(query,
		sessionRowID,
		session.Email,
		session.AccessToken,
		session.RefreshToken,
		session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

func (r *sessionRepo) Delete() error {
	query := `DELETE FROM sessions WHERE id = ?`

	if _, err := r.db.Exec(query, sessionRowID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}
