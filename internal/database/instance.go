package database

import (
	"context"
	"fmt"

	"github.com/diegoclair/shift-board/internal/domain/contract"
)

// instance implements DataManager interface
type instance struct {
	db           *DB
	sessionRepo  contract.SessionRepo
	snapshotRepo contract.SnapshotRepo
	moveRepo     contract.MoveRepo
}

// NewInstance creates a new database instance with all repositories
func NewInstance(db *DB) contract.DataManager {
	instance := &instance{
		db: db,
	}
	instance.repoInstances()
	return instance
}

// repoInstances initializes all repositories
func (i *instance) repoInstances() {
	i.sessionRepo = newSessionRepo(i.db.conn)
	i.snapshotRepo = newSnapshotRepo(i.db.conn)
	i.moveRepo = newMoveRepo(i.db.conn)
}

// repoInstancesWithConn creates repository instances with custom dbConn
func repoInstancesWithConn(db dbConn) *instance {
	return &instance{
		sessionRepo:  newSessionRepo(db),
		snapshotRepo: newSnapshotRepo(db),
		moveRepo:     newMoveRepo(db),
	}
}

func (i *instance) Session() contract.SessionRepo {
	return i.sessionRepo
}

func (i *instance) Snapshot() contract.SnapshotRepo {
	return i.snapshotRepo
}

func (i *instance) Move() contract.MoveRepo {
	return i.moveRepo
}

// WithTransaction executes a function within a database transaction
func (i *instance) WithTransaction(ctx context.Context, fn func(dm contract.DataManager) error) error {
	tx, err := i.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	txInstance := repoInstancesWithConn(tx)
	err = fn(txInstance)
	if err != nil {
		rbErr := tx.Rollback()
		if rbErr != nil {
			return fmt.Errorf("error rolling back transaction: %v, original error: %w", rbErr, err)
		}
		return err
	}

	return tx.Commit()
}
