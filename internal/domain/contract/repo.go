package contract

//go:generate mockgen -source=repo.go -destination=../../../mocks/repo.go -package=mocks

import (
	"context"

	"github.com/diegoclair/shift-board/internal/domain/entity"
)

// DataManager aggregates all repository interfaces
type DataManager interface {
	WithTransaction(ctx context.Context, fn func(dm DataManager) error) error
	Session() SessionRepo
	Snapshot() SnapshotRepo
	Move() MoveRepo
}

// SessionRepo stores the single signed-in session
type SessionRepo interface {
	Get() (*entity.Session, error)
	Save(session *entity.Session) error
	Delete() error
}

// SnapshotRepo stores the last loaded copy of each week
type SnapshotRepo interface {
	Save(snapshot *entity.WeekSnapshot) error
	GetByWeek(weekStart string) (*entity.WeekSnapshot, error)
	GetLatest() (*entity.WeekSnapshot, error)
}

// MoveRepo records committed shift moves
type MoveRepo interface {
	Create(move *entity.MoveRecord) error
	ListRecent(limit int) ([]*entity.MoveRecord, error)
}
