package contract

//go:generate mockgen -source=service.go -destination=../../../mocks/service.go -package=mocks

import (
	"context"
	"time"

	"github.com/diegoclair/shift-board/internal/domain/entity"
)

// ScheduleAPI is the part of the backend the board talks to, acting for one
// signed-in user
type ScheduleAPI interface {
	ListShifts(ctx context.Context, weekStart time.Time) ([]entity.Shift, error)
	UpdateShiftStart(ctx context.Context, shiftID int64, start time.Time) (*entity.Shift, error)
}

// Confirmer asks the user a yes/no question
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// Notifier delivers user-facing notifications
type Notifier interface {
	Notify(ctx context.Context, n entity.Notification)
}
