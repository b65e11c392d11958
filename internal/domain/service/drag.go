package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/diegoclair/shift-board/internal/domain"
	"github.com/diegoclair/shift-board/internal/domain/entity"
	"github.com/diegoclair/shift-board/internal/domain/schedule"
)

type dragSession struct {
	shiftID int64
	over    string
}

// DragState describes the drag in progress, if any.
type DragState struct {
	Active  bool
	ShiftID int64
	Over    string
}

// MoveResult reports what a drop did. Changed is false for a drop that
// landed the shift where it already was.
type MoveResult struct {
	Shift     entity.Shift
	FromDay   string
	ToDay     string
	Conflicts []entity.Shift
	Changed   bool
}

// BeginDrag starts dragging a shift. Only one drag may exist, and none while
// shifts are loading.
func (b *Board) BeginDrag(shiftID int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.loading {
		return ErrLoadInFlight
	}
	if b.drag != nil {
		return ErrDragActive
	}
	if b.pending[shiftID] {
		return ErrMovePending
	}
	if _, ok := b.findLocked(shiftID); !ok {
		return ErrShiftNotFound
	}

	b.drag = &dragSession{shiftID: shiftID}
	return nil
}

// Hover marks a day as the candidate drop target. An empty key clears it.
func (b *Board) Hover(dayKey string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.drag == nil {
		return ErrNoDrag
	}
	dayKey = strings.TrimSpace(dayKey)
	if dayKey != "" && !schedule.IsWeekDay(dayKey, b.week, b.loc) {
		b.drag.over = ""
		return fmt.Errorf("%w: %s is not a day of this week", ErrNoTarget, dayKey)
	}
	b.drag.over = dayKey
	return nil
}

// CancelDrag abandons the drag without touching any shift.
func (b *Board) CancelDrag() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.drag = nil
}

func (b *Board) Drag() DragState {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.drag == nil {
		return DragState{}
	}
	return DragState{Active: true, ShiftID: b.drag.shiftID, Over: b.drag.over}
}

// Move drags a shift onto a day in one step.
func (b *Board) Move(ctx context.Context, shiftID int64, dayKey string) (MoveResult, error) {
	if err := b.BeginDrag(shiftID); err != nil {
		return MoveResult{}, err
	}
	if err := b.Hover(dayKey); err != nil {
		b.CancelDrag()
		return MoveResult{}, err
	}
	return b.Drop(ctx)
}

// Drop ends the drag and relocates the shift onto the hovered day. The drag
// is cleared whatever the outcome. Overlaps on the target day need the
// confirmer's approval, and local state only changes once the backend has
// accepted the new start.
func (b *Board) Drop(ctx context.Context) (MoveResult, error) {
	b.mu.Lock()
	session := b.drag
	b.drag = nil
	if session == nil {
		b.mu.Unlock()
		return MoveResult{}, ErrNoDrag
	}
	if session.over == "" || !schedule.IsWeekDay(session.over, b.week, b.loc) {
		b.mu.Unlock()
		return MoveResult{}, ErrNoTarget
	}
	shift, ok := b.findLocked(session.shiftID)
	if !ok {
		b.mu.Unlock()
		return MoveResult{}, ErrShiftNotFound
	}
	others := cloneShifts(b.shifts)
	b.pending[shift.ID] = true
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		delete(b.pending, shift.ID)
		b.mu.Unlock()
	}()

	return b.commitMove(ctx, shift, session.over, others)
}

func (b *Board) commitMove(ctx context.Context, shift entity.Shift, targetKey string, others []entity.Shift) (MoveResult, error) {
	day, err := schedule.ParseDayKey(targetKey, b.loc)
	if err != nil {
		return MoveResult{}, fmt.Errorf("%w: %v", ErrNoTarget, err)
	}
	newStart, newEnd := schedule.Relocate(shift, day, b.loc)

	result := MoveResult{Shift: shift, FromDay: domain.UnknownDayKey, ToDay: targetKey}
	if orig, ok := schedule.ParseTimestamp(shift.StartTime, b.loc); ok {
		result.FromDay = schedule.DayKey(orig, b.loc)
		if orig.Equal(newStart) {
			return result, nil
		}
	}

	result.Conflicts = schedule.Conflicts(shift.ID, newStart, newEnd, others, b.loc)
	if len(result.Conflicts) > 0 {
		confirmed, err := b.confirm(ctx, conflictPrompt(shift, result.Conflicts, b.loc))
		if err != nil {
			return result, fmt.Errorf("failed to confirm move: %w", err)
		}
		if !confirmed {
			return result, ErrMoveDeclined
		}
	}

	if _, err := b.api.UpdateShiftStart(ctx, shift.ID, newStart); err != nil {
		b.notify(ctx, entity.Notification{
			Level:   entity.LevelError,
			Title:   "Failed to move shift",
			Message: errorMessage(err),
		})
		return result, &notifiedError{fmt.Errorf("failed to move shift %d: %w", shift.ID, err)}
	}

	startText := schedule.FormatTimestamp(newStart)

	b.mu.Lock()
	result.Shift.StartTime = startText
	for i := range b.shifts {
		if b.shifts[i].ID == shift.ID {
			b.shifts[i].StartTime = startText
			result.Shift = b.shifts[i]
		}
	}
	snapshot := b.snapshotLocked()
	b.mu.Unlock()

	result.Changed = true
	log.Printf("Moved shift %d from %s to %s", shift.ID, shift.StartTime, startText)

	b.recordMove(ctx, entity.MoveRecord{
		ShiftID:           shift.ID,
		ShiftName:         shift.Name,
		FromStart:         shift.StartTime,
		ToStart:           startText,
		ConflictConfirmed: len(result.Conflicts) > 0,
		MovedAt:           b.now(),
	}, snapshot)

	b.notify(ctx, entity.Notification{
		Level:   entity.LevelSuccess,
		Title:   "Shift moved",
		Message: fmt.Sprintf("%s moved to %s", shiftLabel(shift), formatDay(newStart, b.loc)),
	})
	return result, nil
}

func (b *Board) confirm(ctx context.Context, prompt string) (bool, error) {
	if b.confirmer == nil {
		return false, nil
	}
	return b.confirmer.Confirm(ctx, prompt)
}

func conflictPrompt(shift entity.Shift, conflicts []entity.Shift, loc *time.Location) string {
	names := make([]string, 0, len(conflicts))
	for _, c := range conflicts {
		label := shiftLabel(c)
		if s, e, ok := schedule.Bounds(c, loc); ok {
			label = fmt.Sprintf("%s (%s-%s)", label, s.In(loc).Format("15:04"), e.In(loc).Format("15:04"))
		}
		names = append(names, label)
	}
	return fmt.Sprintf("%s overlaps with %s. Move anyway?", shiftLabel(shift), strings.Join(names, ", "))
}

func shiftLabel(sh entity.Shift) string {
	if sh.Name != "" {
		return sh.Name
	}
	return fmt.Sprintf("Shift #%d", sh.ID)
}

func formatDay(t time.Time, loc *time.Location) string {
	local := t.In(loc)
	return fmt.Sprintf("%s %s", domain.WeekdayNames[local.Weekday()], local.Format("02 Jan 15:04"))
}
