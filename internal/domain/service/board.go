package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/diegoclair/shift-board/internal/domain"
	"github.com/diegoclair/shift-board/internal/domain/contract"
	"github.com/diegoclair/shift-board/internal/domain/entity"
	"github.com/diegoclair/shift-board/internal/domain/schedule"
)

var (
	ErrDragActive    = errors.New("a drag is already in progress")
	ErrNoDrag        = errors.New("no drag in progress")
	ErrLoadInFlight  = errors.New("shifts are still loading")
	ErrMovePending   = errors.New("a move of this shift is still being saved")
	ErrShiftNotFound = errors.New("shift not found on the board")
	ErrNoTarget      = errors.New("no day selected as drop target")
	ErrStaleLoad     = errors.New("load superseded by a newer request")
	ErrMoveDeclined  = errors.New("move cancelled")
)

// Board is the weekly schedule view. It owns the displayed shift list and
// serialises every change to it.
type Board struct {
	api       contract.ScheduleAPI
	dm        contract.DataManager
	notifier  contract.Notifier
	confirmer contract.Confirmer
	loc       *time.Location
	now       func() time.Time

	mu         sync.Mutex
	anchor     time.Time // week requested by navigation
	week       time.Time // week of the displayed shifts
	shifts     []entity.Shift
	generation uint64
	loading    bool
	loadErr    error
	drag       *dragSession
	pending    map[int64]bool
}

// NewBoard creates a board anchored on the current week. dm may be nil, in
// which case no snapshots or move history are written.
func NewBoard(scheduleAPI contract.ScheduleAPI, dm contract.DataManager, notifier contract.Notifier, confirmer contract.Confirmer, loc *time.Location) *Board {
	if loc == nil {
		loc = time.Local
	}
	b := &Board{
		api:       scheduleAPI,
		dm:        dm,
		notifier:  notifier,
		confirmer: confirmer,
		loc:       loc,
		now:       time.Now,
		shifts:    []entity.Shift{},
		pending:   map[int64]bool{},
	}
	b.anchor = schedule.StartOfWeek(b.now(), loc)
	b.week = b.anchor
	return b
}

// SetClock replaces the board's time source and re-anchors it on the
// current week.
func (b *Board) SetClock(now func() time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.now = now
	b.anchor = schedule.StartOfWeek(now(), b.loc)
	b.week = b.anchor
}

// Load fetches the anchored week. A load that finishes after a newer one
// started returns ErrStaleLoad and changes nothing. On failure the previous
// shifts stay displayed.
func (b *Board) Load(ctx context.Context) error {
	b.mu.Lock()
	b.generation++
	gen := b.generation
	week := b.anchor
	b.loading = true
	b.mu.Unlock()

	shifts, err := b.api.ListShifts(ctx, week)

	b.mu.Lock()
	if gen != b.generation {
		b.mu.Unlock()
		return ErrStaleLoad
	}
	b.loading = false
	if err != nil {
		// navigation continues from the week still on screen
		b.anchor = b.week
		b.loadErr = err
		b.mu.Unlock()

		b.notify(ctx, entity.Notification{
			Level:   entity.LevelError,
			Title:   "Failed to load shifts",
			Message: errorMessage(err),
		})
		return &notifiedError{fmt.Errorf("failed to load week of %s: %w", week.Format(domain.DayKeyLayout), err)}
	}

	if shifts == nil {
		shifts = []entity.Shift{}
	}
	b.shifts = cloneShifts(shifts)
	b.week = week
	b.loadErr = nil
	snapshot := b.snapshotLocked()
	b.mu.Unlock()

	log.Printf("Loaded %d shifts for week of %s", len(shifts), snapshot.WeekStart)
	b.saveSnapshot(snapshot)
	return nil
}

func (b *Board) NextWeek(ctx context.Context) error {
	b.moveAnchor(domain.DaysPerWeek)
	return b.Load(ctx)
}

func (b *Board) PrevWeek(ctx context.Context) error {
	b.moveAnchor(-domain.DaysPerWeek)
	return b.Load(ctx)
}

func (b *Board) ThisWeek(ctx context.Context) error {
	return b.GoToWeekOf(ctx, b.now())
}

// GoToWeekOf anchors the board on the week containing t and loads it.
func (b *Board) GoToWeekOf(ctx context.Context, t time.Time) error {
	b.mu.Lock()
	b.anchor = schedule.StartOfWeek(t, b.loc)
	b.mu.Unlock()
	return b.Load(ctx)
}

func (b *Board) moveAnchor(days int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.anchor = schedule.AddDays(b.anchor, days)
}

// WeekStart is the Sunday of the displayed week.
func (b *Board) WeekStart() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.week
}

func (b *Board) Location() *time.Location {
	return b.loc
}

// Days lays the displayed shifts out in seven day columns.
func (b *Board) Days() []schedule.DayColumn {
	b.mu.Lock()
	defer b.mu.Unlock()

	columns := schedule.Columns(b.week, b.shifts, b.loc)
	if b.drag != nil && b.drag.over != "" {
		for i := range columns {
			columns[i].Hovered = columns[i].Key == b.drag.over
		}
	}
	return columns
}

// Shifts returns a copy of the displayed shift list.
func (b *Board) Shifts() []entity.Shift {
	b.mu.Lock()
	defer b.mu.Unlock()
	return cloneShifts(b.shifts)
}

func (b *Board) Loading() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loading
}

// LoadError is the error of the last load, until dismissed or a load succeeds.
func (b *Board) LoadError() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loadErr
}

func (b *Board) DismissError() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.loadErr = nil
}

func (b *Board) findLocked(id int64) (entity.Shift, bool) {
	for _, sh := range b.shifts {
		if sh.ID == id {
			return sh, true
		}
	}
	return entity.Shift{}, false
}

func (b *Board) snapshotLocked() entity.WeekSnapshot {
	return entity.WeekSnapshot{
		WeekStart: b.week.Format(domain.DayKeyLayout),
		Shifts:    cloneShifts(b.shifts),
		FetchedAt: b.now(),
	}
}

func (b *Board) notify(ctx context.Context, n entity.Notification) {
	if b.notifier == nil {
		return
	}
	b.notifier.Notify(ctx, n)
}

func cloneShifts(shifts []entity.Shift) []entity.Shift {
	out := make([]entity.Shift, len(shifts))
	copy(out, shifts)
	return out
}

// errorMessage prefers the backend's own message over the wrapped chain.
func errorMessage(err error) string {
	var userErr interface{ UserMessage() string }
	if errors.As(err, &userErr) {
		return userErr.UserMessage()
	}
	return err.Error()
}

// notifiedError marks an error the board already reported through its notifier.
type notifiedError struct {
	err error
}

func (e *notifiedError) Error() string { return e.err.Error() }

func (e *notifiedError) Unwrap() error { return e.err }

// Notified reports whether err was already shown to the user as a notification.
func Notified(err error) bool {
	var n *notifiedError
	return errors.As(err, &n)
}
