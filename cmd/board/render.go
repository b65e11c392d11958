package main

import (
	"fmt"
	"io"
	"time"

	"github.com/diegoclair/shift-board/internal/domain"
	"github.com/diegoclair/shift-board/internal/domain/entity"
	"github.com/diegoclair/shift-board/internal/domain/schedule"
	"github.com/diegoclair/shift-board/internal/domain/service"
	"github.com/diegoclair/shift-board/internal/export"
)

type weekView struct {
	weekStart time.Time
	days      []schedule.DayColumn
	shifts    []entity.Shift
	drag      service.DragState
	loadErr   error
	loading   bool
	loc       *time.Location
}

func renderBoard(w io.Writer, board *service.Board) {
	renderWeek(w, weekView{
		weekStart: board.WeekStart(),
		days:      board.Days(),
		shifts:    board.Shifts(),
		drag:      board.Drag(),
		loadErr:   board.LoadError(),
		loading:   board.Loading(),
		loc:       board.Location(),
	})
}

func renderWeek(w io.Writer, v weekView) {
	fmt.Fprintf(w, "Week of %s\n", v.weekStart.Format("Mon 02 Jan 2006"))
	if v.loading {
		fmt.Fprintln(w, "Loading...")
	}
	if v.loadErr != nil {
		fmt.Fprintf(w, "! %s (type dismiss to hide)\n", v.loadErr)
	}

	for i, day := range v.days {
		marker := ""
		if day.Hovered {
			marker = "  <- drop here"
		}
		fmt.Fprintf(w, "\n%d %s %s%s\n", i+1, domain.WeekdayNames[day.Date.Weekday()], day.Date.Format("02 Jan"), marker)
		if len(day.Shifts) == 0 {
			fmt.Fprintln(w, "    -")
			continue
		}
		for _, sh := range day.Shifts {
			fmt.Fprintf(w, "  %s#%d %s\n", dragMark(v.drag, sh), sh.ID, export.ShiftLine(sh, v.loc))
		}
	}

	if unscheduled := schedule.Bucket(v.shifts, v.loc)[domain.UnknownDayKey]; len(unscheduled) > 0 {
		fmt.Fprintln(w, "\nNo valid start time:")
		for _, sh := range unscheduled {
			fmt.Fprintf(w, "  %s#%d %s (start %q)\n", dragMark(v.drag, sh), sh.ID, sh.Name, sh.StartTime)
		}
	}

	if v.drag.Active {
		target := "no day"
		if v.drag.Over != "" {
			target = v.drag.Over
		}
		fmt.Fprintf(w, "\nDragging #%d over %s\n", v.drag.ShiftID, target)
	}
}

func dragMark(drag service.DragState, sh entity.Shift) string {
	if drag.Active && drag.ShiftID == sh.ID {
		return "* "
	}
	return "  "
}

func formatStart(value string, loc *time.Location) string {
	t, ok := schedule.ParseTimestamp(value, loc)
	if !ok {
		return fmt.Sprintf("%q", value)
	}
	local := t.In(loc)
	return fmt.Sprintf("%s %s", domain.WeekdayNames[local.Weekday()], local.Format("02 Jan 15:04"))
}
