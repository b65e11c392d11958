// Package export writes a board week to an Excel workbook.
package export

import (
	"fmt"
	"time"

	"github.com/diegoclair/shift-board/internal/domain"
	"github.com/diegoclair/shift-board/internal/domain/entity"
	"github.com/diegoclair/shift-board/internal/domain/schedule"
	"github.com/xuri/excelize/v2"
)

const columnWidth = 28

// SheetName names the sheet of the week starting at weekStart.
func SheetName(weekStart time.Time) string {
	return "Week " + weekStart.Format(domain.DayKeyLayout)
}

// WeekWorkbook lays out one column per day with a header row, then one row
// per shift slot in start order.
func WeekWorkbook(weekStart time.Time, columns []schedule.DayColumn, loc *time.Location) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := SheetName(weekStart)

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, columnHeader(col)); err != nil {
			return nil, fmt.Errorf("failed to write header %s: %w", cell, err)
		}

		for row, sh := range col.Shifts {
			cell, err := excelize.CoordinatesToCellName(i+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, ShiftLine(sh, loc)); err != nil {
				return nil, fmt.Errorf("failed to write shift %d: %w", sh.ID, err)
			}
		}
	}

	if len(columns) > 0 {
		last, err := excelize.ColumnNumberToName(len(columns))
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheet, "A", last, columnWidth); err != nil {
			return nil, fmt.Errorf("failed to size columns: %w", err)
		}
		if err := f.SetCellStyle(sheet, "A1", last+"1", headerStyle); err != nil {
			return nil, fmt.Errorf("failed to style header: %w", err)
		}
	}

	return f, nil
}

func columnHeader(col schedule.DayColumn) string {
	return fmt.Sprintf("%s %s", domain.WeekdayNames[col.Date.Weekday()], col.Date.Format("02 Jan"))
}

// ShiftLine renders a shift as "HH:MM–HH:MM name (role)". The end is only
// shown when the shift has one.
func ShiftLine(sh entity.Shift, loc *time.Location) string {
	timeRange := "--:--"
	if start, ok := schedule.ParseTimestamp(sh.StartTime, loc); ok {
		timeRange = start.In(loc).Format("15:04")
		if end, ok := schedule.ParseTimestamp(sh.EndTime, loc); ok && end.After(start) {
			timeRange += "–" + end.In(loc).Format("15:04")
		}
	}

	line := fmt.Sprintf("%s %s", timeRange, shiftName(sh))
	if role := sh.RoleName(); role != "" {
		line += fmt.Sprintf(" (%s)", role)
	}
	return line
}

func shiftName(sh entity.Shift) string {
	if sh.Name != "" {
		return sh.Name
	}
	return fmt.Sprintf("Shift #%d", sh.ID)
}
