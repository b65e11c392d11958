package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/diegoclair/shift-board/internal/domain"
	"github.com/diegoclair/shift-board/internal/domain/contract"
	"github.com/diegoclair/shift-board/internal/domain/schedule"
	"github.com/diegoclair/shift-board/internal/domain/service"
	"github.com/diegoclair/shift-board/internal/export"
)

func (cli *commandLine) week(ctx context.Context, args []string) error {
	weekCmd := cli.newFlagSet("week")
	weekOffset := weekCmd.Int("offset", 0, "Weeks from the current one (negative for past weeks).")
	weekCached := weekCmd.Bool("cached", false, "Print the last loaded copy without calling the backend.")
	if err := parseFlags(weekCmd, args); err != nil {
		return err
	}

	if *weekCached {
		return cli.printCachedWeek(*weekOffset)
	}

	auth, err := cli.loadAuth()
	if err != nil {
		return err
	}
	board := cli.newBoard(auth, nil)
	if err := board.GoToWeekOf(ctx, cli.weekOf(*weekOffset)); err != nil {
		return err
	}

	renderBoard(cli.out, board)
	return nil
}

func (cli *commandLine) printCachedWeek(offset int) error {
	weekStart := schedule.StartOfWeek(cli.weekOf(offset), cli.loc)
	key := weekStart.Format(domain.DayKeyLayout)

	snapshot, err := cli.dm.Snapshot().GetByWeek(key)
	if err != nil {
		return err
	}
	if snapshot == nil {
		return fmt.Errorf("no cached copy of the week of %s", key)
	}

	renderWeek(cli.out, weekView{
		weekStart: weekStart,
		days:      schedule.Columns(weekStart, snapshot.Shifts, cli.loc),
		shifts:    snapshot.Shifts,
		loc:       cli.loc,
	})
	fmt.Fprintf(cli.out, "(cached %s)\n", snapshot.FetchedAt.In(cli.loc).Format("02 Jan 2006 15:04"))
	return nil
}

func (cli *commandLine) move(ctx context.Context, args []string) error {
	moveCmd := cli.newFlagSet("move")
	moveShift := moveCmd.Int64("shift", 0, "The id of the shift to move.")
	moveDay := moveCmd.String("day", "", "The target day, YYYY-MM-DD, in the shift's week.")
	moveYes := moveCmd.Bool("yes", false, "Move even when the shift overlaps others on the target day.")
	if err := parseFlags(moveCmd, args); err != nil {
		return err
	}
	if *moveShift <= 0 || *moveDay == "" {
		moveCmd.Usage()
		return errHelp
	}

	day, err := schedule.ParseDayKey(*moveDay, cli.loc)
	if err != nil {
		return fmt.Errorf("invalid day %q: %w", *moveDay, err)
	}

	auth, err := cli.loadAuth()
	if err != nil {
		return err
	}

	var confirmer contract.Confirmer = promptConfirmer{in: cli.in, out: cli.out}
	if *moveYes {
		confirmer = autoConfirm{}
	}
	board := cli.newBoard(auth, confirmer)
	if err := board.GoToWeekOf(ctx, day); err != nil {
		return err
	}

	result, err := board.Move(ctx, *moveShift, schedule.DayKey(day, cli.loc))
	if errors.Is(err, service.ErrMoveDeclined) {
		fmt.Fprintln(cli.out, "Move cancelled")
		return nil
	}
	if errors.Is(err, service.ErrShiftNotFound) {
		return fmt.Errorf("shift %d is not in the week of %s", *moveShift, board.WeekStart().Format(domain.DayKeyLayout))
	}
	if err != nil {
		return err
	}
	if !result.Changed {
		fmt.Fprintln(cli.out, "Shift is already on that day")
	}
	return nil
}

func (cli *commandLine) export(ctx context.Context, args []string) error {
	exportCmd := cli.newFlagSet("export")
	exportOut := exportCmd.String("out", "", "The .xlsx file to write.")
	exportOffset := exportCmd.Int("offset", 0, "Weeks from the current one (negative for past weeks).")
	if err := parseFlags(exportCmd, args); err != nil {
		return err
	}
	if *exportOut == "" {
		exportCmd.Usage()
		return errHelp
	}

	auth, err := cli.loadAuth()
	if err != nil {
		return err
	}
	board := cli.newBoard(auth, nil)
	if err := board.GoToWeekOf(ctx, cli.weekOf(*exportOffset)); err != nil {
		return err
	}

	f, err := export.WeekWorkbook(board.WeekStart(), board.Days(), cli.loc)
	if err != nil {
		return fmt.Errorf("failed to build workbook: %w", err)
	}
	defer f.Close()

	if err := f.SaveAs(*exportOut); err != nil {
		return fmt.Errorf("failed to write %s: %w", *exportOut, err)
	}

	fmt.Fprintf(cli.out, "Wrote %s (%d shifts)\n", *exportOut, len(board.Shifts()))
	return nil
}

func (cli *commandLine) history(args []string) error {
	historyCmd := cli.newFlagSet("history")
	historyLimit := historyCmd.Int("limit", 20, "How many moves to list.")
	if err := parseFlags(historyCmd, args); err != nil {
		return err
	}
	if *historyLimit <= 0 {
		historyCmd.Usage()
		return errHelp
	}

	moves, err := cli.dm.Move().ListRecent(*historyLimit)
	if err != nil {
		return err
	}
	if len(moves) == 0 {
		fmt.Fprintln(cli.out, "No moves yet")
		return nil
	}

	for _, m := range moves {
		line := fmt.Sprintf("%s  #%d %s: %s -> %s",
			m.MovedAt.In(cli.loc).Format("2006-01-02 15:04"), m.ShiftID, m.ShiftName,
			formatStart(m.FromStart, cli.loc), formatStart(m.ToStart, cli.loc))
		if m.ConflictConfirmed {
			line += " (overlap confirmed)"
		}
		fmt.Fprintln(cli.out, line)
	}
	return nil
}
