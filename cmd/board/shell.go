package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/diegoclair/shift-board/internal/domain/schedule"
	"github.com/diegoclair/shift-board/internal/domain/service"
	"github.com/diegoclair/shift-board/internal/shell"
)

func (cli *commandLine) shell(ctx context.Context) error {
	auth, err := cli.loadAuth()
	if err != nil {
		return err
	}

	board := cli.newBoard(auth, promptConfirmer{in: cli.in, out: cli.out})
	if err := board.GoToWeekOf(ctx, cli.now()); err != nil {
		cli.printShellError(err)
	}
	renderBoard(cli.out, board)
	fmt.Fprintln(cli.out, "\nType help for commands.")

	for {
		fmt.Fprint(cli.out, "board> ")
		line, err := cli.in.ReadString('\n')
		if err != nil && line == "" {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(cli.out)
				return nil
			}
			return err
		}

		cmd, err := shell.ParseCommand(line)
		if err != nil {
			fmt.Fprintln(cli.out, err)
			continue
		}

		quit, err := cli.handleShellCommand(ctx, board, cmd)
		if err != nil {
			cli.printShellError(err)
		}
		if quit {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (cli *commandLine) handleShellCommand(ctx context.Context, board *service.Board, cmd *shell.Command) (bool, error) {
	switch cmd.Type {
	case shell.CmdNext:
		err := board.NextWeek(ctx)
		renderBoard(cli.out, board)
		return false, err
	case shell.CmdPrev:
		err := board.PrevWeek(ctx)
		renderBoard(cli.out, board)
		return false, err
	case shell.CmdToday:
		err := board.GoToWeekOf(ctx, cli.now())
		renderBoard(cli.out, board)
		return false, err
	case shell.CmdShow:
		renderBoard(cli.out, board)
	case shell.CmdDrag:
		if err := board.BeginDrag(cmd.ShiftID); err != nil {
			return false, err
		}
		fmt.Fprintf(cli.out, "Dragging #%d. Use over DAY, then drop or cancel.\n", cmd.ShiftID)
	case shell.CmdOver:
		key, err := resolveDay(board, cmd.Day)
		if err != nil {
			return false, err
		}
		if err := board.Hover(key); err != nil {
			return false, err
		}
		renderBoard(cli.out, board)
	case shell.CmdDrop:
		result, err := board.Drop(ctx)
		return false, cli.reportMove(board, result, err)
	case shell.CmdCancel:
		board.CancelDrag()
		fmt.Fprintln(cli.out, "Drag cancelled")
	case shell.CmdMove:
		key, err := resolveDay(board, cmd.Day)
		if err != nil {
			return false, err
		}
		result, err := board.Move(ctx, cmd.ShiftID, key)
		return false, cli.reportMove(board, result, err)
	case shell.CmdDismiss:
		board.DismissError()
	case shell.CmdHelp:
		fmt.Fprintln(cli.out, shell.GetHelpText())
	case shell.CmdQuit:
		return true, nil
	}
	return false, nil
}

func (cli *commandLine) reportMove(board *service.Board, result service.MoveResult, err error) error {
	switch {
	case errors.Is(err, service.ErrMoveDeclined):
		fmt.Fprintln(cli.out, "Move cancelled")
		return nil
	case err != nil:
		return err
	case !result.Changed:
		fmt.Fprintln(cli.out, "Shift is already on that day")
		return nil
	}
	renderBoard(cli.out, board)
	return nil
}

func (cli *commandLine) printShellError(err error) {
	if service.Notified(err) {
		return
	}
	fmt.Fprintf(cli.out, "error: %s\n", err)
}

// resolveDay turns a column number 1..7 or a YYYY-MM-DD date into a day key.
func resolveDay(board *service.Board, day string) (string, error) {
	if day == "" {
		return "", nil
	}
	if idx, ok := shell.ColumnIndex(day); ok {
		return board.Days()[idx].Key, nil
	}
	if _, err := schedule.ParseDayKey(day, board.Location()); err != nil {
		return "", fmt.Errorf("invalid day %q: use YYYY-MM-DD or a column 1-7", day)
	}
	return day, nil
}
