// Package shell parses the commands of the interactive board.
package shell

import (
	"fmt"
	"strconv"
	"strings"
)

type CommandType string

const (
	CmdNext    CommandType = "next"
	CmdPrev    CommandType = "prev"
	CmdToday   CommandType = "today"
	CmdShow    CommandType = "show"
	CmdDrag    CommandType = "drag"
	CmdOver    CommandType = "over"
	CmdDrop    CommandType = "drop"
	CmdCancel  CommandType = "cancel"
	CmdMove    CommandType = "move"
	CmdDismiss CommandType = "dismiss"
	CmdHelp    CommandType = "help"
	CmdQuit    CommandType = "quit"
)

type Command struct {
	Type    CommandType
	ShiftID int64
	Day     string // YYYY-MM-DD, a column number 1..7, or empty
	Raw     string
}

func ParseCommand(text string) (*Command, error) {
	parts := strings.Fields(strings.TrimSpace(text))
	if len(parts) == 0 {
		return &Command{Type: CmdShow, Raw: text}, nil
	}

	cmd := &Command{
		Raw: text,
	}

	switch strings.ToLower(parts[0]) {
	case "next", "n":
		cmd.Type = CmdNext
	case "prev", "p":
		cmd.Type = CmdPrev
	case "today", "t":
		cmd.Type = CmdToday
	case "show", "ls":
		cmd.Type = CmdShow
	case "drag", "d":
		cmd.Type = CmdDrag
		if len(parts) != 2 {
			return nil, fmt.Errorf("usage: drag SHIFT_ID")
		}
		id, err := parseShiftID(parts[1])
		if err != nil {
			return nil, err
		}
		cmd.ShiftID = id
	case "over", "o":
		cmd.Type = CmdOver
		if len(parts) > 2 {
			return nil, fmt.Errorf("usage: over YYYY-MM-DD|1..7")
		}
		if len(parts) == 2 {
			cmd.Day = parts[1]
		}
	case "drop":
		cmd.Type = CmdDrop
	case "cancel", "c":
		cmd.Type = CmdCancel
	case "move", "mv":
		cmd.Type = CmdMove
		if len(parts) != 3 {
			return nil, fmt.Errorf("usage: move SHIFT_ID YYYY-MM-DD|1..7")
		}
		id, err := parseShiftID(parts[1])
		if err != nil {
			return nil, err
		}
		cmd.ShiftID = id
		cmd.Day = parts[2]
	case "dismiss":
		cmd.Type = CmdDismiss
	case "help", "?":
		cmd.Type = CmdHelp
	case "quit", "exit", "q":
		cmd.Type = CmdQuit
	default:
		return nil, fmt.Errorf("unknown command: %s", parts[0])
	}

	return cmd, nil
}

// ColumnIndex returns the zero-based column for a day given as 1..7.
func ColumnIndex(day string) (int, bool) {
	n, err := strconv.Atoi(day)
	if err != nil || n < 1 || n > 7 {
		return 0, false
	}
	return n - 1, true
}

func parseShiftID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid shift id: %s", s)
	}
	return id, nil
}

func GetHelpText() string {
	return `Available commands:

Week:
  next, prev, today       change the displayed week
  show                    print the week again

Moving shifts:
  drag ID                 pick up a shift
  over DAY                hover a day (YYYY-MM-DD or column 1-7, empty clears)
  drop                    release the shift on the hovered day
  cancel                  put the shift back
  move ID DAY             drag, hover and drop in one step

Other:
  dismiss                 hide the last load error
  help                    show this text
  quit                    leave the board`
}
