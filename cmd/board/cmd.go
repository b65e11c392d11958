package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/diegoclair/shift-board/internal/api"
	"github.com/diegoclair/shift-board/internal/domain/contract"
	"github.com/diegoclair/shift-board/internal/domain/entity"
	"github.com/diegoclair/shift-board/internal/domain/schedule"
	"github.com/diegoclair/shift-board/internal/domain/service"
	"github.com/diegoclair/shift-board/internal/notify"
	"github.com/go-playground/validator/v10"
	"golang.org/x/term"
)

var (
	readPasswordFunc = term.ReadPassword // mockable
	timeNow          = time.Now          // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	client         *api.Client
	dm             contract.DataManager
	slackClient    contract.SlackClient
	slackChannelID string
	loc            *time.Location
	in             *bufio.Reader
	out            io.Writer
	now            func() time.Time
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  login -email EMAIL                       - sign in (the password is prompted next)")
	fmt.Fprintln(cli.out, "  logout                                   - sign out and forget the session")
	fmt.Fprintln(cli.out, "  whoami                                   - show the signed-in user")
	fmt.Fprintln(cli.out, "  week [-offset N] [-cached]               - print a week, N weeks from this one")
	fmt.Fprintln(cli.out, "  move -shift ID -day YYYY-MM-DD [-yes]    - move a shift to another day of its week")
	fmt.Fprintln(cli.out, "  export -out FILE.xlsx [-offset N]        - write a week to an Excel file")
	fmt.Fprintln(cli.out, "  history [-limit N]                       - list recent moves")
	fmt.Fprintln(cli.out, "  shell                                    - open the interactive board")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "login":
		return cli.login(ctx, args[2:])
	case "logout":
		return cli.logout(ctx)
	case "whoami":
		return cli.whoami(ctx)
	case "week":
		return cli.week(ctx, args[2:])
	case "move":
		return cli.move(ctx, args[2:])
	case "export":
		return cli.export(ctx, args[2:])
	case "history":
		return cli.history(args[2:])
	case "shell":
		return cli.shell(ctx)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return errHelp
		}
		return err
	}
	return nil
}

// loadAuth restores the stored session. Token refreshes are written back.
func (cli *commandLine) loadAuth() (*api.Auth, error) {
	session, err := cli.dm.Session().Get()
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("%w: run `board login -email EMAIL` first", api.ErrNotLoggedIn)
	}
	return api.NewAuth(*session, cli.persistSession), nil
}

func (cli *commandLine) persistSession(session entity.Session) error {
	if session.IsZero() {
		return cli.dm.Session().Delete()
	}
	return cli.dm.Session().Save(&session)
}

func (cli *commandLine) notifier() contract.Notifier {
	notifiers := notify.Multi{notify.NewConsole(cli.out)}
	if cli.slackClient != nil {
		notifiers = append(notifiers, notify.NewSlack(cli.slackClient, cli.slackChannelID))
	}
	return notifiers
}

func (cli *commandLine) newBoard(auth *api.Auth, confirmer contract.Confirmer) *service.Board {
	board := service.NewBoard(cli.client.Schedule(auth), cli.dm, cli.notifier(), confirmer, cli.loc)
	board.SetClock(cli.now)
	return board
}

// weekOf returns an instant in the week offset weeks from the current one.
func (cli *commandLine) weekOf(offset int) time.Time {
	return schedule.AddDays(cli.now().In(cli.loc), 7*offset)
}

// promptConfirmer asks on the terminal; anything but y/yes declines.
type promptConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

func (p promptConfirmer) Confirm(_ context.Context, prompt string) (bool, error) {
	fmt.Fprintf(p.out, "%s [y/N]: ", prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(p.out)
			return false, nil
		}
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

type autoConfirm struct{}

func (autoConfirm) Confirm(context.Context, string) (bool, error) { return true, nil }

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func stdinFd() int {
	return int(os.Stdin.Fd())
}
