package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/diegoclair/shift-board/internal/api"
)

type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (cli *commandLine) login(ctx context.Context, args []string) error {
	loginCmd := cli.newFlagSet("login")
	loginEmail := loginCmd.String("email", "", "The account email. The password will be prompted next.")
	if err := parseFlags(loginCmd, args); err != nil {
		return err
	}
	if *loginEmail == "" {
		loginCmd.Usage()
		return errHelp
	}

	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(stdinFd())
	fmt.Fprintln(cli.out)
	if err != nil {
		return err
	}

	creds := credentials{Email: strings.TrimSpace(*loginEmail), Password: string(pwd)}
	if err := newValidator().Struct(creds); err != nil {
		return fmt.Errorf("invalid credentials: %w", err)
	}

	session, err := cli.client.Login(ctx, creds.Email, creds.Password)
	if err != nil {
		return fmt.Errorf("failed to log in: %w", err)
	}
	if err := cli.dm.Session().Save(&session); err != nil {
		return err
	}

	fmt.Fprintf(cli.out, "Logged in as %s\n", session.Email)
	return nil
}

func (cli *commandLine) logout(ctx context.Context) error {
	auth, err := cli.loadAuth()
	if errors.Is(err, api.ErrNotLoggedIn) {
		fmt.Fprintln(cli.out, "Not logged in")
		return nil
	}
	if err != nil {
		return err
	}

	cli.client.Logout(ctx, auth)
	if err := cli.dm.Session().Delete(); err != nil {
		return err
	}

	fmt.Fprintln(cli.out, "Logged out")
	return nil
}

func (cli *commandLine) whoami(ctx context.Context) error {
	auth, err := cli.loadAuth()
	if err != nil {
		return err
	}

	profile, err := cli.client.Me(ctx, auth)
	if err != nil {
		return fmt.Errorf("failed to get profile: %w", err)
	}

	name := strings.TrimSpace(profile.FirstName + " " + profile.LastName)
	if name == "" {
		name = profile.Email
	}
	line := fmt.Sprintf("%s <%s>", name, profile.Email)
	if profile.Role != "" {
		line += fmt.Sprintf(" (%s)", profile.Role)
	}
	fmt.Fprintln(cli.out, line)
	return nil
}
