// adminctl manages accounts directly against the database. It exists so the
// first owner account can be created before anyone can sign in.
//
// Usage:
//
//	adminctl create-account --name alice [--role owner]
//	adminctl reset-password --name alice
//
// The password is read from the terminal without echo, or from the first
// line of stdin when stdin is not a terminal.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/ahmetcoskunkizilkaya/community-admin/internal/config"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/database"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/dto"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/models"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/repository"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/services"
)

// readPassword is swapped out in tests so no terminal is needed.
var readPassword = term.ReadPassword

// cliActor is the identity adminctl acts as. Shell access to the database
// already implies full control, so it carries the owner role.
var cliActor = models.Identity{Name: "adminctl", Role: models.RoleOwner}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		usage(os.Stderr)
		return errors.New("missing command")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	accounts := repository.NewGormAccountRepository(db)
	c := &commands{
		accounts: accounts,
		users:    services.NewUserService(accounts, cfg.BcryptCost),
		in:       bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		terminal: term.IsTerminal(int(os.Stdin.Fd())),
		fd:       int(os.Stdin.Fd()),
	}
	return c.dispatch(context.Background(), args)
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: adminctl <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	fmt.Fprintln(w, "  create-account   create an active account")
	fmt.Fprintln(w, "  reset-password   replace an account's password")
}

type commands struct {
	accounts repository.AccountRepository
	users    *services.UserService
	in       *bufio.Reader
	out      io.Writer
	terminal bool
	fd       int
}

func (c *commands) dispatch(ctx context.Context, args []string) error {
	switch args[0] {
	case "create-account":
		return c.createAccount(ctx, args[1:])
	case "reset-password":
		return c.resetPassword(ctx, args[1:])
	case "help", "-h", "--help":
		usage(c.out)
		return nil
	default:
		usage(c.out)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func (c *commands) createAccount(ctx context.Context, args []string) error {
	flagSet := pflag.NewFlagSet("create-account", pflag.ContinueOnError)
	flagSet.SetOutput(c.out)
	name := flagSet.String("name", "", "account name (required)")
	role := flagSet.String("role", string(models.RoleOwner), "role: owner, admin or staff")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*name) == "" {
		return errors.New("--name is required")
	}

	password, err := c.password()
	if err != nil {
		return err
	}

	acc, err := c.users.Save(ctx, cliActor, &dto.CreateUserRequest{
		Name:     *name,
		Password: password,
		Role:     *role,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "created account %q (id %d, role %s)\n", acc.Name, acc.ID, acc.Role)
	return nil
}

func (c *commands) resetPassword(ctx context.Context, args []string) error {
	flagSet := pflag.NewFlagSet("reset-password", pflag.ContinueOnError)
	flagSet.SetOutput(c.out)
	name := flagSet.String("name", "", "account name (required)")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*name) == "" {
		return errors.New("--name is required")
	}

	acc, err := c.accounts.FindByName(ctx, strings.TrimSpace(*name))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("no account named %q", *name)
		}
		return err
	}

	password, err := c.password()
	if err != nil {
		return err
	}
	if err := c.users.ResetCredential(ctx, cliActor, acc.ID, password); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "password updated for %q\n", acc.Name)
	return nil
}

// password prompts twice on a terminal. Piped input is taken from the
// first line as-is.
func (c *commands) password() (string, error) {
	if !c.terminal {
		line, err := c.in.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return "", fmt.Errorf("read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(c.out, "Password: ")
	first, err := readPassword(c.fd)
	fmt.Fprintln(c.out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	fmt.Fprint(c.out, "Repeat password: ")
	second, err := readPassword(c.fd)
	fmt.Fprintln(c.out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	return string(first), nil
}
