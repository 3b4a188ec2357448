package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ahmetcoskunkizilkaya/community-admin/internal/models"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/repository"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/services"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/testutil"
)

func newCommands(t *testing.T, stdin string) (*commands, *repository.GormAccountRepository, *bytes.Buffer) {
	t.Helper()
	accounts := repository.NewGormAccountRepository(testutil.NewDB(t))
	out := &bytes.Buffer{}
	return &commands{
		accounts: accounts,
		users:    services.NewUserService(accounts, bcrypt.MinCost),
		in:       bufio.NewReader(strings.NewReader(stdin)),
		out:      out,
	}, accounts, out
}

func TestCreateAccount_DefaultsToOwner(t *testing.T) {
	c, accounts, out := newCommands(t, "s3cret-pass\n")

	require.NoError(t, c.dispatch(context.Background(), []string{"create-account", "--name", " alice "}))

	acc, err := accounts.FindByName(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, models.RoleOwner, acc.Role)
	assert.True(t, acc.Active)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte("s3cret-pass")))
	assert.Contains(t, out.String(), `created account "alice"`)
}

func TestCreateAccount_ExplicitRole(t *testing.T) {
	c, accounts, _ := newCommands(t, "pw")

	require.NoError(t, c.dispatch(context.Background(), []string{"create-account", "--name=mod", "--role=staff"}))

	acc, err := accounts.FindByName(context.Background(), "mod")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStaff, acc.Role)
}

func TestCreateAccount_Errors(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		stdin string
	}{
		{"missing name", []string{"create-account"}, "pw\n"},
		{"bad role", []string{"create-account", "--name", "x", "--role", "god"}, "pw\n"},
		{"empty password", []string{"create-account", "--name", "x"}, "\n"},
		{"no input", []string{"create-account", "--name", "x"}, ""},
		{"unknown flag", []string{"create-account", "--nope"}, "pw\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, _ := newCommands(t, tt.stdin)
			assert.Error(t, c.dispatch(context.Background(), tt.args))
		})
	}
}

func TestCreateAccount_Duplicate(t *testing.T) {
	c, _, _ := newCommands(t, "pw\npw\n")
	ctx := context.Background()

	require.NoError(t, c.dispatch(ctx, []string{"create-account", "--name", "alice"}))
	err := c.dispatch(ctx, []string{"create-account", "--name", "alice"})
	assert.ErrorIs(t, err, services.ErrConflict)
}

func TestResetPassword(t *testing.T) {
	c, accounts, out := newCommands(t, "old-pass\nnew-pass\n")
	ctx := context.Background()
	require.NoError(t, c.dispatch(ctx, []string{"create-account", "--name", "alice", "--role", "admin"}))

	require.NoError(t, c.dispatch(ctx, []string{"reset-password", "--name", "alice"}))

	acc, err := accounts.FindByName(ctx, "alice")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte("new-pass")))
	assert.Contains(t, out.String(), `password updated for "alice"`)
}

func TestResetPassword_UnknownAccount(t *testing.T) {
	c, _, _ := newCommands(t, "pw\n")

	err := c.dispatch(context.Background(), []string{"reset-password", "--name", "ghost"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestDispatch_UnknownCommand(t *testing.T) {
	c, _, out := newCommands(t, "")

	assert.Error(t, c.dispatch(context.Background(), []string{"drop-tables"}))
	assert.Contains(t, out.String(), "usage: adminctl")
}

func TestPassword_Terminal(t *testing.T) {
	orig := readPassword
	t.Cleanup(func() { readPassword = orig })

	t.Run("matching", func(t *testing.T) {
		readPassword = func(int) ([]byte, error) { return []byte("typed"), nil }
		c, _, _ := newCommands(t, "")
		c.terminal = true

		pw, err := c.password()
		require.NoError(t, err)
		assert.Equal(t, "typed", pw)
	})

	t.Run("mismatch", func(t *testing.T) {
		calls := 0
		readPassword = func(int) ([]byte, error) {
			calls++
			if calls == 1 {
				return []byte("one"), nil
			}
			return []byte("two"), nil
		}
		c, _, _ := newCommands(t, "")
		c.terminal = true

		_, err := c.password()
		assert.EqualError(t, err, "passwords do not match")
	})

	t.Run("read error", func(t *testing.T) {
		readPassword = func(int) ([]byte, error) { return nil, errors.New("tty gone") }
		c, _, _ := newCommands(t, "")
		c.terminal = true

		_, err := c.password()
		assert.ErrorContains(t, err, "tty gone")
	})
}
