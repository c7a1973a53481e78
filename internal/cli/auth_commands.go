package cli

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"github.com/valutatrade/valutatrade-hub/internal/dto"
)

type registerCmd struct {
	app      *App
	username string
	password string
}

func (*registerCmd) Name() string     { return "register" }
func (*registerCmd) Synopsis() string { return "create a new user with an empty portfolio" }
func (*registerCmd) Usage() string {
	return `register -u <username> -p <password>

  Creates a user. The username must be unique; the password at least 4
  characters.
`
}

func (c *registerCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.username, "u", "", "Username (3-32 characters).")
	f.StringVar(&c.password, "p", "", "Password (at least 4 characters).")
}

func (c *registerCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	userID, err := c.app.Auth.Register(ctx, dto.RegisterRequest{Username: c.username, Password: c.password})
	if err != nil {
		return c.app.fail(err)
	}
	c.app.printf("Registered %q with user id %d. You can now login.\n", c.username, userID)
	return subcommands.ExitSuccess
}

type loginCmd struct {
	app      *App
	username string
	password string
}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "authenticate and cache a session token" }
func (*loginCmd) Usage() string {
	return `login -u <username> -p <password>

  Verifies the password and caches a session token for later commands.
`
}

func (c *loginCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.username, "u", "", "Username.")
	f.StringVar(&c.password, "p", "", "Password.")
}

func (c *loginCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	session, err := c.app.Auth.Login(ctx, dto.LoginRequest{Username: c.username, Password: c.password})
	if err != nil {
		return c.app.fail(err)
	}
	if err := c.app.saveSessionToken(session.Token); err != nil {
		return c.app.fail(err)
	}
	c.app.printf("Logged in as %q (session valid until %s).\n", session.Username, session.ExpiresAt.Format("2006-01-02 15:04"))
	return subcommands.ExitSuccess
}

type logoutCmd struct {
	app *App
}

func (*logoutCmd) Name() string     { return "logout" }
func (*logoutCmd) Synopsis() string { return "forget the cached session token" }
func (*logoutCmd) Usage() string {
	return `logout

  Removes the cached session token. The token itself stays valid until it
  expires; this only forgets it locally.
`
}

func (*logoutCmd) SetFlags(*flag.FlagSet) {}

func (c *logoutCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.app.clearSessionToken(); err != nil {
		return c.app.fail(err)
	}
	c.app.printf("Logged out.\n")
	return subcommands.ExitSuccess
}

type passwdCmd struct {
	app         *App
	oldPassword string
	newPassword string
}

func (*passwdCmd) Name() string     { return "passwd" }
func (*passwdCmd) Synopsis() string { return "change the current user's password" }
func (*passwdCmd) Usage() string {
	return `passwd -old <password> -new <password>

  Changes the password after verifying the old one.
`
}

func (c *passwdCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.oldPassword, "old", "", "Current password.")
	f.StringVar(&c.newPassword, "new", "", "New password (at least 4 characters).")
}

func (c *passwdCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	session, err := c.app.currentSession(ctx)
	if err != nil {
		return c.app.fail(err)
	}
	req := dto.ChangePasswordRequest{OldPassword: c.oldPassword, NewPassword: c.newPassword}
	if err := c.app.Auth.ChangePassword(ctx, session, req); err != nil {
		return c.app.fail(err)
	}
	c.app.printf("Password changed.\n")
	return subcommands.ExitSuccess
}
