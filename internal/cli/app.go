// Package cli implements the interactive commands. It is a thin glue layer:
// flags in, service call, formatted output, nothing else.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/subcommands"
	"github.com/valutatrade/valutatrade-hub/internal/apperrors"
	"github.com/valutatrade/valutatrade-hub/internal/core/ports"
	"github.com/valutatrade/valutatrade-hub/internal/dto"
)

// App bundles the wired services and the shared state every command needs.
type App struct {
	Auth       ports.AuthSvc
	Trades     ports.TradeSvc
	Portfolios ports.PortfolioSvc
	Rates      ports.RatesSvc
	Updater    ports.UpdaterSvc

	// SessionFile caches the token minted by login, so later commands can
	// rebuild their session without re-authenticating.
	SessionFile string
	Out         io.Writer
}

// Commands returns every command, ready for registration.
func (a *App) Commands() []subcommands.Command {
	return []subcommands.Command{
		&registerCmd{app: a},
		&loginCmd{app: a},
		&logoutCmd{app: a},
		&passwdCmd{app: a},
		&tradeCmd{app: a, side: dto.Buy},
		&tradeCmd{app: a, side: dto.Sell},
		&rateCmd{app: a},
		&ratesCmd{app: a},
		&currenciesCmd{app: a},
		&portfolioCmd{app: a},
		&addCurrencyCmd{app: a},
		&updateCmd{app: a},
	}
}

func (a *App) saveSessionToken(token string) error {
	if err := os.MkdirAll(filepath.Dir(a.SessionFile), 0o755); err != nil {
		return err
	}
	return os.WriteFile(a.SessionFile, []byte(token+"\n"), 0o600)
}

func (a *App) clearSessionToken() error {
	err := os.Remove(a.SessionFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// currentSession verifies the cached token and returns the explicit session
// object handed into every trade and portfolio operation.
func (a *App) currentSession(ctx context.Context) (*dto.Session, error) {
	data, err := os.ReadFile(a.SessionFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: login first", apperrors.ErrUnauthorized)
		}
		return nil, err
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return nil, fmt.Errorf("%w: login first", apperrors.ErrUnauthorized)
	}
	return a.Auth.Verify(ctx, token)
}

func (a *App) fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "Error:", err)
	return subcommands.ExitFailure
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.Out, format, args...)
}
