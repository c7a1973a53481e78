package cli

import (
	"context"
	"flag"
	"strings"

	"github.com/google/subcommands"
	"github.com/valutatrade/valutatrade-hub/internal/utils"
)

type portfolioCmd struct {
	app  *App
	base string
}

func (*portfolioCmd) Name() string     { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "show wallet balances and total value" }
func (*portfolioCmd) Usage() string {
	return `portfolio [-base <currency>]

  Shows every wallet with its value in the base currency, plus the total.
`
}

func (c *portfolioCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.base, "base", "", "Base currency; defaults to the configured one.")
}

func (c *portfolioCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	session, err := c.app.currentSession(ctx)
	if err != nil {
		return c.app.fail(err)
	}
	view, err := c.app.Portfolios.Show(ctx, session, strings.ToUpper(c.base))
	if err != nil {
		return c.app.fail(err)
	}

	c.app.printf("Portfolio of %q (in %s):\n", view.Username, view.BaseCurrency)
	if len(view.Lines) == 0 {
		c.app.printf("  (empty)\n")
	}
	for _, line := range view.Lines {
		c.app.printf("  %-5s %s  =  %s %s\n",
			line.CurrencyCode, utils.FormatAmount(line.Balance),
			utils.FormatAmount(line.BaseValue), view.BaseCurrency)
	}
	c.app.printf("Total: %s %s\n", utils.FormatAmount(view.Total), view.BaseCurrency)
	return subcommands.ExitSuccess
}

type addCurrencyCmd struct {
	app      *App
	currency string
}

func (*addCurrencyCmd) Name() string     { return "add-currency" }
func (*addCurrencyCmd) Synopsis() string { return "add an empty wallet to the portfolio" }
func (*addCurrencyCmd) Usage() string {
	return `add-currency -c <currency>

  Creates a zero-balance wallet so the currency shows up in the portfolio
  before the first purchase. Adding a held currency is a no-op.
`
}

func (c *addCurrencyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "c", "", "Currency code to add (e.g. ETH).")
}

func (c *addCurrencyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	session, err := c.app.currentSession(ctx)
	if err != nil {
		return c.app.fail(err)
	}
	code := strings.ToUpper(c.currency)
	if err := c.app.Portfolios.AddCurrency(ctx, session, code); err != nil {
		return c.app.fail(err)
	}
	c.app.printf("Added %s to the portfolio.\n", code)
	return subcommands.ExitSuccess
}
