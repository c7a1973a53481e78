package cli

import (
	"context"
	"flag"
	"strings"

	"github.com/google/subcommands"
	"github.com/valutatrade/valutatrade-hub/internal/utils"
)

type rateCmd struct {
	app  *App
	from string
	to   string
}

func (*rateCmd) Name() string     { return "rate" }
func (*rateCmd) Synopsis() string { return "show the cached rate for a currency pair" }
func (*rateCmd) Usage() string {
	return `rate -from <currency> -to <currency>

  Looks up the latest cached rate. Run "update" first to refresh the cache.
`
}

func (c *rateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "Currency to convert from.")
	f.StringVar(&c.to, "to", "", "Currency to convert to.")
}

func (c *rateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	info, err := c.app.Rates.GetRate(ctx, strings.ToUpper(c.from), strings.ToUpper(c.to))
	if err != nil {
		return c.app.fail(err)
	}
	c.app.printf("%s -> %s: %s (observed %s)\n",
		info.FromCurrency, info.ToCurrency,
		utils.FormatRate(info.Rate),
		info.UpdatedAt.Format("2006-01-02 15:04:05 MST"))
	return subcommands.ExitSuccess
}

type ratesCmd struct {
	app *App
}

func (*ratesCmd) Name() string     { return "rates" }
func (*ratesCmd) Synopsis() string { return "show the whole cached rate snapshot" }
func (*ratesCmd) Usage() string {
	return `rates

  Lists every cached directed pair with its rate and observation time.
`
}

func (*ratesCmd) SetFlags(*flag.FlagSet) {}

func (c *ratesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	view, err := c.app.Rates.ListRates(ctx)
	if err != nil {
		return c.app.fail(err)
	}
	if len(view.Rates) == 0 {
		c.app.printf("No rates cached yet. Run \"update\" to fetch them.\n")
		return subcommands.ExitSuccess
	}
	c.app.printf("Cached rates (source %s, refreshed %s):\n",
		view.Source, view.LastRefresh.Format("2006-01-02 15:04:05 MST"))
	for _, r := range view.Rates {
		c.app.printf("  %s -> %s: %s\n", r.FromCurrency, r.ToCurrency, utils.FormatRate(r.Rate))
	}
	return subcommands.ExitSuccess
}

type currenciesCmd struct {
	app *App
}

func (*currenciesCmd) Name() string     { return "currencies" }
func (*currenciesCmd) Synopsis() string { return "list the currencies known to the system" }
func (*currenciesCmd) Usage() string {
	return `currencies

  Lists every registered currency with its kind-specific details.
`
}

func (*currenciesCmd) SetFlags(*flag.FlagSet) {}

func (c *currenciesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	for _, cur := range c.app.Rates.ListCurrencies(ctx) {
		c.app.printf("%s\n", cur.Display)
	}
	return subcommands.ExitSuccess
}

type updateCmd struct {
	app    *App
	source string
}

func (*updateCmd) Name() string     { return "update" }
func (*updateCmd) Synopsis() string { return "refresh the rate cache from the configured sources" }
func (*updateCmd) Usage() string {
	return `update [-source <name>]

  Runs one refresh cycle. A failing source is skipped; the run fails only if
  every source fails.
`
}

func (c *updateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.source, "source", "", "Refresh a single source by name (CoinGecko, ExchangeRate-API).")
}

func (c *updateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	summary, err := c.app.Updater.RunUpdate(ctx, c.source)
	if err != nil {
		return c.app.fail(err)
	}
	c.app.printf("Applied %d observations at %s.\n",
		summary.RatesUpdated, summary.LastRefresh.Format("2006-01-02 15:04:05 MST"))
	if summary.HasErrors {
		c.app.printf("Some sources failed and were skipped; see the log for details.\n")
	}
	return subcommands.ExitSuccess
}
