package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
	"github.com/valutatrade/valutatrade-hub/internal/dto"
	"github.com/valutatrade/valutatrade-hub/internal/utils"
)

// tradeCmd serves both buy and sell; the two differ only in the side passed
// to the trade service.
type tradeCmd struct {
	app  *App
	side dto.TradeSide

	currency string
	amount   string
	base     string
}

func (c *tradeCmd) Name() string { return string(c.side) }

func (c *tradeCmd) Synopsis() string {
	if c.side == dto.Buy {
		return "buy an amount of a currency against the base currency"
	}
	return "sell an amount of a currency for the base currency"
}

func (c *tradeCmd) Usage() string {
	return fmt.Sprintf(`%s -c <currency> -a <amount> [-base <currency>]

  Prices the trade at the cached exchange rate and updates both wallets.
`, c.side)
}

func (c *tradeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "c", "", "Currency code to trade (e.g. BTC).")
	f.StringVar(&c.amount, "a", "", "Amount of the traded currency.")
	f.StringVar(&c.base, "base", "", "Base currency; defaults to the configured one.")
}

func (c *tradeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := decimal.NewFromString(strings.TrimSpace(c.amount))
	if err != nil {
		return c.app.fail(fmt.Errorf("invalid amount %q: %w", c.amount, err))
	}
	session, err := c.app.currentSession(ctx)
	if err != nil {
		return c.app.fail(err)
	}

	req := dto.TradeRequest{
		CurrencyCode: strings.ToUpper(c.currency),
		Amount:       amount,
		BaseCurrency: strings.ToUpper(c.base),
	}
	var result *dto.TradeResult
	if c.side == dto.Buy {
		result, err = c.app.Trades.Buy(ctx, session, req)
	} else {
		result, err = c.app.Trades.Sell(ctx, session, req)
	}
	if err != nil {
		return c.app.fail(err)
	}

	verb := "Bought"
	if c.side == dto.Sell {
		verb = "Sold"
	}
	c.app.printf("%s %s %s at %s %s/%s (counter %s %s).\n",
		verb,
		result.Amount, result.CurrencyCode,
		utils.FormatRate(result.Rate), result.BaseCurrency, result.CurrencyCode,
		utils.FormatAmount(result.CounterAmount), result.BaseCurrency)
	c.app.printf("Balances: %s %s, %s %s.\n",
		utils.FormatAmount(result.Balance), result.CurrencyCode,
		utils.FormatAmount(result.BaseBalance), result.BaseCurrency)
	return subcommands.ExitSuccess
}
