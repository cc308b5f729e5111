package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Simplici0/houtcalc/internal/pricetable"
	"github.com/Simplici0/houtcalc/internal/quote"
)

// App holds what the CLI commands need.
type App struct {
	Prices *pricetable.Live
	Store  *pricetable.Store
	Logger *zap.Logger
}

// pipeline builds a parser over the current stock sizes.
func (a *App) pipeline() quote.Pipeline {
	p := quote.Pipeline{}
	p.Parser.Surcharge.StockSizes = a.Prices.StockSizes()
	return p
}

// NewRootCmd creates the top-level "houtcalc" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "houtcalc",
		Short:         "Price quotes for woodworking-machine export files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newQuoteCmd(app),
		newPricesCmd(app),
		newSizesCmd(app),
	)

	return root
}
