package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Simplici0/houtcalc/internal/cli/formatter"
	"github.com/Simplici0/houtcalc/internal/operations"
	"github.com/Simplici0/houtcalc/internal/surcharge"
)

func newSizesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sizes",
		Short: "Show or edit the standard stock sizes",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List stock sizes that need no planing",
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatStockSizes(app.Prices.StockSizes()))
				return nil
			},
		},
		&cobra.Command{
			Use:   "add THICKNESSxWIDTH",
			Short: "Add a stock size, e.g. 38x89",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cs, err := parseCrossSection(args[0])
				if err != nil {
					return err
				}
				if err := app.Prices.AddStockSize(context.Background(), cs); err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatStockSizes(app.Prices.StockSizes()))
				return nil
			},
		},
	)

	return cmd
}

func parseCrossSection(raw string) (surcharge.CrossSection, error) {
	a, b, ok := strings.Cut(strings.ToLower(raw), "x")
	if !ok {
		return surcharge.CrossSection{}, fmt.Errorf("invalid size %q, want THICKNESSxWIDTH", raw)
	}
	t, okT := operations.ParseFloat(a)
	w, okW := operations.ParseFloat(b)
	if !okT || !okW || t <= 0 || w <= 0 {
		return surcharge.CrossSection{}, fmt.Errorf("invalid size %q, want positive numbers", raw)
	}
	return surcharge.CrossSection{Thickness: t, Width: w}, nil
}
