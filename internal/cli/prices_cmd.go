package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Simplici0/houtcalc/internal/cli/formatter"
	"github.com/Simplici0/houtcalc/internal/pricing"
)

func newPricesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prices",
		Short: "Show or edit the price table",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Show the current price table",
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPrices(app.Prices.Snapshot()))
				return nil
			},
		},
		newPricesSetCmd(app),
		newPricesUnsetCmd(app),
		newPricesHistoryCmd(app),
	)

	return cmd
}

func newPricesSetCmd(app *App) *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "set KEY=PRICE...",
		Short: "Set one or more prices as a new revision",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			updates, err := parseAssignments(args)
			if err != nil {
				return err
			}

			saved, err := app.Prices.Update(context.Background(), note, func(prices map[string]float64) {
				for k, v := range updates {
					prices[k] = v
				}
			})
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPrices(saved))
			return nil
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "Note stored with the revision")

	return cmd
}

func newPricesUnsetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY...",
		Short: "Remove prices; removed codes become unpriced",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			saved, err := app.Prices.Update(context.Background(), "unset "+strings.Join(args, ","), func(prices map[string]float64) {
				for _, k := range args {
					delete(prices, k)
				}
			})
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPrices(saved))
			return nil
		},
	}
}

func newPricesHistoryCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved price revisions",
		RunE: func(cmd *cobra.Command, args []string) error {
			revs, err := app.Store.Revisions(context.Background(), limit)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRevisions(revs))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of revisions to show")

	return cmd
}

func parseAssignments(args []string) (map[string]float64, error) {
	out := make(map[string]float64, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid assignment %q, want KEY=PRICE", arg)
		}
		price, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(v), ",", "."), 64)
		if err != nil {
			return nil, fmt.Errorf("price for %s must be numeric", k)
		}
		if err := pricing.ValidatePrice(price); err != nil {
			return nil, fmt.Errorf("price for %s: %w", k, err)
		}
		out[k] = price
	}
	return out, nil
}
