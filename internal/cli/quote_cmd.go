package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Simplici0/houtcalc/internal/cli/formatter"
	"github.com/Simplici0/houtcalc/internal/export"
)

func newQuoteCmd(app *App) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "quote <file>",
		Short: "Parse an export file and print its price quote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			res, err := app.pipeline().FromDocument(data, app.Prices.Snapshot())
			if err != nil {
				return err
			}
			if len(res.Quote.Unpriced) > 0 {
				app.Logger.Warn("unpriced operation codes",
					zap.String("file", args[0]),
					zap.Any("codes", res.Quote.Unpriced))
			}

			out := cmd.OutOrStdout()
			switch format {
			case "table":
				fmt.Fprint(out, formatter.FormatQuote(res.Quote))
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res.Quote)
			case "csv":
				return export.WriteCSV(out, res.Quote)
			default:
				return fmt.Errorf("unknown format %q (want table, json or csv)", format)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, json or csv")

	return cmd
}
