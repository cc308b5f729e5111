// Package export renders quotes for download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Simplici0/houtcalc/internal/pricing"
)

var csvHeader = []string{
	"Onderdeel", "Aantal", "Lengte (mm)", "Strekkende meter", "Totaal",
	"Bewerkingen", "Schaven", "Reden", "Bewerkingskosten", "Toeslag", "Regelprijs",
}

// WriteCSV writes one row per quote line followed by setup and total rows.
func WriteCSV(w io.Writer, q pricing.Quote) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, line := range q.Lines {
		row := []string{
			line.Part,
			strconv.Itoa(line.Quantity),
			strconv.FormatFloat(line.Length, 'f', -1, 64),
			line.LinearMeters.StringFixed(3),
			strconv.Itoa(line.ChargeableOperations),
			operationsCell(line.Operations),
			yesNo(line.Surcharge.Required),
			string(line.Surcharge.Reason),
			line.OperationCost.StringFixed(2),
			line.SurchargeCost.StringFixed(2),
			line.Cost.StringFixed(2),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv line %q: %w", line.Part, err)
		}
	}

	footer := [][]string{
		summaryRow("Opstartkosten zagen", q.Setup.Sawing.StringFixed(2)),
		summaryRow("Opstartkosten schaven", q.Setup.Planing.StringFixed(2)),
		summaryRow("Totaal", q.Total.StringFixed(2)),
	}
	if err := cw.WriteAll(footer); err != nil {
		return fmt.Errorf("write csv totals: %w", err)
	}
	return nil
}

func operationsCell(ops []pricing.OperationLine) string {
	parts := make([]string, 0, len(ops))
	for _, op := range ops {
		parts = append(parts, fmt.Sprintf("%s x%d", op.Code, op.Count))
	}
	return strings.Join(parts, "; ")
}

func summaryRow(label, amount string) []string {
	row := make([]string, len(csvHeader))
	row[0] = label
	row[len(row)-1] = amount
	return row
}

func yesNo(b bool) string {
	if b {
		return "ja"
	}
	return "nee"
}
