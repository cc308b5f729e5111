package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Simplici0/houtcalc/internal/pricetable"
	"github.com/Simplici0/houtcalc/internal/pricing"
	"github.com/Simplici0/houtcalc/internal/surcharge"
)

// FormatQuote renders a quote as a line table followed by totals.
func FormatQuote(q pricing.Quote) string {
	var b strings.Builder

	b.WriteString(StyleBold.Render("Project: "+q.ProjectName) + "\n")
	fmt.Fprintf(&b, "Bewerkingen: %d   Unieke types: %d   Prijslijst: %s\n\n",
		q.Summary.Operations, q.Summary.UniqueCodes, q.PriceRevision)

	rows := make([][]string, 0, len(q.Lines))
	for _, line := range q.Lines {
		reason := ""
		if line.Surcharge.Required {
			reason = string(line.Surcharge.Reason)
		}
		rows = append(rows, []string{
			line.Part,
			strconv.Itoa(line.Quantity),
			line.LinearMeters.StringFixed(2),
			strconv.Itoa(line.ChargeableOperations),
			reason,
			line.Cost.StringFixed(2),
		})
	}
	b.WriteString(RenderTable([]string{"Onderdeel", "Aantal", "m1", "Totaal", "Schaven", "Prijs"}, rows))

	b.WriteString("\n")
	fmt.Fprintf(&b, "Subtotaal:              € %s\n", q.Subtotal.StringFixed(2))
	fmt.Fprintf(&b, "Opstartkosten zagen:    € %s\n", q.Setup.Sawing.StringFixed(2))
	if q.HasSurcharge {
		fmt.Fprintf(&b, "Opstartkosten schaven:  € %s\n", q.Setup.Planing.StringFixed(2))
	}
	b.WriteString(StyleBold.Render(fmt.Sprintf("Totaal:                 € %s", q.Total.StringFixed(2))) + "\n")

	if len(q.Unpriced) > 0 {
		codes := make([]string, len(q.Unpriced))
		for i, c := range q.Unpriced {
			codes[i] = string(c)
		}
		b.WriteString("\n" + StyleWarn.Render("Let op: geen prijs voor "+strings.Join(codes, ", ")) + "\n")
	}
	return b.String()
}

// FormatPrices renders a price table sorted by key.
func FormatPrices(t pricing.PriceTable) string {
	rows := make([][]string, 0, len(t.Prices))
	for _, k := range t.Keys() {
		rows = append(rows, []string{k, strconv.FormatFloat(t.Prices[k], 'f', 2, 64)})
	}
	return StyleDim.Render("revisie "+t.Revision) + "\n" + RenderTable([]string{"Code", "Prijs"}, rows)
}

// FormatRevisions renders saved price revisions.
func FormatRevisions(revs []pricetable.Revision) string {
	rows := make([][]string, 0, len(revs))
	for _, r := range revs {
		rows = append(rows, []string{r.CreatedAt, r.ID, r.Note})
	}
	return RenderTable([]string{"Datum", "Revisie", "Notitie"}, rows)
}

// FormatStockSizes renders stock sizes as thickness x width.
func FormatStockSizes(sizes []surcharge.CrossSection) string {
	rows := make([][]string, 0, len(sizes))
	for _, s := range sizes {
		rows = append(rows, []string{
			strconv.FormatFloat(s.Thickness, 'f', -1, 64),
			strconv.FormatFloat(s.Width, 'f', -1, 64),
		})
	}
	return RenderTable([]string{"Dikte", "Breedte"}, rows)
}
