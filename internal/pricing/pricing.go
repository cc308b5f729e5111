// Package pricing turns a parsed project and a price table into a quote.
package pricing

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/houtcalc/internal/operations"
	"github.com/Simplici0/houtcalc/internal/project"
	"github.com/Simplici0/houtcalc/internal/surcharge"
)

var mmPerMeter = decimal.NewFromInt(1000)

// OperationLine is one operation code on a part line.
type OperationLine struct {
	Code      operations.Code `json:"code"`
	Count     int             `json:"count"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Priced    bool            `json:"priced"`
	Amount    decimal.Decimal `json:"amount"`
}

// Line contains the cost of a single part.
type Line struct {
	Part                 string             `json:"part"`
	Quantity             int                `json:"quantity"`
	Length               float64            `json:"length"`
	LinearMeters         decimal.Decimal    `json:"linear_meters"`
	ChargeableOperations int                `json:"chargeable_operations"`
	Operations           []OperationLine    `json:"operations"`
	Surcharge            surcharge.Decision `json:"surcharge"`
	OperationCost        decimal.Decimal    `json:"operation_cost"`
	SurchargeCost        decimal.Decimal    `json:"surcharge_cost"`
	Cost                 decimal.Decimal    `json:"cost"`
}

// SetupFee is the flat per-project fee.
type SetupFee struct {
	Sawing  decimal.Decimal `json:"sawing"`
	Planing decimal.Decimal `json:"planing"`
	Total   decimal.Decimal `json:"total"`
}

// Summary holds the headline figures shown above a quote.
type Summary struct {
	Operations  int `json:"operations"`
	UniqueCodes int `json:"unique_codes"`
}

// Quote is the full pricing output for one project.
type Quote struct {
	ProjectName   string            `json:"project_name"`
	PriceRevision string            `json:"price_revision"`
	Lines         []Line            `json:"lines"`
	Subtotal      decimal.Decimal   `json:"subtotal"`
	Setup         SetupFee          `json:"setup"`
	Total         decimal.Decimal   `json:"total"`
	HasSurcharge  bool              `json:"has_surcharge"`
	Unpriced      []operations.Code `json:"unpriced"`
	Summary       Summary           `json:"summary"`
}

// Calculate prices every part of proj against table. Codes missing from the
// table cost nothing and are listed in Quote.Unpriced. Neither argument is
// modified.
func Calculate(proj project.Project, table PriceTable) (Quote, error) {
	if err := table.Validate(); err != nil {
		return Quote{}, fmt.Errorf("validate price table: %w", err)
	}

	surchargeRate := priceOf(table, KeySurchargePerMeter)
	unpriced := make(map[operations.Code]struct{})
	codes := make(map[operations.Code]struct{})

	q := Quote{
		ProjectName:   proj.Name,
		PriceRevision: table.Revision,
		Lines:         make([]Line, 0, len(proj.Parts)),
		Subtotal:      decimal.Zero,
		Unpriced:      make([]operations.Code, 0),
	}

	for _, part := range proj.Parts {
		qty := decimal.NewFromInt(int64(part.Quantity))
		line := Line{
			Part:                 part.Name,
			Quantity:             part.Quantity,
			Length:               part.Length,
			LinearMeters:         decimal.NewFromFloat(part.Length).Div(mmPerMeter).Mul(qty),
			ChargeableOperations: part.ChargeableOperations(),
			Operations:           make([]OperationLine, 0, len(part.Tally)),
			Surcharge:            part.Surcharge,
			OperationCost:        decimal.Zero,
			SurchargeCost:        decimal.Zero,
		}

		for _, code := range part.Codes() {
			count := part.Tally[code]
			codes[code] = struct{}{}
			q.Summary.Operations += count * part.Quantity

			price, ok := table.Price(string(code))
			if !ok {
				unpriced[code] = struct{}{}
			}
			unit := decimal.NewFromFloat(price)
			amount := unit.Mul(decimal.NewFromInt(int64(count))).Mul(qty)

			line.Operations = append(line.Operations, OperationLine{
				Code:      code,
				Count:     count,
				UnitPrice: unit,
				Priced:    ok,
				Amount:    amount,
			})
			line.OperationCost = line.OperationCost.Add(amount)
		}

		if part.Surcharge.Required {
			line.SurchargeCost = line.LinearMeters.Mul(surchargeRate)
			q.HasSurcharge = true
		}
		line.Cost = line.OperationCost.Add(line.SurchargeCost)

		q.Subtotal = q.Subtotal.Add(line.Cost)
		q.Lines = append(q.Lines, line)
	}

	q.Setup.Sawing = priceOf(table, KeySetupSawing)
	q.Setup.Planing = decimal.Zero
	if q.HasSurcharge {
		q.Setup.Planing = priceOf(table, KeySetupPlaning)
	}
	q.Setup.Total = q.Setup.Sawing.Add(q.Setup.Planing)
	q.Total = q.Subtotal.Add(q.Setup.Total)

	for code := range unpriced {
		q.Unpriced = append(q.Unpriced, code)
	}
	sort.Slice(q.Unpriced, func(i, j int) bool { return q.Unpriced[i] < q.Unpriced[j] })
	q.Summary.UniqueCodes = len(codes)

	return q, nil
}

func priceOf(table PriceTable, key string) decimal.Decimal {
	v, _ := table.Price(key)
	return decimal.NewFromFloat(v)
}
