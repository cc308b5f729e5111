package pricing

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/houtcalc/internal/operations"
	"github.com/Simplici0/houtcalc/internal/project"
	"github.com/Simplici0/houtcalc/internal/surcharge"
)

func decimalEqual(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Fatalf("%s = %s, want %s", name, got, want)
	}
}

func testTable() PriceTable {
	return PriceTable{
		Revision: "rev-1",
		Prices: map[string]float64{
			string(operations.CodeAngledCut):   2.5,
			string(operations.CodeStraightCut): 1.5,
			"Drill":                            0.75,
			KeySurchargePerMeter:               1.25,
			KeySetupSawing:                     100,
			KeySetupPlaning:                    75,
		},
	}
}

func TestCalculate_StandardPartQuantityThree(t *testing.T) {
	proj := project.Project{Name: "p", Parts: []project.Part{{
		Name:      "Spant",
		Quantity:  3,
		Width:     38,
		Height:    89,
		Length:    2400,
		Tally:     map[operations.Code]int{operations.CodeAngledCut: 2},
		Surcharge: surcharge.Decision{Reason: surcharge.ReasonNone},
	}}}

	q, err := Calculate(proj, testTable())
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	decimalEqual(t, "line cost", q.Lines[0].Cost, "15")
	decimalEqual(t, "surcharge cost", q.Lines[0].SurchargeCost, "0")
	decimalEqual(t, "subtotal", q.Subtotal, "15")
	decimalEqual(t, "setup sawing", q.Setup.Sawing, "100")
	decimalEqual(t, "setup planing", q.Setup.Planing, "0")
	decimalEqual(t, "total", q.Total, "115")
	if q.HasSurcharge {
		t.Fatalf("expected no surcharge")
	}
	if q.PriceRevision != "rev-1" {
		t.Fatalf("PriceRevision = %q", q.PriceRevision)
	}
	if q.Summary.Operations != 6 || q.Summary.UniqueCodes != 1 {
		t.Fatalf("unexpected summary: %+v", q.Summary)
	}
}

func TestCalculate_SurchargePerMeterAndSinglePlaningFee(t *testing.T) {
	planed := surcharge.Decision{Required: true, Reason: surcharge.ReasonNonStandard}
	proj := project.Project{Parts: []project.Part{
		{Name: "a", Quantity: 2, Length: 3000, Tally: map[operations.Code]int{"Drill": 4}, Surcharge: planed},
		{Name: "b", Quantity: 1, Length: 1500, Tally: map[operations.Code]int{}, Surcharge: planed},
		{Name: "c", Quantity: 1, Length: 9000, Tally: map[operations.Code]int{"Drill": 1}},
	}}

	q, err := Calculate(proj, testTable())
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	// a: 4*0.75*2 = 6, 6 m * 1.25 = 7.5
	decimalEqual(t, "a linear meters", q.Lines[0].LinearMeters, "6")
	decimalEqual(t, "a surcharge", q.Lines[0].SurchargeCost, "7.5")
	decimalEqual(t, "a cost", q.Lines[0].Cost, "13.5")
	// b: 1.5 m * 1.25
	decimalEqual(t, "b cost", q.Lines[1].Cost, "1.875")
	decimalEqual(t, "c cost", q.Lines[2].Cost, "0.75")
	decimalEqual(t, "setup", q.Setup.Total, "175")
	decimalEqual(t, "total", q.Total, "191.125")
	if !q.HasSurcharge {
		t.Fatalf("expected project surcharge flag")
	}
}

func TestCalculate_UnpricedCodesAreFreeButReported(t *testing.T) {
	proj := project.Project{Parts: []project.Part{
		{Quantity: 1, Tally: map[operations.Code]int{"Tenon": 2, "Drill": 1}},
		{Quantity: 5, Tally: map[operations.Code]int{"Mortise": 1, "Tenon": 1}},
	}}

	q, err := Calculate(proj, testTable())
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	decimalEqual(t, "subtotal", q.Subtotal, "0.75")
	want := []operations.Code{"Mortise", "Tenon"}
	if !reflect.DeepEqual(q.Unpriced, want) {
		t.Fatalf("Unpriced = %v, want %v", q.Unpriced, want)
	}
	for _, op := range q.Lines[0].Operations {
		if op.Code == "Tenon" && (op.Priced || !op.Amount.IsZero()) {
			t.Fatalf("unexpected unpriced operation line: %+v", op)
		}
	}
}

func TestCalculate_OrderIndependentAndIdempotent(t *testing.T) {
	parts := []project.Part{
		{Name: "a", Quantity: 3, Length: 2333.3, Tally: map[operations.Code]int{operations.CodeAngledCut: 7}, Surcharge: surcharge.Decision{Required: true}},
		{Name: "b", Quantity: 1, Length: 1000.1, Tally: map[operations.Code]int{"Drill": 3, operations.CodeStraightCut: 1}},
		{Name: "c", Quantity: 7, Length: 10.01, Tally: map[operations.Code]int{"Drill": 1}, Surcharge: surcharge.Decision{Required: true}},
	}
	reversed := []project.Part{parts[2], parts[1], parts[0]}

	first, err := Calculate(project.Project{Parts: parts}, testTable())
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	again, _ := Calculate(project.Project{Parts: parts}, testTable())
	permuted, _ := Calculate(project.Project{Parts: reversed}, testTable())

	if !reflect.DeepEqual(first, again) {
		t.Fatalf("repeat computation differs")
	}
	if !first.Total.Equal(permuted.Total) || first.Total.String() != permuted.Total.String() {
		t.Fatalf("total depends on part order: %s vs %s", first.Total, permuted.Total)
	}
}

func TestCalculate_DoesNotMutateInputs(t *testing.T) {
	proj := project.Project{Parts: []project.Part{{Quantity: 2, Tally: map[operations.Code]int{"Drill": 1}}}}
	table := testTable()
	before := table.Clone()

	if _, err := Calculate(proj, table); err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if !reflect.DeepEqual(table, before) {
		t.Fatalf("price table was modified")
	}
	if proj.Parts[0].Tally["Drill"] != 1 || len(proj.Parts[0].Tally) != 1 {
		t.Fatalf("project was modified: %+v", proj.Parts[0])
	}
}

func TestCalculate_NegativePriceRejected(t *testing.T) {
	cases := []struct {
		name  string
		price float64
		want  error
	}{
		{name: "negative", price: -1, want: ErrNegativePrice},
		{name: "infinite", price: math.Inf(1), want: ErrNonFinitePrice},
		{name: "nan", price: math.NaN(), want: ErrNonFinitePrice},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			table := testTable()
			table.Prices["Drill"] = tc.price

			_, err := Calculate(project.Project{}, table)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestCalculate_EmptyProjectStillPaysSawingSetup(t *testing.T) {
	q, err := Calculate(project.Project{}, testTable())
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	decimalEqual(t, "total", q.Total, "100")
	if len(q.Lines) != 0 || len(q.Unpriced) != 0 {
		t.Fatalf("unexpected lines/unpriced: %+v", q)
	}
}

func TestDefaultPricesAreValid(t *testing.T) {
	table := PriceTable{Prices: DefaultPrices()}
	if err := table.Validate(); err != nil {
		t.Fatalf("default prices invalid: %v", err)
	}
	for _, key := range []string{KeySurchargePerMeter, KeySetupSawing, KeySetupPlaning} {
		if _, ok := table.Price(key); !ok {
			t.Fatalf("default prices missing %s", key)
		}
	}
}
