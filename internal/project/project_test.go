package project

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/houtcalc/internal/operations"
	"github.com/Simplici0/houtcalc/internal/surcharge"
)

func TestPart_DerivedValues(t *testing.T) {
	p := Part{
		Quantity: 3,
		Length:   2400,
		Tally: map[operations.Code]int{
			operations.CodeStraightCut: 2,
			operations.CodeAngledCut:   1,
			operations.CodeHipRidgeCut: 1,
			operations.CodeBirdsMouth:  2,
		},
	}

	assert.Equal(t, 3, p.ChargeableOperations())
	assert.InDelta(t, 7.2, p.LinearMeters(), 1e-9)
	assert.Equal(t, []operations.Code{"BirdsMouth", "HipRidgeCut", "SawAngled", "SawStraight"}, p.Codes())
}

func TestProject_HasSurchargeAndCodeTotals(t *testing.T) {
	pr := Project{Parts: []Part{
		{Quantity: 2, Tally: map[operations.Code]int{"Drill": 3}},
		{Quantity: 1, Tally: map[operations.Code]int{"Drill": 1}, Surcharge: surcharge.Decision{Required: true}},
	}}

	assert.True(t, pr.HasSurcharge())
	assert.Equal(t, 7, pr.CodeTotals()["Drill"])

	pr.Parts[1].Surcharge = surcharge.Decision{}
	assert.False(t, pr.HasSurcharge())
}

func TestProject_Validate(t *testing.T) {
	ok := Project{Parts: []Part{{Quantity: 0, Tally: map[operations.Code]int{"Drill": 1}}}}
	require.NoError(t, ok.Validate())

	bad := Project{Parts: []Part{{Quantity: -1}}}
	assert.True(t, errors.Is(bad.Validate(), ErrNegativeQuantity))

	raw := Project{Parts: []Part{{Quantity: 1, Tally: map[operations.Code]int{"Saw": 1}}}}
	assert.True(t, errors.Is(raw.Validate(), ErrIgnoredCode))

	neg := Project{Parts: []Part{{Quantity: 1, Tally: map[operations.Code]int{"Drill": -2}}}}
	assert.True(t, errors.Is(neg.Validate(), ErrNegativeCount))
}
