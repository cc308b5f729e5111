package quote

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/houtcalc/internal/bvx"
	"github.com/Simplici0/houtcalc/internal/operations"
	"github.com/Simplici0/houtcalc/internal/pricing"
	"github.com/Simplici0/houtcalc/internal/project"
	"github.com/Simplici0/houtcalc/internal/surcharge"
)

func table() pricing.PriceTable {
	return pricing.PriceTable{Revision: "r1", Prices: pricing.DefaultPrices()}
}

func TestFromDocument_MarkerAndNonStandardScenario(t *testing.T) {
	doc := `<BVX><Header Project="Loods"/>
<Part Name="Ligger" Width="51" Height="123" Length="4000" Quantity="2" Comments="let op: G10-1">
  <Operations><Saw Angle="30"/><Tenon/></Operations>
</Part>
</BVX>`

	res, err := Pipeline{}.FromDocument([]byte(doc), table())
	require.NoError(t, err)

	line := res.Quote.Lines[0]
	assert.Equal(t, surcharge.ExplicitCode("G10-1"), line.Surcharge.Reason)
	// one angled cut at 2.50 for two pieces, 8 m planing at 1.25
	assert.Equal(t, "5", line.OperationCost.String())
	assert.Equal(t, "10", line.SurchargeCost.String())
	assert.Equal(t, "175", res.Quote.Setup.Total.String())
	assert.Equal(t, "190", res.Quote.Total.String())
	assert.Equal(t, []operations.Code{"Tenon"}, res.Quote.Unpriced)
	assert.Equal(t, "Loods", res.Quote.ProjectName)
}

func TestFromDocument_NoSurchargeOnlySawingSetup(t *testing.T) {
	doc := `<BVX><Part Width="89" Height="38" Length="1000"><Operations><Drill/></Operations></Part></BVX>`

	res, err := Pipeline{}.FromDocument([]byte(doc), table())
	require.NoError(t, err)
	assert.False(t, res.Quote.HasSurcharge)
	assert.Equal(t, "100", res.Quote.Setup.Total.String())
	assert.True(t, res.Quote.Setup.Planing.IsZero())
}

func TestFromDocument_ParseErrorIsTaggedAndUnwraps(t *testing.T) {
	_, err := Pipeline{}.FromDocument([]byte("<BVX>"), table())
	require.Error(t, err)

	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, StageParse, stageErr.Stage)

	var parseErr *bvx.ParseError
	assert.True(t, errors.As(err, &parseErr))
}

func TestFromProject_ValidationFailure(t *testing.T) {
	proj := project.Project{Parts: []project.Part{{Quantity: -1}}}

	_, err := FromProject(proj, table())
	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, StageValidate, stageErr.Stage)
	assert.ErrorIs(t, err, project.ErrNegativeQuantity)
}

func TestFromProject_PriceStageError(t *testing.T) {
	bad := table()
	bad.Prices = map[string]float64{"Drill": -3}

	res, err := FromProject(project.Project{}, bad)
	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, StagePrice, stageErr.Stage)
	assert.ErrorIs(t, err, pricing.ErrNegativePrice)
	assert.Empty(t, res.Quote.Lines)
}

func TestGuard_RecoversPanic(t *testing.T) {
	err := guard(StagePrice, func() error { panic("boom") })

	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, StagePrice, stageErr.Stage)
	assert.Contains(t, err.Error(), "boom")
}
