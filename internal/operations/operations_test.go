package operations

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_SawWithoutAttributesIsStraight(t *testing.T) {
	code, ok := Classify(SawTag, AttrMap{})
	assert.True(t, ok)
	assert.Equal(t, CodeStraightCut, code)

	code, ok = Classify(SawTag, nil)
	assert.True(t, ok)
	assert.Equal(t, CodeStraightCut, code)
}

func TestClassify_SawAngleTolerance(t *testing.T) {
	tests := []struct {
		name  string
		attrs AttrMap
		want  Code
	}{
		{"square", AttrMap{"Angle": "90", "Bevel": "90"}, CodeStraightCut},
		{"rounding noise", AttrMap{"Angle": "90.05", "Bevel": "89.95"}, CodeStraightCut},
		{"decimal comma", AttrMap{"Angle": "90,02"}, CodeStraightCut},
		{"mitre", AttrMap{"Angle": "45"}, CodeAngledCut},
		{"bevel only", AttrMap{"Angle": "90", "Bevel": "60"}, CodeAngledCut},
		{"just outside", AttrMap{"Angle": "90.2"}, CodeAngledCut},
		{"garbage falls back to square", AttrMap{"Angle": "n/a"}, CodeStraightCut},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := Classify(SawTag, tt.attrs)
			assert.True(t, ok)
			assert.Equal(t, tt.want, code)
		})
	}
}

func TestClassify_IgnoredTagsAreDropped(t *testing.T) {
	for _, tag := range []string{"Description", "Comment", "Macro"} {
		_, ok := Classify(tag, nil)
		assert.False(t, ok, tag)
	}
}

func TestClassify_UnknownTagIsIdentity(t *testing.T) {
	code, ok := Classify("ShortcutOperation", nil)
	assert.True(t, ok)
	assert.Equal(t, Code("ShortcutOperation"), code)

	code, _ = Classify("Lap", nil)
	assert.Equal(t, CodeLap, code)
}

func TestChargeableTotal_ExcludesStraightAndHipRidge(t *testing.T) {
	tally := map[Code]int{
		CodeStraightCut: 7,
		CodeHipRidgeCut: 4,
		CodeAngledCut:   2,
		CodeLap:         1,
		CodeBirdsMouth:  3,
		CodeNeig:        1,
		"Drill":         5,
	}
	assert.Equal(t, 7, ChargeableTotal(tally))

	delete(tally, CodeAngledCut)
	tally[CodeStraightCut] = 100
	assert.Equal(t, 5, ChargeableTotal(tally))
}

func TestParseFloat(t *testing.T) {
	v, ok := ParseFloat(" 38,5 ")
	assert.True(t, ok)
	assert.InDelta(t, 38.5, v, 1e-9)

	_, ok = ParseFloat("")
	assert.False(t, ok)
	_, ok = ParseFloat("NaN")
	assert.False(t, ok)
}
