package reconcile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tubetrade/rfq-api/internal/domain"
	"github.com/tubetrade/rfq-api/internal/reconcile"
)

func floatPtr(v float64) *float64 { return &v }

func TestNormalizeDimension_AliasMapping(t *testing.T) {
	cases := []struct {
		rawUnit string
		want    string
	}{
		{"mm", "mm"},
		{"millimeters", "mm"},
		{"Millimetre", "mm"},
		{"m", "m"},
		{"Meters", "m"},
		{"in", "in"},
		{"inches", "in"},
		{`"`, "in"},
		{"ft", "ft"},
		{"FEET", "ft"},
		{"pcs", "pcs"},
		{"pieces", "pcs"},
		{"each", "pcs"},
		{" in ", "in"},
	}

	for _, tc := range cases {
		d := reconcile.NormalizeDimension(floatPtr(1), tc.rawUnit)
		assert.Equal(t, tc.want, d.Unit, "unit %q", tc.rawUnit)
		assert.Equal(t, 1.0, *d.Value)
	}
}

func TestNormalizeDimension_UnknownUnitLeavesUnitUnset(t *testing.T) {
	d := reconcile.NormalizeDimension(floatPtr(42), "furlongs")

	assert.Empty(t, d.Unit, "unrecognized units must never be coerced")
	assert.NotNil(t, d.Value)
	assert.Equal(t, 42.0, *d.Value)
}

func TestNormalizeDimension_AbsentValue(t *testing.T) {
	d := reconcile.NormalizeDimension(nil, "mm")

	assert.Nil(t, d.Value, "the normalizer never invents a value")
	assert.Equal(t, "mm", d.Unit)
}

func TestNormalizeDimension_Idempotent(t *testing.T) {
	once := reconcile.NormalizeDimension(floatPtr(10), "inches")
	twice := reconcile.NormalizeDimension(once.Value, once.Unit)

	assert.Equal(t, once, twice)
}

func TestNormalizeDimension_IdempotentOnUnknownUnit(t *testing.T) {
	once := reconcile.NormalizeDimension(floatPtr(3), "bananas")
	twice := reconcile.NormalizeDimension(once.Value, once.Unit)

	assert.Equal(t, once, twice)
	assert.Empty(t, twice.Unit)
}

func TestNormalizeDimension_CanonicalUnitsMapToThemselves(t *testing.T) {
	for _, unit := range []string{
		domain.UnitMillimeter,
		domain.UnitMeter,
		domain.UnitInch,
		domain.UnitFoot,
		domain.UnitPieces,
	} {
		d := reconcile.NormalizeDimension(floatPtr(5), unit)
		assert.Equal(t, unit, d.Unit)
	}
}

func TestNormalizeUOM(t *testing.T) {
	assert.Equal(t, "pcs", reconcile.NormalizeUOM("pieces"))
	assert.Equal(t, "pcs", reconcile.NormalizeUOM("PCS"))
	assert.Equal(t, "m", reconcile.NormalizeUOM(" meters "))
	// UOM is not restricted to the closed set: unknown strings pass through.
	assert.Equal(t, "tons", reconcile.NormalizeUOM("tons"))
	assert.Equal(t, "", reconcile.NormalizeUOM("  "))
}
