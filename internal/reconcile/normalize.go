// Package reconcile turns raw structured-extraction output into a
// well-formed, internally consistent line-item list: canonical units, stable
// item identity and gap-free line numbering.
package reconcile

import (
	"strings"

	"github.com/tubetrade/rfq-api/internal/domain"
)

// unitAliases maps free-text unit spellings onto the canonical unit set.
// Silent unit coercion is a correctness hazard in procurement, so the table
// only carries unambiguous spellings; anything else leaves the unit unset.
var unitAliases = map[string]string{
	"mm":          domain.UnitMillimeter,
	"millimeter":  domain.UnitMillimeter,
	"millimeters": domain.UnitMillimeter,
	"millimetre":  domain.UnitMillimeter,
	"millimetres": domain.UnitMillimeter,
	"m":           domain.UnitMeter,
	"meter":       domain.UnitMeter,
	"meters":      domain.UnitMeter,
	"metre":       domain.UnitMeter,
	"metres":      domain.UnitMeter,
	"in":          domain.UnitInch,
	"inch":        domain.UnitInch,
	"inches":      domain.UnitInch,
	`"`:           domain.UnitInch,
	"ft":          domain.UnitFoot,
	"foot":        domain.UnitFoot,
	"feet":        domain.UnitFoot,
	"'":           domain.UnitFoot,
	"pcs":         domain.UnitPieces,
	"pcs.":        domain.UnitPieces,
	"pc":          domain.UnitPieces,
	"piece":       domain.UnitPieces,
	"pieces":      domain.UnitPieces,
	"ea":          domain.UnitPieces,
	"each":        domain.UnitPieces,
}

// NormalizeDimension converts a raw value/unit pair into a canonical
// Dimension. The value always passes through untouched; the unit is mapped
// through the alias table and left unset when unrecognized. The function is
// pure and idempotent: a canonical unit maps to itself.
func NormalizeDimension(value *float64, rawUnit string) domain.Dimension {
	return domain.Dimension{
		Value: value,
		Unit:  canonicalUnit(rawUnit),
	}
}

// NormalizeUOM canonicalizes a unit-of-measure string when it is a known
// alias. Unlike Dimension units, UOM is not restricted to the closed set, so
// unrecognized strings pass through trimmed rather than being dropped.
func NormalizeUOM(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if canonical := canonicalUnit(trimmed); canonical != "" {
		return canonical
	}
	return trimmed
}

func canonicalUnit(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return ""
	}
	return unitAliases[key]
}
