package reconcile

import (
	"errors"
	"strings"

	"github.com/tubetrade/rfq-api/internal/domain"
)

// ErrMalformedExtraction is returned when the extraction output is absent or
// does not carry a line-item list. The engine never fabricates items, so a
// payload it cannot trust fails the pass instead of producing a partial list.
var ErrMalformedExtraction = errors.New("malformed extraction output")

// Reconcile produces the new authoritative line-item list from the prior
// items and the raw extraction output. The extraction step already applied
// the user's edit intent and returned the complete resulting list, so no
// field-level merge happens here: identity is resolved against the prior
// items, every dimension and unit is normalized, optional text fields are
// defaulted to empty strings and line numbers are reassigned 1..N in the
// order the extraction returned. The result wholly replaces prior.
func Reconcile(prior []domain.LineItem, result *domain.ExtractionResult) ([]domain.LineItem, error) {
	if result == nil || result.LineItems == nil {
		return nil, ErrMalformedExtraction
	}

	byID := indexByItemID(prior)
	seen := make(map[string]bool, len(*result.LineItems))

	items := make([]domain.LineItem, 0, len(*result.LineItems))
	for _, raw := range *result.LineItems {
		items = append(items, domain.LineItem{
			ItemID:        resolveItemID(raw.ItemID, byID, seen),
			Line:          len(items) + 1,
			Description:   describeItem(raw),
			MaterialGrade: strings.TrimSpace(raw.MaterialGrade),
			Size: domain.Size{
				OuterDiameter: NormalizeDimension(raw.Size.OuterDiameter.Value, raw.Size.OuterDiameter.Unit),
				WallThickness: NormalizeDimension(raw.Size.WallThickness.Value, raw.Size.WallThickness.Unit),
				Length:        NormalizeDimension(raw.Size.Length.Value, raw.Size.Length.Unit),
			},
			Quantity: raw.Quantity,
			UOM:      NormalizeUOM(raw.UOM),
		})
	}

	return items, nil
}

// describeItem picks the item description, falling back to the extracted
// product type when the extraction produced no free-text description.
func describeItem(raw domain.ExtractedItem) string {
	if desc := strings.TrimSpace(raw.Description); desc != "" {
		return desc
	}
	return strings.TrimSpace(raw.ProductType)
}
