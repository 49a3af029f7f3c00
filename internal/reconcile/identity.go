package reconcile

import (
	"github.com/google/uuid"

	"github.com/tubetrade/rfq-api/internal/domain"
)

// indexByItemID builds the prior-item lookup used during identity resolution.
// Later duplicates never win: the first occurrence of an identifier is
// authoritative, matching the uniqueness invariant on stored RFQs.
func indexByItemID(items []domain.LineItem) map[string]domain.LineItem {
	byID := make(map[string]domain.LineItem, len(items))
	for _, it := range items {
		if _, exists := byID[it.ItemID]; !exists {
			byID[it.ItemID] = it
		}
	}
	return byID
}

// resolveItemID keeps an extracted identifier verbatim when it refers to a
// prior item and has not been claimed earlier in this pass; otherwise it
// mints a fresh identifier. Uniqueness within the RFQ is the hard
// requirement, so `seen` tracks identifiers already assigned in this pass.
func resolveItemID(extracted string, prior map[string]domain.LineItem, seen map[string]bool) string {
	if extracted != "" {
		if _, ok := prior[extracted]; ok && !seen[extracted] {
			seen[extracted] = true
			return extracted
		}
	}
	id := MintItemID()
	for seen[id] {
		id = MintItemID()
	}
	seen[id] = true
	return id
}

// MintItemID produces a new opaque line-item identifier.
func MintItemID() string {
	return uuid.NewString()
}

// MintRFQID produces a new opaque RFQ identifier, assigned on the first
// successful reconciliation pass and immutable afterwards.
func MintRFQID() string {
	return uuid.NewString()
}
