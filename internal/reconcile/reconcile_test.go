package reconcile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tubetrade/rfq-api/internal/domain"
	"github.com/tubetrade/rfq-api/internal/reconcile"
)

func extractedItems(items ...domain.ExtractedItem) *domain.ExtractionResult {
	return &domain.ExtractionResult{LineItems: &items}
}

func priorItem(id, description string, qty float64) domain.LineItem {
	return domain.LineItem{
		ItemID:        id,
		Description:   description,
		MaterialGrade: "API 5L X52",
		Size: domain.Size{
			OuterDiameter: domain.Dimension{Value: floatPtr(10), Unit: "in"},
			Length:        domain.Dimension{Value: floatPtr(12), Unit: "m"},
		},
		Quantity: floatPtr(qty),
		UOM:      "pcs",
	}
}

func echoExtracted(it domain.LineItem) domain.ExtractedItem {
	return domain.ExtractedItem{
		ItemID:        it.ItemID,
		Description:   it.Description,
		MaterialGrade: it.MaterialGrade,
		Size: domain.ExtractedSize{
			OuterDiameter: domain.ExtractedDimension{Value: it.Size.OuterDiameter.Value, Unit: it.Size.OuterDiameter.Unit},
			WallThickness: domain.ExtractedDimension{Value: it.Size.WallThickness.Value, Unit: it.Size.WallThickness.Unit},
			Length:        domain.ExtractedDimension{Value: it.Size.Length.Value, Unit: it.Size.Length.Unit},
		},
		Quantity: it.Quantity,
		UOM:      it.UOM,
	}
}

func TestReconcile_CreatingModeSinglePipeItem(t *testing.T) {
	// "50 pcs pipe OD 10in WT 0.5in length 6m"
	result := extractedItems(domain.ExtractedItem{
		Description:   "pipe",
		MaterialGrade: "",
		Size: domain.ExtractedSize{
			OuterDiameter: domain.ExtractedDimension{Value: floatPtr(10), Unit: "in"},
			WallThickness: domain.ExtractedDimension{Value: floatPtr(0.5), Unit: "in"},
			Length:        domain.ExtractedDimension{Value: floatPtr(6), Unit: "m"},
		},
		Quantity: floatPtr(50),
		UOM:      "pcs",
	})

	items, err := reconcile.Reconcile(nil, result)
	require.NoError(t, err)
	require.Len(t, items, 1)

	it := items[0]
	assert.NotEmpty(t, it.ItemID)
	assert.Equal(t, 1, it.Line)
	assert.Equal(t, "pipe", it.Description)
	assert.Equal(t, 10.0, *it.Size.OuterDiameter.Value)
	assert.Equal(t, "in", it.Size.OuterDiameter.Unit)
	assert.Equal(t, 0.5, *it.Size.WallThickness.Value)
	assert.Equal(t, "in", it.Size.WallThickness.Unit)
	assert.Equal(t, 6.0, *it.Size.Length.Value)
	assert.Equal(t, "m", it.Size.Length.Unit)
	assert.Equal(t, 50.0, *it.Quantity)
	assert.Equal(t, "pcs", it.UOM)
}

func TestReconcile_DeleteLineTwoPreservesIdentity(t *testing.T) {
	a := priorItem("a", "seamless pipe", 10)
	b := priorItem("b", "flange", 4)
	c := priorItem("c", "elbow", 2)
	prior := []domain.LineItem{a, b, c}
	prior[0].Line, prior[1].Line, prior[2].Line = 1, 2, 3

	// The extraction applied "delete line 2" and echoed items a and c.
	result := extractedItems(echoExtracted(a), echoExtracted(c))

	items, err := reconcile.Reconcile(prior, result)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "a", items[0].ItemID)
	assert.Equal(t, 1, items[0].Line)
	assert.Equal(t, "seamless pipe", items[0].Description)
	assert.Equal(t, 10.0, *items[0].Quantity)

	assert.Equal(t, "c", items[1].ItemID)
	assert.Equal(t, 2, items[1].Line)
	assert.Equal(t, "elbow", items[1].Description)
	assert.Equal(t, 2.0, *items[1].Quantity)
}

func TestReconcile_NewItemsGetFreshUniqueIDs(t *testing.T) {
	a := priorItem("a", "pipe", 10)
	result := extractedItems(
		echoExtracted(a),
		domain.ExtractedItem{Description: "gasket", Quantity: floatPtr(12), UOM: "pcs"},
		domain.ExtractedItem{Description: "bolt set", Quantity: floatPtr(48), UOM: "pcs"},
	)

	items, err := reconcile.Reconcile([]domain.LineItem{a}, result)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "a", items[0].ItemID)
	assert.NotEmpty(t, items[1].ItemID)
	assert.NotEmpty(t, items[2].ItemID)

	ids := map[string]bool{}
	for _, it := range items {
		assert.False(t, ids[it.ItemID], "duplicate item_id %s", it.ItemID)
		ids[it.ItemID] = true
	}
}

func TestReconcile_UnknownExtractedIDIsReplaced(t *testing.T) {
	// The extraction hallucinated an identifier that never existed: it must
	// not be trusted as prior identity.
	result := extractedItems(domain.ExtractedItem{ItemID: "ghost", Description: "pipe"})

	items, err := reconcile.Reconcile(nil, result)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.NotEqual(t, "ghost", items[0].ItemID)
}

func TestReconcile_DuplicateEchoedIDsKeptUniqueWithinPass(t *testing.T) {
	a := priorItem("a", "pipe", 10)
	result := extractedItems(echoExtracted(a), echoExtracted(a))

	items, err := reconcile.Reconcile([]domain.LineItem{a}, result)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].ItemID)
	assert.NotEqual(t, "a", items[1].ItemID)
}

func TestReconcile_LineNumbersAreTotal(t *testing.T) {
	raw := make([]domain.ExtractedItem, 7)
	for i := range raw {
		raw[i] = domain.ExtractedItem{Description: "item"}
	}

	items, err := reconcile.Reconcile(nil, extractedItems(raw...))
	require.NoError(t, err)
	require.Len(t, items, 7)
	for i, it := range items {
		assert.Equal(t, i+1, it.Line)
	}
}

func TestReconcile_OrderFollowsExtractionOutput(t *testing.T) {
	a := priorItem("a", "pipe", 10)
	b := priorItem("b", "flange", 4)

	// The extraction reordered the items; the engine does not re-sort.
	items, err := reconcile.Reconcile([]domain.LineItem{a, b}, extractedItems(echoExtracted(b), echoExtracted(a)))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "b", items[0].ItemID)
	assert.Equal(t, 1, items[0].Line)
	assert.Equal(t, "a", items[1].ItemID)
	assert.Equal(t, 2, items[1].Line)
}

func TestReconcile_DescriptionFallsBackToProductType(t *testing.T) {
	items, err := reconcile.Reconcile(nil, extractedItems(domain.ExtractedItem{
		ProductType: "seamless pipe",
	}))
	require.NoError(t, err)
	assert.Equal(t, "seamless pipe", items[0].Description)
}

func TestReconcile_MalformedOutput(t *testing.T) {
	_, err := reconcile.Reconcile(nil, nil)
	assert.ErrorIs(t, err, reconcile.ErrMalformedExtraction)

	// Present result but missing line_items key is equally malformed.
	_, err = reconcile.Reconcile(nil, &domain.ExtractionResult{})
	assert.ErrorIs(t, err, reconcile.ErrMalformedExtraction)
}

func TestReconcile_EmptyListIsValid(t *testing.T) {
	// "delete everything" legitimately yields zero items.
	items, err := reconcile.Reconcile([]domain.LineItem{priorItem("a", "pipe", 1)}, extractedItems())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}
