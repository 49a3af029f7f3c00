package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Canonical dimension units. The normalizer maps free-text unit strings into
// this set; anything it cannot map stays unset rather than being guessed.
const (
	UnitMillimeter = "mm"
	UnitMeter      = "m"
	UnitInch       = "in"
	UnitFoot       = "ft"
	UnitPieces     = "pcs"
)

// Dimension is a numeric value with an optional canonical unit.
// Unit is "" or one of the Unit* constants.
type Dimension struct {
	Value *float64 `json:"value"`
	Unit  string   `json:"unit"`
}

// Size groups the three dimensional fields every line item carries.
type Size struct {
	OuterDiameter Dimension `json:"outer_diameter"`
	WallThickness Dimension `json:"wall_thickness"`
	Length        Dimension `json:"length"`
}

// LineItem is one position of an RFQ. ItemID is assigned once and preserved
// across edits for as long as the item survives; Line is recomputed on every
// reconciliation pass and carries no identity.
type LineItem struct {
	ItemID        string   `json:"item_id"`
	Line          int      `json:"line"`
	Description   string   `json:"description"`
	MaterialGrade string   `json:"material_grade"`
	Size          Size     `json:"size"`
	Quantity      *float64 `json:"quantity"`
	UOM           string   `json:"uom"`
}

// Commercial holds the commercial terms of an RFQ. Absent values are empty
// strings, never null, so clients get a stable record shape.
type Commercial struct {
	Destination       string `json:"destination"`
	Incoterm          string `json:"incoterm"`
	PaymentTerm       string `json:"payment_term"`
	OtherRequirements string `json:"other_requirements"`
}

// RFQ is the root aggregate: a project header, commercial terms and an
// ordered list of line items. RFQID is immutable once assigned.
type RFQ struct {
	RFQID       string     `json:"rfq_id"`
	ProjectName string     `json:"project_name"`
	Commercial  Commercial `json:"commercial"`
	LineItems   []LineItem `json:"line_items"`
}

// Clone returns a deep copy of the RFQ. The session store hands out copies so
// callers can never mutate stored state in place.
func (r *RFQ) Clone() *RFQ {
	cp := *r
	cp.LineItems = make([]LineItem, len(r.LineItems))
	for i, it := range r.LineItems {
		c := it
		if it.Quantity != nil {
			q := *it.Quantity
			c.Quantity = &q
		}
		c.Size.OuterDiameter = cloneDimension(it.Size.OuterDiameter)
		c.Size.WallThickness = cloneDimension(it.Size.WallThickness)
		c.Size.Length = cloneDimension(it.Size.Length)
		cp.LineItems[i] = c
	}
	return &cp
}

func cloneDimension(d Dimension) Dimension {
	if d.Value != nil {
		v := *d.Value
		d.Value = &v
	}
	return d
}

// Quote is a supplier submission against an RFQ identifier. Quotes are
// immutable once stored and are never merged back into the RFQ itself.
type Quote struct {
	RFQID      string         `json:"rfq_id"`
	Payload    map[string]any `json:"payload"`
	ReceivedAt time.Time      `json:"received_at"`
}

// ExtractedDimension is a raw value/unit pair as returned by the structured
// extraction capability, before normalization.
type ExtractedDimension struct {
	Value *float64 `json:"value"`
	Unit  string   `json:"unit"`
}

// ExtractedSize carries the raw dimensional fields of one extracted item.
type ExtractedSize struct {
	OuterDiameter ExtractedDimension `json:"outer_diameter"`
	WallThickness ExtractedDimension `json:"wall_thickness"`
	Length        ExtractedDimension `json:"length"`
}

// ExtractedItem is one raw line item from the extraction output. ItemID is
// only set when the extraction carried a prior identifier forward.
type ExtractedItem struct {
	ItemID        string        `json:"item_id"`
	Description   string        `json:"description"`
	ProductType   string        `json:"product_type"`
	MaterialGrade string        `json:"material_grade"`
	Size          ExtractedSize `json:"size"`
	Quantity      *float64      `json:"quantity"`
	UOM           string        `json:"uom"`
}

// ExtractionResult is the full structured-extraction payload. LineItems is a
// pointer so a missing line_items key is distinguishable from an empty list;
// the reconciliation engine rejects the former as malformed.
type ExtractionResult struct {
	ProjectName string           `json:"project_name"`
	Commercial  *Commercial      `json:"commercial"`
	LineItems   *[]ExtractedItem `json:"line_items"`
}

// RFQSnapshot is the archive row written by the periodic snapshot job.
// The volatile session store stays the source of truth; snapshots exist for
// inspection and recovery, not for serving reads.
type RFQSnapshot struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	RFQID     string         `gorm:"index;size:64;not null" json:"rfq_id"`
	Payload   datatypes.JSON `gorm:"type:jsonb" json:"payload"`
	ItemCount int            `json:"item_count"`
	CreatedAt time.Time      `json:"created_at"`
}

// QuoteSnapshot is the archive row for a submitted quote. PayloadHash is part
// of the dedupe key so distinct quotes arriving in the same timestamp tick
// are never collapsed into one row.
type QuoteSnapshot struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	RFQID       string         `gorm:"index;size:64;not null" json:"rfq_id"`
	Payload     datatypes.JSON `gorm:"type:jsonb" json:"payload"`
	PayloadHash string         `gorm:"size:64;not null" json:"payload_hash"`
	ReceivedAt  time.Time      `json:"received_at"`
	CreatedAt   time.Time      `json:"created_at"`
}
