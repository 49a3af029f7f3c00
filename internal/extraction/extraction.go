// Package extraction integrates the structured-extraction and
// clarification-summary capabilities. Both are backed by an OpenAI-compatible
// completion API; the rest of the application only sees the capability
// interfaces defined in the service package, so a different provider (or a
// test stub) can be injected without touching reconciliation logic.
package extraction

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tubetrade/rfq-api/internal/domain"
)

// Mode tells the extraction capability whether it is creating a fresh RFQ or
// applying an edit instruction to an existing one.
type Mode string

const (
	ModeCreating Mode = "creating"
	ModeEditing  Mode = "editing"
)

// ErrMalformedOutput is returned when the capability responded but its output
// cannot be parsed as the expected extraction shape.
var ErrMalformedOutput = errors.New("extraction output does not match expected shape")

// Input is everything the extraction capability needs for one pass.
type Input struct {
	Text        string
	Mode        Mode
	PriorItems  []domain.LineItem
	Attachments []domain.Attachment
}

const extractionSystemPrompt = `You are a procurement assistant that converts requests for quotes on steel pipe and fittings into structured data.
Rules:
- Apply the user's instruction fully: additions, field changes and deletions.
- Return the COMPLETE resulting line item list, not a diff.
- When a current line item list is provided and an item is unchanged or only partially changed, copy its item_id verbatim. Never invent item_ids for new items; leave item_id empty instead.
- Report dimensions exactly as stated, with the unit string used in the source. Do not convert units and do not guess missing values.
- Leave unknown fields empty.`

// buildUserPrompt renders the instruction, mode and prior state into the user
// message. Prior items are serialized in the canonical wire shape so echoed
// item_ids round-trip exactly.
func buildUserPrompt(in Input) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Mode: %s\n\nInstruction:\n%s\n", in.Mode, in.Text)

	if in.Mode == ModeEditing {
		items, err := json.Marshal(in.PriorItems)
		if err != nil {
			return "", fmt.Errorf("marshal prior items: %w", err)
		}
		fmt.Fprintf(&b, "\nCurrent line items (JSON):\n%s\n", items)
	}

	var skipped []string
	for _, att := range in.Attachments {
		if !strings.HasPrefix(att.MediaType, "image/") {
			skipped = append(skipped, fmt.Sprintf("%s (%s)", att.Filename, att.MediaType))
		}
	}
	if len(skipped) > 0 {
		fmt.Fprintf(&b, "\nAttached documents not shown inline: %s\n", strings.Join(skipped, ", "))
	}

	return b.String(), nil
}

// decodeResult parses the model's JSON into the extraction result shape.
func decodeResult(raw string) (*domain.ExtractionResult, error) {
	var result domain.ExtractionResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return &result, nil
}

// extractionSchema is the strict JSON schema the capability must satisfy.
// It mirrors domain.ExtractionResult field for field.
func extractionSchema() map[string]any {
	dimension := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"value", "unit"},
		"properties": map[string]any{
			"value": map[string]any{"type": []string{"number", "null"}},
			"unit":  map[string]any{"type": "string"},
		},
	}
	item := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"item_id", "description", "product_type", "material_grade", "size", "quantity", "uom"},
		"properties": map[string]any{
			"item_id":        map[string]any{"type": "string"},
			"description":    map[string]any{"type": "string"},
			"product_type":   map[string]any{"type": "string"},
			"material_grade": map[string]any{"type": "string"},
			"size": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"required":             []string{"outer_diameter", "wall_thickness", "length"},
				"properties": map[string]any{
					"outer_diameter": dimension,
					"wall_thickness": dimension,
					"length":         dimension,
				},
			},
			"quantity": map[string]any{"type": []string{"number", "null"}},
			"uom":      map[string]any{"type": "string"},
		},
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"project_name", "commercial", "line_items"},
		"properties": map[string]any{
			"project_name": map[string]any{"type": "string"},
			"commercial": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"required":             []string{"destination", "incoterm", "payment_term", "other_requirements"},
				"properties": map[string]any{
					"destination":        map[string]any{"type": "string"},
					"incoterm":           map[string]any{"type": "string"},
					"payment_term":       map[string]any{"type": "string"},
					"other_requirements": map[string]any{"type": "string"},
				},
			},
			"line_items": map[string]any{"type": "array", "items": item},
		},
	}
}
