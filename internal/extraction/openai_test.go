package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tubetrade/rfq-api/internal/config"
	"github.com/tubetrade/rfq-api/internal/domain"
	"go.uber.org/zap"
)

func completionResponse(content string) string {
	payload := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
	b, _ := json.Marshal(payload)
	return string(b)
}

func newTestClient(t *testing.T, baseURL string, maxRetries int) *Client {
	t.Helper()

	client, err := NewClient(&config.ExtractionConfig{
		BaseURL:    baseURL,
		APIKey:     "test-key",
		Model:      "gpt-4o-mini",
		Timeout:    5,
		MaxRetries: maxRetries,
	}, zap.NewNop())
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(&config.ExtractionConfig{}, zap.NewNop())
	assert.Error(t, err)
}

func TestExtract(t *testing.T) {
	var gotReq chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		extraction := `{"project_name":"North Field","commercial":{"destination":"Rotterdam","incoterm":"CIF","payment_term":"","other_requirements":""},"line_items":[{"item_id":"","description":"Seamless pipe","product_type":"pipe","material_grade":"S355","size":{"outer_diameter":{"value":219.1,"unit":"mm"},"wall_thickness":{"value":null,"unit":""},"length":{"value":12,"unit":"m"}},"quantity":50,"uom":"pcs"}]}`
		fmt.Fprint(w, completionResponse(extraction))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 0)
	result, err := client.Extract(context.Background(), Input{
		Text: "50 pcs seamless pipe 219.1mm OD, 12m, S355, CIF Rotterdam",
		Mode: ModeCreating,
	})
	require.NoError(t, err)

	assert.Equal(t, "North Field", result.ProjectName)
	require.NotNil(t, result.Commercial)
	assert.Equal(t, "CIF", result.Commercial.Incoterm)
	require.NotNil(t, result.LineItems)
	require.Len(t, *result.LineItems, 1)
	assert.Equal(t, "pcs", (*result.LineItems)[0].UOM)

	// Structured output is requested with a strict schema
	require.NotNil(t, gotReq.ResponseFormat)
	assert.Equal(t, "json_schema", gotReq.ResponseFormat.Type)
	assert.True(t, gotReq.ResponseFormat.JSONSchema.Strict)
}

func TestExtract_MalformedContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, completionResponse("not valid json at all"))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 0)
	_, err := client.Extract(context.Background(), Input{Text: "anything", Mode: ModeCreating})
	assert.ErrorIs(t, err, ErrMalformedOutput)
}

func TestExtract_RetriesTransientFailures(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			http.Error(w, "upstream overloaded", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, completionResponse(`{"project_name":"","commercial":null,"line_items":[]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 1)
	result, err := client.Extract(context.Background(), Input{Text: "anything", Mode: ModeCreating})
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	require.NotNil(t, result.LineItems)
	assert.Empty(t, *result.LineItems)
}

func TestExtract_BadRequestIsNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "invalid schema", http.StatusBadRequest)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 2)
	_, err := client.Extract(context.Background(), Input{Text: "anything", Mode: ModeCreating})
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestExtract_InlinesImageAttachments(t *testing.T) {
	var gotReq chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		fmt.Fprint(w, completionResponse(`{"project_name":"","commercial":null,"line_items":[]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 0)
	_, err := client.Extract(context.Background(), Input{
		Text: "see attached drawing",
		Mode: ModeCreating,
		Attachments: []domain.Attachment{
			{Filename: "drawing.png", MediaType: "image/png", Data: []byte{0x89, 0x50}},
			{Filename: "specs.pdf", MediaType: "application/pdf", Data: []byte("%PDF")},
		},
	})
	require.NoError(t, err)

	require.Len(t, gotReq.Messages, 2)
	parts, ok := gotReq.Messages[1].Content.([]any)
	require.True(t, ok, "user content should be multi-part when images are attached")
	require.Len(t, parts, 2)

	text := parts[0].(map[string]any)["text"].(string)
	assert.Contains(t, text, "specs.pdf (application/pdf)")

	imageURL := parts[1].(map[string]any)["image_url"].(map[string]any)["url"].(string)
	assert.Contains(t, imageURL, "data:image/png;base64,")
}

func TestExtract_EditModeCarriesPriorItems(t *testing.T) {
	var gotReq chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		fmt.Fprint(w, completionResponse(`{"project_name":"","commercial":null,"line_items":[]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 0)
	qty := 10.0
	_, err := client.Extract(context.Background(), Input{
		Text: "remove the elbows",
		Mode: ModeEditing,
		PriorItems: []domain.LineItem{
			{ItemID: "item-1", Line: 1, Description: "Elbow 90deg", Quantity: &qty, UOM: "pcs"},
		},
	})
	require.NoError(t, err)

	prompt, ok := gotReq.Messages[1].Content.(string)
	require.True(t, ok)
	assert.Contains(t, prompt, "Mode: editing")
	assert.Contains(t, prompt, `"item_id":"item-1"`)
}

func TestSummarize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Nil(t, req.ResponseFormat)
		assert.Contains(t, req.Messages[0].Content.(string), `"nb"`)
		fmt.Fprint(w, completionResponse("  Forespørselen inneholder nå 2 varelinjer.  "))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 0)
	msg, err := client.Summarize(context.Background(), "2 line items", "add gaskets", "nb")
	require.NoError(t, err)
	assert.Equal(t, "Forespørselen inneholder nå 2 varelinjer.", msg)
}

func TestSummarize_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, completionResponse("   "))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 0)
	_, err := client.Summarize(context.Background(), "state", "message", "en")
	assert.Error(t, err)
}
