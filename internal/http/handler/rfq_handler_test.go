package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tubetrade/rfq-api/internal/domain"
	"github.com/tubetrade/rfq-api/internal/extraction"
	"github.com/tubetrade/rfq-api/internal/service"
	"github.com/tubetrade/rfq-api/internal/store"
	"go.uber.org/zap"
)

type stubExtractor struct {
	result    *domain.ExtractionResult
	err       error
	lastInput extraction.Input
}

func (s *stubExtractor) Extract(_ context.Context, in extraction.Input) (*domain.ExtractionResult, error) {
	s.lastInput = in
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type stubClarifier struct {
	message string
	err     error
}

func (s *stubClarifier) Summarize(_ context.Context, _, _, _ string) (string, error) {
	return s.message, s.err
}

type testEnv struct {
	router    http.Handler
	rfqs      *store.MemoryRFQStore
	extractor *stubExtractor
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	rfqs := store.NewMemoryRFQStore()
	quotes := store.NewMemoryQuoteStore()
	extractor := &stubExtractor{result: &domain.ExtractionResult{LineItems: &[]domain.ExtractedItem{}}}
	clarifier := &stubClarifier{message: "Done."}

	rfqService := service.NewRFQService(rfqs, extractor, clarifier, nil, zap.NewNop())
	quoteService := service.NewQuoteService(quotes, zap.NewNop())

	rfqHandler := NewRFQHandler(rfqService, 25, zap.NewNop())
	quoteHandler := NewQuoteHandler(quoteService, zap.NewNop())

	r := chi.NewRouter()
	r.Route("/api/v1/rfqs", func(r chi.Router) {
		r.Post("/parse", rfqHandler.Parse)
		r.Post("/clarify", rfqHandler.Clarify)
		r.Get("/{rfqId}", rfqHandler.GetByID)
		r.Post("/{rfqId}/quotes", quoteHandler.Submit)
		r.Get("/{rfqId}/quotes", quoteHandler.List)
	})

	return &testEnv{router: r, rfqs: rfqs, extractor: extractor}
}

func multipartBody(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestParse_Multipart(t *testing.T) {
	env := newTestEnv(t)
	qty := 50.0
	env.extractor.result = &domain.ExtractionResult{
		LineItems: &[]domain.ExtractedItem{{
			Description: "Seamless pipe",
			Quantity:    &qty,
			UOM:         "pieces",
		}},
	}

	body, contentType := multipartBody(t, map[string]string{
		"text":        "50 pcs seamless pipe",
		"projectName": "North Field",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rfqs/parse", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var rfq domain.RFQ
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rfq))
	assert.NotEmpty(t, rfq.RFQID)
	assert.Equal(t, "North Field", rfq.ProjectName)
	require.Len(t, rfq.LineItems, 1)
	assert.Equal(t, "pcs", rfq.LineItems[0].UOM)

	// Line items serialize as an array even when empty, never null
	assert.Contains(t, rec.Body.String(), `"line_items"`)
}

func TestParse_JSONBody(t *testing.T) {
	env := newTestEnv(t)

	payload := `{"text":"two elbows","project_name":"Quay Wall"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rfqs/parse", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, extraction.ModeCreating, env.extractor.lastInput.Mode)
}

func TestParse_MissingTextFailsValidation(t *testing.T) {
	env := newTestEnv(t)

	body, contentType := multipartBody(t, map[string]string{"projectName": "No Text"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rfqs/parse", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var apiErr domain.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Equal(t, domain.ErrorTypeValidation, apiErr.Type)
	assert.Contains(t, apiErr.Errors, "text")
}

func TestParse_EditFlowKeepsItemIdentity(t *testing.T) {
	env := newTestEnv(t)
	env.rfqs.Put(&domain.RFQ{
		RFQID:     "rfq-1",
		LineItems: []domain.LineItem{{ItemID: "item-1", Line: 1, Description: "Pipe"}},
	})
	env.extractor.result = &domain.ExtractionResult{
		LineItems: &[]domain.ExtractedItem{{ItemID: "item-1", Description: "Pipe, sch 40"}},
	}

	body, contentType := multipartBody(t, map[string]string{
		"text":  "make it schedule 40",
		"rfqId": "rfq-1",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rfqs/parse", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, extraction.ModeEditing, env.extractor.lastInput.Mode)

	var rfq domain.RFQ
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rfq))
	require.Len(t, rfq.LineItems, 1)
	assert.Equal(t, "item-1", rfq.LineItems[0].ItemID)
	assert.Equal(t, "Pipe, sch 40", rfq.LineItems[0].Description)
}

func TestParse_UnknownRFQReturns404(t *testing.T) {
	env := newTestEnv(t)

	body, contentType := multipartBody(t, map[string]string{
		"text":  "add an elbow",
		"rfqId": "missing",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rfqs/parse", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Not found")
}

func TestParse_ExtractionFailureReturns502(t *testing.T) {
	env := newTestEnv(t)
	env.extractor.err = assert.AnError

	body, contentType := multipartBody(t, map[string]string{"text": "anything"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rfqs/parse", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadGateway, rec.Code)

	var apiErr domain.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Equal(t, domain.ErrorTypeUpstream, apiErr.Type)
}

func TestGetByID(t *testing.T) {
	env := newTestEnv(t)
	env.rfqs.Put(&domain.RFQ{RFQID: "rfq-1", ProjectName: "Quay Wall"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rfqs/rfq-1", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var rfq domain.RFQ
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rfq))
	assert.Equal(t, "Quay Wall", rfq.ProjectName)
}

func TestGetByID_NotFound(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rfqs/nope", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)

	var apiErr domain.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Equal(t, "Not found", apiErr.Detail)
}

func TestClarify(t *testing.T) {
	env := newTestEnv(t)

	payload := `{"rfq":{"rfq_id":"rfq-1","line_items":[]},"message":"what is in it?"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rfqs/clarify", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp domain.ClarifyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Done.", resp.Message)
}

func TestClarify_MissingMessage(t *testing.T) {
	env := newTestEnv(t)

	payload := `{"rfq":{"rfq_id":"rfq-1"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rfqs/clarify", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitQuote(t *testing.T) {
	env := newTestEnv(t)

	payload := `{"supplier":"Nordpipe","total":18400.50,"currency":"EUR"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rfqs/rfq-1/quotes", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	// Listing returns the quote in arrival order
	req = httptest.NewRequest(http.MethodGet, "/api/v1/rfqs/rfq-1/quotes", nil)
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var list domain.QuoteListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Quotes, 1)
	assert.Equal(t, "Nordpipe", list.Quotes[0].Payload["supplier"])
}

func TestSubmitQuote_AcceptsNeverParsedRFQID(t *testing.T) {
	// Quote intake never checks the identifier against the RFQ store.
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/rfqs/never-parsed/quotes", strings.NewReader(`{"price":100}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/v1/rfqs/never-parsed/quotes", nil)
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var list domain.QuoteListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Quotes, 1)
}

func TestSubmitQuote_InvalidBody(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/rfqs/rfq-1/quotes", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
