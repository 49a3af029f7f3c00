package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tubetrade/rfq-api/internal/domain"
	"github.com/tubetrade/rfq-api/internal/service"
	"go.uber.org/zap"
)

// QuoteHandler handles HTTP requests for supplier quote submission
type QuoteHandler struct {
	quoteService *service.QuoteService
	logger       *zap.Logger
}

// NewQuoteHandler creates a new QuoteHandler
func NewQuoteHandler(quoteService *service.QuoteService, logger *zap.Logger) *QuoteHandler {
	return &QuoteHandler{
		quoteService: quoteService,
		logger:       logger,
	}
}

// Submit handles POST /api/v1/rfqs/{rfqId}/quotes
// @Summary Submit a quote
// @Description Records a supplier quote payload against an RFQ identifier. The payload is accepted verbatim and the identifier is not checked against existing RFQs.
// @Tags quotes
// @Accept json
// @Produce json
// @Param rfqId path string true "RFQ identifier"
// @Param payload body object true "Quote payload"
// @Success 200 {object} domain.SubmitQuoteResponse
// @Failure 400 {object} domain.APIError
// @Router /rfqs/{rfqId}/quotes [post]
func (h *QuoteHandler) Submit(w http.ResponseWriter, r *http.Request) {
	rfqID := chi.URLParam(r, "rfqId")

	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	h.quoteService.Submit(rfqID, payload)

	respondJSON(w, http.StatusOK, domain.SubmitQuoteResponse{Success: true})
}

// List handles GET /api/v1/rfqs/{rfqId}/quotes
// @Summary List quotes for an RFQ
// @Tags quotes
// @Produce json
// @Param rfqId path string true "RFQ identifier"
// @Success 200 {object} domain.QuoteListResponse
// @Router /rfqs/{rfqId}/quotes [get]
func (h *QuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	rfqID := chi.URLParam(r, "rfqId")

	quotes := h.quoteService.List(rfqID)
	if quotes == nil {
		quotes = []domain.Quote{}
	}

	respondJSON(w, http.StatusOK, domain.QuoteListResponse{
		RFQID:  rfqID,
		Quotes: quotes,
	})
}
