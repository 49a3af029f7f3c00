package service

import (
	"github.com/tubetrade/rfq-api/internal/domain"
	"github.com/tubetrade/rfq-api/internal/store"
	"go.uber.org/zap"
)

// QuoteService handles supplier quote submissions against an RFQ identifier.
// Quotes and RFQs are independent aggregates sharing only the identifier
// namespace: submissions are never validated against the RFQ store, so a
// quote against an identifier no session has seen is still accepted.
type QuoteService struct {
	quotes store.QuoteStore
	logger *zap.Logger
}

// NewQuoteService creates a new QuoteService
func NewQuoteService(quotes store.QuoteStore, logger *zap.Logger) *QuoteService {
	return &QuoteService{
		quotes: quotes,
		logger: logger,
	}
}

// Submit records a quote payload. The payload is accepted verbatim; pricing
// validation happens downstream.
func (s *QuoteService) Submit(rfqID string, payload map[string]any) domain.Quote {
	quote := s.quotes.Append(rfqID, payload)
	s.logger.Info("quote submitted", zap.String("rfq_id", rfqID))
	return quote
}

// List returns all quotes received for an RFQ identifier, in arrival order.
// An identifier with no quotes yields an empty list, not an error.
func (s *QuoteService) List(rfqID string) []domain.Quote {
	return s.quotes.List(rfqID)
}
