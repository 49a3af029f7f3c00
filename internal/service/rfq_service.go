package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tubetrade/rfq-api/internal/domain"
	"github.com/tubetrade/rfq-api/internal/extraction"
	"github.com/tubetrade/rfq-api/internal/reconcile"
	"github.com/tubetrade/rfq-api/internal/store"
	"go.uber.org/zap"
)

// Extractor converts free-form request text (plus attached documents) into
// the structured extraction shape. Implemented by extraction.Client.
type Extractor interface {
	Extract(ctx context.Context, in extraction.Input) (*domain.ExtractionResult, error)
}

// Clarifier produces a short conversational confirmation of the current RFQ
// state. Implemented by extraction.Client.
type Clarifier interface {
	Summarize(ctx context.Context, stateSummary, userMessage, language string) (string, error)
}

// AttachmentArchiver persists uploaded documents after a successful parse.
// Implemented by the storage service; optional.
type AttachmentArchiver interface {
	Save(ctx context.Context, rfqID, filename, contentType string, data []byte) (string, error)
}

// RFQService handles business logic for RFQ parsing, editing and retrieval
type RFQService struct {
	rfqs      store.RFQStore
	extractor Extractor
	clarifier Clarifier
	archiver  AttachmentArchiver
	logger    *zap.Logger
}

// NewRFQService creates a new RFQService. archiver may be nil, in which case
// uploaded documents are discarded after extraction.
func NewRFQService(
	rfqs store.RFQStore,
	extractor Extractor,
	clarifier Clarifier,
	archiver AttachmentArchiver,
	logger *zap.Logger,
) *RFQService {
	return &RFQService{
		rfqs:      rfqs,
		extractor: extractor,
		clarifier: clarifier,
		archiver:  archiver,
		logger:    logger,
	}
}

// Parse runs one extraction pass and returns the full resulting RFQ.
// With no rfqId and no current line items this creates a new RFQ; otherwise
// the request text is treated as an edit instruction against the prior state.
// The stored state is only replaced after the whole pipeline succeeds, so a
// failed pass never corrupts an existing RFQ.
func (s *RFQService) Parse(ctx context.Context, req *domain.ParseRFQRequest, attachments []domain.Attachment) (*domain.RFQ, error) {
	prior, existing, err := s.priorState(req)
	if err != nil {
		return nil, err
	}

	mode := extraction.ModeCreating
	if req.RFQID != "" || len(prior) > 0 {
		mode = extraction.ModeEditing
	}

	result, err := s.extractor.Extract(ctx, extraction.Input{
		Text:        req.Text,
		Mode:        mode,
		PriorItems:  prior,
		Attachments: attachments,
	})
	if err != nil {
		if errors.Is(err, extraction.ErrMalformedOutput) {
			return nil, fmt.Errorf("%w: %v", ErrMalformedExtraction, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	items, err := reconcile.Reconcile(prior, result)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedExtraction, err)
	}

	rfq := s.assemble(req, existing, result, items)

	s.rfqs.Put(&rfq)

	s.archiveAttachments(ctx, rfq.RFQID, attachments)

	s.logger.Info("rfq parsed",
		zap.String("rfq_id", rfq.RFQID),
		zap.String("mode", string(mode)),
		zap.Int("line_items", len(rfq.LineItems)),
	)

	return &rfq, nil
}

// GetByID returns the current state of an RFQ
func (s *RFQService) GetByID(ctx context.Context, rfqID string) (*domain.RFQ, error) {
	rfq, err := s.rfqs.Get(rfqID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrRFQNotFound
		}
		return nil, fmt.Errorf("failed to load rfq: %w", err)
	}
	return rfq, nil
}

// Clarify produces a short conversational reply about the given RFQ state.
// Clarification is best-effort: if the summary capability fails, a generic
// confirmation is returned instead of an error.
func (s *RFQService) Clarify(ctx context.Context, req *domain.ClarifyRequest) *domain.ClarifyResponse {
	summary := stateSummary(&req.RFQ)

	message, err := s.clarifier.Summarize(ctx, summary, req.Message, req.Language)
	if err != nil || strings.TrimSpace(message) == "" {
		if err != nil {
			s.logger.Warn("clarification summary failed, using fallback",
				zap.String("rfq_id", req.RFQ.RFQID),
				zap.Error(err),
			)
		}
		message = fallbackClarification(len(req.RFQ.LineItems), req.Language)
	}

	return &domain.ClarifyResponse{Message: message}
}

// priorState resolves the line items an edit applies to. Items sent by the
// client take precedence over the stored copy so the edit applies to exactly
// what the user was looking at.
func (s *RFQService) priorState(req *domain.ParseRFQRequest) ([]domain.LineItem, *domain.RFQ, error) {
	var existing *domain.RFQ

	if req.RFQID != "" {
		rfq, err := s.rfqs.Get(req.RFQID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, nil, ErrRFQNotFound
			}
			return nil, nil, fmt.Errorf("failed to load rfq: %w", err)
		}
		existing = rfq
	}

	if len(req.CurrentLineItems) > 0 {
		return req.CurrentLineItems, existing, nil
	}
	if existing != nil {
		return existing.LineItems, existing, nil
	}
	return nil, nil, nil
}

// assemble builds the resulting RFQ from the prior state and the extraction
// output. Header fields follow a retain-on-empty policy: a non-empty
// extracted value replaces the prior one, an empty value keeps it.
func (s *RFQService) assemble(req *domain.ParseRFQRequest, existing *domain.RFQ, result *domain.ExtractionResult, items []domain.LineItem) domain.RFQ {
	var rfq domain.RFQ
	if existing != nil {
		rfq = *existing.Clone()
	}

	if rfq.RFQID == "" {
		rfq.RFQID = reconcile.MintRFQID()
	}

	if req.ProjectName != "" {
		rfq.ProjectName = req.ProjectName
	}
	if result.ProjectName != "" {
		rfq.ProjectName = result.ProjectName
	}

	if result.Commercial != nil {
		mergeCommercial(&rfq.Commercial, result.Commercial)
	}

	rfq.LineItems = items
	return rfq
}

func mergeCommercial(dst, src *domain.Commercial) {
	if src.Destination != "" {
		dst.Destination = src.Destination
	}
	if src.Incoterm != "" {
		dst.Incoterm = src.Incoterm
	}
	if src.PaymentTerm != "" {
		dst.PaymentTerm = src.PaymentTerm
	}
	if src.OtherRequirements != "" {
		dst.OtherRequirements = src.OtherRequirements
	}
}

// archiveAttachments stores uploaded documents best-effort. Archival failure
// never fails the parse.
func (s *RFQService) archiveAttachments(ctx context.Context, rfqID string, attachments []domain.Attachment) {
	if s.archiver == nil {
		return
	}
	for _, att := range attachments {
		if _, err := s.archiver.Save(ctx, rfqID, att.Filename, att.MediaType, att.Data); err != nil {
			s.logger.Warn("failed to archive attachment",
				zap.String("rfq_id", rfqID),
				zap.String("filename", att.Filename),
				zap.Error(err),
			)
		}
	}
}

// stateSummary renders a compact description of the RFQ for the clarifier.
// Only a handful of items are listed; the point is grounding, not a dump.
func stateSummary(rfq *domain.RFQ) string {
	var b strings.Builder
	if rfq.ProjectName != "" {
		fmt.Fprintf(&b, "Project: %s. ", rfq.ProjectName)
	}
	fmt.Fprintf(&b, "The request currently has %d line item(s).", len(rfq.LineItems))

	for i, item := range rfq.LineItems {
		if i == 3 {
			fmt.Fprintf(&b, " (and %d more)", len(rfq.LineItems)-i)
			break
		}
		fmt.Fprintf(&b, " Item %d: %s", item.Line, item.Description)
		if item.Quantity != nil {
			fmt.Fprintf(&b, ", qty %g %s", *item.Quantity, item.UOM)
		}
		b.WriteString(".")
	}
	return b.String()
}

func fallbackClarification(itemCount int, language string) string {
	switch strings.ToLower(language) {
	case "no", "nb", "nn":
		return fmt.Sprintf("Forespørselen er oppdatert og inneholder nå %d varelinje(r).", itemCount)
	case "de":
		return fmt.Sprintf("Die Anfrage wurde aktualisiert und enthält jetzt %d Position(en).", itemCount)
	default:
		return fmt.Sprintf("Your request has been updated and now contains %d line item(s).", itemCount)
	}
}
