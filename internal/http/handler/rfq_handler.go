package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/tubetrade/rfq-api/internal/domain"
	"github.com/tubetrade/rfq-api/internal/service"
	"go.uber.org/zap"
)

// RFQHandler handles HTTP requests for RFQ parsing, editing and retrieval
type RFQHandler struct {
	rfqService    *service.RFQService
	maxUploadSize int64
	logger        *zap.Logger
}

// NewRFQHandler creates a new RFQHandler
func NewRFQHandler(rfqService *service.RFQService, maxUploadSizeMB int64, logger *zap.Logger) *RFQHandler {
	return &RFQHandler{
		rfqService:    rfqService,
		maxUploadSize: maxUploadSizeMB * 1024 * 1024,
		logger:        logger,
	}
}

// Parse handles POST /api/v1/rfqs/parse
// @Summary Parse or edit an RFQ
// @Description Runs one extraction pass over the request text and attached documents and returns the full resulting RFQ. Without rfq_id and current_line_items a new RFQ is created; otherwise the text is applied as an edit instruction.
// @Tags rfqs
// @Accept multipart/form-data
// @Produce json
// @Param text formData string true "Free-form request or edit instruction"
// @Param projectName formData string false "Project name"
// @Param rfqId formData string false "Existing RFQ identifier for edits"
// @Param currentLineItems formData string false "Current line items as JSON array"
// @Param language formData string false "Preferred response language"
// @Param files formData file false "Attached documents (repeatable)"
// @Success 200 {object} domain.RFQ
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 502 {object} domain.APIError
// @Router /rfqs/parse [post]
func (h *RFQHandler) Parse(w http.ResponseWriter, r *http.Request) {
	req, attachments, err := h.decodeParseRequest(w, r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	rfq, err := h.rfqService.Parse(r.Context(), req, attachments)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, rfq)
}

// GetByID handles GET /api/v1/rfqs/{rfqId}
// @Summary Get an RFQ
// @Description Returns the current normalized state of an RFQ
// @Tags rfqs
// @Produce json
// @Param rfqId path string true "RFQ identifier"
// @Success 200 {object} domain.RFQ
// @Failure 404 {object} domain.APIError
// @Router /rfqs/{rfqId} [get]
func (h *RFQHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	rfqID := chi.URLParam(r, "rfqId")

	rfq, err := h.rfqService.GetByID(r.Context(), rfqID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, rfq)
}

// Clarify handles POST /api/v1/rfqs/clarify
// @Summary Produce a conversational confirmation
// @Description Returns a short natural-language confirmation of the supplied RFQ state. Always succeeds; a generic confirmation is returned when the summary capability is unavailable.
// @Tags rfqs
// @Accept json
// @Produce json
// @Param request body domain.ClarifyRequest true "RFQ state and user message"
// @Success 200 {object} domain.ClarifyResponse
// @Failure 400 {object} domain.APIError
// @Router /rfqs/clarify [post]
func (h *RFQHandler) Clarify(w http.ResponseWriter, r *http.Request) {
	var req domain.ClarifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	resp := h.rfqService.Clarify(r.Context(), &req)
	respondJSON(w, http.StatusOK, resp)
}

// decodeParseRequest reads the parse request from either a multipart form
// (the portal sends text plus attached documents) or a plain JSON body.
func (h *RFQHandler) decodeParseRequest(w http.ResponseWriter, r *http.Request) (*domain.ParseRFQRequest, []domain.Attachment, error) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "application/json") {
		var req domain.ParseRFQRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, nil, fmt.Errorf("invalid request body")
		}
		return &req, nil, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		return nil, nil, fmt.Errorf("failed to parse form: request too large or malformed")
	}

	req := &domain.ParseRFQRequest{
		Text:        r.FormValue("text"),
		ProjectName: r.FormValue("projectName"),
		Language:    r.FormValue("language"),
		RFQID:       r.FormValue("rfqId"),
	}

	if raw := r.FormValue("currentLineItems"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.CurrentLineItems); err != nil {
			return nil, nil, fmt.Errorf("currentLineItems is not a valid JSON array")
		}
	}

	var attachments []domain.Attachment
	if r.MultipartForm != nil {
		for _, fh := range r.MultipartForm.File["files"] {
			att, err := readAttachment(fh)
			if err != nil {
				return nil, nil, err
			}
			attachments = append(attachments, att)
		}
	}

	return req, attachments, nil
}

func readAttachment(fh *multipart.FileHeader) (domain.Attachment, error) {
	file, err := fh.Open()
	if err != nil {
		return domain.Attachment{}, fmt.Errorf("failed to read attachment %s", fh.Filename)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return domain.Attachment{}, fmt.Errorf("failed to read attachment %s", fh.Filename)
	}

	mediaType := fh.Header.Get("Content-Type")
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}

	return domain.Attachment{
		Filename:  fh.Filename,
		MediaType: mediaType,
		Data:      data,
	}, nil
}

func (h *RFQHandler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrRFQNotFound):
		respondWithError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, service.ErrMalformedExtraction):
		h.logger.Error("extraction output could not be reconciled",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		respondWithError(w, http.StatusBadGateway, "Extraction service returned malformed output")
	case errors.Is(err, service.ErrExtractionFailed):
		h.logger.Error("extraction service failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		respondWithError(w, http.StatusBadGateway, "Extraction service unavailable")
	default:
		h.logger.Error("unhandled service error",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
