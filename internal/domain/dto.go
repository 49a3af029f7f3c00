package domain

// ParseRFQRequest is the decoded multipart form of the parse/edit endpoint.
// Attachments are carried separately because they arrive as file parts.
type ParseRFQRequest struct {
	Text             string     `json:"text" validate:"required"`
	ProjectName      string     `json:"project_name" validate:"omitempty,max=500"`
	CurrentLineItems []LineItem `json:"current_line_items"`
	Language         string     `json:"language" validate:"omitempty,max=16"`
	RFQID            string     `json:"rfq_id" validate:"omitempty,max=64"`
	Attachments      []Attachment
}

// Attachment is one uploaded document forwarded to the extraction capability.
type Attachment struct {
	Filename  string
	MediaType string
	Data      []byte
}

// ClarifyRequest asks for a short confirmation sentence about the current RFQ
// state in response to the user's latest instruction.
type ClarifyRequest struct {
	RFQ      RFQ    `json:"rfq"`
	Message  string `json:"message" validate:"required"`
	Language string `json:"language" validate:"omitempty,max=16"`
}

// ClarifyResponse carries the confirmation message. The endpoint never hard
// fails; on summarizer trouble the message is a generic fallback.
type ClarifyResponse struct {
	Message string `json:"message"`
}

// SubmitQuoteResponse acknowledges a quote submission.
type SubmitQuoteResponse struct {
	Success bool `json:"success"`
}

// QuoteListResponse is the ordered list of quotes received for an RFQ.
type QuoteListResponse struct {
	RFQID  string  `json:"rfq_id"`
	Quotes []Quote `json:"quotes"`
}
