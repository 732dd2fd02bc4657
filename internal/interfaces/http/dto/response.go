// Package dto holds the JSON envelope every API response is wrapped in.
package dto

// DefaultPerPage is the page size of a listing that names none
const DefaultPerPage = 20

// Response is the envelope. Exactly one of Data and Error is set.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
	Meta    *Meta      `json:"meta,omitempty"`
}

// ErrorInfo is the error half of the envelope
type ErrorInfo struct {
	Code      string             `json:"code"`
	Message   string             `json:"message"`
	RequestID string             `json:"request_id,omitempty"`
	Details   []ValidationDetail `json:"details,omitempty"`
}

// ValidationDetail describes one rejected request field
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Tag     string `json:"tag,omitempty"`
}

// Meta describes the page of a listing
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalPages int   `json:"total_pages"`
}

// NewMeta describes page of a listing with total rows. Pages start at 1.
func NewMeta(total int64, page, perPage int) *Meta {
	page = max(page, 1)
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	return &Meta{
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: int((total + int64(perPage) - 1) / int64(perPage)),
	}
}

// OK wraps data
func OK(data any) Response {
	return Response{Success: true, Data: data}
}

// Paged wraps one page of a listing
func Paged(data any, meta *Meta) Response {
	return Response{Success: true, Data: data, Meta: meta}
}

// Fail builds an error envelope. requestID may be empty.
func Fail(code, message, requestID string) Response {
	return Response{
		Error: &ErrorInfo{Code: code, Message: message, RequestID: requestID},
	}
}

// Invalid builds a VALIDATION_ERROR envelope listing the rejected fields
func Invalid(requestID string, details ...ValidationDetail) Response {
	resp := Fail(ErrCodeValidation, "Request validation failed", requestID)
	resp.Error.Details = details
	return resp
}
