package errors

// ErrorResponse is the error envelope returned by every failing endpoint.
// Detail carries a plain-text human readable message, Code a stable machine
// readable identifier.
type ErrorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}

// New builds an ErrorResponse.
func New(detail, code string) ErrorResponse {
	return ErrorResponse{Detail: detail, Code: code}
}
