package types

const (
	CodeUploadInvalid   = "UPLOAD_400"
	CodeUploadFailed    = "UPLOAD_500"
	CodeSessionNotFound = "SESSION_404"
	CodeDeviceNotFound  = "DEVICE_404"
	CodeRequestInvalid  = "REQUEST_400"
	CodeComponentAbsent = "COMPONENT_404"
	CodeCatalogFailed   = "CATALOG_500"
)

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// NewErrorResponse builds a consistent API error payload.
// details can be string, map, struct, etc.
func NewErrorResponse(code, message string, details any) ErrorResponse {
	return ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}
