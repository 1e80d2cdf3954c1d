package dto

// Every response is wrapped in an envelope carrying an "OK" flag. The
// key is uppercase on the wire; clients key off it before reading the
// payload.

type ErrorResponse struct {
	OK      bool              `json:"OK"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

func Error(message string) ErrorResponse {
	return ErrorResponse{OK: false, Message: message}
}

func ValidationError(details map[string]string) ErrorResponse {
	return ErrorResponse{OK: false, Message: "Validation failed", Details: details}
}

type SuccessResponse struct {
	OK      bool   `json:"OK"`
	Message string `json:"message,omitempty"`
}

func Success(message string) SuccessResponse {
	return SuccessResponse{OK: true, Message: message}
}

// DataResponse wraps a payload under a named key next to the OK flag.
type DataResponse struct {
	OK   bool        `json:"OK"`
	Data interface{} `json:"data"`
}

func Data(v interface{}) DataResponse {
	return DataResponse{OK: true, Data: v}
}
