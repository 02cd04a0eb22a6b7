package handler

// Envelope is the canonical response body for every endpoint: success flag,
// optional human-readable message, optional payload, and the per-field
// validation errors when a request is rejected.
type Envelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    any          `json:"data,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError names a single violated validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func ok(message string, data any) Envelope {
	return Envelope{Success: true, Message: message, Data: data}
}
