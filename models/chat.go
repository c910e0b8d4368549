package models

// ChatRequest is the body accepted by POST /chat. Message is a pointer so that
// a missing key or null is rejected while an empty string is accepted.
type ChatRequest struct {
	Message *string `json:"message" binding:"required"`
}

// ChatResponse is the body returned by POST /chat.
type ChatResponse struct {
	Response string `json:"response"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
