package gateway

// Role values in the backend's two-role turn vocabulary.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Principal is the authenticated identity issuing a request.
type Principal struct {
	ID string
}

// ChatTurn is one client-supplied message, oldest-first in ChatRequest.History.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the request boundary payload for a chat exchange.
type ChatRequest struct {
	Message string     `json:"message"`
	History []ChatTurn `json:"history,omitempty"`
}

// ChatResponse is the only shape returned on success.
type ChatResponse struct {
	Success   bool   `json:"success"`
	Response  string `json:"response"`
	Timestamp string `json:"timestamp"`
}

// Turn is a history entry in the backend's vocabulary, produced by
// NormalizeHistory and discarded after the model call.
type Turn struct {
	Role    string
	Content string
}
