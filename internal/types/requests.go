package types

// LoginRequest represents the request body for obtaining a token
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the response body for a successful login
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// ErrorResponse is the JSON body of every failed request
type ErrorResponse struct {
	Error  string         `json:"error"`
	Fields map[string]any `json:"fields,omitempty"`
}
