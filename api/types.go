// Package api holds the wire contract of the Spindo marketplace backend:
// request/response payloads for the auth endpoints, the generic response
// envelope, and the error kinds shared by the session and client packages.
package api

const (
	// LoginPath is the credential exchange endpoint.
	LoginPath = "/api/login/"
	// RefreshPath mints a new access token from a refresh token.
	RefreshPath = "/api/token/refresh/"
)

// LoginRequest is the body of POST /api/login/. Every role authenticates
// with a mobile number; the backend decides which account table it hits.
type LoginRequest struct {
	MobileNumber string `json:"mobile_number"`
	Password     string `json:"password"`
}

// LoginData is the payload of a successful login.
type LoginData struct {
	Access       string `json:"access"`
	Refresh      string `json:"refresh"`
	Role         string `json:"role"`
	UniqueID     string `json:"unique_id"`
	MobileNumber string `json:"mobile_number"`
}

// LoginResponse is the body of the login endpoint's reply. Status is true
// on success; Message carries the backend's failure reason otherwise.
type LoginResponse struct {
	Status  bool      `json:"status"`
	Message string    `json:"message,omitempty"`
	Data    LoginData `json:"data,omitempty"`
}

// RefreshRequest is the body of POST /api/token/refresh/.
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// RefreshResponse carries the new access token. Refresh is only set when
// the backend rotates the refresh token.
type RefreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// Envelope is the generic {status, message, data} wrapper the resource
// endpoints respond with.
type Envelope[T any] struct {
	Status  bool   `json:"status"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data,omitempty"`
}
