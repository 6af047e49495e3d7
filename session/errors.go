package session

import "errors"

var (
	// ErrInvalidCredentials means the backend rejected the login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrRoleMismatch means the backend authenticated the account but its
	// role differs from the role selected on the login form. The login is
	// rejected and the session stays unauthenticated.
	ErrRoleMismatch = errors.New("credential does not match selected role")
	// ErrLoginInFlight means a login attempt was made while another one
	// had not yet completed.
	ErrLoginInFlight = errors.New("login already in progress")
	// ErrSessionExpired means the refresh token was rejected or could not
	// be exchanged; the session has been logged out.
	ErrSessionExpired = errors.New("session expired, please log in again")
	// ErrNotAuthenticated means an operation requiring a session ran
	// without one.
	ErrNotAuthenticated = errors.New("not authenticated")
)
