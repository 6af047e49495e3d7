// Package session owns the authentication lifecycle of a marketplace
// client: credential exchange, token persistence, silent refresh, and the
// single in-memory session state every other package reads.
//
// The state machine is Uninitialized → Initializing → {Authenticated,
// Unauthenticated}; Authenticated → Unauthenticated via Logout or a failed
// Refresh; Unauthenticated → Authenticated via a successful Login. There
// are no other transitions.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/spindo/spindo-client-go/api"
	"github.com/spindo/spindo-client-go/roles"
	"github.com/spindo/spindo-client-go/store"
)

const defaultTimeout = 15 * time.Second

// Session owns the process-wide session state. All mutation funnels
// through Initialize, Login, Logout, and Refresh; no other component
// writes tokens or touches the store directly.
type Session struct {
	baseURL string
	httpc   *http.Client
	store   store.Store
	logger  zerolog.Logger

	mu            sync.RWMutex
	authenticated bool
	initializing  bool
	initialized   bool
	tokens        store.TokenPair
	user          store.Identity
	loginInFlight bool

	refreshGroup singleflight.Group
}

// Option configures a Session.
type Option func(*Session)

// WithHTTPClient replaces the HTTP client used for the auth endpoints.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Session) {
		s.httpc = c
	}
}

// WithTimeout sets the request timeout for the auth endpoints. A timeout
// surfaces as the network-error kind.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) {
		s.httpc.Timeout = d
	}
}

// WithLogger replaces the default global logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// New creates a Session talking to the backend at baseURL and persisting
// through st.
func New(baseURL string, st store.Store, options ...Option) (*Session, error) {
	if baseURL == "" {
		return nil, errors.New("[session.New] baseURL is required")
	}
	if st == nil {
		return nil, errors.New("[session.New] store is required")
	}

	s := &Session{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: defaultTimeout},
		store:   st,
		logger:  log.Logger,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// Initialize hydrates the session from the store, validating any persisted
// tokens with a silent refresh. It runs once; later calls are no-ops. It
// must complete before the route guard evaluates its first decision.
func (s *Session) Initialize(ctx context.Context) error {
	s.mu.Lock()
	if s.initialized || s.initializing {
		s.mu.Unlock()
		return nil
	}
	s.initializing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.initializing = false
		s.initialized = true
		s.mu.Unlock()
	}()

	tokens, user, err := s.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrNoSession) {
			// Persistence being unavailable is non-fatal: the session
			// simply starts unauthenticated.
			s.logger.Warn().Err(err).Msg("session store unavailable during hydration")
		}
		return nil
	}

	// Stage the persisted tokens so the refresh call can use them, but do
	// not claim authentication until the refresh proves they still work.
	s.mu.Lock()
	s.tokens = tokens
	s.user = user
	s.mu.Unlock()

	if err := s.Refresh(ctx); err != nil {
		// Refresh already logged out and cleared the store.
		s.logger.Info().Err(err).Msg("persisted session rejected, starting unauthenticated")
		return nil
	}

	s.mu.Lock()
	s.authenticated = true
	s.mu.Unlock()
	s.logger.Info().Str("role", user.Role.String()).Msg("session hydrated")
	return nil
}

// Login exchanges credentials for a token pair. The server-declared role
// must match the selected role; a mismatch is rejected as ErrRoleMismatch
// and leaves the session unauthenticated. A second login while one is in
// flight is rejected with ErrLoginInFlight.
func (s *Session) Login(ctx context.Context, role roles.Role, identifier, password string) (store.Identity, error) {
	if !role.Valid() {
		return store.Identity{}, roles.ErrUnknownRole
	}

	s.mu.Lock()
	if s.loginInFlight {
		s.mu.Unlock()
		return store.Identity{}, ErrLoginInFlight
	}
	s.loginInFlight = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loginInFlight = false
		s.mu.Unlock()
	}()

	var resp api.LoginResponse
	status, err := s.postJSON(ctx, api.LoginPath, api.LoginRequest{
		MobileNumber: identifier,
		Password:     password,
	}, &resp)
	if err != nil {
		return store.Identity{}, errors.Wrap(err, "[Session.Login] login request")
	}
	if status != http.StatusOK || !resp.Status {
		if resp.Message != "" {
			return store.Identity{}, errors.Wrap(ErrInvalidCredentials, resp.Message)
		}
		return store.Identity{}, ErrInvalidCredentials
	}

	serverRole, err := roles.Parse(resp.Data.Role)
	if err != nil {
		return store.Identity{}, errors.Wrapf(err, "[Session.Login] backend declared role %q", resp.Data.Role)
	}
	if serverRole != role {
		return store.Identity{}, ErrRoleMismatch
	}

	tokens := store.TokenPair{Access: resp.Data.Access, Refresh: resp.Data.Refresh}
	if !tokens.Complete() {
		return store.Identity{}, errors.Wrap(ErrInvalidCredentials, "backend returned an incomplete token pair")
	}
	user := store.Identity{
		Role:         serverRole,
		UniqueID:     resp.Data.UniqueID,
		MobileNumber: resp.Data.MobileNumber,
	}

	s.mu.Lock()
	s.tokens = tokens
	s.user = user
	s.authenticated = true
	s.mu.Unlock()

	if err := s.store.Save(ctx, tokens, user); err != nil {
		// The session still works in memory for the rest of the process
		// lifetime.
		s.logger.Warn().Err(err).Msg("session persistence unavailable")
	}

	s.logger.Info().Str("role", user.Role.String()).Str("unique_id", user.UniqueID).Msg("logged in")
	return user, nil
}

// Logout clears the session state and the store unconditionally. It is
// idempotent and always succeeds; a storage failure is logged, never
// returned.
func (s *Session) Logout(ctx context.Context) {
	s.mu.Lock()
	wasAuthenticated := s.authenticated
	s.authenticated = false
	s.tokens = store.TokenPair{}
	s.user = store.Identity{}
	s.mu.Unlock()

	if err := s.store.Clear(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("session store clear failed")
	}
	if wasAuthenticated {
		s.logger.Info().Msg("logged out")
	}
}

// Refresh exchanges the refresh token for a new access token. Concurrent
// calls coalesce onto one in-flight exchange; every caller observes the
// same outcome. On any failure the session is logged out and
// ErrSessionExpired is returned.
func (s *Session) Refresh(ctx context.Context) error {
	_, err, _ := s.refreshGroup.Do("refresh", func() (interface{}, error) {
		return nil, s.refresh(ctx)
	})
	return err
}

func (s *Session) refresh(ctx context.Context) error {
	s.mu.RLock()
	refreshToken := s.tokens.Refresh
	s.mu.RUnlock()

	if refreshToken == "" {
		return ErrNotAuthenticated
	}

	var resp api.RefreshResponse
	status, err := s.postJSON(ctx, api.RefreshPath, api.RefreshRequest{Refresh: refreshToken}, &resp)
	if err != nil || status != http.StatusOK || resp.Access == "" {
		// Expired or invalid refresh token, or the backend was
		// unreachable: either way the session cannot be renewed.
		s.Logout(ctx)
		if err != nil {
			return errors.Wrap(ErrSessionExpired, err.Error())
		}
		return ErrSessionExpired
	}

	s.mu.Lock()
	s.tokens.Access = resp.Access
	if resp.Refresh != "" {
		// The backend rotated the refresh token.
		s.tokens.Refresh = resp.Refresh
	}
	tokens, user := s.tokens, s.user
	s.mu.Unlock()

	if err := s.store.Save(ctx, tokens, user); err != nil {
		s.logger.Warn().Err(err).Msg("session persistence unavailable")
	}
	s.logger.Debug().Msg("access token refreshed")
	return nil
}

// IsAuthenticated reports whether the session currently holds a valid
// identity.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// Initializing reports whether hydration is still running. Consumers make
// no access decisions until it returns false.
func (s *Session) Initializing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initializing
}

// CurrentUser returns the authenticated identity, if any.
func (s *Session) CurrentUser() (store.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.authenticated
}

// AccessToken returns the current access token, if any.
func (s *Session) AccessToken() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.authenticated || s.tokens.Access == "" {
		return "", false
	}
	return s.tokens.Access, true
}

// postJSON posts a JSON body to an auth endpoint and decodes the reply
// into out. A transport failure returns *api.NetworkError; an HTTP reply
// returns its status code with out decoded on a best-effort basis.
func (s *Session) postJSON(ctx context.Context, path string, body, out interface{}) (int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, errors.Wrap(err, "[Session.postJSON] marshal")
	}

	url := s.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return 0, errors.Wrap(err, "[Session.postJSON] build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpc.Do(req)
	if err != nil {
		return 0, &api.NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, &api.NetworkError{URL: url, Err: err}
	}
	if len(data) > 0 {
		// Error replies carry {message}; a decode failure here is not
		// fatal, the status code already tells the story.
		_ = json.Unmarshal(data, out)
	}
	return resp.StatusCode, nil
}
