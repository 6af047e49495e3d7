package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spindo/spindo-client-go/api"
	"github.com/spindo/spindo-client-go/client"
	"github.com/spindo/spindo-client-go/roles"
	"github.com/spindo/spindo-client-go/session"
	"github.com/spindo/spindo-client-go/store/memstore"
)

const (
	testMobile   = "9876543210"
	testPassword = "password123"
)

// fixture wires a fake backend, a live session, and a client together.
// The backend serves the auth endpoints plus one protected resource that
// accepts only the most recently minted access token.
type fixture struct {
	t    *testing.T
	srv  *httptest.Server
	sess *session.Session
	cli  *client.Client
	st   *memstore.MemStore

	mu            sync.Mutex
	accessSeq     int
	currentAccess string
	refreshValid  bool

	refreshCalls   atomic.Int32
	resourceCalls  atomic.Int32
	refreshDelay   time.Duration
	resourceStatus int // non-zero forces the resource to reply with it
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{t: t, refreshValid: true}

	mux := http.NewServeMux()
	mux.HandleFunc(api.LoginPath, f.handleLogin)
	mux.HandleFunc(api.RefreshPath, f.handleRefresh)
	mux.HandleFunc("/api/resource/", f.handleResource)
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)

	f.st = memstore.New()
	sess, err := session.New(f.srv.URL, f.st)
	require.NoError(t, err)
	f.sess = sess

	cli, err := client.New(f.srv.URL, sess)
	require.NoError(t, err)
	f.cli = cli
	return f
}

func (f *fixture) mintAccess() string {
	f.accessSeq++
	f.currentAccess = "access-" + strings.Repeat("x", f.accessSeq)
	return f.currentAccess
}

func (f *fixture) handleLogin(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	access := f.mintAccess()
	f.mu.Unlock()
	_ = json.NewEncoder(w).Encode(api.LoginResponse{
		Status: true,
		Data: api.LoginData{
			Access:       access,
			Refresh:      "refresh-token",
			Role:         string(roles.RoleAdmin),
			UniqueID:     "ADM-0001",
			MobileNumber: testMobile,
		},
	})
}

func (f *fixture) handleRefresh(w http.ResponseWriter, r *http.Request) {
	f.refreshCalls.Add(1)
	if f.refreshDelay > 0 {
		time.Sleep(f.refreshDelay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.refreshValid {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{"detail": "Token is invalid or expired"})
		return
	}
	_ = json.NewEncoder(w).Encode(api.RefreshResponse{Access: f.mintAccess()})
}

func (f *fixture) handleResource(w http.ResponseWriter, r *http.Request) {
	f.resourceCalls.Add(1)
	if f.resourceStatus != 0 {
		w.WriteHeader(f.resourceStatus)
		_ = json.NewEncoder(w).Encode(map[string]any{"message": "backend unhappy"})
		return
	}

	f.mu.Lock()
	expect := "Bearer " + f.currentAccess
	f.mu.Unlock()
	if r.Header.Get("Authorization") != expect {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{"detail": "token not valid"})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"status": true, "data": map[string]string{"echo": "ok"}})
}

func (f *fixture) login() {
	f.t.Helper()
	_, err := f.sess.Login(context.Background(), roles.RoleAdmin, testMobile, testPassword)
	require.NoError(f.t, err)
}

// expireAccess invalidates the session's current access token server-side
// without touching the refresh token, simulating ordinary expiry.
func (f *fixture) expireAccess() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mintAccess()
}

type echoReply struct {
	Status bool              `json:"status"`
	Data   map[string]string `json:"data"`
}

func TestAttachesBearerToken(t *testing.T) {
	f := newFixture(t)
	f.login()

	var out echoReply
	require.NoError(t, f.cli.Get(context.Background(), "/api/resource/", &out))
	require.True(t, out.Status)
	require.Equal(t, "ok", out.Data["echo"])
}

func TestOmitsHeaderWhenUnauthenticated(t *testing.T) {
	f := newFixture(t)

	var got string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/public/", func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]any{"status": true})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cli, err := client.New(srv.URL, f.sess)
	require.NoError(t, err)
	require.NoError(t, cli.Get(context.Background(), "/api/public/", nil))
	require.Empty(t, got, "unauthenticated requests must not carry a bearer token")
}

func TestRefreshAndRetryOnceOn401(t *testing.T) {
	f := newFixture(t)
	f.login()
	f.expireAccess()
	f.refreshCalls.Store(0)
	f.resourceCalls.Store(0)

	var out echoReply
	require.NoError(t, f.cli.Get(context.Background(), "/api/resource/", &out))
	require.True(t, out.Status)

	require.Equal(t, int32(1), f.refreshCalls.Load(), "exactly one refresh")
	require.Equal(t, int32(2), f.resourceCalls.Load(), "original call plus one retry")
}

func TestFailedRefreshPropagatesSessionExpiry(t *testing.T) {
	f := newFixture(t)
	f.login()
	f.expireAccess()
	f.refreshValid = false

	err := f.cli.Get(context.Background(), "/api/resource/", nil)
	require.ErrorIs(t, err, session.ErrSessionExpired)
	require.False(t, f.sess.IsAuthenticated(), "failed refresh must log the session out")
}

func TestNoRetryOnNon401Status(t *testing.T) {
	f := newFixture(t)
	f.login()
	f.resourceStatus = http.StatusInternalServerError
	f.resourceCalls.Store(0)

	err := f.cli.Get(context.Background(), "/api/resource/", nil)
	var statusErr *api.StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	require.Equal(t, "backend unhappy", statusErr.Message)
	require.Equal(t, int32(1), f.resourceCalls.Load(), "no retry on a 500")
	require.Equal(t, int32(0), f.refreshCalls.Load())
}

func TestNetworkErrorIsDistinctKind(t *testing.T) {
	f := newFixture(t)
	f.login()
	f.srv.Close()

	err := f.cli.Get(context.Background(), "/api/resource/", nil)
	require.Error(t, err)
	require.True(t, api.IsNetworkError(err))
	var statusErr *api.StatusError
	require.False(t, errors.As(err, &statusErr))
}

func TestConcurrent401sShareOneRefresh(t *testing.T) {
	f := newFixture(t)
	f.login()
	f.expireAccess()
	f.refreshDelay = 150 * time.Millisecond
	f.refreshCalls.Store(0)

	const n = 4
	var wg sync.WaitGroup
	wg.Add(n)
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			errs <- f.cli.Get(context.Background(), "/api/resource/", nil)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	require.Equal(t, int32(1), f.refreshCalls.Load(), "near-simultaneous 401s must coalesce onto one refresh")
}
