package memstore_test

import (
	"context"
	"testing"

	"github.com/spindo/spindo-client-go/roles"
	"github.com/spindo/spindo-client-go/store"
	"github.com/spindo/spindo-client-go/store/memstore"
	"github.com/stretchr/testify/require"
)

func testSession() (store.TokenPair, store.Identity) {
	return store.TokenPair{Access: "access-token", Refresh: "refresh-token"},
		store.Identity{Role: roles.RoleCustomer, UniqueID: "CUST-0001", MobileNumber: "9876543210"}
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	tokens, user := testSession()

	require.NoError(t, s.Save(ctx, tokens, user))

	gotTokens, gotUser, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, tokens, gotTokens)
	require.Equal(t, user, gotUser)
}

func TestLoadEmpty(t *testing.T) {
	_, _, err := memstore.New().Load(context.Background())
	require.ErrorIs(t, err, store.ErrNoSession)
}

func TestLoadPartialPairIsAbsent(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	_, user := testSession()

	// Refresh token only, no access token.
	require.NoError(t, s.Save(ctx, store.TokenPair{Refresh: "refresh-token"}, user))

	_, _, err := s.Load(ctx)
	require.ErrorIs(t, err, store.ErrNoSession)

	// The partial record must have been cleared, not merely skipped.
	_, _, err = s.Load(ctx)
	require.ErrorIs(t, err, store.ErrNoSession)
}

func TestClearIdempotent(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	tokens, user := testSession()

	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Save(ctx, tokens, user))
	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Clear(ctx))

	_, _, err := s.Load(ctx)
	require.ErrorIs(t, err, store.ErrNoSession)
}
