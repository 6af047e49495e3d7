// Package store defines durable persistence for the session's token pair
// and user identity. Implementations differ only in durability tier:
// memstore (process lifetime), filestore (survives restarts), redisstore
// (shared, TTL-bound).
package store

import (
	"context"
	"errors"

	"github.com/spindo/spindo-client-go/roles"
)

// ErrNoSession is returned by Load when no complete session record exists.
// A partially written or unparsable record counts as absent: Load clears
// the store and reports ErrNoSession rather than returning half a session.
var ErrNoSession = errors.New("no stored session")

// TokenPair is the access/refresh credential pair. Both fields are set or
// the pair is not stored at all.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Complete reports whether both tokens are present.
func (t TokenPair) Complete() bool {
	return t.Access != "" && t.Refresh != ""
}

// Identity is the minimal user record derived from a login response.
type Identity struct {
	Role         roles.Role `json:"role"`
	UniqueID     string     `json:"unique_id"`
	MobileNumber string     `json:"mobile_number"`
}

// Store persists the token pair and identity across restarts. Tokens and
// identity are always written and cleared together; no caller writes one
// without the other.
type Store interface {
	// Save overwrites any existing record.
	Save(ctx context.Context, tokens TokenPair, user Identity) error

	// Load returns the stored record, or ErrNoSession when it is absent,
	// incomplete, or unparsable. Incomplete and unparsable records are
	// cleared before returning.
	Load(ctx context.Context) (TokenPair, Identity, error)

	// Clear removes the record. Clearing an absent record is not an error.
	Clear(ctx context.Context) error
}
