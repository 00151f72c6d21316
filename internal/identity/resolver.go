// Package identity resolves presented credentials to participant ids.
// It is the trust boundary for claims: everything behind it treats the
// participant id as authoritative.
package identity

import (
	"context"

	"github.com/huntworks/trailhunt/internal/model"
)

// Credential is an opaque bearer credential exactly as presented by a
// client, e.g. the value after "Bearer " in an Authorization header.
type Credential string

// Resolver maps a credential to a stable participant id.
//
// Implementations return ErrUnauthenticated (possibly wrapped) for any
// credential that does not resolve: missing, malformed, expired, or
// simply unknown. Callers must not distinguish those cases.
type Resolver interface {
	Resolve(ctx context.Context, cred Credential) (model.ParticipantID, error)
}

// Chain tries each resolver in order and returns the first successful
// resolution. Used when a deployment accepts both dev tokens and JWTs.
type Chain []Resolver

// Ensure Chain implements Resolver
var _ Resolver = (Chain)(nil)

// Resolve tries each resolver in order
func (c Chain) Resolve(ctx context.Context, cred Credential) (model.ParticipantID, error) {
	for _, r := range c {
		if id, err := r.Resolve(ctx, cred); err == nil {
			return id, nil
		}
	}
	return "", model.ErrUnauthenticated
}
