package identity

import (
	"context"
	"strings"

	"github.com/huntworks/trailhunt/internal/model"
)

// StaticResolver resolves a fixed set of bearer tokens to participant
// ids. Intended for local development and tests; real deployments use
// JWTResolver.
type StaticResolver struct {
	tokens map[Credential]model.ParticipantID
}

// Ensure StaticResolver implements Resolver
var _ Resolver = (*StaticResolver)(nil)

// NewStaticResolver creates a resolver over the given token table
func NewStaticResolver(tokens map[Credential]model.ParticipantID) *StaticResolver {
	table := make(map[Credential]model.ParticipantID, len(tokens))
	for cred, id := range tokens {
		table[cred] = id
	}
	return &StaticResolver{tokens: table}
}

// Resolve looks the credential up in the token table
func (r *StaticResolver) Resolve(ctx context.Context, cred Credential) (model.ParticipantID, error) {
	raw := Credential(strings.TrimSpace(string(cred)))
	if raw == "" {
		return "", model.ErrUnauthenticated
	}

	id, ok := r.tokens[raw]
	if !ok {
		return "", model.ErrUnauthenticated
	}
	return id, nil
}
