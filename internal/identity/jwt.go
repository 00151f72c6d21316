package identity

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/huntworks/trailhunt/internal/dependencies/clock"
	"github.com/huntworks/trailhunt/internal/model"
)

// JWTConfig holds verification settings for bearer JWTs
type JWTConfig struct {
	// Secret enables HS256 verification when non-empty
	Secret []byte

	// PublicKey enables EdDSA verification when set
	PublicKey ed25519.PublicKey

	// Issuer and Audience are enforced when non-empty
	Issuer   string
	Audience string
}

// JWTResolver verifies bearer JWTs and maps the subject claim to a
// participant id. Expiry is judged against the injected clock.
type JWTResolver struct {
	cfg    JWTConfig
	parser *jwt.Parser
}

// Ensure JWTResolver implements Resolver
var _ Resolver = (*JWTResolver)(nil)

// NewJWTResolver creates a resolver for the configured key material
func NewJWTResolver(cfg JWTConfig, clk clock.Clock) (*JWTResolver, error) {
	var methods []string
	if len(cfg.Secret) > 0 {
		methods = append(methods, jwt.SigningMethodHS256.Alg())
	}
	if len(cfg.PublicKey) > 0 {
		methods = append(methods, jwt.SigningMethodEdDSA.Alg())
	}
	if len(methods) == 0 {
		return nil, fmt.Errorf("jwt resolver requires a secret or a public key")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods(methods),
		jwt.WithTimeFunc(clk.Now),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	return &JWTResolver{
		cfg:    cfg,
		parser: jwt.NewParser(opts...),
	}, nil
}

// Resolve verifies the token and returns its subject as the participant id
func (r *JWTResolver) Resolve(ctx context.Context, cred Credential) (model.ParticipantID, error) {
	raw := strings.TrimSpace(string(cred))
	if raw == "" {
		return "", model.ErrUnauthenticated
	}

	var claims jwt.RegisteredClaims
	if _, err := r.parser.ParseWithClaims(raw, &claims, r.key); err != nil {
		return "", fmt.Errorf("%w: %w", model.ErrUnauthenticated, err)
	}

	sub := strings.TrimSpace(claims.Subject)
	if sub == "" {
		return "", fmt.Errorf("%w: token has no subject", model.ErrUnauthenticated)
	}

	return model.ParticipantID(sub), nil
}

// key selects the verification key for the token's signing method.
// WithValidMethods has already rejected anything unexpected.
func (r *JWTResolver) key(token *jwt.Token) (any, error) {
	switch token.Method.(type) {
	case *jwt.SigningMethodHMAC:
		return r.cfg.Secret, nil
	case *jwt.SigningMethodEd25519:
		return r.cfg.PublicKey, nil
	default:
		return nil, fmt.Errorf("unexpected signing method %s", token.Method.Alg())
	}
}
