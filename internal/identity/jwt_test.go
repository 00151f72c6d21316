package identity

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"

	"github.com/huntworks/trailhunt/internal/dependencies/mocks"
	"github.com/huntworks/trailhunt/internal/model"
)

type JWTResolverSuite struct {
	suite.Suite
	secret   []byte
	clk      *mocks.MockClock
	resolver *JWTResolver
	ctx      context.Context
}

func TestJWTResolverSuite(t *testing.T) {
	suite.Run(t, new(JWTResolverSuite))
}

func (s *JWTResolverSuite) SetupTest() {
	s.secret = []byte("test-signing-secret")
	s.clk = mocks.NewMockClock(time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC))
	s.ctx = context.Background()

	var err error
	s.resolver, err = NewJWTResolver(JWTConfig{
		Secret:   s.secret,
		Issuer:   "trailhunt-test",
		Audience: "trailhunt",
	}, s.clk)
	s.Require().NoError(err)
}

// claims returns a well-formed set of claims for the subject
func (s *JWTResolverSuite) claims(sub string) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   sub,
		Issuer:    "trailhunt-test",
		Audience:  jwt.ClaimStrings{"trailhunt"},
		IssuedAt:  jwt.NewNumericDate(s.clk.Now()),
		ExpiresAt: jwt.NewNumericDate(s.clk.Now().Add(time.Hour)),
		ID:        "test-jti",
	}
}

func (s *JWTResolverSuite) mint(claims jwt.RegisteredClaims) Credential {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	s.Require().NoError(err)
	return Credential(signed)
}

func (s *JWTResolverSuite) TestResolve() {
	id, err := s.resolver.Resolve(s.ctx, s.mint(s.claims("alice")))
	s.Require().NoError(err)
	s.Equal(model.ParticipantID("alice"), id)
}

func (s *JWTResolverSuite) TestResolveTrimsWhitespace() {
	cred := s.mint(s.claims("alice"))

	id, err := s.resolver.Resolve(s.ctx, "  "+cred+"\n")
	s.Require().NoError(err)
	s.Equal(model.ParticipantID("alice"), id)
}

func (s *JWTResolverSuite) TestExpiredToken() {
	cred := s.mint(s.claims("alice"))
	s.clk.Advance(2 * time.Hour)

	_, err := s.resolver.Resolve(s.ctx, cred)
	s.ErrorIs(err, model.ErrUnauthenticated)
}

func (s *JWTResolverSuite) TestNotYetValidToken() {
	claims := s.claims("alice")
	claims.NotBefore = jwt.NewNumericDate(s.clk.Now().Add(30 * time.Minute))

	_, err := s.resolver.Resolve(s.ctx, s.mint(claims))
	s.ErrorIs(err, model.ErrUnauthenticated)
}

func (s *JWTResolverSuite) TestMissingExpiry() {
	claims := s.claims("alice")
	claims.ExpiresAt = nil

	_, err := s.resolver.Resolve(s.ctx, s.mint(claims))
	s.ErrorIs(err, model.ErrUnauthenticated)
}

func (s *JWTResolverSuite) TestWrongSecret() {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, s.claims("alice")).
		SignedString([]byte("some-other-secret"))
	s.Require().NoError(err)

	_, err = s.resolver.Resolve(s.ctx, Credential(signed))
	s.ErrorIs(err, model.ErrUnauthenticated)
}

func (s *JWTResolverSuite) TestMissingSubject() {
	_, err := s.resolver.Resolve(s.ctx, s.mint(s.claims("")))
	s.ErrorIs(err, model.ErrUnauthenticated)
}

func (s *JWTResolverSuite) TestIssuerMismatch() {
	claims := s.claims("alice")
	claims.Issuer = "someone-else"

	_, err := s.resolver.Resolve(s.ctx, s.mint(claims))
	s.ErrorIs(err, model.ErrUnauthenticated)
}

func (s *JWTResolverSuite) TestAudienceMismatch() {
	claims := s.claims("alice")
	claims.Audience = jwt.ClaimStrings{"someone-else"}

	_, err := s.resolver.Resolve(s.ctx, s.mint(claims))
	s.ErrorIs(err, model.ErrUnauthenticated)
}

func (s *JWTResolverSuite) TestGarbageCredential() {
	_, err := s.resolver.Resolve(s.ctx, "not-a-token")
	s.ErrorIs(err, model.ErrUnauthenticated)
}

func (s *JWTResolverSuite) TestEmptyCredential() {
	_, err := s.resolver.Resolve(s.ctx, "")
	s.ErrorIs(err, model.ErrUnauthenticated)
}

func (s *JWTResolverSuite) TestRequiresKeyMaterial() {
	_, err := NewJWTResolver(JWTConfig{}, s.clk)
	s.Error(err)
}

// EdDSA tests

func (s *JWTResolverSuite) TestEdDSA() {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	s.Require().NoError(err)

	resolver, err := NewJWTResolver(JWTConfig{PublicKey: pub}, s.clk)
	s.Require().NoError(err)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, s.claims("bob")).SignedString(priv)
	s.Require().NoError(err)

	id, err := resolver.Resolve(s.ctx, Credential(signed))
	s.Require().NoError(err)
	s.Equal(model.ParticipantID("bob"), id)

	// An HS256 token must not pass an EdDSA-only resolver
	_, err = resolver.Resolve(s.ctx, s.mint(s.claims("bob")))
	s.ErrorIs(err, model.ErrUnauthenticated)
}
