package cli

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Token utilities for operators",
	}

	cmd.AddCommand(newTokenNewCmd())
	cmd.AddCommand(newTokenKeygenCmd())
	cmd.AddCommand(newTokenHashCmd())

	return cmd
}

func newTokenNewCmd() *cobra.Command {
	var (
		subject    string
		secret     string
		privateKey string
		issuer     string
		audience   string
		ttl        time.Duration
		save       bool
	)

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Mint a participant JWT",
		Long: `Mint a signed JWT whose subject is the participant id. Sign with
--secret (HS256) or --private-key (EdDSA). The server must be configured
with the matching secret or public key.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (secret == "") == (privateKey == "") {
				return fmt.Errorf("exactly one of --secret and --private-key is required")
			}

			now := time.Now()
			expiresAt := now.Add(ttl)
			claims := jwt.RegisteredClaims{
				Issuer:    issuer,
				Subject:   subject,
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(expiresAt),
				ID:        uuid.NewString(),
			}
			if audience != "" {
				claims.Audience = jwt.ClaimStrings{audience}
			}

			var (
				token string
				err   error
			)
			if secret != "" {
				token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
			} else {
				var key ed25519.PrivateKey
				if key, err = decodePrivateKey(privateKey); err == nil {
					token, err = jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(key)
				}
			}
			if err != nil {
				return fmt.Errorf("failed to sign token: %w", err)
			}

			if save {
				if err := cfg.SaveToken(token); err != nil {
					return fmt.Errorf("failed to save token: %w", err)
				}
			}

			out := NewOutput(cfg.Output)
			out.Print(MintedToken{Token: token, Subject: subject, ExpiresAt: expiresAt})
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "Participant id for the subject claim (required)")
	cmd.Flags().StringVar(&secret, "secret", "", "HS256 signing secret")
	cmd.Flags().StringVar(&privateKey, "private-key", "", "Base64 ed25519 private key for EdDSA signing")
	cmd.Flags().StringVar(&issuer, "issuer", "", "Issuer claim")
	cmd.Flags().StringVar(&audience, "audience", "", "Audience claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	cmd.Flags().BoolVar(&save, "save", false, "Save the minted token to the token file")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}

func newTokenKeygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate an ed25519 keypair for EdDSA tokens",
		Long: `Generate a fresh ed25519 keypair. Set TRAILHUNT_JWT_PUBLIC_KEY on the
server to the public key; sign tokens with the private key via
'token new --private-key'.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pub, priv, err := ed25519.GenerateKey(rand.Reader)
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(KeyPair{
				PublicKey:  base64.StdEncoding.EncodeToString(pub),
				PrivateKey: base64.StdEncoding.EncodeToString(priv),
			})
			return nil
		},
	}
}

func newTokenHashCmd() *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:   "hash <token>",
		Short: "Bcrypt-hash a token for TRAILHUNT_ADMIN_TOKEN",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := bcrypt.GenerateFromPassword([]byte(args[0]), cost)
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(string(hash))
			return nil
		},
	}

	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "Bcrypt cost factor")

	return cmd
}

// decodePrivateKey accepts either a 64-byte private key or a 32-byte seed
func decodePrivateKey(encoded string) (ed25519.PrivateKey, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("invalid base64: %w", err)
	}
	switch len(raw) {
	case ed25519.PrivateKeySize:
		return ed25519.PrivateKey(raw), nil
	case ed25519.SeedSize:
		return ed25519.NewKeyFromSeed(raw), nil
	default:
		return nil, fmt.Errorf("ed25519 private key must be %d or %d bytes, got %d", ed25519.SeedSize, ed25519.PrivateKeySize, len(raw))
	}
}
