package auth

import (
	"context"
	"errors"

	"github.com/coreos/go-oidc/v3/oidc"
)

// ExternalVerifier checks a bearer token issued by an outside identity
// provider and returns the verified email it carries.
type ExternalVerifier interface {
	VerifyEmail(ctx context.Context, rawToken string) (string, error)
}

type OIDCVerifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewOIDCVerifier discovers issuer's keys and verifies ID tokens minted for clientID.
func NewOIDCVerifier(ctx context.Context, issuer, clientID string) (*OIDCVerifier, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, err
	}
	return NewOIDCVerifierFrom(provider.Verifier(&oidc.Config{ClientID: clientID})), nil
}

func NewOIDCVerifierFrom(v *oidc.IDTokenVerifier) *OIDCVerifier {
	return &OIDCVerifier{verifier: v}
}

func (v *OIDCVerifier) VerifyEmail(ctx context.Context, rawToken string) (string, error) {
	token, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return "", err
	}

	var claims struct {
		Email         string `json:"email"`
		EmailVerified *bool  `json:"email_verified"`
	}
	if err := token.Claims(&claims); err != nil {
		return "", err
	}
	if claims.Email == "" {
		return "", errors.New("id token has no email claim")
	}
	if claims.EmailVerified != nil && !*claims.EmailVerified {
		return "", errors.New("id token email is not verified")
	}
	return claims.Email, nil
}
