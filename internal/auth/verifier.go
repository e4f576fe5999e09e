package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// IdentityUser is the authenticated account as asserted by the hosted
// identity provider. Token issuance is the provider's job; we only verify.
type IdentityUser struct {
	ID         string
	Email      string
	Metadata   map[string]any
	Identities []LinkedIdentity
}

// LinkedIdentity is one external account linked to the identity user.
type LinkedIdentity struct {
	Provider string
	Data     map[string]any
}

// Verifier validates identity-provider bearer tokens (HS256).
type Verifier struct {
	secret []byte
}

// NewVerifier builds a verifier for the provider's signing secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

type identityClaims struct {
	Email      string           `json:"email,omitempty"`
	Metadata   map[string]any   `json:"user_metadata,omitempty"`
	Identities []map[string]any `json:"identities,omitempty"`
	jwt.RegisteredClaims
}

// Verify validates the token signature and expiry and returns the identity.
func (v *Verifier) Verify(tokenStr string) (*IdentityUser, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &identityClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	}, jwt.WithExpirationRequired(), jwt.WithLeeway(30*time.Second))
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*identityClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.Subject == "" {
		return nil, errors.New("token missing subject")
	}

	user := &IdentityUser{
		ID:       claims.Subject,
		Email:    claims.Email,
		Metadata: claims.Metadata,
	}
	for _, raw := range claims.Identities {
		identity := LinkedIdentity{Data: raw}
		if provider, ok := raw["provider"].(string); ok {
			identity.Provider = provider
		}
		user.Identities = append(user.Identities, identity)
	}
	return user, nil
}
