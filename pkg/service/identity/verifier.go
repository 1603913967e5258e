// Package identity verifies Cognito ID tokens and holds the signed in session.
package identity

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/juno/pkg/domain/model"
)

// Placeholder is used for identity provider settings that are not
// configured. Startup goes on and verification fails later.
const Placeholder = " "

var (
	ErrNotConfigured = goerr.New("identity provider is not configured")
	ErrInvalidToken  = goerr.New("invalid ID token")
)

// Verifier validates Cognito ID tokens against the user pool's JWKS
type Verifier struct {
	userPoolID string
	clientID   string
	issuer     string
	jwksURL    string

	mu     sync.Mutex
	keySet jwk.Set
}

// VerifierOption configures a Verifier
type VerifierOption func(*Verifier)

// WithKeySet uses a fixed key set instead of fetching the pool's JWKS
func WithKeySet(set jwk.Set) VerifierOption {
	return func(v *Verifier) {
		v.keySet = set
	}
}

// WithIssuer overrides the expected issuer
func WithIssuer(issuer string) VerifierOption {
	return func(v *Verifier) {
		v.issuer = issuer
		v.jwksURL = strings.TrimRight(issuer, "/") + "/.well-known/jwks.json"
	}
}

// NewVerifier creates a Verifier for the user pool. Empty settings fall
// back to Placeholder.
func NewVerifier(userPoolID, clientID string, opts ...VerifierOption) *Verifier {
	if strings.TrimSpace(userPoolID) == "" {
		userPoolID = Placeholder
	}
	if strings.TrimSpace(clientID) == "" {
		clientID = Placeholder
	}

	v := &Verifier{userPoolID: userPoolID, clientID: clientID}
	if region, ok := Region(userPoolID); ok {
		v.issuer = fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", region, userPoolID)
		v.jwksURL = v.issuer + "/.well-known/jwks.json"
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Region returns the AWS region encoded as the pool ID prefix
func Region(userPoolID string) (string, bool) {
	region, _, ok := strings.Cut(strings.TrimSpace(userPoolID), "_")
	if !ok || region == "" {
		return "", false
	}
	return region, true
}

// Configured reports whether both the pool and the client are set
func (v *Verifier) Configured() bool {
	return v.issuer != "" && strings.TrimSpace(v.clientID) != ""
}

// Issuer returns the expected token issuer
func (v *Verifier) Issuer() string {
	return v.issuer
}

// JWKSURL returns where the signing keys are fetched from
func (v *Verifier) JWKSURL() string {
	return v.jwksURL
}

func (v *Verifier) keys(ctx context.Context) (jwk.Set, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.keySet != nil {
		return v.keySet, nil
	}
	set, err := jwk.Fetch(ctx, v.jwksURL)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch Cognito public keys", goerr.V("jwks_uri", v.jwksURL))
	}
	v.keySet = set
	return set, nil
}

// Verify checks the signature, issuer, audience and expiry of an ID token
// and returns its identity claims.
func (v *Verifier) Verify(ctx context.Context, idToken string) (*model.Claims, error) {
	if !v.Configured() {
		return nil, goerr.Wrap(ErrNotConfigured, "cannot verify ID token",
			goerr.V("user_pool_id", v.userPoolID))
	}

	set, err := v.keys(ctx)
	if err != nil {
		return nil, err
	}

	token, err := jwt.Parse([]byte(idToken),
		jwt.WithKeySet(set),
		jwt.WithValidate(true),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.clientID),
		jwt.WithAcceptableSkew(10*time.Second),
	)
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidToken, "failed to parse or verify JWT token", goerr.V("cause", err.Error()))
	}

	if use, ok := token.Get("token_use"); ok && use != "id" {
		return nil, goerr.Wrap(ErrInvalidToken, "token is not an ID token", goerr.V("token_use", use))
	}
	if token.Subject() == "" {
		return nil, goerr.Wrap(ErrInvalidToken, "sub claim not found in token")
	}

	claims := &model.Claims{
		Subject:   token.Subject(),
		ExpiresAt: token.Expiration(),
	}
	if username, ok := token.Get("cognito:username"); ok {
		if s, ok := username.(string); ok {
			claims.Username = s
		}
	}
	if email, ok := token.Get("email"); ok {
		if s, ok := email.(string); ok {
			claims.Email = s
		}
	}
	return claims, nil
}
