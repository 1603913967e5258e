package interfaces

import (
	"context"

	"github.com/secmon-lab/juno/pkg/domain/model"
)

// TokenSource yields the bearer token attached to API requests. An empty
// token means the request is sent anonymously.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenVerifier validates an identity provider ID token
type TokenVerifier interface {
	Verify(ctx context.Context, idToken string) (*model.Claims, error)
}
