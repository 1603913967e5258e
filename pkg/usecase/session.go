package usecase

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/juno/pkg/domain/interfaces"
	"github.com/secmon-lab/juno/pkg/domain/model"
	"github.com/secmon-lab/juno/pkg/service/identity"
	"github.com/secmon-lab/juno/pkg/service/juno"
	"github.com/secmon-lab/juno/pkg/utils/logging"
)

// SessionUseCase signs identities in and out. Every identity change
// resets the query cache so no data leaks between users.
type SessionUseCase struct {
	client   *juno.Client
	session  *identity.Session
	verifier interfaces.TokenVerifier

	mu   sync.Mutex
	user *model.User
}

func NewSessionUseCase(client *juno.Client, session *identity.Session, verifier interfaces.TokenVerifier) *SessionUseCase {
	return &SessionUseCase{
		client:   client,
		session:  session,
		verifier: verifier,
	}
}

// SignIn verifies the ID token, switches the session to its identity and
// loads the matching Juno user, registering it on first sign in.
func (uc *SessionUseCase) SignIn(ctx context.Context, idToken string) (*model.User, error) {
	if uc.verifier == nil {
		return nil, goerr.Wrap(ErrVerifierNotDefined, "cannot sign in")
	}

	claims, err := uc.verifier.Verify(ctx, idToken)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to verify ID token")
	}

	previous := uc.session.Set(idToken, claims)
	if previous != claims.Subject {
		uc.client.ResetCache(ctx)
		uc.mu.Lock()
		uc.user = nil
		uc.mu.Unlock()
		logging.From(ctx).Info("identity switched", "sub", claims.Subject, "username", claims.Username)
	}

	return uc.loadUser(ctx, claims)
}

// SignOut clears the token and every cached result
func (uc *SessionUseCase) SignOut(ctx context.Context) {
	uc.session.Clear()
	uc.client.ResetCache(ctx)

	uc.mu.Lock()
	uc.user = nil
	uc.mu.Unlock()

	logging.From(ctx).Info("signed out")
}

// Claims returns the signed in identity, or nil
func (uc *SessionUseCase) Claims() *model.Claims {
	return uc.session.Claims()
}

// CurrentUser returns the Juno user of the signed in identity
func (uc *SessionUseCase) CurrentUser(ctx context.Context) (*model.User, error) {
	claims := uc.session.Claims()
	if claims == nil {
		return nil, goerr.Wrap(ErrNotSignedIn, "no identity in session")
	}

	uc.mu.Lock()
	user := uc.user
	uc.mu.Unlock()
	if user != nil && user.CognitoID == claims.Subject {
		return user, nil
	}
	return uc.loadUser(ctx, claims)
}

func (uc *SessionUseCase) loadUser(ctx context.Context, claims *model.Claims) (*model.User, error) {
	user, err := uc.client.GetUser(ctx, claims.Subject)
	if juno.IsNotFound(err) {
		logging.From(ctx).Info("registering new user", "sub", claims.Subject)
		user, err = uc.client.CreateUser(ctx, claims.UserInput())
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load signed in user", goerr.V(SubjectKey, claims.Subject))
	}

	uc.mu.Lock()
	uc.user = user
	uc.mu.Unlock()
	return user, nil
}
