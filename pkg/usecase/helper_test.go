package usecase_test

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/juno/pkg/domain/model"
	"github.com/secmon-lab/juno/pkg/service/identity"
	"github.com/secmon-lab/juno/pkg/service/juno"
	"github.com/secmon-lab/juno/pkg/service/juno/junotest"
	"github.com/secmon-lab/juno/pkg/usecase"
)

// fakeVerifier accepts tokens of the form "token-<sub>"
type fakeVerifier struct {
	claims map[string]*model.Claims
}

func (v *fakeVerifier) Verify(ctx context.Context, idToken string) (*model.Claims, error) {
	c, ok := v.claims[idToken]
	if !ok {
		return nil, goerr.Wrap(identity.ErrInvalidToken, "unknown token")
	}
	return c, nil
}

func newVerifier(users ...string) *fakeVerifier {
	v := &fakeVerifier{claims: map[string]*model.Claims{}}
	for _, u := range users {
		v.claims["token-"+u] = &model.Claims{
			Subject:   "sub-" + u,
			Username:  u,
			Email:     u + "@example.com",
			ExpiresAt: time.Now().Add(time.Hour),
		}
	}
	return v
}

type memoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (s *memoryStorage) Upload(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[name] = buf.Bytes()
	return "https://files.example.com/" + name, nil
}

type fixture struct {
	srv *junotest.Server
	uc  *usecase.UseCases
}

func setup(t *testing.T, opts ...usecase.Option) *fixture {
	t.Helper()

	srv := junotest.New(t)
	session := identity.NewSession()
	client := juno.NewClient(juno.NewTransport(srv.URL, juno.WithTokenSource(session)))

	opts = append([]usecase.Option{
		usecase.WithSession(session),
		usecase.WithVerifier(newVerifier("alice", "bob")),
		usecase.WithClock(func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) }),
	}, opts...)

	return &fixture{srv: srv, uc: usecase.New(client, opts...)}
}
