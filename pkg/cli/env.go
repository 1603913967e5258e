package cli

import (
	"context"
	"io"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/juno/pkg/cli/config"
	"github.com/secmon-lab/juno/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// environment is shared by every subcommand. The API client is built on
// first use so that commands like endpoints run without a backend.
type environment struct {
	api     config.API
	storage config.Storage

	in   io.Reader
	out  io.Writer
	errW io.Writer

	mu      sync.Mutex
	uc      *usecase.UseCases
	closers []func()
}

func (e *environment) load(c *cli.Command) error {
	profile, err := config.LoadProfile(e.api.ConfigPath())
	if err != nil {
		return err
	}
	e.api.Merge(c, profile)
	e.storage.Merge(c, profile)
	return nil
}

// useCases connects to the API and signs in when an ID token is configured
func (e *environment) useCases(ctx context.Context) (*usecase.UseCases, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.uc != nil {
		return e.uc, nil
	}

	client, session, verifier, err := e.api.Configure(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to configure API client")
	}

	storage, closeStorage, err := e.storage.Configure(ctx)
	if err != nil {
		return nil, err
	}
	e.closers = append(e.closers, closeStorage)

	opts := []usecase.Option{
		usecase.WithSession(session),
		usecase.WithVerifier(verifier),
	}
	if storage != nil {
		opts = append(opts, usecase.WithFileStorage(storage))
	}
	uc := usecase.New(client, opts...)

	if token := e.api.IDToken(); token != "" {
		if _, err := uc.Session.SignIn(ctx, token); err != nil {
			return nil, goerr.Wrap(err, "failed to sign in")
		}
	}

	e.uc = uc
	return uc, nil
}

func (e *environment) errOut() io.Writer {
	if e.errW == nil {
		return e.out
	}
	return e.errW
}

func (e *environment) close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.uc != nil {
		e.uc.Client().Cache().Wait()
	}
	for _, f := range e.closers {
		f()
	}
	e.closers = nil
}
