package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/juno/pkg/domain/model"
	"github.com/secmon-lab/juno/pkg/service/identity"
	"github.com/secmon-lab/juno/pkg/service/juno"
	"github.com/secmon-lab/juno/pkg/usecase"
)

func TestSession_SignInRegistersNewUser(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	user, err := f.uc.Session.SignIn(ctx, "token-alice")
	gt.NoError(t, err).Required()
	gt.Value(t, user.Username).Equal("alice")
	gt.Value(t, user.CognitoID).Equal("sub-alice")
	gt.Number(t, f.srv.Calls(juno.CreateUser)).Equal(1)

	current, err := f.uc.Session.CurrentUser(ctx)
	gt.NoError(t, err).Required()
	gt.Value(t, current.ID).Equal(user.ID)

	f.uc.Session.SignOut(ctx)
	again, err := f.uc.Session.SignIn(ctx, "token-alice")
	gt.NoError(t, err).Required()
	gt.Value(t, again.ID).Equal(user.ID)
	gt.Number(t, f.srv.Calls(juno.CreateUser)).Equal(1)
}

func TestSession_InvalidToken(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	_, err := f.uc.Session.SignIn(ctx, "forged")
	gt.Bool(t, errors.Is(err, identity.ErrInvalidToken)).True()
	gt.Value(t, f.uc.Session.Claims()).Nil()

	_, err = f.uc.Session.CurrentUser(ctx)
	gt.Bool(t, errors.Is(err, usecase.ErrNotSignedIn)).True()
}

func TestSession_NoVerifier(t *testing.T) {
	ctx := context.Background()
	f := setup(t, usecase.WithVerifier(nil))

	_, err := f.uc.Session.SignIn(ctx, "token-alice")
	gt.Bool(t, errors.Is(err, usecase.ErrVerifierNotDefined)).True()
}

func TestSession_IdentityChangeClearsCache(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.srv.AddProject(model.Project{Name: "Alpha"})

	_, err := f.uc.Session.SignIn(ctx, "token-alice")
	gt.NoError(t, err).Required()

	for range 2 {
		_, err = f.uc.Project.List(ctx)
		gt.NoError(t, err).Required()
	}
	gt.Number(t, f.srv.Calls(juno.GetProjects)).Equal(1)

	t.Run("same identity keeps cache", func(t *testing.T) {
		_, err := f.uc.Session.SignIn(ctx, "token-alice")
		gt.NoError(t, err).Required()
		_, err = f.uc.Project.List(ctx)
		gt.NoError(t, err).Required()
		gt.Number(t, f.srv.Calls(juno.GetProjects)).Equal(1)
	})

	t.Run("switch identity", func(t *testing.T) {
		user, err := f.uc.Session.SignIn(ctx, "token-bob")
		gt.NoError(t, err).Required()
		gt.Value(t, user.Username).Equal("bob")

		_, err = f.uc.Project.List(ctx)
		gt.NoError(t, err).Required()
		gt.Number(t, f.srv.Calls(juno.GetProjects)).Equal(2)
	})

	t.Run("sign out", func(t *testing.T) {
		f.uc.Session.SignOut(ctx)
		_, err := f.uc.Session.CurrentUser(ctx)
		gt.Bool(t, errors.Is(err, usecase.ErrNotSignedIn)).True()

		_, err = f.uc.Project.List(ctx)
		gt.NoError(t, err).Required()
		gt.Number(t, f.srv.Calls(juno.GetProjects)).Equal(3)
	})
}
