package cli

import (
	"context"

	"github.com/urfave/cli/v3"
)

func cmdWhoami(env *environment) *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "Show the signed in identity and backend user",
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, err := env.useCases(ctx)
			if err != nil {
				return err
			}
			user, err := uc.Session.CurrentUser(ctx)
			if err != nil {
				return err
			}

			t := newTable(env.out, "FIELD", "VALUE")
			t.row("id", id(user.ID))
			t.row("username", user.Username)
			t.row("email", orNone(user.Email))
			t.row("sub", user.CognitoID)
			if claims := uc.Session.Claims(); claims != nil {
				t.row("expires", claims.ExpiresAt.Format("2006-01-02 15:04:05 MST"))
			}
			t.flush()
			return nil
		},
	}
}
