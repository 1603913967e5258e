package cli

import (
	"context"
	"io"
	"os"

	"github.com/secmon-lab/juno/pkg/cli/config"
	"github.com/secmon-lab/juno/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func Run(ctx context.Context, args []string, version string) error {
	return run(ctx, args, version, os.Stdin, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, version string, in io.Reader, out, errOut io.Writer) error {
	var loggerCfg config.Logger
	var sentryCfg config.Sentry
	var closers []func()

	env := &environment{in: in, out: out, errW: errOut}

	flags := loggerCfg.Flags()
	flags = append(flags, sentryCfg.Flags()...)
	flags = append(flags, env.api.Flags()...)
	flags = append(flags, env.storage.Flags()...)

	app := &cli.Command{
		Name:      "juno",
		Usage:     "Juno project management client",
		Version:   version,
		Flags:     flags,
		Reader:    in,
		Writer:    out,
		ErrWriter: errOut,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			f, err := loggerCfg.Configure()
			if err != nil {
				return ctx, err
			}
			closers = append(closers, f)

			f, err = sentryCfg.Configure(version)
			if err != nil {
				return ctx, err
			}
			closers = append(closers, f)

			if err := env.load(c); err != nil {
				return ctx, err
			}

			logging.Default().Debug("Starting juno",
				"logger", loggerCfg,
				"sentry", sentryCfg,
				"api", env.api,
				"storage", env.storage,
			)
			return logging.With(ctx, logging.Default()), nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			env.close()
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
			return nil
		},
		Commands: []*cli.Command{
			cmdProjects(env),
			cmdTasks(env),
			cmdTeams(env),
			cmdUsers(env),
			cmdComments(env),
			cmdAttachments(env),
			cmdSearch(env),
			cmdDashboard(env),
			cmdWhoami(env),
			cmdEndpoints(env),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		logging.Default().Error("failed to run app", "error", err)
		return err
	}

	return nil
}
