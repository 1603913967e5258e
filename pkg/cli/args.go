package cli

import (
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/juno/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

var (
	errMissingArgument = goerr.New("missing argument")
	errInvalidArgument = goerr.New("invalid argument")
)

// argID parses the n-th positional argument as an ID
func argID(c *cli.Command, n int, name string) (int64, error) {
	if c.Args().Len() <= n {
		return 0, goerr.Wrap(errMissingArgument, "argument is required", goerr.V("name", name))
	}
	v := c.Args().Get(n)
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, goerr.Wrap(errInvalidArgument, "argument must be a positive integer", goerr.V("name", name), goerr.V("value", v))
	}
	return id, nil
}

// argText returns the n-th positional argument
func argText(c *cli.Command, n int, name string) (string, error) {
	if c.Args().Len() <= n {
		return "", goerr.Wrap(errMissingArgument, "argument is required", goerr.V("name", name))
	}
	return c.Args().Get(n), nil
}

// flagDate parses an optional date flag. An empty value is the zero date.
func flagDate(c *cli.Command, name string) (model.Date, error) {
	s := c.String(name)
	if s == "" {
		return model.Date{}, nil
	}
	d, err := model.ParseDate(s)
	if err != nil {
		return model.Date{}, goerr.Wrap(err, "invalid date", goerr.V("flag", name))
	}
	return d, nil
}

func (e *environment) fail(err error, what string) error {
	printError(e.errOut(), err, what)
	return err
}
