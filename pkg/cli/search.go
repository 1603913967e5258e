package cli

import (
	"bufio"
	"context"
	"fmt"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/juno/pkg/domain/model"
	"github.com/secmon-lab/juno/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdSearch(env *environment) *cli.Command {
	var interactive bool

	return &cli.Command{
		Name:      "search",
		Usage:     "Search tasks, projects and users",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "interactive",
				Aliases:     []string{"i"},
				Usage:       "Read the search box content line by line from stdin",
				Destination: &interactive,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, err := env.useCases(ctx)
			if err != nil {
				return err
			}
			if interactive {
				return searchInteractive(ctx, env, uc)
			}

			q, err := argText(c, 0, "query")
			if err != nil {
				return err
			}
			result, err := uc.Search.Search(ctx, q)
			if err != nil {
				return env.fail(err, "search result")
			}
			renderSearch(env.out, result)
			return nil
		},
	}
}

// searchInteractive treats every stdin line as the new content of the
// search box. Only inputs that stay unchanged for the debounce window are
// sent. The last line is searched right away at EOF.
func searchInteractive(ctx context.Context, env *environment, uc *usecase.UseCases) error {
	var mu sync.Mutex
	box := uc.Search.NewSearchBox(ctx, func(r usecase.SearchResponse[*model.SearchResult]) {
		mu.Lock()
		defer mu.Unlock()

		switch {
		case r.Skipped:
			_, _ = fmt.Fprintf(env.out, "%q: type at least %d characters\n", r.Query, usecase.GlobalSearch.MinLength)
		case r.Err != nil:
			printError(env.errOut(), r.Err, "search result")
		default:
			_, _ = fmt.Fprintf(env.out, "%s %q\n", headerColor.Sprint("results for"), r.Query)
			renderSearch(env.out, r.Result)
		}
	})
	defer box.Close()

	scanner := bufio.NewScanner(env.in)
	for scanner.Scan() {
		box.Input(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return goerr.Wrap(err, "failed to read search input")
	}

	box.Flush()
	return nil
}
