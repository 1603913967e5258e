package cli

import (
	"context"
	"net/http"
	"strings"

	"github.com/secmon-lab/juno/pkg/query"
	"github.com/secmon-lab/juno/pkg/service/juno"
	"github.com/urfave/cli/v3"
)

// symbolic returns params whose values are their own placeholders
func symbolic(ep *query.Endpoint) query.Params {
	p := query.Params{}
	for _, name := range ep.ParamNames() {
		p[name] = "{" + name + "}"
	}
	return p
}

func joinTags(tags []query.Tag) string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.String())
	}
	return strings.Join(names, ", ")
}

func cmdEndpoints(env *environment) *cli.Command {
	return &cli.Command{
		Name:  "endpoints",
		Usage: "Print the endpoint registry with its cache tags",
		Action: func(ctx context.Context, c *cli.Command) error {
			t := newTable(env.out, "NAME", "METHOD", "PATH", "PROVIDES", "INVALIDATES")
			for _, ep := range juno.NewRegistry().All() {
				method := ep.Method
				if method == "" {
					method = http.MethodGet
				}
				p := symbolic(ep)
				t.row(ep.Name, method, ep.Path, orNone(joinTags(ep.ProvidedTags(p, nil))), orNone(joinTags(ep.InvalidatedTags(p, nil))))
			}
			t.flush()
			return nil
		},
	}
}
