package config

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/juno/pkg/service/identity"
	"github.com/secmon-lab/juno/pkg/service/juno"
	"github.com/secmon-lab/juno/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

const (
	DefaultBaseURL = "http://localhost:8000"

	breakerFailures = 5
	breakerTimeout  = 30 * time.Second
)

// API holds CLI flags for the Juno backend and the identity provider
type API struct {
	configPath string
	baseURL    string
	userPoolID string
	clientID   string
	idToken    string
	breaker    bool
}

func (x *API) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "TOML profile file",
			Sources:     cli.EnvVars("JUNO_CONFIG"),
			Destination: &x.configPath,
		},
		&cli.StringFlag{
			Name:        "api-base-url",
			Usage:       "Base URL of the Juno API",
			Category:    "API",
			Value:       DefaultBaseURL,
			Sources:     cli.EnvVars("JUNO_API_BASE_URL"),
			Destination: &x.baseURL,
		},
		&cli.BoolFlag{
			Name:        "circuit-breaker",
			Usage:       "Fail fast after consecutive server errors",
			Category:    "API",
			Value:       true,
			Sources:     cli.EnvVars("JUNO_CIRCUIT_BREAKER"),
			Destination: &x.breaker,
		},
		&cli.StringFlag{
			Name:        "cognito-user-pool-id",
			Usage:       "Cognito user pool ID (e.g. us-east-1_AbCdEf)",
			Category:    "Authentication",
			Sources:     cli.EnvVars("JUNO_COGNITO_USER_POOL_ID"),
			Destination: &x.userPoolID,
		},
		&cli.StringFlag{
			Name:        "cognito-client-id",
			Usage:       "Cognito app client ID",
			Category:    "Authentication",
			Sources:     cli.EnvVars("JUNO_COGNITO_CLIENT_ID"),
			Destination: &x.clientID,
		},
		&cli.StringFlag{
			Name:        "id-token",
			Usage:       "Cognito ID token. Requests are anonymous without it",
			Category:    "Authentication",
			Sources:     cli.EnvVars("JUNO_ID_TOKEN"),
			Destination: &x.idToken,
		},
	}
}

func (x API) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("config", x.configPath),
		slog.String("base-url", x.baseURL),
		slog.Bool("circuit-breaker", x.breaker),
		slog.String("user-pool-id", x.userPoolID),
		slog.Int("client-id.len", len(strings.TrimSpace(x.clientID))),
		slog.Int("id-token.len", len(x.idToken)),
	)
}

func (x *API) ConfigPath() string {
	return x.configPath
}

func (x *API) BaseURL() string {
	return x.baseURL
}

func (x *API) IDToken() string {
	return x.idToken
}

// Merge fills the settings that were not given by flag or env from the profile
func (x *API) Merge(c flagSource, p *Profile) {
	merge(c, "api-base-url", &x.baseURL, p.API.BaseURL)
	merge(c, "cognito-user-pool-id", &x.userPoolID, p.Cognito.UserPoolID)
	merge(c, "cognito-client-id", &x.clientID, p.Cognito.ClientID)
	merge(c, "id-token", &x.idToken, p.Cognito.IDToken)
	if p.API.CircuitBreaker != nil && !c.IsSet("circuit-breaker") {
		x.breaker = *p.API.CircuitBreaker
	}
}

// Validate checks the base URL. Missing Cognito settings are not an error.
func (x *API) Validate() error {
	u, err := url.Parse(x.baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return goerr.Wrap(ErrInvalidConfig, "invalid API base URL", goerr.V(FlagKey, "api-base-url"), goerr.V(ValueKey, x.baseURL))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return goerr.Wrap(ErrInvalidConfig, "API base URL must be http or https", goerr.V(FlagKey, "api-base-url"), goerr.V(ValueKey, x.baseURL))
	}
	return nil
}

// Configure builds the API client bound to a new session and the token verifier
func (x *API) Configure(ctx context.Context) (*juno.Client, *identity.Session, *identity.Verifier, error) {
	if err := x.Validate(); err != nil {
		return nil, nil, nil, err
	}

	session := identity.NewSession()
	opts := []juno.TransportOption{juno.WithTokenSource(session)}
	if x.breaker {
		opts = append(opts, juno.WithCircuitBreaker(breakerFailures, breakerTimeout))
	}

	client := juno.NewClient(juno.NewTransport(x.baseURL, opts...))
	verifier := identity.NewVerifier(x.userPoolID, x.clientID)
	logging.From(ctx).Debug("Using Juno API", "api", x, "cognito_configured", verifier.Configured())
	return client, session, verifier, nil
}
