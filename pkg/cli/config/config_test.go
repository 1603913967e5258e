package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/juno/pkg/cli/config"
	"github.com/secmon-lab/juno/pkg/service/identity"
	"github.com/secmon-lab/juno/pkg/utils/logging"
)

type setFlags map[string]bool

func (x setFlags) IsSet(name string) bool { return x[name] }

func writeProfile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "juno.toml")
	gt.NoError(t, os.WriteFile(path, []byte(body), 0o600)).Required()
	return path
}

func TestLoadProfile(t *testing.T) {
	testCases := []struct {
		name    string
		body    string
		wantErr error
		check   func(t *testing.T, p *config.Profile)
	}{
		{
			name: "full profile",
			body: `
[api]
base_url = "https://juno.example.com"
circuit_breaker = false

[cognito]
user_pool_id = "us-east-1_AbCdEf"
client_id = "client-1"

[storage]
attachment_bucket = "juno-files"
`,
			check: func(t *testing.T, p *config.Profile) {
				gt.Value(t, p.API.BaseURL).Equal("https://juno.example.com")
				gt.Value(t, p.API.CircuitBreaker).NotNil()
				gt.Bool(t, *p.API.CircuitBreaker).False()
				gt.Value(t, p.Cognito.UserPoolID).Equal("us-east-1_AbCdEf")
				gt.Value(t, p.Cognito.ClientID).Equal("client-1")
				gt.Value(t, p.Storage.AttachmentBucket).Equal("juno-files")
			},
		},
		{
			name: "breaker omitted",
			body: "[api]\nbase_url = \"http://localhost:9000\"\n",
			check: func(t *testing.T, p *config.Profile) {
				gt.Value(t, p.API.BaseURL).Equal("http://localhost:9000")
				gt.Value(t, p.API.CircuitBreaker).Nil()
			},
		},
		{
			name:    "broken TOML",
			body:    "[api\nbase_url = ",
			wantErr: config.ErrInvalidConfig,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := config.LoadProfile(writeProfile(t, tc.body))
			if tc.wantErr != nil {
				gt.Bool(t, errors.Is(err, tc.wantErr)).True()
				return
			}
			gt.NoError(t, err).Required()
			tc.check(t, p)
		})
	}
}

func TestLoadProfile_Paths(t *testing.T) {
	t.Run("empty path yields empty profile", func(t *testing.T) {
		p, err := config.LoadProfile("")
		gt.NoError(t, err).Required()
		gt.Value(t, p.API.BaseURL).Equal("")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.LoadProfile(filepath.Join(t.TempDir(), "none.toml"))
		gt.Bool(t, errors.Is(err, config.ErrConfigNotFound)).True()
	})
}

func TestAPI_Merge(t *testing.T) {
	off := false
	profile := &config.Profile{
		API:     config.ProfileAPI{BaseURL: "https://profile.example.com", CircuitBreaker: &off},
		Cognito: config.ProfileCognito{UserPoolID: "pool-from-file", ClientID: "client-from-file", IDToken: "token-from-file"},
		Storage: config.ProfileStorage{AttachmentBucket: "bucket-from-file"},
	}

	t.Run("profile fills unset flags", func(t *testing.T) {
		api := config.NewAPIForTest(config.DefaultBaseURL, "", "", "", true)
		api.Merge(setFlags{}, profile)

		gt.Value(t, api.BaseURL()).Equal("https://profile.example.com")
		gt.Value(t, api.IDToken()).Equal("token-from-file")
		pool, client, breaker := api.CredentialsForTest()
		gt.Value(t, pool).Equal("pool-from-file")
		gt.Value(t, client).Equal("client-from-file")
		gt.Bool(t, breaker).False()
	})

	t.Run("flags win over profile", func(t *testing.T) {
		api := config.NewAPIForTest("http://flag.example.com", "pool-from-flag", "", "", true)
		api.Merge(setFlags{"api-base-url": true, "cognito-user-pool-id": true, "circuit-breaker": true}, profile)

		gt.Value(t, api.BaseURL()).Equal("http://flag.example.com")
		pool, client, breaker := api.CredentialsForTest()
		gt.Value(t, pool).Equal("pool-from-flag")
		gt.Value(t, client).Equal("client-from-file")
		gt.Bool(t, breaker).True()
	})

	t.Run("storage bucket", func(t *testing.T) {
		var s config.Storage
		s.Merge(setFlags{}, profile)
		gt.Value(t, s.BucketForTest()).Equal("bucket-from-file")
	})
}

func TestAPI_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{name: "http", baseURL: "http://localhost:8000"},
		{name: "https with path", baseURL: "https://juno.example.com/api"},
		{name: "no scheme", baseURL: "localhost:8000", wantErr: true},
		{name: "ftp", baseURL: "ftp://juno.example.com", wantErr: true},
		{name: "empty", baseURL: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := config.NewAPIForTest(tc.baseURL, "", "", "", false).Validate()
			if tc.wantErr {
				gt.Bool(t, errors.Is(err, config.ErrInvalidConfig)).True()
				return
			}
			gt.NoError(t, err)
		})
	}
}

func TestAPI_ConfigureWithoutCognito(t *testing.T) {
	api := config.NewAPIForTest("http://localhost:8000", "", "", "", true)
	client, session, verifier, err := api.Configure(context.Background())
	gt.NoError(t, err).Required()
	gt.Value(t, client).NotNil()
	gt.Value(t, session).NotNil()
	gt.Bool(t, verifier.Configured()).False()

	_, err = verifier.Verify(context.Background(), "token")
	gt.Bool(t, errors.Is(err, identity.ErrNotConfigured)).True()
}

func TestLogger_Configure(t *testing.T) {
	orig := logging.Default()
	t.Cleanup(func() { logging.SetDefault(orig) })

	testCases := []struct {
		name    string
		level   string
		format  string
		wantErr bool
	}{
		{name: "defaults", level: "info", format: "console"},
		{name: "json debug", level: "debug", format: "json"},
		{name: "upper case", level: "WARN", format: "JSON"},
		{name: "unknown level", level: "verbose", format: "console", wantErr: true},
		{name: "unknown format", level: "info", format: "xml", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			output := filepath.Join(t.TempDir(), "juno.log")
			closer, err := config.NewLoggerForTest(tc.level, tc.format, output).Configure()
			if tc.wantErr {
				gt.Bool(t, errors.Is(err, config.ErrInvalidConfig)).True()
				return
			}
			gt.NoError(t, err).Required()
			defer closer()

			logging.Default().Warn("configured")
			data, err := os.ReadFile(output)
			gt.NoError(t, err).Required()
			gt.String(t, string(data)).Contains("configured")
		})
	}
}
