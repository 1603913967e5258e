package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

// Profile is the optional TOML file holding connection settings. Flags and
// environment variables take precedence over its values.
type Profile struct {
	API     ProfileAPI     `toml:"api"`
	Cognito ProfileCognito `toml:"cognito"`
	Storage ProfileStorage `toml:"storage"`
}

type ProfileAPI struct {
	BaseURL        string `toml:"base_url"`
	CircuitBreaker *bool  `toml:"circuit_breaker"`
}

type ProfileCognito struct {
	UserPoolID string `toml:"user_pool_id"`
	ClientID   string `toml:"client_id"`
	IDToken    string `toml:"id_token"`
}

type ProfileStorage struct {
	AttachmentBucket string `toml:"attachment_bucket"`
	Emulator         string `toml:"emulator"`
}

// LoadProfile reads a profile. An empty path yields an empty profile.
func LoadProfile(path string) (*Profile, error) {
	if path == "" {
		return &Profile{}, nil
	}

	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "profile does not exist", goerr.V(PathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read profile", goerr.V(PathKey, path))
	}

	var p Profile
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse TOML profile", goerr.V(PathKey, path), goerr.V("error", err.Error()))
	}
	return &p, nil
}

// flagSource reports whether a flag was given on the command line or by env
type flagSource interface {
	IsSet(name string) bool
}

func merge(c flagSource, flag string, dst *string, value string) {
	if value != "" && !c.IsSet(flag) {
		*dst = value
	}
}
