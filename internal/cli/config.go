package cli

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/scholenwerk/basispoort-client/pkg/errors"
)

// Config holds the bpsync configuration. Values come from a TOML file
// and can be overridden per key through BPSYNC_* environment variables.
type Config struct {
	// Environment selects the Basispoort environment
	// (test, acceptance, staging, production).
	Environment string `toml:"environment"`

	// BaseURL overrides the environment's base URL. Mainly useful for
	// pointing the CLI at a mock server. Must end with a slash.
	BaseURL string `toml:"base_url"`

	// CertificateFile is the path to the PEM file holding the client
	// certificate and private key.
	CertificateFile string `toml:"certificate_file"`

	// IdentityCode is the publisher's identity code for the hosted
	// license provider API.
	IdentityCode string `toml:"identity_code"`
}

// LoadConfig reads the TOML file at path (skipped when path is empty),
// applies BPSYNC_* environment overrides, and validates the result.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		meta, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.Wrap(errors.ErrCodeIO, err, "config file %q not found", path)
			}
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parsing config file %q", path)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"unknown config keys in %q: %s", path, strings.Join(keys, ", "))
		}
	}

	applyEnvOverrides(&cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("BPSYNC_ENVIRONMENT"); v != "" {
		cfg.Environment = v
	}
	if v := os.Getenv("BPSYNC_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("BPSYNC_CERTIFICATE_FILE"); v != "" {
		cfg.CertificateFile = v
	}
	if v := os.Getenv("BPSYNC_IDENTITY_CODE"); v != "" {
		cfg.IdentityCode = v
	}
}

func (cfg *Config) validate() error {
	if cfg.Environment == "" {
		return errors.New(errors.ErrCodeInvalidInput,
			"no environment configured: set 'environment' in the config file or BPSYNC_ENVIRONMENT")
	}
	if cfg.CertificateFile == "" {
		return errors.New(errors.ErrCodeInvalidInput,
			"no certificate configured: set 'certificate_file' in the config file or BPSYNC_CERTIFICATE_FILE")
	}
	if cfg.BaseURL != "" && !strings.HasSuffix(cfg.BaseURL, "/") {
		return errors.New(errors.ErrCodeInvalidInput,
			"base_url %q must end with a slash", cfg.BaseURL)
	}
	return nil
}
