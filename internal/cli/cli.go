// Package cli implements the bpsync command-line interface.
//
// This package provides commands for inspecting Basispoort institutions,
// managing hosted license provider methods and products, and changing
// license permissions in bulk. The CLI is built using cobra and supports
// verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - environments: List known Basispoort environments
//   - institutions: Inspect institutions, students, and staff
//   - methods: Manage hosted license provider methods and their users
//   - products: Manage products within a method
//   - permissions: Grant or revoke license permissions in bulk
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging; repeating
// the flag (-vv) additionally logs raw request and response payloads.
package cli

import (
	"io"
	"net/url"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/scholenwerk/basispoort-client/pkg/buildinfo"
	"github.com/scholenwerk/basispoort-client/pkg/hostedlicense"
	"github.com/scholenwerk/basispoort-client/pkg/institutions"
	"github.com/scholenwerk/basispoort-client/pkg/rest"

	"github.com/scholenwerk/basispoort-client/pkg/errors"
)

// appName is the application name used for config lookup and display.
const appName = "bpsync"

// Log levels exported for use in main.go.
const (
	LogTrace = rest.LevelTrace
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	config     *Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "bpsync manages Basispoort institutions and license permissions",
		Long:         `bpsync is a CLI tool for publishers integrating with the Basispoort SSO platform: it inspects institutions and rosters, manages hosted license provider methods and products, and grants or revokes license permissions.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to the TOML config file (default: bpsync.toml if present)")

	root.AddCommand(c.environmentsCommand())
	root.AddCommand(c.institutionsCommand())
	root.AddCommand(c.methodsCommand())
	root.AddCommand(c.productsCommand())
	root.AddCommand(c.permissionsCommand())

	return root
}

// loadConfig loads and caches the resolved configuration.
func (c *CLI) loadConfig() (*Config, error) {
	if c.config != nil {
		return c.config, nil
	}

	path := c.configPath
	if path == "" {
		if _, err := os.Stat(appName + ".toml"); err == nil {
			path = appName + ".toml"
		}
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	c.config = cfg
	return cfg, nil
}

// restClient builds the shared transport from the configuration.
func (c *CLI) restClient() (*rest.Client, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}

	env, err := rest.ParseEnvironment(cfg.Environment)
	if err != nil {
		return nil, err
	}

	builder := rest.NewClientBuilder(cfg.CertificateFile, env).Logger(c.Logger)
	if cfg.BaseURL != "" {
		base, err := url.Parse(cfg.BaseURL)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidURL, err, "parsing base URL override %q", cfg.BaseURL)
		}
		builder.BaseURL(base)
	}

	return builder.Build()
}

// institutionsClient builds an institutions service client.
func (c *CLI) institutionsClient() (*institutions.Client, error) {
	rc, err := c.restClient()
	if err != nil {
		return nil, err
	}
	return institutions.NewClient(rc), nil
}

// licenseClient builds a hosted license provider client. The identity
// code must be configured.
func (c *CLI) licenseClient() (*hostedlicense.Client, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	rc, err := c.restClient()
	if err != nil {
		return nil, err
	}
	return hostedlicense.NewClient(rc, cfg.IdentityCode)
}
