package rest

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/scholenwerk/basispoort-client/pkg/errors"
)

// Environment identifies a Basispoort deployment target. Each
// environment maps to a fixed base URL; there is no default and no
// fallback for unrecognized tokens.
type Environment int

const (
	EnvironmentTest Environment = iota
	EnvironmentAcceptance
	EnvironmentStaging
	EnvironmentProduction
)

var environmentNames = map[Environment]string{
	EnvironmentTest:       "test",
	EnvironmentAcceptance: "acceptance",
	EnvironmentStaging:    "staging",
	EnvironmentProduction: "production",
}

// Base URLs end in a path separator so relative endpoint paths resolve
// against the full base instead of replacing its last segment.
var environmentBaseURLs = map[Environment]*url.URL{
	EnvironmentTest:       mustParseURL("https://test-rest.basispoort.nl/"),
	EnvironmentAcceptance: mustParseURL("https://acceptatie-rest.basispoort.nl/"),
	EnvironmentStaging:    mustParseURL("https://staging-rest.basispoort.nl/"),
	EnvironmentProduction: mustParseURL("https://rest.basispoort.nl/"),
}

func mustParseURL(raw string) *url.URL {
	u, err := url.Parse(raw)
	if err != nil {
		panic(fmt.Sprintf("rest: invalid built-in base URL %q: %v", raw, err))
	}
	return u
}

// Environments returns all known environments in declaration order.
func Environments() []Environment {
	return []Environment{
		EnvironmentTest,
		EnvironmentAcceptance,
		EnvironmentStaging,
		EnvironmentProduction,
	}
}

// ParseEnvironment maps an environment token to an Environment.
// Tokens are lowercase and matched exactly; anything else returns an
// UNKNOWN_ENVIRONMENT error.
func ParseEnvironment(token string) (Environment, error) {
	for env, name := range environmentNames {
		if token == name {
			return env, nil
		}
	}
	return 0, errors.New(errors.ErrCodeUnknownEnvironment, "unknown environment: %q", token)
}

// String returns the environment token.
func (e Environment) String() string {
	if name, ok := environmentNames[e]; ok {
		return name
	}
	return fmt.Sprintf("Environment(%d)", int(e))
}

// BaseURL returns a copy of the environment's base URL.
func (e Environment) BaseURL() *url.URL {
	base, ok := environmentBaseURLs[e]
	if !ok {
		panic(fmt.Sprintf("rest: no base URL for %v", e))
	}
	u := *base
	return &u
}

// ID is an opaque numeric Basispoort identifier. The service schema
// declares these signed, so values are carried verbatim, negative ones
// included.
type ID int64

// String returns the decimal representation of the ID.
func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}
