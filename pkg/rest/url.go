package rest

import (
	"net/url"
	"strings"

	"github.com/scholenwerk/basispoort-client/pkg/errors"
)

// Expand substitutes {name} placeholders in a path template with
// percent-encoded values. Pairs are alternating placeholder names and
// raw values:
//
//	Expand("instellingen/{id}/leerlingen", "id", institutionID.String())
//
// Values are escaped with url.PathEscape, so raw identifiers survive
// the round trip through the path byte-for-byte. Expansion fails when a
// named placeholder is absent from the template or when placeholders
// remain unresolved afterwards.
func Expand(template string, pairs ...string) (string, error) {
	if len(pairs)%2 != 0 {
		return "", errors.New(errors.ErrCodeInvalidInput, "placeholder pairs must come in name/value couples, got %d arguments", len(pairs))
	}

	for i := 0; i < len(pairs); i += 2 {
		placeholder := "{" + pairs[i] + "}"
		if !strings.Contains(template, placeholder) {
			return "", errors.New(errors.ErrCodeInvalidURL, "path template %q has no placeholder %q", template, placeholder)
		}
		template = strings.ReplaceAll(template, placeholder, url.PathEscape(pairs[i+1]))
	}

	if strings.ContainsAny(template, "{}") {
		return "", errors.New(errors.ErrCodeInvalidURL, "path template has unresolved placeholders: %q", template)
	}

	return template, nil
}

// joinURL resolves a relative endpoint path against the base URL.
// The base must end in a path separator and the path must be relative;
// both rules exist because url.URL.ResolveReference silently drops the
// base's last segment (or its entire path) otherwise.
func joinURL(base *url.URL, path string) (*url.URL, error) {
	if !strings.HasSuffix(base.Path, "/") {
		return nil, errors.New(errors.ErrCodeInvalidURL, "base URL %q does not end with a path separator", base)
	}
	if strings.HasPrefix(path, "/") {
		return nil, errors.New(errors.ErrCodeInvalidURL, "endpoint path %q must be relative", path)
	}

	ref, err := url.Parse(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidURL, err, "parsing endpoint path %q", path)
	}

	return base.ResolveReference(ref), nil
}
