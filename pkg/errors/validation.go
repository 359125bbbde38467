package errors

import (
	"net/url"
	"strings"
	"unicode"
)

const maxPathLength = 500

// ValidatePath checks a relative path that is joined onto a site URL or a
// contents API URL: metadata file names, candidate sub-paths and the
// fallback file. It must be non-empty, relative, free of control
// characters, backslashes and "..", and at most 500 bytes long.
func ValidatePath(path string) error {
	switch {
	case path == "":
		return New(ErrCodeInvalidPath, "path is empty")
	case len(path) > maxPathLength:
		return New(ErrCodeInvalidPath, "path is longer than %d bytes", maxPathLength)
	case strings.IndexFunc(path, unicode.IsControl) >= 0:
		return New(ErrCodeInvalidPath, "path %q contains control characters", path)
	case strings.HasPrefix(path, "/"):
		return New(ErrCodeInvalidPath, "path %q is absolute", path)
	case strings.Contains(path, ".."):
		return New(ErrCodeInvalidPath, "path %q escapes its base with ..", path)
	case strings.Contains(path, `\`):
		return New(ErrCodeInvalidPath, "path %q contains a backslash", path)
	}
	return nil
}

// ValidateURL checks that rawURL is an absolute http(s) URL with a host.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL is empty")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "parse URL %q", rawURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidInput, "URL %q must use http or https", rawURL)
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "URL %q has no host", rawURL)
	}
	return nil
}
