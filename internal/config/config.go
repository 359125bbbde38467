// Package config defines labindex configuration and its loading.
//
// A Config is built once at startup by layering defaults, an optional
// YAML or TOML file and environment variables (see [Load]). Command-line
// flags are applied on top by the CLI.
package config

import (
	"strings"
	"time"

	"github.com/matzehuels/labindex/pkg/catalog"
	"github.com/matzehuels/labindex/pkg/errors"
	"github.com/matzehuels/labindex/pkg/integrations/github"
	"github.com/matzehuels/labindex/pkg/integrations/pages"
	"github.com/matzehuels/labindex/pkg/pipeline"
)

// Config contains process configuration.
type Config struct {
	// Token authenticates GitHub API calls. Read from GITHUB_TOKEN.
	Token string `koanf:"token"`

	// Org is the organization to index. Read from GITHUB_ORG.
	Org string `koanf:"org"`

	// Allow and Block are repository name lists (REPO_ALLOWLIST, REPO_BLOCKLIST).
	Allow []string `koanf:"allow"`
	Block []string `koanf:"block"`

	// Output is the catalog file path.
	Output string `koanf:"output"`

	// APIURL is the GitHub REST API base URL.
	APIURL string `koanf:"api_url"`

	// SiteURL is the site URL template; {org} and {repo} are substituted.
	SiteURL string `koanf:"site_url"`

	// MetadataFile is the document looked up under each candidate path.
	MetadataFile string `koanf:"metadata_file"`

	// Candidates are the site sub-paths tried in order.
	Candidates []string `koanf:"candidates"`

	// License applies to records that carry none.
	License string `koanf:"license"`

	// HTTPTimeout bounds each outgoing request.
	HTTPTimeout time.Duration `koanf:"http_timeout"`

	// MaxPages limits the repository listing; 0 is unlimited.
	MaxPages int `koanf:"max_pages"`

	Fallback Fallback `koanf:"fallback"`
	Metrics  Metrics  `koanf:"metrics"`
}

// Fallback configures the inert YAML metadata check.
type Fallback struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// Metrics configures the optional Pushgateway push.
type Metrics struct {
	// Pushgateway is the gateway base URL; empty disables pushing.
	Pushgateway string `koanf:"pushgateway"`
	Job         string `koanf:"job"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		Allow:        []string{},
		Block:        []string{},
		Output:       pipeline.DefaultOutput,
		APIURL:       github.DefaultBaseURL,
		SiteURL:      pages.DefaultSiteURL,
		MetadataFile: pages.DefaultFile,
		Candidates:   append([]string(nil), pages.DefaultCandidates...),
		License:      catalog.DefaultLicense,
		HTTPTimeout:  pipeline.DefaultHTTPTimeout,
		Fallback: Fallback{
			Enabled: true,
			Path:    pipeline.DefaultFallbackPath,
		},
		Metrics: Metrics{
			Job: "labindex",
		},
	}
}

// Validate reports the first configuration problem as an INVALID_CONFIG
// error. It makes no network calls.
func (c *Config) Validate() error {
	if c.Token == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "GitHub token is required (set GITHUB_TOKEN)")
	}
	if c.Org == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "organization is required (set GITHUB_ORG or --org)")
	}
	if err := github.ValidateOwner(c.Org); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "org")
	}
	if strings.TrimSpace(c.Output) == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "output path must not be empty")
	}
	if err := errors.ValidateURL(c.APIURL); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "api_url")
	}
	if err := errors.ValidateURL(pages.SiteURL(c.SiteURL, c.Org, "repo")); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "site_url")
	}
	if err := errors.ValidatePath(c.MetadataFile); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "metadata_file")
	}
	if len(c.Candidates) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "candidates must list at least one path")
	}
	for _, p := range c.Candidates {
		if p == "" {
			continue
		}
		if err := errors.ValidatePath(p); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "candidates")
		}
	}
	if c.HTTPTimeout <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "http_timeout must be positive")
	}
	if c.MaxPages < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "max_pages must not be negative")
	}
	if c.Fallback.Enabled {
		if err := errors.ValidatePath(c.Fallback.Path); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "fallback.path")
		}
	}
	if c.Metrics.Pushgateway != "" {
		if err := errors.ValidateURL(c.Metrics.Pushgateway); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "metrics.pushgateway")
		}
		if c.Metrics.Job == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "metrics.job must not be empty")
		}
	}
	return nil
}

// PipelineOptions converts the configuration into pipeline options.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Org:          c.Org,
		Token:        c.Token,
		Output:       c.Output,
		Allow:        c.Allow,
		Block:        c.Block,
		APIURL:       c.APIURL,
		SiteURL:      c.SiteURL,
		MetadataFile: c.MetadataFile,
		Candidates:   c.Candidates,
		License:      c.License,
		MaxPages:     c.MaxPages,
		Fallback:     c.Fallback.Enabled,
		FallbackPath: c.Fallback.Path,
		HTTPTimeout:  c.HTTPTimeout,
	}
}

// cleanNames trims list entries and drops blanks, so "a, b,,c" and
// ["a", " b", "", "c"] yield the same names.
func cleanNames(list []string) []string {
	out := []string{}
	for _, s := range list {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
