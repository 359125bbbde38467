// Package pipeline provides the catalog build pipeline for labindex.
//
// The pipeline lists an organization's public repositories, filters them by
// name, probes each repository's published site for a metadata document,
// normalizes the discovered records and writes one sorted catalog file.
//
// # Architecture
//
// The pipeline runs these stages, strictly in sequence:
//
//  1. List: page through the organization's public repositories
//  2. Filter: apply the allow and block name sets
//  3. Probe: look for a metadata document on each repository's site
//  4. Normalize: map every discovered record to a [catalog.Item]
//  5. Write: sort the items and store the catalog atomically
//
// A repository whose site serves nothing may additionally get an inert
// existence check of a YAML metadata file through the contents API. That
// check never contributes items.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Org:    "acme",
//	    Token:  os.Getenv("GITHUB_TOKEN"),
//	    Output: "data/catalog.json",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Stats.Items)
package pipeline

import (
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/labindex/pkg/catalog"
	"github.com/matzehuels/labindex/pkg/errors"
	"github.com/matzehuels/labindex/pkg/integrations"
	"github.com/matzehuels/labindex/pkg/integrations/github"
	"github.com/matzehuels/labindex/pkg/integrations/pages"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultOutput is where the catalog is written when no path is configured.
	DefaultOutput = "data/catalog.json"

	// DefaultFallbackPath is the YAML metadata file checked when a site serves nothing.
	DefaultFallbackPath = "catalog.yml"

	// DefaultHTTPTimeout bounds every outgoing request.
	DefaultHTTPTimeout = integrations.DefaultTimeout
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one catalog build.
type Options struct {
	// Org is the organization whose repositories are indexed.
	Org string
	// Token authenticates listing and contents API calls.
	Token string
	// Output is the catalog file path.
	Output string

	// Allow restricts the build to these repository names when non-empty.
	Allow []string
	// Block excludes these repository names; it wins over Allow.
	Block []string

	APIURL       string   // GitHub REST API base URL
	SiteURL      string   // site URL template with {org} and {repo}
	MetadataFile string   // document name looked up on each site
	Candidates   []string // site sub-paths tried in order
	License      string   // license for records without one
	MaxPages     int      // listing page limit, 0 for unlimited

	// Fallback enables the contents API check for FallbackPath.
	Fallback     bool
	FallbackPath string

	HTTPTimeout time.Duration

	// Runtime options
	Logger     *log.Logger
	HTTPClient *http.Client

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Catalog is the document that was (or would be) written.
	Catalog *catalog.Catalog

	// Path is where the catalog was written; empty for [Runner.Collect].
	Path string

	// Duplicates lists item ids that occur more than once.
	Duplicates []catalog.Duplicate

	// Stats contains counts and timings.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Listed        int // repositories returned by the listing
	Selected      int // repositories left after filtering
	Found         int // repositories whose site served items
	Empty         int // sites that served a document without items
	Unavailable   int // sites with no usable document
	FallbackFound int // repositories carrying the YAML fallback file
	Items         int
	Duplicates    int

	ListTime  time.Duration
	ProbeTime time.Duration
	Duration  time.Duration
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// Calling it more than once has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForList(); err != nil {
		return err
	}

	if o.Output == "" {
		o.Output = DefaultOutput
	}
	if o.SiteURL == "" {
		o.SiteURL = pages.DefaultSiteURL
	}
	if o.MetadataFile == "" {
		o.MetadataFile = pages.DefaultFile
	}
	if o.Candidates == nil {
		o.Candidates = pages.DefaultCandidates
	}
	if o.License == "" {
		o.License = catalog.DefaultLicense
	}
	if o.FallbackPath == "" {
		o.FallbackPath = DefaultFallbackPath
	}

	o.validated = true
	return nil
}

// ValidateForList checks the fields needed to list repositories.
func (o *Options) ValidateForList() error {
	if o.Token == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "GitHub token is required (set GITHUB_TOKEN)")
	}
	if o.Org == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "organization is required (set GITHUB_ORG or --org)")
	}
	if err := github.ValidateOwner(o.Org); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid organization")
	}

	if o.APIURL == "" {
		o.APIURL = github.DefaultBaseURL
	}
	if o.HTTPTimeout == 0 {
		o.HTTPTimeout = DefaultHTTPTimeout
	}
	if o.HTTPClient == nil {
		o.HTTPClient = integrations.NewHTTPClient(o.HTTPTimeout)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

func (o *Options) contentClient() *github.ContentClient {
	return github.NewContentClient(o.Token, github.Options{
		BaseURL:    o.APIURL,
		HTTPClient: o.HTTPClient,
		MaxPages:   o.MaxPages,
	})
}

func (o *Options) prober() *pages.Prober {
	return pages.NewProber(o.Org, pages.Options{
		SiteURL:    o.SiteURL,
		File:       o.MetadataFile,
		Candidates: o.Candidates,
		HTTPClient: o.HTTPClient,
	})
}
