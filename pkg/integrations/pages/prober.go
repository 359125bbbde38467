package pages

import (
	"context"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/matzehuels/labindex/pkg/integrations"
)

const (
	// DefaultSiteURL is the base URL template of a repository's site.
	DefaultSiteURL = "https://{org}.github.io/{repo}/"

	// DefaultFile is the metadata document name looked up under each candidate.
	DefaultFile = "catalog.json"
)

// DefaultCandidates are the sub-paths tried, in order: site root, then docs/.
var DefaultCandidates = []string{"", "docs/"}

// Status is the outcome of fetching one candidate document.
type Status int

const (
	// StatusUnavailable means the request failed, was not 2xx, or was not JSON.
	StatusUnavailable Status = iota
	// StatusEmpty means a JSON document was served without a non-empty items array.
	StatusEmpty
	// StatusFound means the document has at least one item.
	StatusFound
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusEmpty:
		return "empty"
	default:
		return "unavailable"
	}
}

// Result is the outcome of a probe. Items is only set for [StatusFound].
type Result struct {
	Status Status
	URL    string
	Items  []gjson.Result
}

// Options configures a [Prober]. Zero values select the defaults.
type Options struct {
	SiteURL    string
	File       string
	Candidates []string
	HTTPClient *http.Client
}

// Prober looks up metadata documents on repository sites.
type Prober struct {
	client     *integrations.Client
	org        string
	siteURL    string
	file       string
	candidates []string
}

// NewProber creates a Prober for the sites of org.
func NewProber(org string, opts Options) *Prober {
	p := &Prober{
		client:     integrations.NewClient(opts.HTTPClient, map[string]string{"Accept": "application/json"}),
		org:        org,
		siteURL:    opts.SiteURL,
		file:       opts.File,
		candidates: opts.Candidates,
	}
	if p.siteURL == "" {
		p.siteURL = DefaultSiteURL
	}
	if p.file == "" {
		p.file = DefaultFile
	}
	if p.candidates == nil {
		p.candidates = DefaultCandidates
	}
	return p
}

// SiteURL returns the base URL of repo's published site, ending in "/".
func (p *Prober) SiteURL(repo string) string {
	return SiteURL(p.siteURL, p.org, repo)
}

// CandidateURLs returns the document URLs tried for repo, in order.
func (p *Prober) CandidateURLs(repo string) []string {
	base := p.SiteURL(repo)
	urls := make([]string, len(p.candidates))
	for i, c := range p.candidates {
		urls[i] = base + c + p.file
	}
	return urls
}

// Probe tries each candidate URL in order and returns the first
// [StatusFound] result. Later candidates are not requested once one is
// found. With no hit, the last candidate's result is returned.
func (p *Prober) Probe(ctx context.Context, repo string) Result {
	res := Result{Status: StatusUnavailable}
	for _, u := range p.CandidateURLs(repo) {
		res = p.fetch(ctx, u)
		if res.Status == StatusFound {
			return res
		}
	}
	return res
}

func (p *Prober) fetch(ctx context.Context, url string) Result {
	data, err := p.client.GetBytes(ctx, url)
	if err != nil || !gjson.ValidBytes(data) {
		return Result{Status: StatusUnavailable, URL: url}
	}

	items := gjson.GetBytes(data, "items")
	if !items.IsArray() {
		return Result{Status: StatusEmpty, URL: url}
	}
	arr := items.Array()
	if len(arr) == 0 {
		return Result{Status: StatusEmpty, URL: url}
	}
	return Result{Status: StatusFound, URL: url, Items: arr}
}

// SiteURL expands a site URL template for org and repo. The template may use
// {org} and {repo}; the result always ends in "/".
func SiteURL(template, org, repo string) string {
	u := strings.NewReplacer("{org}", org, "{repo}", repo).Replace(template)
	if !strings.HasSuffix(u, "/") {
		u += "/"
	}
	return u
}
