package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/matzehuels/labindex/pkg/integrations"
)

const (
	// DefaultBaseURL is the public GitHub REST API endpoint.
	DefaultBaseURL = "https://api.github.com"

	// APIVersion is sent as X-GitHub-Api-Version on every request.
	APIVersion = "2022-11-28"

	// PerPage is the listing page size; a shorter page ends pagination.
	PerPage = 100
)

// Options configures a [ContentClient]. The zero value talks to
// [DefaultBaseURL] with the default HTTP client and no page limit.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	// MaxPages bounds the listing loop; 0 means unlimited.
	MaxPages int
}

// ContentClient provides access to an organization's repositories and
// their contents through the GitHub REST API.
type ContentClient struct {
	client   *integrations.Client
	baseURL  string
	maxPages int
}

// NewContentClient creates a new content client with the given access token.
func NewContentClient(token string, opts Options) *ContentClient {
	headers := map[string]string{
		"Accept":               "application/vnd.github+json",
		"X-GitHub-Api-Version": APIVersion,
	}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &ContentClient{
		client:   integrations.NewClient(opts.HTTPClient, headers),
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		maxPages: opts.MaxPages,
	}
}

// ListOrgRepos retrieves all public repositories of org, ordered by full name.
//
// Pages of [PerPage] entries are requested starting at page 1 until a page
// comes back short or empty. Any failed page aborts the listing; the error
// is an [*integrations.HTTPError] for non-2xx responses.
func (c *ContentClient) ListOrgRepos(ctx context.Context, org string) ([]Repo, error) {
	var all []Repo

	for page := 1; ; page++ {
		u := fmt.Sprintf("%s/orgs/%s/repos?type=public&sort=full_name&direction=asc&per_page=%d&page=%d",
			c.baseURL, url.PathEscape(org), PerPage, page)

		var repos []Repo
		if err := c.client.Get(ctx, u, &repos); err != nil {
			return nil, fmt.Errorf("list repos page %d: %w", page, err)
		}
		all = append(all, repos...)

		if len(repos) < PerPage {
			break
		}
		if c.maxPages > 0 && page >= c.maxPages {
			break
		}
	}

	return all, nil
}

// FileExists reports whether path exists in owner/repo at ref using the
// contents API. A 404 is reported as (false, nil); an empty ref uses the
// repository's default branch.
func (c *ContentClient) FileExists(ctx context.Context, owner, repo, path, ref string) (bool, error) {
	u := fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.baseURL, url.PathEscape(owner), url.PathEscape(repo), path)
	if ref != "" {
		u += "?ref=" + url.QueryEscape(ref)
	}

	if _, err := c.client.Status(ctx, u, nil); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
