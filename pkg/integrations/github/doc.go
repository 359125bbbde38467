// Package github provides an HTTP client for the GitHub REST API.
//
// # Overview
//
// [ContentClient] lists an organization's public repositories and checks
// for files through the contents API:
//
//	client := github.NewContentClient(token, github.Options{})
//	repos, err := client.ListOrgRepos(ctx, "acme")
//	if err != nil {
//	    return err // fatal: no partial catalog
//	}
//
// # Pagination
//
// [ContentClient.ListOrgRepos] requests pages of [PerPage] repositories and
// stops at the first short page. No total count is consulted.
//
// # Authentication
//
// The token is sent as a bearer token together with the
// X-GitHub-Api-Version header on every request.
package github
