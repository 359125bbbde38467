package github

import (
	"fmt"
	"regexp"
)

var (
	// Organization logins: alphanumerics and hyphens, no leading hyphen, at most 39.
	ownerPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{0,38}$`)
	// Repository names: alphanumerics, '.', '_' and '-', at most 100.
	repoPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,100}$`)
)

// ValidateOwner reports whether owner can be used as the {org} segment of
// the listing URL and the site template.
func ValidateOwner(owner string) error {
	return matchName("organization", owner, ownerPattern)
}

// ValidateRepo reports whether repo can be placed in a contents API path.
// GitHub reserves "." and "..".
func ValidateRepo(repo string) error {
	if repo == "." || repo == ".." {
		return fmt.Errorf("repository name %q is reserved", repo)
	}
	return matchName("repository", repo, repoPattern)
}

func matchName(kind, name string, pattern *regexp.Regexp) error {
	if name == "" {
		return fmt.Errorf("%s name is empty", kind)
	}
	if !pattern.MatchString(name) {
		return fmt.Errorf("%s name %q does not match %s", kind, name, pattern)
	}
	return nil
}
