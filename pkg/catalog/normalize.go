package catalog

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/matzehuels/labindex/pkg/integrations/github"
)

// Defaults carries the per-repository values used when a record omits them.
type Defaults struct {
	// SiteURL is the repository's published site, used as the last page_url fallback.
	SiteURL string
	// License replaces [DefaultLicense] when non-empty.
	License string
}

// source yields a candidate value and whether it is present.
type source func() (string, bool)

// coalesce returns the first present value among sources.
func coalesce(sources ...source) (string, bool) {
	for _, s := range sources {
		if v, ok := s(); ok {
			return v, true
		}
	}
	return "", false
}

func field(raw gjson.Result, key string) source {
	return func() (string, bool) { return scalar(raw.Get(key)) }
}

func constant(v string) source {
	return func() (string, bool) { return v, true }
}

// scalar reports a JSON value as a string when it counts as present:
// non-empty strings, numbers and true. Null, false, objects and arrays are absent.
func scalar(r gjson.Result) (string, bool) {
	switch r.Type {
	case gjson.String:
		return r.Str, r.Str != ""
	case gjson.Number:
		return r.Raw, true
	case gjson.True:
		return "true", true
	}
	return "", false
}

// stringList returns the elements of a JSON array as strings. Anything that
// is not an array yields an empty, non-nil slice; null elements are dropped.
func stringList(r gjson.Result) []string {
	out := []string{}
	if !r.IsArray() {
		return out
	}
	for _, e := range r.Array() {
		switch e.Type {
		case gjson.Null:
		case gjson.String:
			out = append(out, e.Str)
		default:
			out = append(out, e.Raw)
		}
	}
	return out
}

func optional(v string, ok bool) *string {
	if !ok {
		return nil
	}
	return &v
}

// Slugify lowercases s and joins its whitespace-separated words with "-".
func Slugify(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}

// Normalize maps one raw record from repo's site to an [Item].
// It never fails: absent or mistyped fields fall back to defaults.
func Normalize(raw gjson.Result, repo github.Repo, d Defaults) Item {
	license := d.License
	if license == "" {
		license = DefaultLicense
	}

	title, _ := coalesce(field(raw, "title"), constant(repo.Name))
	slugTitle, _ := coalesce(field(raw, "title"), constant("item"))
	id, _ := coalesce(field(raw, "id"), constant(repo.Name+"-"+Slugify(slugTitle)))
	pageURL, _ := coalesce(field(raw, "page_url"), field(raw, "site_url"), constant(d.SiteURL))
	lic, _ := coalesce(field(raw, "license"), constant(license))

	return Item{
		ID:               id,
		Title:            title,
		CourseCode:       optional(coalesce(field(raw, "course_code"))),
		PageURL:          pageURL,
		Summary:          optional(coalesce(field(raw, "summary"))),
		Topics:           stringList(raw.Get("topics")),
		Software:         stringList(raw.Get("software")),
		Keywords:         stringList(raw.Get("keywords")),
		LearningOutcomes: stringList(raw.Get("learning_outcomes")),
		BloomsVerbs:      stringList(raw.Get("blooms_verbs")),
		BloomsLevels:     stringList(raw.Get("blooms_levels")),
		License:          lic,
		RepoName:         repo.Name,
		RepoURL:          repo.HTMLURL,
	}
}
