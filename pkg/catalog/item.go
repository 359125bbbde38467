package catalog

import "time"

// DefaultLicense is used when a record carries no license.
const DefaultLicense = "CC-BY-4.0"

// Item is one normalized teaching resource.
type Item struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	CourseCode       *string  `json:"course_code"`
	PageURL          string   `json:"page_url"`
	Summary          *string  `json:"summary"`
	Topics           []string `json:"topics"`
	Software         []string `json:"software"`
	Keywords         []string `json:"keywords"`
	LearningOutcomes []string `json:"learning_outcomes"`
	BloomsVerbs      []string `json:"blooms_verbs"`
	BloomsLevels     []string `json:"blooms_levels"`
	License          string   `json:"license"`
	RepoName         string   `json:"repo_name"`
	RepoURL          string   `json:"repo_url"`
}

// Code returns the course code, or "" when it is absent.
func (it Item) Code() string {
	if it.CourseCode == nil {
		return ""
	}
	return *it.CourseCode
}

// Catalog is the aggregated output document.
type Catalog struct {
	Org         string    `json:"org"`
	GeneratedAt time.Time `json:"generated_at"`
	ItemCount   int       `json:"item_count"`
	Items       []Item    `json:"items"`
}

// NewCatalog builds the output document for org. Items are used as given;
// call [Sort] first. The item count always equals len(items).
func NewCatalog(org string, items []Item, now time.Time) *Catalog {
	if items == nil {
		items = []Item{}
	}
	return &Catalog{
		Org:         org,
		GeneratedAt: now.UTC(),
		ItemCount:   len(items),
		Items:       items,
	}
}
