// Package catalog turns raw site metadata into the aggregated teaching
// resource catalog.
//
// # Overview
//
// The package holds the pure steps of a build:
//
//   - [Filter]: allow/block selection of repositories by name
//   - [Normalize]: mapping of one raw record to an [Item]
//   - [Sort]: ordering by course code, then title
//   - [NewCatalog] and [Write]: the final document and its atomic write
//
// # Normalization
//
// Raw records are untrusted JSON accessed through gjson. Every [Item] field
// has a fallback, so [Normalize] never fails:
//
//	raw := gjson.Parse(`{}`)
//	item := catalog.Normalize(raw, repo, catalog.Defaults{SiteURL: "https://acme.github.io/demo/"})
//	// item.ID == "demo-item", item.Title == "demo", item.License == "CC-BY-4.0"
//
// Fallbacks are ordered source lists evaluated by coalesce; the first
// present value wins.
package catalog
