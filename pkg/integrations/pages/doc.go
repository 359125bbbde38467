// Package pages probes an organization's published static sites for a
// catalog metadata document.
//
// # Overview
//
// Each repository's site lives at a conventional base URL (by default
// https://{org}.github.io/{repo}/). [Prober.Probe] tries a short ordered
// list of candidate sub-paths under that base, each joined with the metadata
// file name, and keeps the first document whose "items" array is non-empty:
//
//	p := pages.NewProber("acme", pages.Options{})
//	res := p.Probe(ctx, "lab1")
//	switch res.Status {
//	case pages.StatusFound:
//	    // res.Items holds the raw records
//	case pages.StatusEmpty, pages.StatusUnavailable:
//	    // repository contributes nothing
//	}
//
// # Best effort
//
// Probing never returns an error. Transport failures, non-2xx responses and
// malformed JSON all map to [StatusUnavailable]; a valid document without
// items maps to [StatusEmpty].
package pages
