// Package pkg provides the libraries behind labindex, a catalog builder for
// an organization's published teaching resources.
//
// # Overview
//
// The pkg directory is organized into these areas:
//
//  1. [catalog] - Domain logic (item schema, normalization, filtering, sorting, output)
//  2. [integrations] - Remote clients (GitHub REST API, published sites)
//  3. [pipeline] - Orchestration (list → probe → normalize → write)
//  4. [observability] and [metrics] - Hooks and their Prometheus implementation
//  5. [errors] and [buildinfo] - Coded errors and build metadata
//
// # Architecture
//
// The data flow of one build:
//
//	GitHub org listing
//	         ↓
//	    [catalog] Filter (allow/block lists)
//	         ↓
//	    [integrations/pages] Probe (site catalog.json, root then docs/)
//	         ↓
//	    [catalog] Normalize → Sort → Write
//	         ↓
//	    data/catalog.json
//
// # Quick Start
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Org:   "acme",
//	    Token: os.Getenv("GITHUB_TOKEN"),
//	})
package pkg
