// Package integrations provides the HTTP plumbing shared by labindex's
// remote clients.
//
// # Overview
//
// Each remote has its own subpackage built on the shared [Client]:
//
//   - [github]: organization repository listing and contents lookups
//   - [pages]: best-effort probing of published static sites
//
// # Shared Infrastructure
//
// [Client] applies default headers, honors the request context, and reports
// calls to the observability HTTP hooks. Every call is attempted once.
//
// Non-2xx responses become [*HTTPError], which keeps the method, URL, status
// code and (truncated) body for diagnostics:
//
//	var httpErr *integrations.HTTPError
//	if errors.As(err, &httpErr) {
//	    log.Error("listing failed", "status", httpErr.StatusCode)
//	}
//
// Transport failures wrap [ErrNetwork]; 404 responses match [ErrNotFound].
package integrations
