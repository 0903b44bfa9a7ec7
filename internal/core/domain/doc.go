// Package domain defines the core business entities for Trailcache.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Kind: one category of cached troop data (scouts, adults, events, ...)
//   - Snapshot: the cached state for one Kind plus freshness metadata
//   - Payload: a Kind's stored records, opaque to the cache engine
//   - Outcome / RefreshJob: the result of one fetch and of one refresh request
//   - Credentials: the remote account used for fetches
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
package domain
