// Package services implements the cache engine: the in-memory snapshot
// store, the per-domain fetch dispatch, the refresh coordinator, the cache
// facade, and the optional staleness-driven refresh scheduler. Services
// depend only on the domain and on port interfaces, never on adapters.
package services
