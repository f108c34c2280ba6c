// Package cache provides the content-addressed result cache. Keys are
// pure functions of (content fingerprint, backend identity, backend
// configuration); values are serialized artifacts, written once per key.
//
// GetOrCompute guarantees at most one computation per key within a run:
// concurrent callers for the same key join the in-flight computation and
// observe the same artifact or the same failure. Failures are never
// cached. The in-memory tier is LRU-bounded; an optional SQLite store
// persists entries across runs and a durable hit is indistinguishable
// from a memory hit.
package cache
