// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic, allowing business rules to remain
// independent of specific database technologies or persistence details.
//
// Every lookup keyed by lemma expects the lemma in canonical form; the
// implementations canonicalize again before touching storage.
package store
