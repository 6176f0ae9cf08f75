// Package registry persists the catalog of managed entries.
//
// The catalog is an ordered list of types.ManagedEntry keyed by EntryID.
// Store.Load never fails: a missing file yields an empty catalog, and a
// malformed file yields an empty catalog with a warning so the next
// reconcile rebuilds it from disk. Store.Save replaces the file atomically.
package registry
