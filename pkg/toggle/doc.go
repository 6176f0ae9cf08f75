// Package toggle moves entries between their active and disabled roots.
//
// A toggle is transactional: every recorded file must exist, no
// destination may exist, and if any move or the catalog save fails every
// completed move is reverted in reverse order before IO_FAILURE is
// returned. Entries are always looked up by identity in a freshly loaded
// catalog, never from a caller's copy, so a stale view cannot move the
// wrong files.
//
// The package also copies new entries in (Add) and deletes them (Remove).
package toggle
