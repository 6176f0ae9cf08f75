// Package testutil provides test environments and filesystem fault
// injection for modshelf tests.
//
// Environments are always real directories under t.TempDir(), with HOME and
// the XDG variables pointed inside them so no test touches the user's files.
// FaultFS wraps any types.FS and fails selected operations on selected paths,
// which is how rollback paths are exercised.
package testutil
