// Package filesystem provides filesystem implementations for modshelf.
//
// This package contains the OS-backed implementation of the types.FS
// interface. Tests wrap it with testutil.FaultFS to inject failures.
package filesystem
