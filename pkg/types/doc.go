// Package types defines the core types and interfaces used throughout modshelf.
// This includes the FS abstraction every disk-touching package goes through,
// and the managed-entry data model with its identity key.
package types
