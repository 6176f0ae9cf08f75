// Package metadata keeps per-entry display data that does not live in the
// catalog: display names, group paths and free-form flags.
//
// A Store is created once per session and written through on every change.
// BuildTree turns a flat entry list into the Group/Leaf tree shown by the
// tree views.
package metadata
