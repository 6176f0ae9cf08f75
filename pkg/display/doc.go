// Package display converts manager results into view models and prints
// them as styled text, JSON or YAML.
package display
