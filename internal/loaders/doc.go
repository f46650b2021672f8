// Package loaders provides per-format text extraction and the
// registry that selects a loader by file extension.
package loaders
