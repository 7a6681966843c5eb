// Package driver runs lowering over many files at once: it loads tree
// snapshots, builds the shared reference index, lowers every file on a
// bounded worker pool and collects per-file diagnostics.
package driver
