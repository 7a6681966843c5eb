// Package resolve answers what a reference in a Source Tree points at.
//
// The Oracle decides which callable a reference means; Index is the default
// oracle built from the files of one run plus the manifest externals.
// Resolver turns an oracle answer into a registry symbol so that a call
// lowered before its callee shares the callee's handle.
package resolve
