// Package diag defines the diagnostic model shared by lowering, the project
// loader and the driver.
//
// # Purpose
//
//   - Provide deterministic data structures that capture findings produced
//     while lowering Source Trees.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting layers.
//
// # Scope
//
// Package diag does not perform any formatting or IO. Rendering lives in
// internal/diagfmt; the driver decides which bag belongs to which file.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity: Info, Warning or Error (severity.go).
//   - Code: compact numeric identifier with a stable string form (codes.go).
//   - Message: human oriented text; keep it short.
//   - Primary: the source.Span pointing to the issue.
//   - Notes: optional secondary spans with extra context.
//
// # Reporting
//
// Producers take a Reporter and never see the Bag behind it. ReportBuilder
// lets a producer attach notes before the single Emit call:
//
//	diag.ReportError(r, diag.LowerUnresolvedReference, sp, msg).
//		WithNote(declSpan, "declared here").
//		Emit()
//
// BagReporter stores into a Bag. Lowering reports each unresolved reference
// from the one rule that replaced it, so no deduplication happens here.
package diag
