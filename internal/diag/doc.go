// Package diag defines the diagnostic model shared by the solver and its
// tooling.
//
// # Purpose
//
//   - Give the solver a way to record degradations (depth exceeded, template
//     cardinality exceeded, unresolved declarations) without ever failing a
//     query: the best-effort result is returned and a Diagnostic explains how
//     it was reached.
//   - Give the tooling layers (type-expression reader, fixture runner,
//     configuration loader) one record type for positioned findings.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary – a Span (file, line, column). Solver diagnostics carry no
//     position and leave it zero.
//   - Notes – optional secondary messages for additional context.
//
// # Emitting diagnostics
//
// Producers use a Reporter so emission is decoupled from storage. BagReporter
// collects into a Bag, DedupReporter drops repeats (a runaway recursion tends
// to trip the same guard many times), and NopReporter discards.
//
// Package diag performs no IO; rendering lives with the fixture report.
package diag
