// Package solver decides structural relations between interned types,
// reduces meta-types to normal form and infers type arguments.
//
// A Session owns every cache and guard for one checking session and is not
// safe for concurrent use; run one Session per worker. All public queries are
// total: runaway recursion, oversized template expansions and missing
// declarations degrade to a conservative result (a Yes decision, `string`,
// `any`) and are reported through the session's diag.Reporter instead of
// surfacing as errors.
//
// Declarations are reached only through the Resolver boundary; the solver
// never owns symbol tables.
package solver
