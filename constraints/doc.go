// Package constraints provides the declarative rule layer of the assignment
// engine: hard and soft constraints, AND/OR compounds, named groups with a
// validation level, and a process-scoped validator with reporting history.
//
// Model:
//
//   - A Constraint checks an arbitrary key-value Context (cost matrix,
//     realized assignments, total cost, timestamp, caller extras) and, when
//     violated, yields a non-negative penalty magnitude.
//   - A CompoundConstraint combines children under OpAnd (all must hold,
//     penalty = sum of violated children) or OpOr (any may hold, penalty =
//     minimum child penalty when none does).
//   - A Group evaluates its constraints in insertion order under one of
//     three validation levels:
//     Strict     — High/Critical violations fail fast with *ViolationError.
//     Relaxed    — violations accumulate as soft penalties, never error.
//     ReportOnly — observed and recorded, never error.
//   - A Validator owns named groups plus an append-only, capped history of
//     validation snapshots, and renders a queryable Report.
//
// Memory discipline: history snapshots are JSON-serializable; non-scalar
// context values (matrices, slices, structs) are summarized as
// "{TypeName} instance" rather than copied, so history size stays bounded
// by the entry cap regardless of workload size.
//
// The matching package consumes this layer in two phases: penalties are
// applied to a working cost matrix before solving, and the realized
// assignment is validated after solving.
//
// Errors: sentinel values in errors.go plus the structured *ViolationError;
// match with errors.Is / errors.As.
package constraints
