// Package assign is a reusable engine for constrained optimal assignment —
// pairing two sets of entities (candidates × positions, resources × tasks)
// at minimum total cost, under pluggable hard and soft constraints.
//
// 🚀 What is assign?
//
//	A deterministic, lock-safe library that brings together:
//		• hungarian/   — immutable CostMatrix + Kuhn–Munkres solver (O(n³))
//		• constraints/ — declarative hard/soft constraints, groups, validator
//		• matching/    — edge-case repair, Gale–Shapley stable matching,
//		                 the Matcher orchestrator with an LRU solve cache
//		• perf/        — measurement harness with JSON/CSV export
//
// ✨ Why choose assign?
//
//   - Deterministic – same matrix, same constraints, same seed ⇒ same answer
//   - Honest about pathology – non-square, infeasible and tied inputs are
//     detected, repaired by explicit strategies, and reported
//   - Instrumented – wall-clock stats, cache-hit counters, Prometheus metrics
//   - Pure library – no network, no persistence beyond analyzer exports
//
// Data flow:
//
//	caller → matching.Matcher.Match(matrix, prefs?, ctx)
//	       → EdgeCaseHandler normalizes
//	       → constraints penalize a working copy
//	       → hungarian.Solve | matching.StableMatch
//	       → post-validation → (pairs, total cost)
//
// Dive into each package's doc.go for algorithm outlines, contracts and
// complexity notes.
//
//	go get github.com/katalvlaran/assign
package assign
