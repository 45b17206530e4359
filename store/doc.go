// Package store provides a schema-less document-store layer over DynamoDB.
//
// The store knows nothing about the retail domain: it moves documents
// (attribute maps keyed by an "id" string) in and out of named tables and
// offers the handful of primitives the engine above it needs: whole-table
// snapshots, equality-filtered lookups, partial field updates, string-set
// membership writes, and one/many deletes. Every write is atomic per document;
// nothing here spans documents or tables.
//
// Two implementations ship with the package:
//
//   - [Dynamo] runs against a live DynamoDB table set.
//   - [Memory] is a mutex-guarded map store with the same observable
//     semantics, used by tests and by the CLI's --memory mode.
//
// Operations that target a missing document (partial updates, set writes,
// deletes) are silent no-ops, mirroring the matched-zero-documents behavior of
// document stores generally. Transport and SDK failures wrap [ErrUnavailable]
// so callers can match with errors.Is.
package store
