// Package retail implements the referential-integrity engine for the store's
// five record kinds: items, customers, suppliers, sales and stock entries.
//
// The underlying document store enforces neither foreign keys nor uniqueness,
// and offers no multi-document transactions, so this package carries that
// weight itself:
//
//   - [Uniqueness] enforces the logical unique keys (item model+brand,
//     customer email, supplier email) with a check-then-write probe.
//   - [Refs] keeps the denormalized back-reference sets on parent records
//     (saleIds, stockIds) synchronized with the authoritative foreign keys
//     stored on the child records.
//   - [Cascade] removes dependent sales and stock entries when a parent is
//     deleted, cleaning their ids out of every surviving parent's sets first.
//   - [Repository] composes the above into the operation set the presentation
//     layer consumes, and adds a [Repository.Repair] pass that reconciles the
//     back-reference sets from scratch after a partial failure.
//
// A domain operation routinely issues several single-document writes and no
// transaction wraps them; an interrupted operation leaves the data partially
// applied. Every set write is idempotent, so re-running the operation or the
// repair pass converges.
package retail
