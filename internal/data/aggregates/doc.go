// Package aggregates contains infrastructure implementations of domain aggregate contracts.
//
// Implementations compose table- and collection-level repos from internal/data/repos
// and own the write boundaries for invariant-critical operations: Postgres
// transactions for the address book, version-guarded document updates for carts,
// and document store transactions (or compensation) for order placement.
package aggregates
