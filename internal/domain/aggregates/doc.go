// Package aggregates defines domain-facing aggregate contracts.
//
// These contracts avoid persistence/transport details and describe the
// write boundaries where storefront invariants must hold: one default
// address per user, one cart per user, cart-to-order conversion and one
// review per (user, product).
package aggregates
