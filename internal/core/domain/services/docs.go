// Package services provides domain services that orchestrate business
// operations across multiple domain entities in the dispatch system. It
// implements business workflows that don't naturally belong to a single
// aggregate root.
//
// The package includes:
//   - ProviderMatcher: a domain service that selects the providers a new
//     service request is broadcast to
package services
