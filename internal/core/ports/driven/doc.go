// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Cursor: lazy, index-addressable view over a remote collection
//   - RepositorySource: opens the pull request, issue and commit cursors of one repository
//   - QuotaSource: reports the remaining remote call budget
//   - RowSink: serialises aligned rows
//   - TokenProvider: supplies the API access token
//   - ConfigStore: optional file based settings
//
// # Optional Interfaces
//
//   - Progress: receives item and wait progress. A nil Progress is silent.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
