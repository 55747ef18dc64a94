// Package connectors holds the adapters that read records from remote
// services. Each connector implements driven.RepositorySource for one
// provider and converts the provider's errors into domain errors.
//
// The github subpackage talks to the GitHub REST API.
package connectors
