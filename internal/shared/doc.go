// Package shared provides utilities used across the forestcli codebase
// that do not belong to any single domain package.
//
// # Structure
//
// - testutil: log capture helpers for asserting on component output in tests
//
// The package must stay free of business logic and of dependencies on
// other internal packages, so every package can import it from its tests
// without cycles.
package shared
