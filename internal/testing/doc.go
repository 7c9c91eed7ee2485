// Package testing provides shared test doubles for the cleanup workflow:
// testify-based mocks of the two remote clients, a call journal that
// records invocation order across both, and fixture builders for remote
// payloads.
package testing
