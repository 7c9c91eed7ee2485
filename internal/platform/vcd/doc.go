// Package vcd provides a client for the VMware Cloud Director API.
//
// The package exposes capability interfaces (session, inventory,
// validation, catalog relocation, teardown, promotion) combined into the
// API interface consumed by the cleanup workflow, plus a REST
// implementation (RealClient) speaking the versioned JSON rendering of
// the Cloud Director API and the cloudapi collections.
package vcd
