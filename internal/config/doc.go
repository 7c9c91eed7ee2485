// Package config loads and validates the migration cleanup configuration.
//
// The configuration is a YAML file naming the two management endpoints
// (Cloud Director and NSX-T) and the organizational objects the cleanup
// operates on: the organization, the source org VDC, the source and
// target provider VDCs, and the source external network. Passwords may
// be supplied via the VCD_PASSWORD and NSXT_PASSWORD environment
// variables instead of the file. Timeouts are tunable through
// environment variables and fall back to defaults.
package config
