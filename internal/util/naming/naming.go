// Package naming encodes the migration marker conventions for target-side
// objects.
//
// The migration phase creates the target org VDC under the source name
// suffixed with "-t" and target networks suffixed with "-v2t"; cleanup
// strips both suffixes once the source side is gone.
package naming

import "strings"

const (
	// VDCMarker is the suffix carried by the target org VDC during migration.
	VDCMarker = "-t"

	// NetworkMarker is the suffix carried by migrated org VDC networks.
	NetworkMarker = "-v2t"
)

// TargetVDC returns the transitional name of the target org VDC for the
// given source org VDC name.
func TargetVDC(sourceVDC string) string {
	return sourceVDC + VDCMarker
}

// FinalVDC returns the marker-free name of an org VDC.
func FinalVDC(targetVDC string) string {
	return strings.TrimSuffix(targetVDC, VDCMarker)
}

// FinalNetwork returns the marker-free name of an org VDC network.
func FinalNetwork(network string) string {
	return strings.TrimSuffix(network, NetworkMarker)
}

// IsTransitionalNetwork reports whether the network name still carries
// the migration marker.
func IsTransitionalNetwork(network string) bool {
	return strings.HasSuffix(network, NetworkMarker)
}
