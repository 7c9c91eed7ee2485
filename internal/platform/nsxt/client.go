// Package nsxt provides a client for the NSX-T manager API.
//
// The cleanup workflow uses NSX-T for two things only: confirming that
// the manager is reachable and authenticated (compute manager
// discovery), and tearing down the bridge configuration that linked
// NSX-V and NSX-T networks during migration.
package nsxt

import (
	"context"

	"github.com/imamik/vcdmigrate/internal/platform/vcd"
)

// API defines the NSX-T operations consumed by the cleanup workflow.
type API interface {
	// GetComputeManagers lists the registered compute managers. The
	// result is not consumed; the call establishes that the manager is
	// reachable and the credentials are valid.
	GetComputeManagers(ctx context.Context) error

	// ClearBridging removes the bridge endpoints and bridge endpoint
	// profiles of every given org VDC network. Networks without
	// bridging are skipped. Bridging must be cleared before the
	// NSX-V side networks are deleted.
	ClearBridging(ctx context.Context, networks []vcd.OrgVDCNetwork) error
}
