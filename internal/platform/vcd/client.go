package vcd

import "context"

// SessionManager defines the interface for Cloud Director session lifecycle.
type SessionManager interface {
	// Login authenticates against the provider context and stores the
	// bearer token for subsequent calls.
	Login(ctx context.Context) error
	// Logout terminates the current API session. Best-effort: callers
	// log a failure instead of propagating it.
	Logout(ctx context.Context) error
}

// Inventory defines the interface for entity discovery.
type Inventory interface {
	// GetOrgURL resolves an organization by name to its API URL.
	GetOrgURL(ctx context.Context, name string) (string, error)
	// GetProviderVDC resolves a provider VDC by name, including its
	// backing network technology.
	GetProviderVDC(ctx context.Context, name string) (ProviderVDC, error)
	// GetOrgVDC resolves an org VDC by name within an organization.
	// role labels the lookup (e.g. "sourceOrgVDC"); persist caches the
	// resolved id under that label so a repeated lookup does not
	// re-issue the remote call.
	GetOrgVDC(ctx context.Context, orgURL, name, role string, persist bool) (string, error)
	// GetEdgeGateways returns the full edge gateway payload of an org VDC.
	GetEdgeGateways(ctx context.Context, vdcID string) (EdgeGatewayPage, error)
	// GetOrgVDCNetworks lists the networks owned by an org VDC.
	GetOrgVDCNetworks(ctx context.Context, vdcID, label string, persist bool) ([]OrgVDCNetwork, error)
}

// Validator defines the precondition gates evaluated before any
// destructive step runs.
type Validator interface {
	// ValidateOrgVDCBacking checks that the org VDC is bound to the
	// given provider VDC and that both report the expected backing
	// technology (NSX-T when nsxtBacked is true, NSX-V otherwise).
	ValidateOrgVDCBacking(ctx context.Context, vdcID, providerVDCID string, nsxtBacked bool) error
	// ValidateOrgVDCEnabled checks that the org VDC is enabled.
	ValidateOrgVDCEnabled(ctx context.Context, vdcID string) error
	// ValidateNoMediaAttached checks that no VM in the org VDC has media
	// inserted. With strict set, attached media is a ValidationError;
	// otherwise the check only reports through its return value of nil.
	ValidateNoMediaAttached(ctx context.Context, vdcID string, strict bool) error
}

// CatalogMover relocates catalog items between org VDCs.
type CatalogMover interface {
	// MigrateCatalogItems moves all vApp templates and media items from
	// the source org VDC to the target org VDC.
	MigrateCatalogItems(ctx context.Context, sourceVDCID, targetVDCID, orgURL string) error
}

// Teardown defines the destructive operations against the source org VDC.
// All of them are irreversible.
type Teardown interface {
	// DeleteOrgVDCNetworks deletes every network owned by the org VDC.
	DeleteOrgVDCNetworks(ctx context.Context, vdcID string) error
	// DeleteEdgeGateways deletes every edge gateway owned by the org VDC.
	DeleteEdgeGateways(ctx context.Context, vdcID string) error
	// DeleteOrgVDC deletes the org VDC itself. Its networks and edge
	// gateways must already be gone.
	DeleteOrgVDC(ctx context.Context, vdcID string) error
}

// Promoter renames migrated objects to their final identity and returns
// freed IP capacity to the shared pool.
type Promoter interface {
	// RenameOrgVDCNetworks strips the migration marker from every
	// network name in the org VDC.
	RenameOrgVDCNetworks(ctx context.Context, vdcID string) error
	// RenameOrgVDC renames the org VDC.
	RenameOrgVDC(ctx context.Context, vdcID, newName string) error
	// UpdateExternalNetworkIPPool appends the given IP ranges to the
	// allocation pool of the named external network.
	UpdateExternalNetworkIPPool(ctx context.Context, networkName string, ranges []IPRange) error
}

// API combines all Cloud Director capabilities consumed by the cleanup
// workflow.
type API interface {
	SessionManager
	Inventory
	Validator
	CatalogMover
	Teardown
	Promoter
}
