package testing

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/imamik/vcdmigrate/internal/platform/nsxt"
	"github.com/imamik/vcdmigrate/internal/platform/vcd"
)

// MockVCDClient is a mock implementation of the vcd.API interface.
// When Journal is set, every call is recorded in invocation order.
type MockVCDClient struct {
	mock.Mock
	Journal *CallJournal
}

var _ vcd.API = (*MockVCDClient)(nil)

// NewMockVCDClient creates a mock recording into the given journal.
func NewMockVCDClient(journal *CallJournal) *MockVCDClient {
	return &MockVCDClient{Journal: journal}
}

func (m *MockVCDClient) record(name string) {
	if m.Journal != nil {
		m.Journal.Record(name)
	}
}

// Login authenticates against the mock.
func (m *MockVCDClient) Login(ctx context.Context) error {
	m.record("Login")
	return m.Called(ctx).Error(0)
}

// Logout terminates the mock session.
func (m *MockVCDClient) Logout(ctx context.Context) error {
	m.record("Logout")
	return m.Called(ctx).Error(0)
}

// GetOrgURL resolves an organization by name.
func (m *MockVCDClient) GetOrgURL(ctx context.Context, name string) (string, error) {
	m.record("GetOrgURL")
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

// GetProviderVDC resolves a provider VDC by name.
func (m *MockVCDClient) GetProviderVDC(ctx context.Context, name string) (vcd.ProviderVDC, error) {
	m.record("GetProviderVDC:" + name)
	args := m.Called(ctx, name)
	return args.Get(0).(vcd.ProviderVDC), args.Error(1)
}

// GetOrgVDC resolves an org VDC by name.
func (m *MockVCDClient) GetOrgVDC(ctx context.Context, orgURL, name, role string, persist bool) (string, error) {
	m.record("GetOrgVDC:" + role)
	args := m.Called(ctx, orgURL, name, role, persist)
	return args.String(0), args.Error(1)
}

// GetEdgeGateways returns the configured edge gateway payload.
func (m *MockVCDClient) GetEdgeGateways(ctx context.Context, vdcID string) (vcd.EdgeGatewayPage, error) {
	m.record("GetEdgeGateways")
	args := m.Called(ctx, vdcID)
	return args.Get(0).(vcd.EdgeGatewayPage), args.Error(1)
}

// GetOrgVDCNetworks returns the configured network list.
func (m *MockVCDClient) GetOrgVDCNetworks(ctx context.Context, vdcID, label string, persist bool) ([]vcd.OrgVDCNetwork, error) {
	m.record("GetOrgVDCNetworks")
	args := m.Called(ctx, vdcID, label, persist)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]vcd.OrgVDCNetwork), args.Error(1)
}

// ValidateOrgVDCBacking validates backing technology.
func (m *MockVCDClient) ValidateOrgVDCBacking(ctx context.Context, vdcID, providerVDCID string, nsxtBacked bool) error {
	m.record("ValidateOrgVDCBacking")
	return m.Called(ctx, vdcID, providerVDCID, nsxtBacked).Error(0)
}

// ValidateOrgVDCEnabled validates the enabled state.
func (m *MockVCDClient) ValidateOrgVDCEnabled(ctx context.Context, vdcID string) error {
	m.record("ValidateOrgVDCEnabled")
	return m.Called(ctx, vdcID).Error(0)
}

// ValidateNoMediaAttached validates that no VM has media inserted.
func (m *MockVCDClient) ValidateNoMediaAttached(ctx context.Context, vdcID string, strict bool) error {
	m.record("ValidateNoMediaAttached")
	return m.Called(ctx, vdcID, strict).Error(0)
}

// MigrateCatalogItems relocates catalog items.
func (m *MockVCDClient) MigrateCatalogItems(ctx context.Context, sourceVDCID, targetVDCID, orgURL string) error {
	m.record("MigrateCatalogItems")
	return m.Called(ctx, sourceVDCID, targetVDCID, orgURL).Error(0)
}

// DeleteOrgVDCNetworks deletes the org VDC's networks.
func (m *MockVCDClient) DeleteOrgVDCNetworks(ctx context.Context, vdcID string) error {
	m.record("DeleteOrgVDCNetworks")
	return m.Called(ctx, vdcID).Error(0)
}

// DeleteEdgeGateways deletes the org VDC's edge gateways.
func (m *MockVCDClient) DeleteEdgeGateways(ctx context.Context, vdcID string) error {
	m.record("DeleteEdgeGateways")
	return m.Called(ctx, vdcID).Error(0)
}

// DeleteOrgVDC deletes the org VDC.
func (m *MockVCDClient) DeleteOrgVDC(ctx context.Context, vdcID string) error {
	m.record("DeleteOrgVDC")
	return m.Called(ctx, vdcID).Error(0)
}

// RenameOrgVDCNetworks renames the org VDC's networks.
func (m *MockVCDClient) RenameOrgVDCNetworks(ctx context.Context, vdcID string) error {
	m.record("RenameOrgVDCNetworks")
	return m.Called(ctx, vdcID).Error(0)
}

// RenameOrgVDC renames the org VDC.
func (m *MockVCDClient) RenameOrgVDC(ctx context.Context, vdcID, newName string) error {
	m.record("RenameOrgVDC")
	return m.Called(ctx, vdcID, newName).Error(0)
}

// UpdateExternalNetworkIPPool appends ranges to the external network pool.
func (m *MockVCDClient) UpdateExternalNetworkIPPool(ctx context.Context, networkName string, ranges []vcd.IPRange) error {
	m.record("UpdateExternalNetworkIPPool")
	return m.Called(ctx, networkName, ranges).Error(0)
}

// MockNSXTClient is a mock implementation of the nsxt.API interface.
type MockNSXTClient struct {
	mock.Mock
	Journal *CallJournal
}

var _ nsxt.API = (*MockNSXTClient)(nil)

// NewMockNSXTClient creates a mock recording into the given journal.
func NewMockNSXTClient(journal *CallJournal) *MockNSXTClient {
	return &MockNSXTClient{Journal: journal}
}

func (m *MockNSXTClient) record(name string) {
	if m.Journal != nil {
		m.Journal.Record(name)
	}
}

// GetComputeManagers probes the mock manager.
func (m *MockNSXTClient) GetComputeManagers(ctx context.Context) error {
	m.record("GetComputeManagers")
	return m.Called(ctx).Error(0)
}

// ClearBridging removes bridging for the given networks.
func (m *MockNSXTClient) ClearBridging(ctx context.Context, networks []vcd.OrgVDCNetwork) error {
	m.record("ClearBridging")
	return m.Called(ctx, networks).Error(0)
}
