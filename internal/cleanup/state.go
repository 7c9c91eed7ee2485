package cleanup

import "github.com/imamik/vcdmigrate/internal/platform/vcd"

// State holds the shared results of workflow steps. It is progressively
// populated as each step completes and read by the later steps that
// depend on earlier results.
type State struct {
	// Discovery results
	OrgURL            string
	SourceProviderVDC vcd.ProviderVDC
	TargetProviderVDC vcd.ProviderVDC
	SourceVDCID       string
	TargetVDCID       string

	// EdgeGateways is captured before any destructive step because its
	// uplink payload is needed for IP pool reconciliation after the
	// source edge gateway is deleted.
	EdgeGateways vcd.EdgeGatewayPage

	// TargetNetworks feeds NSX-T bridge teardown.
	TargetNetworks []vcd.OrgVDCNetwork
}

// NewState creates an empty workflow state.
func NewState() *State {
	return &State{}
}
