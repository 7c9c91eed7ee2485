package cleanup

import (
	"github.com/imamik/vcdmigrate/internal/platform/vcd"
	"github.com/imamik/vcdmigrate/internal/util/naming"
)

// Role labels under which discovery responses are cached by the client.
const (
	roleSourceOrgVDC   = "sourceOrgVDC"
	roleTargetOrgVDC   = "targetOrgVDC"
	labelTargetNetwork = "targetOrgVDCNetworks"
)

func loginVCD(ctx *Context) error {
	return ctx.VCD.Login(ctx)
}

func connectNSXT(ctx *Context) error {
	return ctx.NSXT.GetComputeManagers(ctx)
}

func resolveOrganization(ctx *Context) error {
	orgURL, err := ctx.VCD.GetOrgURL(ctx, ctx.Config.VCD.Organization)
	if err != nil {
		return err
	}
	ctx.State.OrgURL = orgURL
	return nil
}

func resolveSourceProviderVDC(ctx *Context) error {
	pvdc, err := ctx.VCD.GetProviderVDC(ctx, ctx.Config.VCD.SourceProviderVDC)
	if err != nil {
		return err
	}
	ctx.State.SourceProviderVDC = pvdc
	return nil
}

func resolveSourceOrgVDC(ctx *Context) error {
	id, err := ctx.VCD.GetOrgVDC(ctx, ctx.State.OrgURL, ctx.Config.VCD.SourceOrgVDC, roleSourceOrgVDC, true)
	if err != nil {
		return err
	}
	ctx.State.SourceVDCID = id
	return nil
}

// validateSourceBacking gates the whole teardown: the source side must
// still be NSX-V backed, otherwise this run points at the wrong VDC.
func validateSourceBacking(ctx *Context) error {
	if ctx.State.SourceProviderVDC.NSXTBacked {
		return &vcd.ValidationError{
			Reason: "source provider VDC " + ctx.State.SourceProviderVDC.Name + " is NSX-T backed, expected NSX-V",
		}
	}
	return ctx.VCD.ValidateOrgVDCBacking(ctx, ctx.State.SourceVDCID, ctx.State.SourceProviderVDC.ID, false)
}

// readSourceEdgeGateways captures the full uplink payload now; the IP
// pool reconciliation step needs it after the gateway is deleted.
func readSourceEdgeGateways(ctx *Context) error {
	page, err := ctx.VCD.GetEdgeGateways(ctx, ctx.State.SourceVDCID)
	if err != nil {
		return err
	}
	ctx.State.EdgeGateways = page
	return nil
}

func resolveTargetProviderVDC(ctx *Context) error {
	pvdc, err := ctx.VCD.GetProviderVDC(ctx, ctx.Config.VCD.TargetProviderVDC)
	if err != nil {
		return err
	}
	ctx.State.TargetProviderVDC = pvdc
	return nil
}

func resolveTargetOrgVDC(ctx *Context) error {
	name := naming.TargetVDC(ctx.Config.VCD.SourceOrgVDC)
	id, err := ctx.VCD.GetOrgVDC(ctx, ctx.State.OrgURL, name, roleTargetOrgVDC, true)
	if err != nil {
		return err
	}
	ctx.State.TargetVDCID = id
	return nil
}

func validateTargetBacking(ctx *Context) error {
	if !ctx.State.TargetProviderVDC.NSXTBacked {
		return &vcd.ValidationError{
			Reason: "target provider VDC " + ctx.State.TargetProviderVDC.Name + " is NSX-V backed, expected NSX-T",
		}
	}
	return ctx.VCD.ValidateOrgVDCBacking(ctx, ctx.State.TargetVDCID, ctx.State.TargetProviderVDC.ID, true)
}

func validateTargetEnabled(ctx *Context) error {
	return ctx.VCD.ValidateOrgVDCEnabled(ctx, ctx.State.TargetVDCID)
}

func listTargetNetworks(ctx *Context) error {
	networks, err := ctx.VCD.GetOrgVDCNetworks(ctx, ctx.State.TargetVDCID, labelTargetNetwork, true)
	if err != nil {
		return err
	}
	ctx.State.TargetNetworks = networks
	return nil
}

// validateNoMediaAttached is the last gate before irreversible work:
// attached media would make the upcoming VM and network changes unsafe.
func validateNoMediaAttached(ctx *Context) error {
	return ctx.VCD.ValidateNoMediaAttached(ctx, ctx.State.TargetVDCID, true)
}

func migrateCatalogItems(ctx *Context) error {
	return ctx.VCD.MigrateCatalogItems(ctx, ctx.State.SourceVDCID, ctx.State.TargetVDCID, ctx.State.OrgURL)
}

// clearBridging must run before the source networks are deleted: the
// bridge configuration references the NSX-V side network identity.
func clearBridging(ctx *Context) error {
	return ctx.NSXT.ClearBridging(ctx, ctx.State.TargetNetworks)
}

func deleteSourceNetworks(ctx *Context) error {
	return ctx.VCD.DeleteOrgVDCNetworks(ctx, ctx.State.SourceVDCID)
}

func deleteSourceEdgeGateways(ctx *Context) error {
	return ctx.VCD.DeleteEdgeGateways(ctx, ctx.State.SourceVDCID)
}

func deleteSourceOrgVDC(ctx *Context) error {
	return ctx.VCD.DeleteOrgVDC(ctx, ctx.State.SourceVDCID)
}

func renameTargetNetworks(ctx *Context) error {
	return ctx.VCD.RenameOrgVDCNetworks(ctx, ctx.State.TargetVDCID)
}

// renameTargetOrgVDC completes the identity swap: with the source VDC
// gone, the target takes over the marker-free source name.
func renameTargetOrgVDC(ctx *Context) error {
	return ctx.VCD.RenameOrgVDC(ctx, ctx.State.TargetVDCID, ctx.Config.VCD.SourceOrgVDC)
}

// reconcileExternalNetworkIPPool returns IP ranges that were dedicated
// to the deleted source edge gateway back to the external network's
// shared pool. Skipped, not failed, when the configured external network
// matches no uplink or the uplink carries no ranges.
func reconcileExternalNetworkIPPool(ctx *Context) error {
	name := ctx.Config.VCD.ExternalNetwork

	uplink, ok := ctx.State.EdgeGateways.UplinkByName(name)
	if !ok {
		LogStepSkipped(ctx.Observer, "reconcile external network IP pool",
			"no edge gateway uplink named "+name)
		return nil
	}

	ranges := uplink.AllocatedRanges()
	if len(ranges) == 0 {
		LogStepSkipped(ctx.Observer, "reconcile external network IP pool",
			"uplink "+name+" has no IP ranges to return")
		return nil
	}

	return ctx.VCD.UpdateExternalNetworkIPPool(ctx, name, ranges)
}

func logoutVCD(ctx *Context) error {
	return ctx.VCD.Logout(ctx)
}
