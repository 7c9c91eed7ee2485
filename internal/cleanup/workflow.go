package cleanup

import (
	"fmt"
	"time"
)

// Step is one named entry of the cleanup workflow.
type Step struct {
	// Name identifies the step in logs and errors.
	Name string

	// Run executes the step against the workflow context.
	Run func(*Context) error

	// BestEffort marks a step whose failure is logged but does not fail
	// the run. Only session teardown qualifies: by the time it runs,
	// all mutating work is complete.
	BestEffort bool
}

// Steps returns the fixed, ordered cleanup step list.
//
// The order is load-bearing: every read or validation that depends on a
// soon-to-be-deleted object runs before the deletion (the edge gateway
// payload is captured long before the gateway is deleted), bridge
// teardown precedes the deletion of the networks it references, and the
// source org VDC is deleted only after its child networks and gateways.
// Renames run last so source and target names never collide during the
// transition.
func Steps() []Step {
	return []Step{
		{Name: "log in to VMware Cloud Director", Run: loginVCD},
		{Name: "discover NSX-T compute managers", Run: connectNSXT},
		{Name: "resolve organization", Run: resolveOrganization},
		{Name: "resolve source provider VDC", Run: resolveSourceProviderVDC},
		{Name: "resolve source org VDC", Run: resolveSourceOrgVDC},
		{Name: "validate source org VDC is NSX-V backed", Run: validateSourceBacking},
		{Name: "read source edge gateways", Run: readSourceEdgeGateways},
		{Name: "resolve target provider VDC", Run: resolveTargetProviderVDC},
		{Name: "resolve target org VDC", Run: resolveTargetOrgVDC},
		{Name: "validate target org VDC is NSX-T backed", Run: validateTargetBacking},
		{Name: "validate target org VDC is enabled", Run: validateTargetEnabled},
		{Name: "list target org VDC networks", Run: listTargetNetworks},
		{Name: "validate no media is attached to target VMs", Run: validateNoMediaAttached},
		{Name: "migrate catalog items", Run: migrateCatalogItems},
		{Name: "remove NSX-T bridging", Run: clearBridging},
		{Name: "delete source org VDC networks", Run: deleteSourceNetworks},
		{Name: "delete source edge gateways", Run: deleteSourceEdgeGateways},
		{Name: "delete source org VDC", Run: deleteSourceOrgVDC},
		{Name: "rename target org VDC networks", Run: renameTargetNetworks},
		{Name: "rename target org VDC", Run: renameTargetOrgVDC},
		{Name: "reconcile external network IP pool", Run: reconcileExternalNetworkIPPool},
		{Name: "log out of VMware Cloud Director", Run: logoutVCD, BestEffort: true},
	}
}

// Run drives the cleanup workflow: each step executes in order, and the
// first failing non-best-effort step aborts the run with its error.
// Already-applied remote mutations are not rolled back; the validation
// gates all run before the first irreversible step.
func Run(ctx *Context) error {
	steps := Steps()
	start := time.Now()
	ctx.Observer.Printf("Starting cleanup of source org VDC %s (%d steps)", ctx.Config.VCD.SourceOrgVDC, len(steps))

	for i, step := range steps {
		stepStart := time.Now()
		ctx.Observer.Printf("[%s (%d/%d)] starting", step.Name, i+1, len(steps))

		if err := step.Run(ctx); err != nil {
			if step.BestEffort {
				ctx.Observer.Event(Event{
					Type:    EventBestEffortFailed,
					Step:    step.Name,
					Message: fmt.Sprintf("ignored: %v", err),
				})
				continue
			}
			LogStepFailed(ctx.Observer, step.Name, err)
			return fmt.Errorf("%s: %w", step.Name, err)
		}

		LogStepComplete(ctx.Observer, step.Name, time.Since(stepStart))
	}

	ctx.Observer.Printf("Successfully cleaned up source org VDC %s in %v",
		ctx.Config.VCD.SourceOrgVDC, time.Since(start).Round(time.Millisecond))
	return nil
}
