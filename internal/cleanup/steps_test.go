package cleanup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The step order is load-bearing (see Steps); this test pins it down so
// a reordering shows up as an explicit diff.
func TestSteps_FixedOrder(t *testing.T) {
	t.Parallel()
	steps := Steps()

	names := make([]string, 0, len(steps))
	for _, step := range steps {
		names = append(names, step.Name)
	}

	assert.Equal(t, []string{
		"log in to VMware Cloud Director",
		"discover NSX-T compute managers",
		"resolve organization",
		"resolve source provider VDC",
		"resolve source org VDC",
		"validate source org VDC is NSX-V backed",
		"read source edge gateways",
		"resolve target provider VDC",
		"resolve target org VDC",
		"validate target org VDC is NSX-T backed",
		"validate target org VDC is enabled",
		"list target org VDC networks",
		"validate no media is attached to target VMs",
		"migrate catalog items",
		"remove NSX-T bridging",
		"delete source org VDC networks",
		"delete source edge gateways",
		"delete source org VDC",
		"rename target org VDC networks",
		"rename target org VDC",
		"reconcile external network IP pool",
		"log out of VMware Cloud Director",
	}, names)
}

func TestSteps_OnlyLogoutIsBestEffort(t *testing.T) {
	t.Parallel()
	steps := Steps()

	for i, step := range steps {
		if i == len(steps)-1 {
			assert.True(t, step.BestEffort, "session teardown must be best-effort")
			continue
		}
		assert.False(t, step.BestEffort, "step %q must be fatal on failure", step.Name)
	}
}

func TestSteps_AllRunnable(t *testing.T) {
	t.Parallel()
	for _, step := range Steps() {
		require.NotNil(t, step.Run, "step %q has no run function", step.Name)
		require.NotEmpty(t, step.Name)
	}
}
