package testing

import "github.com/imamik/vcdmigrate/internal/platform/vcd"

// EdgeGatewayPage builds a single-gateway payload with one uplink
// carrying the given IP ranges.
func EdgeGatewayPage(uplinkName string, ranges ...vcd.IPRange) vcd.EdgeGatewayPage {
	return vcd.EdgeGatewayPage{
		Values: []vcd.EdgeGateway{
			{
				ID:   "urn:vcloud:gateway:11111111-0000-0000-0000-000000000001",
				Name: "edge-01",
				Uplinks: []vcd.UplinkNetwork{
					{
						UplinkName: uplinkName,
						Subnets: vcd.SubnetPage{
							Values: []vcd.Subnet{
								{
									Gateway:      "203.0.113.1",
									PrefixLength: 24,
									IPRanges:     vcd.IPRangePage{Values: ranges},
								},
							},
						},
					},
				},
			},
		},
	}
}

// OrgVDCNetworks builds a list of migrated org VDC networks still
// carrying the transitional name marker.
func OrgVDCNetworks(names ...string) []vcd.OrgVDCNetwork {
	networks := make([]vcd.OrgVDCNetwork, 0, len(names))
	for i, name := range names {
		networks = append(networks, vcd.OrgVDCNetwork{
			ID:               "urn:vcloud:network:00000000-0000-0000-0000-00000000000" + string(rune('1'+i)),
			Name:             name + "-v2t",
			NetworkType:      "NAT_ROUTED",
			BackingNetworkID: "ls-" + name,
		})
	}
	return networks
}

// IPRange builds an allocation range.
func IPRange(start, end string) vcd.IPRange {
	return vcd.IPRange{StartAddress: start, EndAddress: end}
}
