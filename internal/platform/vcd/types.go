package vcd

// ProviderVDC identifies a provider VDC together with the network
// virtualization technology backing it.
type ProviderVDC struct {
	ID         string
	Name       string
	NSXTBacked bool
}

// EdgeGatewayPage is the edge gateway collection returned for an org VDC.
// The full uplink payload is retained because it is consumed after the
// gateway itself has been deleted.
type EdgeGatewayPage struct {
	Values []EdgeGateway `json:"values"`
}

// EdgeGateway is a routing boundary object owned by an org VDC.
type EdgeGateway struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Uplinks []UplinkNetwork `json:"edgeGatewayUplinks"`
}

// UplinkNetwork connects an edge gateway to an external network.
type UplinkNetwork struct {
	UplinkID   string     `json:"uplinkId"`
	UplinkName string     `json:"uplinkName"`
	Subnets    SubnetPage `json:"subnets"`
}

// SubnetPage wraps the subnet list of an uplink or external network.
type SubnetPage struct {
	Values []Subnet `json:"values"`
}

// Subnet carries the gateway, prefix and IP allocations of one subnet.
type Subnet struct {
	Gateway      string      `json:"gateway"`
	PrefixLength int         `json:"prefixLength"`
	IPRanges     IPRangePage `json:"ipRanges"`
}

// IPRangePage wraps a list of IP range allocations.
type IPRangePage struct {
	Values []IPRange `json:"values"`
}

// IPRange is a contiguous IP address allocation.
type IPRange struct {
	StartAddress string `json:"startAddress"`
	EndAddress   string `json:"endAddress"`
}

// OrgVDCNetwork is a network owned by an org VDC.
type OrgVDCNetwork struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	NetworkType      string `json:"networkType"`
	BackingNetworkID string `json:"backingNetworkId"`
}

// UplinkByName returns the first uplink of the first gateway in the page
// whose name matches, or false when the page holds no such uplink.
func (p EdgeGatewayPage) UplinkByName(name string) (UplinkNetwork, bool) {
	if len(p.Values) == 0 {
		return UplinkNetwork{}, false
	}
	for _, uplink := range p.Values[0].Uplinks {
		if uplink.UplinkName == name {
			return uplink, true
		}
	}
	return UplinkNetwork{}, false
}

// AllocatedRanges returns the IP ranges of the uplink's first subnet.
// Gateways hand IP allocations back to the external network from here
// once they are deleted.
func (u UplinkNetwork) AllocatedRanges() []IPRange {
	if len(u.Subnets.Values) == 0 {
		return nil
	}
	return u.Subnets.Values[0].IPRanges.Values
}
