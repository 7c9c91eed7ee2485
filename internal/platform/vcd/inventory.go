package vcd

import (
	"context"
	"fmt"
	"strings"
)

type orgRecord struct {
	HREF string `json:"href"`
	Name string `json:"name"`
}

type providerVDCRecord struct {
	HREF       string `json:"href"`
	Name       string `json:"name"`
	NSXTBacked bool   `json:"nsxTBacked"`
}

type orgVDCRecord struct {
	HREF string `json:"href"`
	Name string `json:"name"`
}

type vmRecord struct {
	Name          string `json:"name"`
	ContainerName string `json:"containerName"`
	MediaInserted bool   `json:"mediaInserted"`
}

// adminVDC is the administrative view of an org VDC.
type adminVDC struct {
	Name                 string `json:"name"`
	IsEnabled            bool   `json:"isEnabled"`
	NetworkProviderType  string `json:"networkProviderType"`
	ProviderVDCReference struct {
		HREF string `json:"href"`
		Name string `json:"name"`
	} `json:"providerVdcReference"`
}

type orgVDCNetworkPage struct {
	Values []OrgVDCNetwork `json:"values"`
}

// GetOrgURL resolves an organization by name to its API URL.
func (c *RealClient) GetOrgURL(ctx context.Context, name string) (string, error) {
	records, err := queryRecords[orgRecord](ctx, c, "organization", "name=="+name)
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return "", &NotFoundError{Kind: "organization", Name: name}
	}
	return records[0].HREF, nil
}

// GetProviderVDC resolves a provider VDC by name.
func (c *RealClient) GetProviderVDC(ctx context.Context, name string) (ProviderVDC, error) {
	records, err := queryRecords[providerVDCRecord](ctx, c, "providerVdc", "name=="+name)
	if err != nil {
		return ProviderVDC{}, err
	}
	if len(records) == 0 {
		return ProviderVDC{}, &NotFoundError{Kind: "provider VDC", Name: name}
	}
	return ProviderVDC{
		ID:         "urn:vcloud:providervdc:" + uuidFromHref(records[0].HREF),
		Name:       records[0].Name,
		NSXTBacked: records[0].NSXTBacked,
	}, nil
}

// GetOrgVDC resolves an org VDC by name within the organization. With
// persist set, the resolved id is cached under role and returned from
// the cache on repeated lookups.
func (c *RealClient) GetOrgVDC(ctx context.Context, orgURL, name, role string, persist bool) (string, error) {
	if persist {
		c.mu.Lock()
		cached, ok := c.idCache[role]
		c.mu.Unlock()
		if ok {
			return cached, nil
		}
	}

	filter := fmt.Sprintf("name==%s;org==%s", name, orgURL)
	records, err := queryRecords[orgVDCRecord](ctx, c, "orgVdc", filter)
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return "", &NotFoundError{Kind: "org VDC", Name: name}
	}

	id := "urn:vcloud:vdc:" + uuidFromHref(records[0].HREF)
	if persist {
		c.mu.Lock()
		c.idCache[role] = id
		c.mu.Unlock()
	}
	return id, nil
}

// GetEdgeGateways returns the full edge gateway payload of the org VDC.
func (c *RealClient) GetEdgeGateways(ctx context.Context, vdcID string) (EdgeGatewayPage, error) {
	var page EdgeGatewayPage
	path := "/cloudapi/1.0.0/edgeGateways?filter=(orgVdc.id==" + vdcID + ")"
	if err := c.get(ctx, path, &page); err != nil {
		return EdgeGatewayPage{}, err
	}
	return page, nil
}

// GetOrgVDCNetworks lists the networks owned by the org VDC. With
// persist set, the list is cached under label.
func (c *RealClient) GetOrgVDCNetworks(ctx context.Context, vdcID, label string, persist bool) ([]OrgVDCNetwork, error) {
	if persist {
		c.mu.Lock()
		cached, ok := c.netCache[label]
		c.mu.Unlock()
		if ok {
			return cached, nil
		}
	}

	var page orgVDCNetworkPage
	path := "/cloudapi/1.0.0/orgVdcNetworks?filter=(orgVdc.id==" + vdcID + ")"
	if err := c.get(ctx, path, &page); err != nil {
		return nil, err
	}

	if persist {
		c.mu.Lock()
		c.netCache[label] = page.Values
		c.mu.Unlock()
	}
	return page.Values, nil
}

// ValidateOrgVDCBacking checks that the org VDC is bound to the given
// provider VDC and that its network provider matches the expected
// backing technology.
func (c *RealClient) ValidateOrgVDCBacking(ctx context.Context, vdcID, providerVDCID string, nsxtBacked bool) error {
	vdc, err := c.getAdminVDC(ctx, vdcID)
	if err != nil {
		return err
	}

	if uuidFromHref(vdc.ProviderVDCReference.HREF) != uuidFromURN(providerVDCID) {
		return validationf("org VDC %s is backed by provider VDC %s, not the expected one",
			vdc.Name, vdc.ProviderVDCReference.Name)
	}

	expected := "NSX_V"
	if nsxtBacked {
		expected = "NSX_T"
	}
	if vdc.NetworkProviderType != expected {
		return validationf("org VDC %s network provider is %s, expected %s",
			vdc.Name, vdc.NetworkProviderType, expected)
	}
	return nil
}

// ValidateOrgVDCEnabled checks that the org VDC is in the enabled state.
func (c *RealClient) ValidateOrgVDCEnabled(ctx context.Context, vdcID string) error {
	vdc, err := c.getAdminVDC(ctx, vdcID)
	if err != nil {
		return err
	}
	if !vdc.IsEnabled {
		return validationf("org VDC %s is disabled", vdc.Name)
	}
	return nil
}

// ValidateNoMediaAttached checks that no VM in the org VDC has media
// inserted. With strict set, attached media is a validation failure.
func (c *RealClient) ValidateNoMediaAttached(ctx context.Context, vdcID string, strict bool) error {
	records, err := queryRecords[vmRecord](ctx, c, "vm", "vdc=="+c.vdcHref(vdcID))
	if err != nil {
		return err
	}

	var attached []string
	for _, vm := range records {
		if vm.MediaInserted {
			attached = append(attached, fmt.Sprintf("%s/%s", vm.ContainerName, vm.Name))
		}
	}
	if len(attached) > 0 && strict {
		return validationf("media attached to VMs: %s", strings.Join(attached, ", "))
	}
	return nil
}

func (c *RealClient) getAdminVDC(ctx context.Context, vdcID string) (adminVDC, error) {
	var vdc adminVDC
	if err := c.get(ctx, c.adminVDCPath(vdcID), &vdc); err != nil {
		return adminVDC{}, err
	}
	return vdc, nil
}

func (c *RealClient) adminVDCPath(vdcID string) string {
	return "/api/admin/vdc/" + uuidFromURN(vdcID)
}

func (c *RealClient) vdcHref(vdcID string) string {
	return c.baseURL + "/api/vdc/" + uuidFromURN(vdcID)
}
