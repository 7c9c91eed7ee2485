package vcd

import (
	"context"
	"fmt"
	"net/http"

	"github.com/imamik/vcdmigrate/internal/util/naming"
)

type catalogItemRecord struct {
	HREF string `json:"href"`
	Name string `json:"name"`
}

type externalNetworkRecord struct {
	HREF string `json:"href"`
	Name string `json:"name"`
}

// cloneParams moves a catalog item between VDCs: cloning with source
// deletion is the API's move primitive.
type cloneParams struct {
	Name           string    `json:"name"`
	Source         entityRef `json:"source"`
	IsSourceDelete bool      `json:"isSourceDelete"`
}

type entityRef struct {
	HREF string `json:"href"`
}

// MigrateCatalogItems moves all vApp templates and media items owned by
// the source org VDC into the target org VDC. Each move is an
// asynchronous task awaited before the next item starts, so a failure
// leaves no item half-moved.
func (c *RealClient) MigrateCatalogItems(ctx context.Context, sourceVDCID, targetVDCID, orgURL string) error {
	sourceFilter := fmt.Sprintf("vdc==%s;org==%s", c.vdcHref(sourceVDCID), orgURL)

	templates, err := queryRecords[catalogItemRecord](ctx, c, "vAppTemplate", sourceFilter)
	if err != nil {
		return &OperationError{Op: "list vApp templates", Err: err}
	}
	media, err := queryRecords[catalogItemRecord](ctx, c, "media", sourceFilter)
	if err != nil {
		return &OperationError{Op: "list media items", Err: err}
	}

	targetPath := "/api/vdc/" + uuidFromURN(targetVDCID)
	for _, item := range templates {
		params := cloneParams{Name: item.Name, Source: entityRef{HREF: item.HREF}, IsSourceDelete: true}
		op := fmt.Sprintf("move vApp template %s", item.Name)
		if err := c.mutate(ctx, op, http.MethodPost, targetPath+"/action/cloneVAppTemplate", params); err != nil {
			return err
		}
	}
	for _, item := range media {
		params := cloneParams{Name: item.Name, Source: entityRef{HREF: item.HREF}, IsSourceDelete: true}
		op := fmt.Sprintf("move media %s", item.Name)
		if err := c.mutate(ctx, op, http.MethodPost, targetPath+"/action/cloneMedia", params); err != nil {
			return err
		}
	}
	return nil
}

// DeleteOrgVDCNetworks deletes every network owned by the org VDC.
func (c *RealClient) DeleteOrgVDCNetworks(ctx context.Context, vdcID string) error {
	networks, err := c.GetOrgVDCNetworks(ctx, vdcID, "sourceOrgVDCNetworks", false)
	if err != nil {
		return &OperationError{Op: "list org VDC networks", Err: err}
	}

	for _, network := range networks {
		op := fmt.Sprintf("delete org VDC network %s", network.Name)
		if err := c.mutate(ctx, op, http.MethodDelete, "/cloudapi/1.0.0/orgVdcNetworks/"+network.ID, nil); err != nil {
			return err
		}
	}
	return nil
}

// DeleteEdgeGateways deletes every edge gateway owned by the org VDC.
func (c *RealClient) DeleteEdgeGateways(ctx context.Context, vdcID string) error {
	page, err := c.GetEdgeGateways(ctx, vdcID)
	if err != nil {
		return &OperationError{Op: "list edge gateways", Err: err}
	}

	for _, gateway := range page.Values {
		op := fmt.Sprintf("delete edge gateway %s", gateway.Name)
		if err := c.mutate(ctx, op, http.MethodDelete, "/cloudapi/1.0.0/edgeGateways/"+gateway.ID, nil); err != nil {
			return err
		}
	}
	return nil
}

// DeleteOrgVDC deletes the org VDC. Its networks and edge gateways must
// already be gone.
func (c *RealClient) DeleteOrgVDC(ctx context.Context, vdcID string) error {
	path := c.adminVDCPath(vdcID) + "?recursive=true&force=true"
	return c.mutate(ctx, "delete org VDC", http.MethodDelete, path, nil)
}

// RenameOrgVDCNetworks strips the migration marker from every network
// name in the org VDC.
func (c *RealClient) RenameOrgVDCNetworks(ctx context.Context, vdcID string) error {
	networks, err := c.GetOrgVDCNetworks(ctx, vdcID, "targetOrgVDCNetworks", false)
	if err != nil {
		return &OperationError{Op: "list org VDC networks", Err: err}
	}

	for _, network := range networks {
		if !naming.IsTransitionalNetwork(network.Name) {
			continue
		}
		op := fmt.Sprintf("rename org VDC network %s", network.Name)
		path := "/cloudapi/1.0.0/orgVdcNetworks/" + network.ID
		err := c.roundTripUpdate(ctx, op, path, func(doc map[string]any) error {
			doc["name"] = naming.FinalNetwork(network.Name)
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// RenameOrgVDC renames the org VDC to newName.
func (c *RealClient) RenameOrgVDC(ctx context.Context, vdcID, newName string) error {
	return c.roundTripUpdate(ctx, "rename org VDC", c.adminVDCPath(vdcID), func(doc map[string]any) error {
		doc["name"] = newName
		return nil
	})
}

// UpdateExternalNetworkIPPool appends the given IP ranges to the
// allocation pool of the named external network.
func (c *RealClient) UpdateExternalNetworkIPPool(ctx context.Context, networkName string, ranges []IPRange) error {
	records, err := queryRecords[externalNetworkRecord](ctx, c, "externalNetwork", "name=="+networkName)
	if err != nil {
		return &OperationError{Op: "resolve external network", Err: err}
	}
	if len(records) == 0 {
		return &NotFoundError{Kind: "external network", Name: networkName}
	}

	id := "urn:vcloud:network:" + uuidFromHref(records[0].HREF)
	op := fmt.Sprintf("update external network %s IP pool", networkName)
	return c.roundTripUpdate(ctx, op, "/cloudapi/1.0.0/externalNetworks/"+id, func(doc map[string]any) error {
		return appendIPRanges(doc, ranges)
	})
}

// roundTripUpdate fetches the full entity representation, applies the
// mutation, and writes the whole document back so fields this client
// does not model survive the update.
func (c *RealClient) roundTripUpdate(ctx context.Context, op, path string, mutate func(map[string]any) error) error {
	var doc map[string]any
	if err := c.get(ctx, path, &doc); err != nil {
		return &OperationError{Op: op, Err: err}
	}
	if err := mutate(doc); err != nil {
		return &OperationError{Op: op, Err: err}
	}
	return c.mutate(ctx, op, http.MethodPut, path, doc)
}

// appendIPRanges pushes ranges into the first subnet's IP range list of
// an external network document.
func appendIPRanges(doc map[string]any, ranges []IPRange) error {
	subnets, ok := doc["subnets"].(map[string]any)
	if !ok {
		return fmt.Errorf("external network payload has no subnets")
	}
	values, ok := subnets["values"].([]any)
	if !ok || len(values) == 0 {
		return fmt.Errorf("external network has no subnet values")
	}
	subnet, ok := values[0].(map[string]any)
	if !ok {
		return fmt.Errorf("unexpected subnet payload")
	}
	ipRanges, ok := subnet["ipRanges"].(map[string]any)
	if !ok {
		ipRanges = map[string]any{}
		subnet["ipRanges"] = ipRanges
	}
	pool, _ := ipRanges["values"].([]any)
	for _, r := range ranges {
		pool = append(pool, map[string]any{
			"startAddress": r.StartAddress,
			"endAddress":   r.EndAddress,
		})
	}
	ipRanges["values"] = pool
	return nil
}
