package vcd

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/vcdmigrate/internal/config"
)

// testServer mocks the Cloud Director API.
type testServer struct {
	server *httptest.Server
	mux    *http.ServeMux
}

func newTestServer() *testServer {
	mux := http.NewServeMux()
	return &testServer{server: httptest.NewServer(mux), mux: mux}
}

func (ts *testServer) close() { ts.server.Close() }

func (ts *testServer) handleFunc(pattern string, handler http.HandlerFunc) {
	ts.mux.HandleFunc(pattern, handler)
}

// client returns a RealClient pointed at the test server with fast
// retry and task polling.
func (ts *testServer) client() *RealClient {
	cfg := config.VCDConfig{
		Endpoint:     config.Endpoint{Host: "ignored.example.com", Username: "admin", Password: "secret"},
		Organization: "acme",
	}
	return NewRealClient(cfg,
		WithBaseURL(ts.server.URL),
		WithHTTPClient(ts.server.Client()),
		WithTimeouts(&config.Timeouts{
			HTTP:              5 * time.Second,
			Task:              2 * time.Second,
			TaskPollInterval:  5 * time.Millisecond,
			RetryMaxAttempts:  2,
			RetryInitialDelay: time.Millisecond,
		}),
	)
}

func jsonResponse(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// queryHandler serves one typed query result regardless of paging.
func queryHandler(recordsByType map[string][]map[string]any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records := recordsByType[r.URL.Query().Get("type")]
		jsonResponse(w, http.StatusOK, map[string]any{
			"record": records,
			"total":  len(records),
		})
	}
}

// taskHandler serves a task that reaches the final status after the
// given number of polls.
func (ts *testServer) taskHandler(path, finalStatus string, pollsUntilDone int32) string {
	var polls int32
	ts.handleFunc(path, func(w http.ResponseWriter, _ *http.Request) {
		status := "running"
		if atomic.AddInt32(&polls, 1) > pollsUntilDone {
			status = finalStatus
		}
		jsonResponse(w, http.StatusOK, map[string]any{
			"href":      ts.server.URL + path,
			"status":    status,
			"operation": "test operation",
			"error":     map[string]any{"message": "task went sideways"},
		})
	})
	return ts.server.URL + path
}

func TestLogin_StoresBearerToken(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	ts.handleFunc("/api/sessions", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "admin", user)
		assert.Equal(t, "secret", pass)
		w.Header().Set(tokenHeader, "bearer-123")
		w.WriteHeader(http.StatusOK)
	})

	var gotAuth string
	ts.handleFunc("/api/query", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		jsonResponse(w, http.StatusOK, map[string]any{"record": []any{}, "total": 0})
	})

	c := ts.client()
	require.NoError(t, c.Login(context.Background()))

	_, err := c.GetOrgURL(context.Background(), "acme")
	require.Error(t, err) // no records
	assert.Equal(t, "Bearer bearer-123", gotAuth)
}

func TestLogin_BadCredentials(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	ts.handleFunc("/api/sessions", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	err := ts.client().Login(context.Background())

	require.Error(t, err)
	assert.True(t, IsAuth(err), "expected AuthError, got %v", err)
}

func TestLogin_MissingTokenHeader(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	ts.handleFunc("/api/sessions", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	err := ts.client().Login(context.Background())

	require.Error(t, err)
	assert.True(t, IsAuth(err))
}

func TestGetOrgURL(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	ts.handleFunc("/api/query", queryHandler(map[string][]map[string]any{
		"organization": {{"href": ts.server.URL + "/api/org/org-uuid-1", "name": "acme"}},
	}))

	orgURL, err := ts.client().GetOrgURL(context.Background(), "acme")

	require.NoError(t, err)
	assert.Equal(t, ts.server.URL+"/api/org/org-uuid-1", orgURL)
}

func TestGetOrgURL_NotFound(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	ts.handleFunc("/api/query", queryHandler(nil))

	_, err := ts.client().GetOrgURL(context.Background(), "ghost")

	require.Error(t, err)
	assert.True(t, IsNotFound(err), "expected NotFoundError, got %v", err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestGetProviderVDC(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	ts.handleFunc("/api/query", queryHandler(map[string][]map[string]any{
		"providerVdc": {{
			"href":       ts.server.URL + "/api/admin/providervdc/pv-uuid-1",
			"name":       "nsxt-pvdc",
			"nsxTBacked": true,
		}},
	}))

	pvdc, err := ts.client().GetProviderVDC(context.Background(), "nsxt-pvdc")

	require.NoError(t, err)
	assert.Equal(t, "urn:vcloud:providervdc:pv-uuid-1", pvdc.ID)
	assert.Equal(t, "nsxt-pvdc", pvdc.Name)
	assert.True(t, pvdc.NSXTBacked)
}

func TestGetOrgVDC_PersistCaches(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	var queries int32
	ts.handleFunc("/api/query", func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&queries, 1)
		jsonResponse(w, http.StatusOK, map[string]any{
			"record": []map[string]any{{"href": ts.server.URL + "/api/vdc/vdc-uuid-1", "name": "acme-vdc"}},
			"total":  1,
		})
	})

	c := ts.client()
	id, err := c.GetOrgVDC(context.Background(), "org-url", "acme-vdc", "sourceOrgVDC", true)
	require.NoError(t, err)
	assert.Equal(t, "urn:vcloud:vdc:vdc-uuid-1", id)

	again, err := c.GetOrgVDC(context.Background(), "org-url", "acme-vdc", "sourceOrgVDC", true)
	require.NoError(t, err)
	assert.Equal(t, id, again)
	assert.Equal(t, int32(1), atomic.LoadInt32(&queries), "persisted lookup must be served from cache")
}

func TestValidateOrgVDCBacking(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	ts.handleFunc("/api/admin/vdc/vdc-uuid-1", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]any{
			"name":                 "acme-vdc",
			"isEnabled":            true,
			"networkProviderType":  "NSX_V",
			"providerVdcReference": map[string]any{"href": ts.server.URL + "/api/admin/providervdc/pv-uuid-1", "name": "nsxv-pvdc"},
		})
	})

	c := ts.client()
	vdcID := "urn:vcloud:vdc:vdc-uuid-1"

	require.NoError(t, c.ValidateOrgVDCBacking(context.Background(), vdcID, "urn:vcloud:providervdc:pv-uuid-1", false))

	err := c.ValidateOrgVDCBacking(context.Background(), vdcID, "urn:vcloud:providervdc:pv-uuid-1", true)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "NSX_V")

	err = c.ValidateOrgVDCBacking(context.Background(), vdcID, "urn:vcloud:providervdc:other", false)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "not the expected one")
}

func TestValidateOrgVDCEnabled(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	ts.handleFunc("/api/admin/vdc/vdc-off", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]any{"name": "acme-vdc-t", "isEnabled": false})
	})

	err := ts.client().ValidateOrgVDCEnabled(context.Background(), "urn:vcloud:vdc:vdc-off")

	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "disabled")
}

func TestValidateNoMediaAttached(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	ts.handleFunc("/api/query", queryHandler(map[string][]map[string]any{
		"vm": {
			{"name": "vm-1", "containerName": "vapp-1", "mediaInserted": true},
			{"name": "vm-2", "containerName": "vapp-1", "mediaInserted": false},
		},
	}))

	c := ts.client()
	vdcID := "urn:vcloud:vdc:vdc-uuid-1"

	err := c.ValidateNoMediaAttached(context.Background(), vdcID, true)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "vapp-1/vm-1")

	// Non-strict mode reports nothing.
	require.NoError(t, c.ValidateNoMediaAttached(context.Background(), vdcID, false))
}

func TestGetEdgeGateways_ParsesUplinkPayload(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	ts.handleFunc("/cloudapi/1.0.0/edgeGateways", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]any{
			"values": []map[string]any{{
				"id":   "urn:vcloud:gateway:gw-1",
				"name": "edge-01",
				"edgeGatewayUplinks": []map[string]any{{
					"uplinkName": "ext-net",
					"subnets": map[string]any{
						"values": []map[string]any{{
							"gateway":      "203.0.113.1",
							"prefixLength": 24,
							"ipRanges": map[string]any{
								"values": []map[string]any{
									{"startAddress": "203.0.113.10", "endAddress": "203.0.113.20"},
								},
							},
						}},
					},
				}},
			}},
		})
	})

	page, err := ts.client().GetEdgeGateways(context.Background(), "urn:vcloud:vdc:vdc-uuid-1")

	require.NoError(t, err)
	require.Len(t, page.Values, 1)

	uplink, ok := page.UplinkByName("ext-net")
	require.True(t, ok)
	ranges := uplink.AllocatedRanges()
	require.Len(t, ranges, 1)
	assert.Equal(t, "203.0.113.10", ranges[0].StartAddress)

	_, ok = page.UplinkByName("missing")
	assert.False(t, ok)
}

func TestDeleteOrgVDC_WaitsForTask(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	taskURL := ts.taskHandler("/api/task/delete-vdc", "success", 2)
	ts.handleFunc("/api/admin/vdc/vdc-uuid-1", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "true", r.URL.Query().Get("recursive"))
		assert.Equal(t, "true", r.URL.Query().Get("force"))
		jsonResponse(w, http.StatusAccepted, map[string]any{"href": taskURL, "status": "running"})
	})

	err := ts.client().DeleteOrgVDC(context.Background(), "urn:vcloud:vdc:vdc-uuid-1")

	require.NoError(t, err)
}

func TestDeleteOrgVDC_TaskFails(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	taskURL := ts.taskHandler("/api/task/delete-vdc", "error", 0)
	ts.handleFunc("/api/admin/vdc/vdc-uuid-1", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusAccepted, map[string]any{"href": taskURL, "status": "running"})
	})

	err := ts.client().DeleteOrgVDC(context.Background(), "urn:vcloud:vdc:vdc-uuid-1")

	require.Error(t, err)
	assert.True(t, IsOperation(err))
	assert.Contains(t, err.Error(), "task went sideways")
}

func TestDeleteOrgVDCNetworks_DeletesEachNetwork(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	taskURL := ts.taskHandler("/api/task/delete-net", "success", 0)
	ts.handleFunc("/cloudapi/1.0.0/orgVdcNetworks", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]any{
			"values": []map[string]any{
				{"id": "urn:vcloud:network:n1", "name": "app-v2t"},
				{"id": "urn:vcloud:network:n2", "name": "db-v2t"},
			},
		})
	})

	var deleted []string
	ts.handleFunc("/cloudapi/1.0.0/orgVdcNetworks/", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		deleted = append(deleted, r.URL.Path)
		w.Header().Set("Location", taskURL)
		w.WriteHeader(http.StatusAccepted)
	})

	err := ts.client().DeleteOrgVDCNetworks(context.Background(), "urn:vcloud:vdc:vdc-uuid-1")

	require.NoError(t, err)
	assert.Equal(t, []string{
		"/cloudapi/1.0.0/orgVdcNetworks/urn:vcloud:network:n1",
		"/cloudapi/1.0.0/orgVdcNetworks/urn:vcloud:network:n2",
	}, deleted)
}

func TestRenameOrgVDCNetworks_OnlyMarkedNetworks(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	taskURL := ts.taskHandler("/api/task/rename-net", "success", 0)
	ts.handleFunc("/cloudapi/1.0.0/orgVdcNetworks", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]any{
			"values": []map[string]any{
				{"id": "urn:vcloud:network:n1", "name": "app-net-v2t"},
				{"id": "urn:vcloud:network:n2", "name": "stable-net"},
			},
		})
	})

	var putNames []string
	ts.handleFunc("/cloudapi/1.0.0/orgVdcNetworks/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			jsonResponse(w, http.StatusOK, map[string]any{
				"id":               "urn:vcloud:network:n1",
				"name":             "app-net-v2t",
				"backingNetworkId": "ls-app",
			})
		case http.MethodPut:
			body, _ := io.ReadAll(r.Body)
			var doc map[string]any
			require.NoError(t, json.Unmarshal(body, &doc))
			putNames = append(putNames, doc["name"].(string))
			// Entity fields unknown to the client must survive the round trip.
			assert.Equal(t, "ls-app", doc["backingNetworkId"])
			w.Header().Set("Location", taskURL)
			w.WriteHeader(http.StatusAccepted)
		}
	})

	err := ts.client().RenameOrgVDCNetworks(context.Background(), "urn:vcloud:vdc:vdc-uuid-1")

	require.NoError(t, err)
	assert.Equal(t, []string{"app-net"}, putNames, "only the marked network is renamed")
}

func TestRenameOrgVDC(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	taskURL := ts.taskHandler("/api/task/rename-vdc", "success", 0)
	var putName string
	ts.handleFunc("/api/admin/vdc/vdc-uuid-2", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			jsonResponse(w, http.StatusOK, map[string]any{"name": "acme-vdc-t", "isEnabled": true})
		case http.MethodPut:
			var doc map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&doc))
			putName = doc["name"].(string)
			jsonResponse(w, http.StatusAccepted, map[string]any{"href": taskURL, "status": "running"})
		}
	})

	err := ts.client().RenameOrgVDC(context.Background(), "urn:vcloud:vdc:vdc-uuid-2", "acme-vdc")

	require.NoError(t, err)
	assert.Equal(t, "acme-vdc", putName)
}

func TestUpdateExternalNetworkIPPool_AppendsRanges(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	taskURL := ts.taskHandler("/api/task/update-extnet", "success", 0)
	ts.handleFunc("/api/query", queryHandler(map[string][]map[string]any{
		"externalNetwork": {{"href": ts.server.URL + "/api/admin/network/ext-uuid-1", "name": "ext-net"}},
	}))

	var putDoc map[string]any
	ts.handleFunc("/cloudapi/1.0.0/externalNetworks/urn:vcloud:network:ext-uuid-1", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			jsonResponse(w, http.StatusOK, map[string]any{
				"name": "ext-net",
				"subnets": map[string]any{
					"values": []map[string]any{{
						"gateway": "203.0.113.1",
						"ipRanges": map[string]any{
							"values": []map[string]any{
								{"startAddress": "203.0.113.2", "endAddress": "203.0.113.9"},
							},
						},
					}},
				},
			})
		case http.MethodPut:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&putDoc))
			w.Header().Set("Location", taskURL)
			w.WriteHeader(http.StatusAccepted)
		}
	})

	err := ts.client().UpdateExternalNetworkIPPool(context.Background(), "ext-net", []IPRange{
		{StartAddress: "203.0.113.10", EndAddress: "203.0.113.20"},
	})

	require.NoError(t, err)
	subnets := putDoc["subnets"].(map[string]any)
	subnet := subnets["values"].([]any)[0].(map[string]any)
	pool := subnet["ipRanges"].(map[string]any)["values"].([]any)
	require.Len(t, pool, 2, "new range appended to the existing pool")
	appended := pool[1].(map[string]any)
	assert.Equal(t, "203.0.113.10", appended["startAddress"])
	assert.Equal(t, "203.0.113.20", appended["endAddress"])
}

func TestUpdateExternalNetworkIPPool_NotFound(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	ts.handleFunc("/api/query", queryHandler(nil))

	err := ts.client().UpdateExternalNetworkIPPool(context.Background(), "ghost-net", []IPRange{
		{StartAddress: "203.0.113.10", EndAddress: "203.0.113.20"},
	})

	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestMigrateCatalogItems_MovesTemplatesAndMedia(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	taskURL := ts.taskHandler("/api/task/clone", "success", 0)
	ts.handleFunc("/api/query", queryHandler(map[string][]map[string]any{
		"vAppTemplate": {{"href": ts.server.URL + "/api/vAppTemplate/tpl-1", "name": "base-image"}},
		"media":        {{"href": ts.server.URL + "/api/media/media-1", "name": "install-iso"}},
	}))

	var moves []string
	ts.handleFunc("/api/vdc/tgt-uuid/action/", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var params map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&params))
		assert.Equal(t, true, params["isSourceDelete"], "clone must delete the source to be a move")
		moves = append(moves, r.URL.Path)
		jsonResponse(w, http.StatusAccepted, map[string]any{"href": taskURL, "status": "running"})
	})

	err := ts.client().MigrateCatalogItems(context.Background(),
		"urn:vcloud:vdc:src-uuid", "urn:vcloud:vdc:tgt-uuid", "org-url")

	require.NoError(t, err)
	assert.Equal(t, []string{
		"/api/vdc/tgt-uuid/action/cloneVAppTemplate",
		"/api/vdc/tgt-uuid/action/cloneMedia",
	}, moves)
}

func TestGet_RetriesTransientServerError(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	var hits int32
	ts.handleFunc("/api/query", func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		jsonResponse(w, http.StatusOK, map[string]any{
			"record": []map[string]any{{"href": ts.server.URL + "/api/org/org-uuid-1", "name": "acme"}},
			"total":  1,
		})
	})

	orgURL, err := ts.client().GetOrgURL(context.Background(), "acme")

	require.NoError(t, err)
	assert.Equal(t, ts.server.URL+"/api/org/org-uuid-1", orgURL)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestLogout_ClearsToken(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	ts.handleFunc("/api/sessions", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(tokenHeader, "bearer-123")
		w.WriteHeader(http.StatusOK)
	})
	ts.handleFunc("/api/session", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "Bearer bearer-123", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	})

	c := ts.client()
	require.NoError(t, c.Login(context.Background()))
	require.NoError(t, c.Logout(context.Background()))
	assert.Empty(t, c.bearer())
}
