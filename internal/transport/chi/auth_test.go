package chi

import (
	"net/http"
	"testing"
)

func TestAdminAuth_BlocksMutationsWithoutKey(t *testing.T) {
	ts := newTestServer(t, serverMocks{}, "secret-key")

	resp := postJSON(t, ts.URL+"/v1/reindex", `{}`)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without key, got %d", resp.StatusCode)
	}

	resp = postJSON(t, ts.URL+"/v1/metadata/types", `{"name": "x"}`,
		"Authorization", "Basic secret-key")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for non-Bearer scheme, got %d", resp.StatusCode)
	}

	resp = postJSON(t, ts.URL+"/v1/reindex", `{}`,
		"Authorization", "Bearer wrong-key")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong key, got %d", resp.StatusCode)
	}

	resp = postJSON(t, ts.URL+"/v1/reindex", `{}`,
		"Authorization", "Bearer secret-key")
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202 with valid key, got %d", resp.StatusCode)
	}
}

func TestAdminAuth_ReadRoutesStayOpen(t *testing.T) {
	ts := newTestServer(t, serverMocks{}, "secret-key")

	resp := postJSON(t, ts.URL+"/v1/search", `{"query": "q"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("search must not require a key, got %d", resp.StatusCode)
	}

	httpResp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusOK {
		t.Fatalf("health must not require a key, got %d", httpResp.StatusCode)
	}
}

func TestAdminAuth_DisabledWhenNoKeys(t *testing.T) {
	ts := newTestServer(t, serverMocks{})

	resp := postJSON(t, ts.URL+"/v1/reindex", `{}`)
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("empty key list disables auth, got %d", resp.StatusCode)
	}
}
