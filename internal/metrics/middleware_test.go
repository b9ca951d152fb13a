package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware_RecordsCountAndDuration(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Post("/v1/search", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"results":[]}`))
	})

	req := httptest.NewRequest("POST", "/v1/search", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	count := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("POST", "/v1/search", "200"))
	if count < 1 {
		t.Errorf("http_requests_total = %f, want >= 1", count)
	}
	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("http_request_duration_seconds has no observations")
	}
}

func TestMiddleware_UsesRoutePatternNotRawPath(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/v1/entries/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Two different entry ids must land on the same label.
	for _, id := range []string{"com.example.quran", "com.example.athan"} {
		req := httptest.NewRequest("GET", "/v1/entries/"+id, http.NoBody)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rr.Code)
		}
	}

	count := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/v1/entries/{id}", "200"))
	if count < 2 {
		t.Errorf("pattern-labeled count = %f, want >= 2", count)
	}
}

func TestMiddleware_StatusCodes(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())

	r.Get("/v1/metadata", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/v1/reindex/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	tests := []struct {
		path    string
		pattern string
		status  string
	}{
		{"/v1/metadata", "/v1/metadata", "200"},
		{"/v1/reindex/missing", "/v1/reindex/{id}", "404"},
		{"/health", "/health", "503"},
	}

	for _, tc := range tests {
		t.Run(tc.pattern+"_"+tc.status, func(t *testing.T) {
			req := httptest.NewRequest("GET", tc.path, http.NoBody)
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", tc.pattern, tc.status))
			if val < 1 {
				t.Errorf("count for %s %s = %f, want >= 1", tc.pattern, tc.status, val)
			}
		})
	}
}

func TestMiddleware_MethodsOnSameRoute(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())

	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}
	r.Put("/v1/entries/{id}/metadata/{type}/{value}", handler)
	r.Delete("/v1/entries/{id}/metadata/{type}/{value}", handler)

	for _, method := range []string{"PUT", "DELETE"} {
		req := httptest.NewRequest(method, "/v1/entries/app1/metadata/pricing/free", http.NoBody)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		if rr.Code != http.StatusNoContent {
			t.Fatalf("%s status = %d, want 204", method, rr.Code)
		}

		val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(method, "/v1/entries/{id}/metadata/{type}/{value}", "204"))
		if val < 1 {
			t.Errorf("count for %s = %f, want >= 1", method, val)
		}
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "unknown"},
		{"/v1/search", "/v1/search"},
		{"/v1/entries/{id}", "/v1/entries/{id}"},
	}

	for _, tc := range tests {
		if got := normalizePath(tc.input); got != tc.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestMiddleware_ImplicitStatusCountsAs200(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/v1/silent", func(w http.ResponseWriter, r *http.Request) {
		// No WriteHeader, no body.
	})

	req := httptest.NewRequest("GET", "/v1/silent", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/v1/silent", "200"))
	if val < 1 {
		t.Errorf("count = %f, want >= 1", val)
	}
}
