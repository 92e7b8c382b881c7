package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/items", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("[]"))
	})
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "id") == "missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("{}"))
	})
	return r
}

func TestMiddleware_RouteAndStatusLabels(t *testing.T) {
	r := newRouter()

	tests := []struct {
		path   string
		route  string
		status string
	}{
		{"/items", "/items", "200"},
		{"/items/42", "/items/{id}", "200"},
		{"/items/missing", "/items/{id}", "404"},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", tc.route, tc.status))

			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tc.path, http.NoBody))

			after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", tc.route, tc.status))
			if after-before != 1 {
				t.Errorf("requests_total{%s,%s} delta = %v, want 1", tc.route, tc.status, after-before)
			}
		})
	}

	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected http_request_duration_seconds observations")
	}
}

func TestRouteLabel(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", "unmatched"},
		{"/", "/"},
		{"/items/", "/items"},
		{"/items/{id}", "/items/{id}"},
	}
	for _, tc := range tests {
		if got := routeLabel(tc.in); got != tc.want {
			t.Errorf("routeLabel(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestHandler_ExposesSearchMetrics(t *testing.T) {
	RegisterSearchMetrics()
	RegisterSearchMetrics()
	SearchRequestsTotal.WithLabelValues("solr", "ok").Inc()
	SearchCacheTotal.WithLabelValues("hit").Inc()

	rr := httptest.NewRecorder()
	Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

	body, err := io.ReadAll(rr.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	for _, name := range []string{"xfind_search_requests_total", "xfind_search_cache_total"} {
		if !strings.Contains(string(body), name) {
			t.Errorf("metrics output missing %s", name)
		}
	}
}
