package solr

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strings"
	"testing"

	"github.com/kailas-cloud/xfind/internal/domain/search/expression"
	"github.com/kailas-cloud/xfind/internal/domain/search/facet"
	"github.com/kailas-cloud/xfind/internal/domain/search/query"
)

const selectBody = `{
  "responseHeader": {"status": 0},
  "response": {"numFound": 57, "start": 0, "docs": [
    {"id": "1", "title": ["Hola"], "views": 12},
    {"id": "2", "title": ["Hello"]}
  ]},
  "facet_counts": {"facet_fields": {
    "state": ["open", 5, "closed", 2],
    "lang": []
  }},
  "highlighting": {"1": {"title": ["<b>Hola</b>"]}, "2": {}}
}`

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClient(Config{BaseURL: srv.URL + "/solr/", Core: "items"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestNewClient_Validation(t *testing.T) {
	if _, err := NewClient(Config{Core: "items"}); err == nil {
		t.Error("expected error for missing base url")
	}
	if _, err := NewClient(Config{BaseURL: "http://localhost:8983/solr"}); err == nil {
		t.Error("expected error for missing core")
	}
}

func TestEncodeQuery(t *testing.T) {
	q := query.New()
	q.Expression().Append("lang:es", expression.And).Append("lang:en", expression.Or)
	_, _ = q.AddFilter("status:(published)", "pub")
	_ = q.OrderBy("date", query.Desc)
	_ = q.OrderBy("title", query.Asc)
	_ = q.Facets().Attach("state", "status", facet.NewSettings().SetMinCount(1).SetLimit(10))
	_ = q.Facets().Attach("lang", "", nil)
	q.Select("id", "title")
	q.SetHighlight("title")

	v, err := encodeQuery(q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]string{
		"q":                       "lang:es || lang:en",
		"fq":                      "status:(published)",
		"sort":                    "date desc,title asc",
		"rows":                    "20",
		"fl":                      "id,title",
		"wt":                      "json",
		"facet":          "true",
		"hl":             "true",
		"hl.fl":          "title",
		"hl.fragsize":    "160",
		"hl.simple.pre":  "<b>",
		"hl.simple.post": "</b>",
	}
	for k, w := range want {
		if got := v.Get(k); got != w {
			t.Errorf("%s = %q, want %q", k, got, w)
		}
	}
	wantFacets := []string{
		"{!key=state facet.sort=index facet.limit=10 facet.mincount=1}status",
		"{!key=lang facet.sort=index facet.limit=-1}lang",
	}
	if ff := v["facet.field"]; !slices.Equal(ff, wantFacets) {
		t.Errorf("facet.field = %q, want %q", ff, wantFacets)
	}
	if v.Has("start") {
		t.Error("start must be omitted on the first page")
	}
}

func TestFacetField_QuotesLocalParams(t *testing.T) {
	r := facet.Request{
		Name:     "my facet",
		Field:    "title",
		Settings: facet.NewSettings().SetPrefix("it's").SetSort(facet.SortCount),
	}
	want := `{!key='my facet' facet.sort=count facet.limit=-1 facet.prefix='it\'s'}title`
	if got := facetField(r); got != want {
		t.Errorf("facetField = %q, want %q", got, want)
	}
}

func TestEncodeQuery_StartAndPlain(t *testing.T) {
	q := query.New()
	q.SetStart(40)
	v, err := encodeQuery(q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Get("start") != "40" || v.Get("q") != "*:*" {
		t.Errorf("start = %q, q = %q", v.Get("start"), v.Get("q"))
	}
	for _, k := range []string{"facet", "hl", "fq", "sort", "fl"} {
		if v.Has(k) {
			t.Errorf("unexpected param %q", k)
		}
	}
}

func TestExecute(t *testing.T) {
	var got url.Values
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/solr/items/select" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_ = r.ParseForm()
		got = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(selectBody))
	})

	q := query.New()
	_ = q.Facets().Attach("lang", "", nil)
	_ = q.Facets().Attach("state", "status", nil)

	raw, err := c.Execute(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Get("wt") != "json" {
		t.Errorf("wt = %q", got.Get("wt"))
	}
	if raw.NumFound != 57 || len(raw.Docs) != 2 {
		t.Errorf("numFound = %d, docs = %d", raw.NumFound, len(raw.Docs))
	}
	if len(raw.Facets) != 2 || raw.Facets[0].Field != "lang" || raw.Facets[1].Field != "status" {
		t.Fatalf("facets = %+v, want request order", raw.Facets)
	}
	if len(raw.Facets[0].Values) != 0 {
		t.Errorf("lang values = %v", raw.Facets[0].Values)
	}
	if b := raw.Facets[1].Values; len(b) != 2 || b[0].Value != "open" || b[0].Count != 5 {
		t.Errorf("status buckets = %+v", b)
	}
	if _, ok := raw.Highlighting["2"]; ok {
		t.Error("documents without fragments must be dropped from highlighting")
	}
	if raw.Highlighting["1"]["title"][0] != "<b>Hola</b>" {
		t.Errorf("highlighting = %v", raw.Highlighting)
	}
}

func TestExecute_TwoFacetsOnOneField(t *testing.T) {
	var sent []string
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		sent = r.PostForm["facet.field"]
		_, _ = w.Write([]byte(`{
		  "response": {"numFound": 3, "docs": []},
		  "facet_counts": {"facet_fields": {
		    "state": ["open", 3],
		    "stage": ["closed", 1]
		  }}
		}`))
	})

	q := query.New()
	_ = q.Facets().Attach("state", "status", nil)
	_ = q.Facets().Attach("stage", "status", facet.NewSettings().SetPrefix("c"))

	raw, err := c.Execute(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		"{!key=state facet.sort=index facet.limit=-1}status",
		"{!key=stage facet.sort=index facet.limit=-1 facet.prefix=c}status",
	}
	if !slices.Equal(sent, want) {
		t.Errorf("facet.field = %q, want %q", sent, want)
	}
	if len(raw.Facets) != 2 {
		t.Fatalf("facets = %+v", raw.Facets)
	}
	for i, key := range []string{"state", "stage"} {
		if f := raw.Facets[i]; f.Key != key || f.Field != "status" {
			t.Errorf("facet %d = %+v, want key %s", i, f, key)
		}
	}
	if raw.Facets[1].Values[0].Value != "closed" {
		t.Errorf("stage buckets = %+v", raw.Facets[1].Values)
	}
}

func TestExecute_ErrorStatus(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"msg":"undefined field foo","code":400}}`))
	})

	_, err := c.Execute(context.Background(), query.New())
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *StatusError", err)
	}
	if se.StatusCode != 400 || se.Message != "undefined field foo" {
		t.Errorf("StatusError = %+v", se)
	}
}

func TestExecute_MalformedBody(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"facet_counts":{}}`))
	})
	if _, err := c.Execute(context.Background(), query.New()); err == nil {
		t.Fatal("expected error for missing response section")
	}
}

func TestExecute_ContextCanceled(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(selectBody))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Execute(ctx, query.New()); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestPing(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
	}{
		{"ok", http.StatusOK, `{"status":"OK"}`, false},
		{"bad status", http.StatusOK, `{"status":"FAIL"}`, true},
		{"server error", http.StatusServiceUnavailable, `down`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				if !strings.HasSuffix(r.URL.Path, "/items/admin/ping") {
					t.Errorf("path = %q", r.URL.Path)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			err := c.Ping(context.Background())
			if (err != nil) != tt.wantErr {
				t.Errorf("Ping() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseBuckets(t *testing.T) {
	if _, err := parseBuckets([]any{"a"}); err == nil {
		t.Error("expected error for odd list")
	}
	if _, err := parseBuckets([]any{"a", "x"}); err == nil {
		t.Error("expected error for non-numeric count")
	}
}
