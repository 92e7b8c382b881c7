package xfind

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type fakeBackend struct {
	raw     *RawResult
	err     error
	pingErr error
	calls   int
	last    *Query
}

func (f *fakeBackend) Execute(_ context.Context, q *Query) (*RawResult, error) {
	f.calls++
	f.last = q
	if f.raw == nil && f.err == nil {
		return &RawResult{}, nil
	}
	return f.raw, f.err
}

func (f *fakeBackend) Ping(context.Context) error { return f.pingErr }

func newTestClient(t *testing.T, b Backend, opts ...Option) *Client {
	t.Helper()
	c, err := New(context.Background(), append([]Option{WithBackend("fake", b)}, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestNew_NoBackend(t *testing.T) {
	if _, err := New(context.Background()); err == nil {
		t.Fatal("expected error when no backend configured")
	}
}

func TestNew_InvalidSolr(t *testing.T) {
	if _, err := New(context.Background(), WithSolr("http://localhost:8983/solr", "")); err == nil {
		t.Fatal("expected error for missing core")
	}
}

func TestNew_Solr(t *testing.T) {
	c, err := New(context.Background(),
		WithSolr("http://localhost:8983/solr", "items"),
		WithTimeout(time.Second),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.Close()
}

func TestPing(t *testing.T) {
	c := newTestClient(t, &fakeBackend{})
	if err := c.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}

	down := newTestClient(t, &fakeBackend{pingErr: errors.New("down")})
	if err := down.Ping(context.Background()); err == nil {
		t.Error("expected ping error")
	}
	if r := down.Health(context.Background()); r.Status != "error" {
		t.Errorf("Health = %+v", r)
	}
}

func TestPrometheusObserver(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := newTestClient(t, &fakeBackend{}, WithPrometheus(reg))

	if _, err := c.Query().Get(context.Background()); err != nil {
		t.Fatalf("Get: %v", err)
	}
	_, _ = c.Query().WhereClause("only-one").Get(context.Background())

	m := c.obs.metrics
	if got := testutil.ToFloat64(m.operations.WithLabelValues("get", "ok")); got != 1 {
		t.Errorf("get ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.operations.WithLabelValues("get", "error")); got != 1 {
		t.Errorf("get error = %v, want 1", got)
	}

	// A second client on the same registry reuses the collectors.
	newTestClient(t, &fakeBackend{}, WithPrometheus(reg))
}

func TestClientQuery_Schema(t *testing.T) {
	schema, err := NewSchema("sku", []Field{{Name: "price", Type: Float}}, SchemaFacets("brand"))
	if err != nil {
		t.Fatal(err)
	}
	fb := &fakeBackend{raw: &RawResult{
		Docs:     []map[string]any{{"sku": "A-1", "price": 9.5, "color": "red"}},
		NumFound: 1,
	}}
	c := newTestClient(t, fb, WithSchema(schema))

	res, err := c.Query().Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	doc := res.Items[0]
	if doc.ID() != "A-1" || doc.Float("price") != 9.5 {
		t.Errorf("doc = %+v", doc.ToMap())
	}
	if v, ok := doc.Extra()["color"]; !ok || v != "red" {
		t.Errorf("extra = %v", doc.Extra())
	}
}

func TestWithTranslator(t *testing.T) {
	fb := &fakeBackend{raw: &RawResult{
		Facets: []RawFacet{{Field: "status", Values: []Bucket{{Value: "open", Count: 3}}}},
	}}
	tr := TranslatorFunc(func(key string) string { return "label:" + key })
	c := newTestClient(t, fb, WithTranslator(tr))

	res, err := c.Query().AddFacet("state", "status", nil).Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	f, ok := res.Facet("state")
	if !ok || f.Label != "label:state" {
		t.Errorf("facet = %+v", f)
	}
}
