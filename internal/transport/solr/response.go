package solr

import (
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/xfind/internal/domain/search/query"
	"github.com/kailas-cloud/xfind/internal/domain/search/result"
)

type selectResponse struct {
	Response *struct {
		NumFound int              `json:"numFound"`
		Docs     []map[string]any `json:"docs"`
	} `json:"response"`
	FacetCounts struct {
		FacetFields map[string][]any `json:"facet_fields"`
	} `json:"facet_counts"`
	Highlighting map[string]map[string][]string `json:"highlighting"`
}

// toRaw converts the body. Facets are read by request key and follow the
// request order; documents without highlighted fields are left out of the
// highlighting map.
func (r *selectResponse) toRaw(q *query.Query) (*result.Raw, error) {
	if r.Response == nil {
		return nil, fmt.Errorf("solr response has no response section")
	}
	raw := &result.Raw{
		Docs:         r.Response.Docs,
		NumFound:     r.Response.NumFound,
		Highlighting: result.Highlighting{},
	}
	if raw.Docs == nil {
		raw.Docs = []map[string]any{}
	}

	for _, req := range q.Facets().Requests() {
		flat, ok := r.FacetCounts.FacetFields[req.Name]
		if !ok {
			continue
		}
		buckets, err := parseBuckets(flat)
		if err != nil {
			return nil, fmt.Errorf("facet %q: %w", req.Name, err)
		}
		raw.Facets = append(raw.Facets, result.RawFacet{Field: req.Field, Key: req.Name, Values: buckets})
	}

	for id, fields := range r.Highlighting {
		if len(fields) > 0 {
			raw.Highlighting[id] = fields
		}
	}
	return raw, nil
}

// parseBuckets reads Solr's flat [value, count, value, count, ...] list.
// A null value is the "missing" bucket and is reported as "".
func parseBuckets(flat []any) ([]result.Bucket, error) {
	if len(flat)%2 != 0 {
		return nil, fmt.Errorf("odd facet list length %d", len(flat))
	}
	out := make([]result.Bucket, 0, len(flat)/2)
	for i := 0; i < len(flat); i += 2 {
		var value string
		switch v := flat[i].(type) {
		case nil:
		case string:
			value = v
		default:
			value = fmt.Sprint(v)
		}
		n, ok := flat[i+1].(json.Number)
		if !ok {
			return nil, fmt.Errorf("facet count for %q is %T", value, flat[i+1])
		}
		count, err := n.Int64()
		if err != nil {
			return nil, fmt.Errorf("facet count for %q: %w", value, err)
		}
		out = append(out, result.Bucket{Value: value, Count: int(count)})
	}
	return out, nil
}
