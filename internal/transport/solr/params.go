package solr

import (
	"fmt"
	"net/url"
	"strings"

	qs "github.com/google/go-querystring/query"

	"github.com/kailas-cloud/xfind/internal/domain/search/facet"
	"github.com/kailas-cloud/xfind/internal/domain/search/query"
)

// selectParams are the fixed select handler parameters.
type selectParams struct {
	Q     string   `url:"q"`
	FQ    []string `url:"fq,omitempty"`
	Sort  string   `url:"sort,omitempty"`
	Start int      `url:"start,omitempty"`
	Rows  int      `url:"rows"`
	FL    []string `url:"fl,comma,omitempty"`
	WT    string   `url:"wt"`

	Facet      bool     `url:"facet,omitempty"`
	FacetField []string `url:"facet.field,omitempty"`

	HL         bool     `url:"hl,omitempty"`
	HLFl       []string `url:"hl.fl,comma,omitempty"`
	HLFragSize int      `url:"hl.fragsize,omitempty"`
	HLPre      string   `url:"hl.simple.pre,omitempty"`
	HLPost     string   `url:"hl.simple.post,omitempty"`
}

// facetParamNames maps settings names to Solr facet parameter suffixes.
var facetParamNames = map[string]string{
	facet.ParamPrefix:             "prefix",
	facet.ParamContains:           "contains",
	facet.ParamContainsIgnoreCase: "contains.ignoreCase",
	facet.ParamSort:               "sort",
	facet.ParamLimit:              "limit",
	facet.ParamOffset:             "offset",
	facet.ParamMinCount:           "mincount",
	facet.ParamMissing:            "missing",
	facet.ParamMethod:             "method",
}

// encodeQuery renders q as select handler parameters. Start is sent only
// when positive. Each facet is requested under its own key with its settings
// as local params, so several facets may share one field; they default to
// index order with no limit.
func encodeQuery(q *query.Query) (url.Values, error) {
	p := selectParams{
		Q:     q.Text(),
		Start: q.Start(),
		Rows:  q.Rows(),
		FL:    q.Fields(),
		WT:    "json",
	}
	for _, f := range q.Filters() {
		p.FQ = append(p.FQ, f.Expr)
	}
	sorts := q.Sort()
	if len(sorts) > 0 {
		parts := make([]string, len(sorts))
		for i, s := range sorts {
			parts[i] = s.Field + " " + string(s.Direction)
		}
		p.Sort = strings.Join(parts, ",")
	}

	for _, r := range q.Facets().Requests() {
		p.Facet = true
		p.FacetField = append(p.FacetField, facetField(r))
	}

	if h := q.Highlight(); h != nil {
		p.HL = true
		p.HLFl = h.Fields
		p.HLFragSize = h.FragSize
		p.HLPre = h.Pre
		p.HLPost = h.Post
	}

	v, err := qs.Values(p)
	if err != nil {
		return nil, fmt.Errorf("encode select params: %w", err)
	}
	return v, nil
}

// facetField renders {!key=name facet.sort=index facet.limit=-1 ...}field.
// Settings override the two defaults.
func facetField(r facet.Request) string {
	params := map[string]string{
		"sort":  string(facet.SortIndex),
		"limit": "-1",
	}
	order := []string{"sort", "limit"}
	for name, val := range r.Settings.All() {
		suffix := facetParamNames[name]
		if _, ok := params[suffix]; !ok {
			order = append(order, suffix)
		}
		params[suffix] = fmt.Sprint(val)
	}

	var b strings.Builder
	b.WriteString("{!key=")
	b.WriteString(localParamValue(r.Name))
	for _, suffix := range order {
		b.WriteString(" facet.")
		b.WriteString(suffix)
		b.WriteByte('=')
		b.WriteString(localParamValue(params[suffix]))
	}
	b.WriteByte('}')
	b.WriteString(r.Field)
	return b.String()
}

// localParamValue single-quotes values that would end or split a local
// params block.
func localParamValue(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t}'\"\\") {
		return s
	}
	return "'" + localParamEscaper.Replace(s) + "'"
}

var localParamEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)
