// Package xfind composes Solr queries fluently and shapes their responses
// into typed results: documents, translated facets, highlighting and
// pagination metadata.
//
// # Untyped API
//
//	client, _ := xfind.New(ctx, xfind.WithSolr("http://localhost:8983/solr", "items"))
//	res, _ := client.Query().
//	    Where("lang", "es").
//	    OrWhere("lang", "en").
//	    AddFilter("status:(published)", "pub").
//	    AddFacet("state", "status", xfind.NewFacetSettings().SetLimit(10)).
//	    Get(ctx)
//
// # Typed API
//
//	type Item struct {
//	    ID     string    `xfind:"id,key"`
//	    Title  string    `xfind:"title,highlight"`
//	    Lang   string    `xfind:"lang,facet"`
//	    Tags   []string  `xfind:"tags,facet"`
//	    Views  int       `xfind:"views"`
//	    Update time.Time `xfind:"updated_at"`
//	}
//
//	idx, _ := xfind.NewIndex[Item](client)
//	page, _ := idx.Query().Where("lang", "es").WithFacets().Paginate(ctx, 20, 1)
//	for _, item := range page.Items() { ... }
package xfind
