package search

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/xfind/internal/domain"
	"github.com/kailas-cloud/xfind/internal/domain/document"
	"github.com/kailas-cloud/xfind/internal/domain/search/page"
	"github.com/kailas-cloud/xfind/internal/domain/search/query"
	"github.com/kailas-cloud/xfind/internal/domain/search/result"
	logpkg "github.com/kailas-cloud/xfind/internal/logger"
)

// Custom page fields carried next to the items.
const (
	PageFieldFacets       = "facets"
	PageFieldHighlighting = "highlighting"
)

// Service executes queries and shapes their results.
type Service struct {
	backend    Backend
	normalizer *Normalizer
	logger     *zap.Logger
}

// New creates a search service. logger may be nil.
func New(backend Backend, normalizer *Normalizer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{backend: backend, normalizer: normalizer, logger: logger}
}

// Search executes q once. Backend failures are wrapped with the query text
// and never retried.
func (s *Service) Search(ctx context.Context, q *query.Query) (*result.Result, error) {
	log := logpkg.FromContext(ctx, s.logger)
	raw, err := s.backend.Execute(ctx, q)
	if err != nil {
		log.Error("Search failed", zap.String("query", q.String()), zap.Error(err))
		return nil, domain.NewBackendError(q.Text(), err)
	}

	res, err := s.normalizer.Normalize(raw, q.Facets())
	if err != nil {
		log.Error("Malformed search response", zap.String("query", q.String()), zap.Error(err))
		return nil, domain.NewBackendError(q.Text(), err)
	}

	log.Debug("Search completed",
		zap.String("query", q.String()),
		zap.Int("total_found", res.TotalFound),
		zap.Int("documents", len(res.Documents)),
		zap.Int("facets", len(res.Facets)),
	)
	return res, nil
}

// Paginate fetches one page of q. q's rows and start are overwritten.
func (s *Service) Paginate(
	ctx context.Context, q *query.Query, perPage, current int,
) (*page.Page[document.Document], error) {
	if perPage <= 0 {
		return nil, domain.Configf("per page must be positive, got %d", perPage)
	}
	if !page.IsValidPageNumber(current) {
		current = 1
	}
	if err := q.SetRows(perPage); err != nil {
		return nil, err
	}
	q.SetStart(page.Offset(perPage, current))

	res, err := s.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	return page.New(res.Documents, res.TotalFound, perPage, current,
		page.WithField(PageFieldFacets, res.Facets),
		page.WithField(PageFieldHighlighting, res.Highlighting),
	)
}

// First returns the first match of q. q itself is not modified.
func (s *Service) First(ctx context.Context, q *query.Query) (document.Document, bool, error) {
	one := q.Clone()
	if err := one.SetRows(1); err != nil {
		return document.Document{}, false, err
	}
	one.SetStart(0)

	res, err := s.Search(ctx, one)
	if err != nil {
		return document.Document{}, false, err
	}
	if len(res.Documents) == 0 {
		return document.Document{}, false, nil
	}
	return res.Documents[0], true, nil
}

// FirstOrFail is First with a NotFoundError when nothing matches.
func (s *Service) FirstOrFail(ctx context.Context, q *query.Query) (document.Document, error) {
	doc, ok, err := s.First(ctx, q)
	if err != nil {
		return document.Document{}, err
	}
	if !ok {
		return document.Document{}, domain.NewNotFound(q.Text())
	}
	return doc, nil
}
