package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"

	"github.com/kailas-cloud/xfind/internal/domain"
	"github.com/kailas-cloud/xfind/internal/domain/document"
	"github.com/kailas-cloud/xfind/internal/domain/search/expression"
	"github.com/kailas-cloud/xfind/internal/domain/search/facet"
	"github.com/kailas-cloud/xfind/internal/domain/search/query"
	"github.com/kailas-cloud/xfind/internal/metrics"
	healthuc "github.com/kailas-cloud/xfind/internal/usecase/health"
	searchuc "github.com/kailas-cloud/xfind/internal/usecase/search"
)

// Error codes returned in errorResponse.Code.
const (
	codeBadRequest   = "bad_request"
	codeUnauthorized = "unauthorized"
	codeNotFound     = "not_found"
	codeBackendError = "backend_error"
	codeInternal     = "internal_error"
)

// Reserved query parameters of GET /items.
const (
	paramPage    = "page"
	paramLimit   = "limit"
	paramExclude = "exclude"
	sortPrefix   = "sort_"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Options configures the item resource.
type Options struct {
	Schema         document.Schema
	FacetDefaults  map[string]string // facet name -> default bucket
	DefaultPerPage int
	MaxPerPage     int
}

// Server serves the item search API.
type Server struct {
	search        *searchuc.Service
	health        *healthuc.Service
	opts          Options
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search *searchuc.Service, health *healthuc.Service, opts Options, logger *zap.Logger) *Server {
	if opts.DefaultPerPage <= 0 {
		opts.DefaultPerPage = query.DefaultRows
	}
	if opts.MaxPerPage < opts.DefaultPerPage {
		opts.MaxPerPage = opts.DefaultPerPage
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		search: search,
		health: health,
		opts:   opts,
		logger: logger,
		errorHandlers: []errorHandler{
			sentinelHandler(domain.ErrConfiguration, http.StatusBadRequest, codeBadRequest),
			sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
			sentinelHandler(domain.ErrBackend, http.StatusBadGateway, codeBackendError),
		},
	}
}

// Register mounts the API routes on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/items", s.ListItems)
	r.Get("/items/{id}", s.GetItem)
	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", metrics.Handler())
}

// ListItems handles GET /items.
//
// Schema fields given as parameters become field:value clauses joined with
// AND, or with OR when exclude=false. sort_<field>=asc|desc orders results.
func (s *Server) ListItems(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	var pageNum, limit *int
	var exclude *bool
	bindings := []struct {
		name string
		dest any
	}{
		{paramPage, &pageNum},
		{paramLimit, &limit},
		{paramExclude, &exclude},
	}
	for _, b := range bindings {
		if err := runtime.BindQueryParameter("form", true, false, b.name, params, b.dest); err != nil {
			writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid parameter "+b.name)
			return
		}
	}

	q, err := s.buildQuery(params, exclude == nil || *exclude)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	perPage := s.opts.DefaultPerPage
	if limit != nil {
		perPage = min(*limit, s.opts.MaxPerPage)
	}
	current := 1
	if pageNum != nil {
		current = *pageNum
	}

	p, err := s.search.Paginate(r.Context(), q, perPage, current)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// GetItem handles GET /items/{id}.
func (s *Server) GetItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if strings.TrimSpace(id) == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Item id is required")
		return
	}

	q := query.New()
	q.Expression().Append(expression.Clause(s.opts.Schema.Key(), expression.Quote(id)), expression.And)

	doc, err := s.search.FirstOrFail(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

func (s *Server) buildQuery(params url.Values, conjunctive bool) (*query.Query, error) {
	conn := expression.Or
	if conjunctive {
		conn = expression.And
	}

	q := query.New()
	for _, name := range s.opts.Schema.FieldNames() {
		for _, v := range params[name] {
			if strings.TrimSpace(v) == "" {
				continue
			}
			q.Expression().Append(expression.Clause(name, v), conn)
		}
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		if strings.HasPrefix(k, sortPrefix) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	for _, k := range keys {
		field := strings.TrimPrefix(k, sortPrefix)
		if !s.opts.Schema.Has(field) {
			return nil, domain.Configf("cannot sort by unknown field %q", field)
		}
		dir, err := query.ParseDirection(params.Get(k))
		if err != nil {
			return nil, err
		}
		if err := q.OrderBy(field, dir); err != nil {
			return nil, err
		}
	}

	for _, name := range s.opts.Schema.Facets() {
		settings := facet.NewSettings()
		if def, ok := s.opts.FacetDefaults[name]; ok {
			settings.SetDefault(def)
		}
		if err := q.Facets().Attach(name, "", settings); err != nil {
			return nil, err
		}
	}
	q.SetHighlight(s.opts.Schema.Highlight()...)
	return q, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client-facing message without exposing internals.
// Configuration errors carry the caller's own mistake and are passed through.
func safeDomainMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrConfiguration):
		return err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return domain.ErrNotFound.Error()
	case errors.Is(err, domain.ErrBackend):
		return domain.ErrBackend.Error()
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
}
