package specialists

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"neuroportal/internal/directory"
	domainerrors "neuroportal/pkg/domain-errors"
)

const (
	DefaultPageSize = 6
	MaxPageSize     = 50
)

var tracer = otel.Tracer("neuroportal/internal/specialists")

// Query carries the browse controls of the find-a-specialist page.
type Query struct {
	Search   string
	Filters  map[string]string
	Page     int
	PageSize int
}

// Result is one page of matching profiles plus the facet values for the
// filter dropdowns.
type Result struct {
	Items      []Specialist        `json:"items"`
	Page       int                 `json:"page"`
	TotalPages int                 `json:"total_pages"`
	TotalItems int                 `json:"total_items"`
	Facets     map[string][]string `json:"facets"`
}

// Service answers find-a-specialist queries.
type Service struct {
	store   Store
	log     *slog.Logger
	metrics *Metrics
}

func NewService(store Store, log *slog.Logger, metrics *Metrics) *Service {
	return &Service{store: store, log: log, metrics: metrics}
}

func (s *Service) Browse(ctx context.Context, q Query) (Result, error) {
	ctx, span := tracer.Start(ctx, "specialists.browse")
	defer span.End()
	span.SetAttributes(attribute.String("specialists.search", q.Search))

	cfg := BrowseConfig()
	for key := range q.Filters {
		if _, ok := cfg.Filters[key]; !ok {
			return Result{}, domainerrors.New(domainerrors.CodeInvalidInput, "unknown filter: "+key)
		}
	}

	specialists, err := s.store.ListSpecialists(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "specialist store read failed", "error", err)
		return Result{}, domainerrors.Wrap(err, domainerrors.CodeUnavailable, "specialist directory unavailable")
	}

	pageSize := q.PageSize
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	requested := q.Page
	if requested < 1 {
		requested = 1
	}

	matched := directory.Apply(specialists, q.Search, q.Filters, cfg)
	totalPages := directory.TotalPages(len(matched), pageSize)
	page := directory.ClampPage(requested, totalPages)
	paged := directory.Paginate(matched, page, pageSize)

	facets := make(map[string][]string, len(cfg.Filters))
	for key := range cfg.Filters {
		facets[key] = directory.Facets(specialists, cfg, key)
	}

	s.metrics.ObserveBrowse(len(matched))
	s.log.InfoContext(ctx, "specialist directory browsed",
		"matched", len(matched),
		"page", page,
		"total_pages", totalPages,
	)

	return Result{
		Items:      paged.Visible,
		Page:       page,
		TotalPages: paged.TotalPages,
		TotalItems: len(matched),
		Facets:     facets,
	}, nil
}
