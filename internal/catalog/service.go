package catalog

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

var tracer = otel.Tracer("neuroportal/internal/catalog")

// ListQuery carries the browse controls shared by every directory collection.
type ListQuery struct {
	Search   string
	Filters  map[string]string
	Page     int
	PageSize int
}

// ListResult is one page of a filtered collection plus the facet values the
// client needs to render its filter controls.
type ListResult[T any] struct {
	Items      []T                 `json:"items"`
	Page       int                 `json:"page"`
	TotalPages int                 `json:"total_pages"`
	TotalItems int                 `json:"total_items"`
	Facets     map[string][]string `json:"facets"`
}

// Service answers directory listing queries over the content catalog.
type Service struct {
	store   Store
	log     *slog.Logger
	metrics *Metrics
}

func NewService(store Store, log *slog.Logger, metrics *Metrics) *Service {
	return &Service{store: store, log: log, metrics: metrics}
}

func (s *Service) ListEvents(ctx context.Context, q ListQuery) (ListResult[Event], error) {
	items, err := s.store.ListEvents(ctx)
	if err != nil {
		return ListResult[Event]{}, s.storeErr(ctx, "events", err)
	}
	return runList(ctx, s, "events", items, EventConfig(), q)
}

func (s *Service) ListWebinars(ctx context.Context, q ListQuery) (ListResult[Webinar], error) {
	items, err := s.store.ListWebinars(ctx)
	if err != nil {
		return ListResult[Webinar]{}, s.storeErr(ctx, "webinars", err)
	}
	return runList(ctx, s, "webinars", items, WebinarConfig(), q)
}

func (s *Service) ListPublications(ctx context.Context, q ListQuery) (ListResult[Publication], error) {
	items, err := s.store.ListPublications(ctx)
	if err != nil {
		return ListResult[Publication]{}, s.storeErr(ctx, "publications", err)
	}
	return runList(ctx, s, "publications", items, PublicationConfig(), q)
}

func (s *Service) ListResources(ctx context.Context, q ListQuery) (ListResult[Resource], error) {
	items, err := s.store.ListResources(ctx)
	if err != nil {
		return ListResult[Resource]{}, s.storeErr(ctx, "resources", err)
	}
	return runList(ctx, s, "resources", items, ResourceConfig(), q)
}

func (s *Service) ListVideos(ctx context.Context, q ListQuery) (ListResult[Video], error) {
	items, err := s.store.ListVideos(ctx)
	if err != nil {
		return ListResult[Video]{}, s.storeErr(ctx, "videos", err)
	}
	return runList(ctx, s, "videos", items, VideoConfig(), q)
}

func (s *Service) storeErr(ctx context.Context, collection string, err error) error {
	s.log.ErrorContext(ctx, "catalog store read failed", "collection", collection, "error", err)
	return domainerrors.Wrap(err, domainerrors.CodeUnavailable, "content catalog unavailable")
}

// runList applies the search, filter, and pagination controls to a fetched
// collection. Filter keys are validated here so malformed client input surfaces
// as CodeInvalidInput rather than reaching the engine, which treats unknown
// keys as programmer error.
func runList[T any](ctx context.Context, s *Service, collection string, items []T, cfg directory.Config[T], q ListQuery) (ListResult[T], error) {
	ctx, span := tracer.Start(ctx, "catalog.list")
	defer span.End()
	span.SetAttributes(attribute.String("catalog.collection", collection))

	for key := range q.Filters {
		if _, ok := cfg.Filters[key]; !ok {
			return ListResult[T]{}, domainerrors.New(domainerrors.CodeInvalidInput, "unknown filter: "+key)
		}
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

	matched := directory.Apply(items, q.Search, q.Filters, cfg)
	totalPages := directory.TotalPages(len(matched), pageSize)
	page := directory.ClampPage(requested, totalPages)
	paged := directory.Paginate(matched, page, pageSize)

	facets := make(map[string][]string, len(cfg.Filters))
	for key := range cfg.Filters {
		facets[key] = directory.Facets(items, cfg, key)
	}

	s.metrics.ObserveListing(collection, len(matched))
	s.log.InfoContext(ctx, "directory listing served",
		"collection", collection,
		"matched", len(matched),
		"page", page,
		"total_pages", totalPages,
	)

	return ListResult[T]{
		Items:      paged.Visible,
		Page:       page,
		TotalPages: paged.TotalPages,
		TotalItems: len(matched),
		Facets:     facets,
	}, nil
}
