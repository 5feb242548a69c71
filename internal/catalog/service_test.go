package catalog_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neuroportal/internal/catalog"
	"neuroportal/internal/catalog/fixtures"
	domainerrors "neuroportal/pkg/domain-errors"
)

func newFixtureService(t *testing.T) *catalog.Service {
	t.Helper()

	content, err := fixtures.Load()
	require.NoError(t, err)

	store := catalog.NewInMemoryStore()
	store.Replace(content.Events, content.Webinars, content.Publications, content.Resources, content.Videos)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return catalog.NewService(store, log, nil)
}

func TestListEventsFilterAndSearchCompose(t *testing.T) {
	service := newFixtureService(t)
	ctx := context.Background()

	result, err := service.ListEvents(ctx, catalog.ListQuery{
		Filters: map[string]string{"category": "training"},
	})
	require.NoError(t, err)
	require.Equal(t, 3, result.TotalItems)
	for _, event := range result.Items {
		assert.Equal(t, "training", event.Category)
	}

	result, err = service.ListEvents(ctx, catalog.ListQuery{
		Search:  "stroke",
		Filters: map[string]string{"category": "training"},
	})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "Stroke Units for District Hospitals", result.Items[0].Title)
}

func TestListEventsAllSentinelMatchesEverything(t *testing.T) {
	service := newFixtureService(t)

	result, err := service.ListEvents(context.Background(), catalog.ListQuery{
		Filters: map[string]string{"category": "all"},
	})
	require.NoError(t, err)
	assert.Equal(t, 6, result.TotalItems)
}

func TestListEventsFacetsComeFromFullCollection(t *testing.T) {
	service := newFixtureService(t)

	result, err := service.ListEvents(context.Background(), catalog.ListQuery{
		Filters: map[string]string{"category": "outreach"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.TotalItems)

	// The narrowed result must not narrow the facet values.
	assert.Equal(t, []string{"conference", "outreach", "training"}, result.Facets["category"])
	assert.Contains(t, result.Facets["type"], "virtual")
}

func TestListEventsPagination(t *testing.T) {
	service := newFixtureService(t)
	ctx := context.Background()

	first, err := service.ListEvents(ctx, catalog.ListQuery{Page: 1, PageSize: 4})
	require.NoError(t, err)
	assert.Len(t, first.Items, 4)
	assert.Equal(t, 2, first.TotalPages)

	second, err := service.ListEvents(ctx, catalog.ListQuery{Page: 2, PageSize: 4})
	require.NoError(t, err)
	assert.Len(t, second.Items, 2)
	assert.Equal(t, 2, second.Page)

	for _, event := range second.Items {
		for _, earlier := range first.Items {
			assert.NotEqual(t, earlier.ID, event.ID)
		}
	}
}

func TestListEventsClampsPageWhenResultsShrink(t *testing.T) {
	service := newFixtureService(t)

	result, err := service.ListEvents(context.Background(), catalog.ListQuery{
		Page:     9,
		PageSize: 4,
		Filters:  map[string]string{"category": "conference"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 1, result.TotalPages)
	assert.Len(t, result.Items, 2)
}

func TestListEventsEmptyResultStillHasOnePage(t *testing.T) {
	service := newFixtureService(t)

	result, err := service.ListEvents(context.Background(), catalog.ListQuery{Search: "xylophone"})
	require.NoError(t, err)
	assert.Empty(t, result.Items)
	assert.Equal(t, 1, result.TotalPages)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 0, result.TotalItems)
}

func TestListEventsRejectsUnknownFilter(t *testing.T) {
	service := newFixtureService(t)

	_, err := service.ListEvents(context.Background(), catalog.ListQuery{
		Filters: map[string]string{"speaker": "anyone"},
	})
	require.Error(t, err)
	assert.True(t, domainerrors.HasCode(err, domainerrors.CodeInvalidInput))
}

func TestListWebinarsTagFilterAndSpeakerSearch(t *testing.T) {
	service := newFixtureService(t)
	ctx := context.Background()

	result, err := service.ListWebinars(ctx, catalog.ListQuery{
		Filters: map[string]string{"tag": "epilepsy"},
	})
	require.NoError(t, err)
	require.Equal(t, 2, result.TotalItems)

	result, err = service.ListWebinars(ctx, catalog.ListQuery{Search: "wanjiru"})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "Pediatric Epilepsy Webinar", result.Items[0].Title)
}

func TestListPublicationsYearFilter(t *testing.T) {
	service := newFixtureService(t)

	result, err := service.ListPublications(context.Background(), catalog.ListQuery{
		Filters: map[string]string{"year": "2025"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalItems)
	assert.Contains(t, result.Facets["keyword"], "epilepsy")
}

func TestListResourcesTypeFilter(t *testing.T) {
	service := newFixtureService(t)

	result, err := service.ListResources(context.Background(), catalog.ListQuery{
		Filters: map[string]string{"type": "form"},
	})
	require.NoError(t, err)
	require.Equal(t, 2, result.TotalItems)
	for _, resource := range result.Items {
		assert.Equal(t, "form", resource.Type)
	}
}

func TestListVideosCategoryFilter(t *testing.T) {
	service := newFixtureService(t)

	result, err := service.ListVideos(context.Background(), catalog.ListQuery{
		Filters: map[string]string{"category": "teaching"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalItems)
}

func TestListCapsOversizedPageSize(t *testing.T) {
	service := newFixtureService(t)

	result, err := service.ListEvents(context.Background(), catalog.ListQuery{PageSize: 10_000})
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalPages)
	assert.Len(t, result.Items, 6)
}
