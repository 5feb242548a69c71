package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listing struct {
	ID       int
	Title    string
	Category string
	Country  string
	Tags     []string
}

func listingConfig() Config[listing] {
	return Config[listing]{
		Filters: map[string]Extractor[listing]{
			"category": Field(func(l listing) string { return l.Category }),
			"country":  Field(func(l listing) string { return l.Country }),
			"tag":      List(func(l listing) []string { return l.Tags }),
		},
		Search: []Extractor[listing]{
			Field(func(l listing) string { return l.Title }),
		},
	}
}

func sampleListings() []listing {
	return []listing{
		{ID: 1, Title: "Pediatric Epilepsy Webinar", Category: "training", Country: "KE", Tags: []string{"epilepsy", "pediatric"}},
		{ID: 2, Title: "Stroke Talk", Category: "webinar", Country: "TZ", Tags: []string{"stroke"}},
		{ID: 3, Title: "Annual Conference", Category: "training", Country: "UG", Tags: []string{"conference"}},
	}
}

func ids(items []listing) []int {
	out := make([]int, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestApplySingleFilter(t *testing.T) {
	items := []listing{
		{ID: 1, Category: "training"},
		{ID: 2, Category: "webinar"},
	}

	filtered := Apply(items, "", map[string]string{"category": "training"}, listingConfig())

	require.Len(t, filtered, 1)
	assert.Equal(t, 1, filtered[0].ID)
	assert.Equal(t, 1, TotalPages(len(filtered), 6))
}

func TestApplyFiltersAreAND(t *testing.T) {
	items := sampleListings()
	cfg := listingConfig()

	filtered := Apply(items, "", map[string]string{"category": "training", "country": "UG"}, cfg)

	require.Len(t, filtered, 1)
	assert.Equal(t, 3, filtered[0].ID)
}

func TestApplyFilterCompositionIsCommutative(t *testing.T) {
	items := sampleListings()
	cfg := listingConfig()
	filterA := map[string]string{"category": "training"}
	filterB := map[string]string{"tag": "epilepsy"}

	aThenB := Apply(Apply(items, "", filterA, cfg), "", filterB, cfg)
	bThenA := Apply(Apply(items, "", filterB, cfg), "", filterA, cfg)
	both := Apply(items, "", map[string]string{"category": "training", "tag": "epilepsy"}, cfg)

	assert.ElementsMatch(t, ids(aThenB), ids(bThenA))
	assert.ElementsMatch(t, ids(aThenB), ids(both))
}

func TestApplySearch(t *testing.T) {
	items := sampleListings()
	cfg := listingConfig()

	t.Run("case-insensitive substring match", func(t *testing.T) {
		for _, term := range []string{"epilepsy", "EPILEPSY", "Epilepsy"} {
			filtered := Apply(items, term, nil, cfg)
			require.Len(t, filtered, 1, "term %q", term)
			assert.Equal(t, 1, filtered[0].ID)
		}
	})

	t.Run("unicode case folding", func(t *testing.T) {
		accented := []listing{
			{ID: 10, Title: "Étude des céphalées"},
			{ID: 11, Title: "Plain title"},
		}
		filtered := Apply(accented, "étude", nil, listingConfig())
		require.Len(t, filtered, 1)
		assert.Equal(t, 10, filtered[0].ID)

		filtered = Apply(accented, "ÉTUDE", nil, listingConfig())
		require.Len(t, filtered, 1)
		assert.Equal(t, 10, filtered[0].ID)
	})

	t.Run("non-empty search yields a subset", func(t *testing.T) {
		filtered := Apply(items, "stroke", nil, cfg)
		assert.Subset(t, ids(items), ids(filtered))
	})

	t.Run("empty search matches everything", func(t *testing.T) {
		filtered := Apply(items, "", nil, cfg)
		assert.Equal(t, ids(items), ids(filtered))
	})

	t.Run("OR across search fields", func(t *testing.T) {
		cfg := listingConfig()
		cfg.Search = append(cfg.Search, List(func(l listing) []string { return l.Tags }))

		tagged := []listing{
			{ID: 20, Title: "Grand Rounds", Tags: []string{"neurophysiology"}},
			{ID: 21, Title: "Journal Club", Tags: []string{"movement-disorders"}},
		}

		// The term appears only in tags, so a title-only config misses it
		// while the extended config matches.
		assert.Empty(t, Apply(tagged, "neurophysiology", nil, listingConfig()))

		filtered := Apply(tagged, "neurophysiology", nil, cfg)
		require.Len(t, filtered, 1)
		assert.Equal(t, 20, filtered[0].ID)
	})
}

func TestApplySentinelAndEmptyFilterValues(t *testing.T) {
	items := sampleListings()
	cfg := listingConfig()

	assert.Len(t, Apply(items, "", map[string]string{"category": FilterAll}, cfg), len(items))
	assert.Len(t, Apply(items, "", map[string]string{"category": ""}, cfg), len(items))
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	items := sampleListings()
	cfg := listingConfig()

	before := ids(items)
	first := Apply(items, "stroke", map[string]string{"category": FilterAll}, cfg)
	second := Apply(items, "stroke", map[string]string{"category": FilterAll}, cfg)

	assert.Equal(t, before, ids(items), "input slice must not be mutated")
	assert.Equal(t, first, second, "identical arguments must yield identical results")
}

func TestApplyUnknownFilterKeyPanics(t *testing.T) {
	items := sampleListings()
	cfg := listingConfig()

	assert.Panics(t, func() {
		Apply(items, "", map[string]string{"specialty": "neurology"}, cfg)
	})
}

func TestFacets(t *testing.T) {
	items := append(sampleListings(), listing{ID: 4, Category: "training", Country: ""})
	cfg := listingConfig()

	t.Run("distinct sorted scalar values, empties dropped", func(t *testing.T) {
		assert.Equal(t, []string{"training", "webinar"}, Facets(items, cfg, "category"))
		assert.Equal(t, []string{"KE", "TZ", "UG"}, Facets(items, cfg, "country"))
	})

	t.Run("list fields contribute every value", func(t *testing.T) {
		assert.Equal(t, []string{"conference", "epilepsy", "pediatric", "stroke"}, Facets(items, cfg, "tag"))
	})

	t.Run("unknown facet key panics", func(t *testing.T) {
		assert.Panics(t, func() { Facets(items, cfg, "specialty") })
	})
}
