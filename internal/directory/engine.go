// Package directory implements the shared filter/search/paginate engine behind
// every listing endpoint (events, webinars, publications, resources, videos,
// specialists).
//
// The engine is pure: it performs no I/O, never mutates its input slice, and
// re-derives its output in full on every call. Misconfiguration (a query
// naming a filter the config does not declare) is a programmer error and
// panics immediately rather than failing silently.
package directory

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// FilterAll is the sentinel filter value meaning "no constraint for this key".
const FilterAll = "all"

// Extractor pulls the comparable values for one field out of an item. Scalar
// fields yield one value; list fields (tags, speakers, languages) yield all.
type Extractor[T any] func(item T) []string

// Field adapts a scalar field accessor into an Extractor.
func Field[T any](fn func(item T) string) Extractor[T] {
	return func(item T) []string {
		return []string{fn(item)}
	}
}

// List adapts a list field accessor into an Extractor.
func List[T any](fn func(item T) []string) Extractor[T] {
	return fn
}

// Config declares, per filter key, which item field it reads, and which text
// fields participate in the search substring match.
type Config[T any] struct {
	Filters map[string]Extractor[T]
	Search  []Extractor[T]
}

// folder performs Unicode-aware case folding. ASCII lowercasing is not enough
// here: author and institution names in the directory data are frequently
// non-ASCII.
var folder = cases.Fold()

func fold(s string) string {
	return folder.String(s)
}

// Apply returns the items satisfying the search predicate AND every active
// (non-"all", non-empty) filter predicate. Search is a case-folded substring
// match, OR-ed across the configured search fields. The input slice is never
// mutated; the result is a fresh slice.
//
// A filter key absent from the config panics: a typo in a filter name is a
// defect to surface during development, not a runtime case to handle.
func Apply[T any](items []T, search string, filters map[string]string, cfg Config[T]) []T {
	for key := range filters {
		if _, ok := cfg.Filters[key]; !ok {
			panic(fmt.Sprintf("directory: unknown filter key %q", key))
		}
	}

	foldedTerm := fold(strings.TrimSpace(search))

	result := make([]T, 0, len(items))
	for _, item := range items {
		if !matchesFilters(item, filters, cfg) {
			continue
		}
		if !matchesSearch(item, foldedTerm, cfg) {
			continue
		}
		result = append(result, item)
	}
	return result
}

func matchesFilters[T any](item T, filters map[string]string, cfg Config[T]) bool {
	for key, want := range filters {
		if want == "" || want == FilterAll {
			continue
		}
		matched := false
		for _, have := range cfg.Filters[key](item) {
			if have == want {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func matchesSearch[T any](item T, foldedTerm string, cfg Config[T]) bool {
	if foldedTerm == "" {
		return true
	}
	for _, extract := range cfg.Search {
		for _, value := range extract(item) {
			if strings.Contains(fold(value), foldedTerm) {
				return true
			}
		}
	}
	return false
}

// Facets returns the distinct, non-empty values the configured filter field
// takes across items, sorted for stable dropdown rendering. Facets are derived
// from the full unfiltered list so the option set does not shrink as the user
// narrows the results.
func Facets[T any](items []T, cfg Config[T], key string) []string {
	extract, ok := cfg.Filters[key]
	if !ok {
		panic(fmt.Sprintf("directory: unknown facet key %q", key))
	}

	seen := make(map[string]struct{})
	for _, item := range items {
		for _, value := range extract(item) {
			if value == "" {
				continue
			}
			seen[value] = struct{}{}
		}
	}

	values := make([]string, 0, len(seen))
	for value := range seen {
		values = append(values, value)
	}
	sort.Strings(values)
	return values
}
