package specialists

import "neuroportal/internal/directory"

// BrowseConfig declares the filterable and searchable fields of a profile.
// Filter keys are the contract with the HTTP layer.
func BrowseConfig() directory.Config[Specialist] {
	return directory.Config[Specialist]{
		Filters: map[string]directory.Extractor[Specialist]{
			"specialization": directory.Field(func(s Specialist) string { return s.Specialization }),
			"country":        directory.Field(func(s Specialist) string { return s.Country }),
			"language":       directory.List(func(s Specialist) []string { return s.Languages }),
		},
		Search: []directory.Extractor[Specialist]{
			directory.Field(func(s Specialist) string { return s.Name }),
			directory.Field(func(s Specialist) string { return s.Institution }),
			directory.Field(func(s Specialist) string { return s.City }),
		},
	}
}
