package catalog

import (
	"strconv"

	"neuroportal/internal/directory"
)

// Directory engine configs, one per content domain. Filter keys here are the
// contract with the HTTP layer: handlers forward exactly these query
// parameters and nothing else, so an unknown key reaching the engine is a
// defect, not user input.

// EventConfig declares the filterable and searchable fields of an Event.
func EventConfig() directory.Config[Event] {
	return directory.Config[Event]{
		Filters: map[string]directory.Extractor[Event]{
			"category": directory.Field(func(e Event) string { return e.Category }),
			"type":     directory.Field(func(e Event) string { return e.Type }),
			"location": directory.Field(func(e Event) string { return e.Location }),
		},
		Search: []directory.Extractor[Event]{
			directory.Field(func(e Event) string { return e.Title }),
			directory.Field(func(e Event) string { return e.Location }),
		},
	}
}

// WebinarConfig declares the filterable and searchable fields of a Webinar.
func WebinarConfig() directory.Config[Webinar] {
	return directory.Config[Webinar]{
		Filters: map[string]directory.Extractor[Webinar]{
			"status": directory.Field(func(w Webinar) string { return w.Status }),
			"tag":    directory.List(func(w Webinar) []string { return w.Tags }),
		},
		Search: []directory.Extractor[Webinar]{
			directory.Field(func(w Webinar) string { return w.Title }),
			directory.List(func(w Webinar) []string { return w.Speakers }),
		},
	}
}

// PublicationConfig declares the filterable and searchable fields of a Publication.
func PublicationConfig() directory.Config[Publication] {
	return directory.Config[Publication]{
		Filters: map[string]directory.Extractor[Publication]{
			"year":    directory.Field(func(p Publication) string { return strconv.Itoa(p.Year) }),
			"keyword": directory.List(func(p Publication) []string { return p.Keywords }),
		},
		Search: []directory.Extractor[Publication]{
			directory.Field(func(p Publication) string { return p.Title }),
			directory.List(func(p Publication) []string { return p.Authors }),
			directory.Field(func(p Publication) string { return p.Abstract }),
		},
	}
}

// ResourceConfig declares the filterable and searchable fields of a Resource.
func ResourceConfig() directory.Config[Resource] {
	return directory.Config[Resource]{
		Filters: map[string]directory.Extractor[Resource]{
			"type": directory.Field(func(r Resource) string { return r.Type }),
		},
		Search: []directory.Extractor[Resource]{
			directory.Field(func(r Resource) string { return r.Title }),
			directory.Field(func(r Resource) string { return r.Description }),
		},
	}
}

// VideoConfig declares the filterable and searchable fields of a Video.
func VideoConfig() directory.Config[Video] {
	return directory.Config[Video]{
		Filters: map[string]directory.Extractor[Video]{
			"category": directory.Field(func(v Video) string { return v.Category }),
		},
		Search: []directory.Extractor[Video]{
			directory.Field(func(v Video) string { return v.Title }),
			directory.Field(func(v Video) string { return v.Description }),
		},
	}
}
