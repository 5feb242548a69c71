package catalog

import "context"

// Store provides full-list snapshots for the directory engine. Filtering and
// pagination happen in the engine, not the store, so the static fixture
// provider and the relational provider stay interchangeable behind this
// interface; which one serves a deployment is a configuration decision.
type Store interface {
	ListEvents(ctx context.Context) ([]Event, error)
	ListWebinars(ctx context.Context) ([]Webinar, error)
	ListPublications(ctx context.Context) ([]Publication, error)
	ListResources(ctx context.Context) ([]Resource, error)
	ListVideos(ctx context.Context) ([]Video, error)
}
