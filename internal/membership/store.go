package membership

import (
	"context"

	id "neuroportal/pkg/domain"
)

// Store persists submitted applications. FindByEmail returns
// sentinel.ErrNotFound when no application exists for the address.
type Store interface {
	Save(ctx context.Context, application Application) error
	Find(ctx context.Context, applicationID id.ApplicationID) (Application, error)
	FindByEmail(ctx context.Context, email string) (Application, error)
}
