package specialists

import "context"

// Store lists published specialist profiles.
type Store interface {
	ListSpecialists(ctx context.Context) ([]Specialist, error)
}
