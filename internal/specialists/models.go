// Package specialists implements the public find-a-specialist directory.
// Profiles are opt-in listings of verified members; the browse surface is the
// same filter-search-paginate pipeline the content catalog uses.
package specialists

import "github.com/google/uuid"

// Specialist is a published member profile.
type Specialist struct {
	ID             uuid.UUID `json:"id" yaml:"id"`
	Name           string    `json:"name" yaml:"name"`
	Specialization string    `json:"specialization" yaml:"specialization"`
	Country        string    `json:"country" yaml:"country"`
	City           string    `json:"city" yaml:"city"`
	Institution    string    `json:"institution" yaml:"institution"`
	Languages      []string  `json:"languages" yaml:"languages"`
}
