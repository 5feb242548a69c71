// Package fixtures embeds the static specialist profiles used when no
// relational store is configured.
package fixtures

import (
	"embed"
	"fmt"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"neuroportal/internal/specialists"
)

//go:embed specialists.yaml
var files embed.FS

type specialistDoc struct {
	ID             string   `yaml:"id"`
	Name           string   `yaml:"name"`
	Specialization string   `yaml:"specialization"`
	Country        string   `yaml:"country"`
	City           string   `yaml:"city"`
	Institution    string   `yaml:"institution"`
	Languages      []string `yaml:"languages"`
}

// Load decodes the embedded profile snapshot.
func Load() ([]specialists.Specialist, error) {
	raw, err := files.ReadFile("specialists.yaml")
	if err != nil {
		return nil, fmt.Errorf("read fixture specialists.yaml: %w", err)
	}
	var docs []specialistDoc
	if err := yaml.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("parse fixture specialists.yaml: %w", err)
	}

	profiles := make([]specialists.Specialist, 0, len(docs))
	for _, doc := range docs {
		id, err := uuid.Parse(doc.ID)
		if err != nil {
			return nil, fmt.Errorf("fixture specialists.yaml: invalid id %q: %w", doc.ID, err)
		}
		profiles = append(profiles, specialists.Specialist{
			ID:             id,
			Name:           doc.Name,
			Specialization: doc.Specialization,
			Country:        doc.Country,
			City:           doc.City,
			Institution:    doc.Institution,
			Languages:      doc.Languages,
		})
	}
	return profiles, nil
}
