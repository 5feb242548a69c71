// Package fixtures embeds the member roster used when no relational store is
// configured, so the dues flow can be exercised end to end locally.
package fixtures

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"neuroportal/internal/payment"
	id "neuroportal/pkg/domain"
)

//go:embed members.yaml
var files embed.FS

type memberDoc struct {
	ID               string `yaml:"id"`
	MembershipNumber string `yaml:"membership_number"`
	Name             string `yaml:"name"`
	Email            string `yaml:"email"`
	DuesAmount       int64  `yaml:"dues_amount"`
	Currency         string `yaml:"currency"`
}

// Load decodes the embedded member roster.
func Load() ([]payment.Member, error) {
	raw, err := files.ReadFile("members.yaml")
	if err != nil {
		return nil, fmt.Errorf("read fixture members.yaml: %w", err)
	}
	var docs []memberDoc
	if err := yaml.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("parse fixture members.yaml: %w", err)
	}

	members := make([]payment.Member, 0, len(docs))
	for _, doc := range docs {
		memberID, err := id.ParseMemberID(doc.ID)
		if err != nil {
			return nil, fmt.Errorf("fixture members.yaml: invalid id %q: %w", doc.ID, err)
		}
		members = append(members, payment.Member{
			ID:               memberID,
			MembershipNumber: doc.MembershipNumber,
			Name:             doc.Name,
			Email:            doc.Email,
			DuesAmount:       doc.DuesAmount,
			Currency:         doc.Currency,
		})
	}
	return members, nil
}
