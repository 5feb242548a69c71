package specialists

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// PostgresStore serves profiles from the specialists table. Only published
// profiles are listed; unpublishing removes the row.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ListSpecialists(ctx context.Context) ([]Specialist, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, specialization, country, city, institution, languages
		   FROM specialists ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list specialists: %w", err)
	}
	defer rows.Close()

	var specialists []Specialist
	for rows.Next() {
		var sp Specialist
		if err := rows.Scan(&sp.ID, &sp.Name, &sp.Specialization, &sp.Country, &sp.City, &sp.Institution, pq.Array(&sp.Languages)); err != nil {
			return nil, fmt.Errorf("scan specialist: %w", err)
		}
		specialists = append(specialists, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list specialists: %w", err)
	}
	return specialists, nil
}

// Seed inserts profiles, used by the seed CLI command.
func (s *PostgresStore) Seed(ctx context.Context, specialists []Specialist) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	for _, sp := range specialists {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO specialists (id, name, specialization, country, city, institution, languages)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (id) DO NOTHING`,
			sp.ID, sp.Name, sp.Specialization, sp.Country, sp.City, sp.Institution, pq.Array(sp.Languages)); err != nil {
			return fmt.Errorf("seed specialist %s: %w", sp.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}
