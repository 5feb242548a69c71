package membership

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	id "neuroportal/pkg/domain"
	"neuroportal/pkg/platform/sentinel"
)

// PostgresStore persists applications in the membership_applications table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, application Application) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO membership_applications
		   (id, email, full_name, specialization, country, institution, category, motivation, submitted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		application.ID.String(), application.Email, application.FullName,
		application.Specialization, application.Country, application.Institution,
		string(application.Category), application.Motivation, application.SubmittedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("save application: %w", err)
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, applicationID id.ApplicationID) (Application, error) {
	return s.scanOne(s.db.QueryRowContext(ctx,
		`SELECT id, email, full_name, specialization, country, institution, category, motivation, submitted_at
		   FROM membership_applications WHERE id = $1`, applicationID.String()))
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (Application, error) {
	return s.scanOne(s.db.QueryRowContext(ctx,
		`SELECT id, email, full_name, specialization, country, institution, category, motivation, submitted_at
		   FROM membership_applications WHERE email = $1`, email))
}

func (s *PostgresStore) scanOne(row *sql.Row) (Application, error) {
	var (
		application Application
		rawID       string
		rawCategory string
	)
	err := row.Scan(&rawID, &application.Email, &application.FullName,
		&application.Specialization, &application.Country, &application.Institution,
		&rawCategory, &application.Motivation, &application.SubmittedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Application{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Application{}, fmt.Errorf("scan application: %w", err)
	}
	applicationID, err := id.ParseApplicationID(rawID)
	if err != nil {
		return Application{}, fmt.Errorf("stored application id: %w", err)
	}
	application.ID = applicationID
	application.Category = Category(rawCategory)
	return application, nil
}
