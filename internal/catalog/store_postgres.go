package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// PostgresStore serves catalog snapshots from the relational content tables.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ListEvents(ctx context.Context) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, date, location, category, type
		   FROM events ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Date, &e.Location, &e.Category, &e.Type); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (s *PostgresStore) ListWebinars(ctx context.Context) ([]Webinar, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, date, status, tags, speakers
		   FROM webinars ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("list webinars: %w", err)
	}
	defer rows.Close()

	var webinars []Webinar
	for rows.Next() {
		var w Webinar
		if err := rows.Scan(&w.ID, &w.Title, &w.Date, &w.Status, pq.Array(&w.Tags), pq.Array(&w.Speakers)); err != nil {
			return nil, fmt.Errorf("scan webinar: %w", err)
		}
		webinars = append(webinars, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list webinars: %w", err)
	}
	return webinars, nil
}

func (s *PostgresStore) ListPublications(ctx context.Context) ([]Publication, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, authors, abstract, year, keywords
		   FROM publications ORDER BY year DESC, title`)
	if err != nil {
		return nil, fmt.Errorf("list publications: %w", err)
	}
	defer rows.Close()

	var publications []Publication
	for rows.Next() {
		var p Publication
		if err := rows.Scan(&p.ID, &p.Title, pq.Array(&p.Authors), &p.Abstract, &p.Year, pq.Array(&p.Keywords)); err != nil {
			return nil, fmt.Errorf("scan publication: %w", err)
		}
		publications = append(publications, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list publications: %w", err)
	}
	return publications, nil
}

func (s *PostgresStore) ListResources(ctx context.Context) ([]Resource, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, type, description
		   FROM resources ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	defer rows.Close()

	var resources []Resource
	for rows.Next() {
		var r Resource
		if err := rows.Scan(&r.ID, &r.Title, &r.Type, &r.Description); err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		resources = append(resources, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	return resources, nil
}

func (s *PostgresStore) ListVideos(ctx context.Context) ([]Video, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, category, description
		   FROM videos ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	var videos []Video
	for rows.Next() {
		var v Video
		if err := rows.Scan(&v.ID, &v.Title, &v.Category, &v.Description); err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	return videos, nil
}

// Seed inserts a content snapshot, used by the seed CLI command.
func (s *PostgresStore) Seed(ctx context.Context, events []Event, webinars []Webinar, publications []Publication, resources []Resource, videos []Video) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	for _, e := range events {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO events (id, title, date, location, category, type)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (id) DO NOTHING`,
			e.ID, e.Title, e.Date, e.Location, e.Category, e.Type); err != nil {
			return fmt.Errorf("seed event %s: %w", e.ID, err)
		}
	}
	for _, w := range webinars {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO webinars (id, title, date, status, tags, speakers)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (id) DO NOTHING`,
			w.ID, w.Title, w.Date, w.Status, pq.Array(w.Tags), pq.Array(w.Speakers)); err != nil {
			return fmt.Errorf("seed webinar %s: %w", w.ID, err)
		}
	}
	for _, p := range publications {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO publications (id, title, authors, abstract, year, keywords)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (id) DO NOTHING`,
			p.ID, p.Title, pq.Array(p.Authors), p.Abstract, p.Year, pq.Array(p.Keywords)); err != nil {
			return fmt.Errorf("seed publication %s: %w", p.ID, err)
		}
	}
	for _, r := range resources {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO resources (id, title, type, description)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (id) DO NOTHING`,
			r.ID, r.Title, r.Type, r.Description); err != nil {
			return fmt.Errorf("seed resource %s: %w", r.ID, err)
		}
	}
	for _, v := range videos {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO videos (id, title, category, description)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (id) DO NOTHING`,
			v.ID, v.Title, v.Category, v.Description); err != nil {
			return fmt.Errorf("seed video %s: %w", v.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}
