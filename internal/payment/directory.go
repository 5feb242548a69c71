package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	id "neuroportal/pkg/domain"
	"neuroportal/pkg/platform/sentinel"
)

// MemberDirectory resolves the payer before the payment step is reachable.
// FindMember matches the query against membership number, email, or name and
// returns sentinel.ErrNotFound when nothing matches.
type MemberDirectory interface {
	FindMember(ctx context.Context, query string) (Member, error)
}

// InMemoryDirectory backs development and tests.
type InMemoryDirectory struct {
	mu      sync.RWMutex
	members []Member
}

func NewInMemoryDirectory() *InMemoryDirectory {
	return &InMemoryDirectory{}
}

func (d *InMemoryDirectory) Replace(members []Member) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.members = members
}

func (d *InMemoryDirectory) FindMember(_ context.Context, query string) (Member, error) {
	needle := strings.ToLower(strings.TrimSpace(query))
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, member := range d.members {
		if strings.ToLower(member.MembershipNumber) == needle ||
			strings.ToLower(member.Email) == needle ||
			strings.Contains(strings.ToLower(member.Name), needle) {
			return member, nil
		}
	}
	return Member{}, sentinel.ErrNotFound
}

// PostgresDirectory resolves members from the members table.
type PostgresDirectory struct {
	db *sql.DB
}

func NewPostgresDirectory(db *sql.DB) *PostgresDirectory {
	return &PostgresDirectory{db: db}
}

func (d *PostgresDirectory) FindMember(ctx context.Context, query string) (Member, error) {
	needle := strings.TrimSpace(query)
	row := d.db.QueryRowContext(ctx,
		`SELECT id, membership_number, name, email, dues_amount, currency
		   FROM members
		  WHERE membership_number = $1
		     OR lower(email) = lower($1)
		     OR name ILIKE '%' || $1 || '%'
		  LIMIT 1`, needle)

	var (
		member Member
		rawID  string
	)
	err := row.Scan(&rawID, &member.MembershipNumber, &member.Name, &member.Email, &member.DuesAmount, &member.Currency)
	if errors.Is(err, sql.ErrNoRows) {
		return Member{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Member{}, fmt.Errorf("find member: %w", err)
	}
	memberID, err := id.ParseMemberID(rawID)
	if err != nil {
		return Member{}, fmt.Errorf("stored member id: %w", err)
	}
	member.ID = memberID
	return member, nil
}

// Seed inserts member records, used by the seed CLI command.
func (d *PostgresDirectory) Seed(ctx context.Context, members []Member) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	for _, member := range members {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO members (id, membership_number, name, email, dues_amount, currency)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (id) DO NOTHING`,
			member.ID.String(), member.MembershipNumber, member.Name, member.Email,
			member.DuesAmount, member.Currency); err != nil {
			return fmt.Errorf("seed member %s: %w", member.MembershipNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}
