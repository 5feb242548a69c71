package payment

import (
	"context"
	"database/sql"
	"fmt"

	id "neuroportal/pkg/domain"
)

// PostgresStore persists attempts in the payments table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, payment Payment) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO payments (id, member_id, amount, currency, method, status, reference, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		payment.ID.String(), payment.MemberID.String(), payment.Amount, payment.Currency,
		payment.Method.String(), string(payment.Status), payment.Reference, payment.CreatedAt)
	if err != nil {
		return fmt.Errorf("save payment: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByMember(ctx context.Context, memberID id.MemberID) ([]Payment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, member_id, amount, currency, method, status, reference, created_at
		   FROM payments WHERE member_id = $1 ORDER BY created_at DESC`, memberID.String())
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var payments []Payment
	for rows.Next() {
		var (
			payment     Payment
			rawID       string
			rawMemberID string
			rawMethod   string
			rawStatus   string
		)
		if err := rows.Scan(&rawID, &rawMemberID, &payment.Amount, &payment.Currency,
			&rawMethod, &rawStatus, &payment.Reference, &payment.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		paymentID, err := id.ParsePaymentID(rawID)
		if err != nil {
			return nil, fmt.Errorf("stored payment id: %w", err)
		}
		ownerID, err := id.ParseMemberID(rawMemberID)
		if err != nil {
			return nil, fmt.Errorf("stored member id: %w", err)
		}
		payment.ID = paymentID
		payment.MemberID = ownerID
		payment.Method = id.PaymentMethod(rawMethod)
		payment.Status = Status(rawStatus)
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}
