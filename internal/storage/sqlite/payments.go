package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/oqba26/monthlypay/internal/models"
)

// ListPayments returns every payment, newest first.
func (s *SQLiteStore) ListPayments(ctx context.Context) ([]models.PaymentRecord, error) {
	return s.queryPayments(ctx,
		"SELECT id, person_id, amount, shamsi_year, shamsi_month, timestamp FROM payments ORDER BY timestamp DESC",
	)
}

// ListPaymentsForPerson returns one person's payments, newest first.
func (s *SQLiteStore) ListPaymentsForPerson(ctx context.Context, personID string) ([]models.PaymentRecord, error) {
	return s.queryPayments(ctx,
		"SELECT id, person_id, amount, shamsi_year, shamsi_month, timestamp FROM payments WHERE person_id = ? ORDER BY timestamp DESC",
		personID,
	)
}

func (s *SQLiteStore) queryPayments(ctx context.Context, query string, args ...interface{}) ([]models.PaymentRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []models.PaymentRecord
	for rows.Next() {
		var rec models.PaymentRecord
		if err := rows.Scan(&rec.ID, &rec.PersonID, &rec.Amount, &rec.ShamsiYear, &rec.ShamsiMonth, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}

	return payments, nil
}

func insertPayment(ctx context.Context, tx *sql.Tx, rec *models.PaymentRecord) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO payments (id, person_id, amount, shamsi_year, shamsi_month, timestamp) VALUES (?, ?, ?, ?, ?, ?)",
		rec.ID, rec.PersonID, rec.Amount, rec.ShamsiYear, rec.ShamsiMonth, rec.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}
