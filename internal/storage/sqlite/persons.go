package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/oqba26/monthlypay/internal/models"
)

// ListPersons returns every person, ordered by name case-insensitively.
func (s *SQLiteStore) ListPersons(ctx context.Context) ([]models.Person, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, user_id, created_at FROM persons ORDER BY name COLLATE NOCASE ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list persons: %w", err)
	}
	defer rows.Close()

	var persons []models.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		persons = append(persons, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate persons: %w", err)
	}

	return persons, nil
}

func scanPerson(rows *sql.Rows) (models.Person, error) {
	var p models.Person
	var userID sql.NullString
	if err := rows.Scan(&p.ID, &p.Name, &userID, &p.CreatedAt); err != nil {
		return models.Person{}, fmt.Errorf("failed to scan person: %w", err)
	}
	if userID.Valid {
		p.UserID = &userID.String
	}
	return p, nil
}

func insertPerson(ctx context.Context, tx *sql.Tx, p *models.Person) error {
	var userID interface{}
	if p.UserID != nil {
		userID = *p.UserID
	}

	_, err := tx.ExecContext(ctx,
		"INSERT INTO persons (id, name, user_id, created_at) VALUES (?, ?, ?, ?)",
		p.ID, p.Name, userID, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert person: %w", err)
	}
	return nil
}
