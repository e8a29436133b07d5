package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/courtyardhq/courtyard/internal/domain"
)

func (s *Store) CreateSos(ctx context.Context, alarm domain.Sos, log domain.StatusLogEntry) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO sos (id, society_id, rental_unit_id, raised_by, category, status,
			   acknowledged_at, resolved_at, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			alarm.ID, alarm.SocietyID, alarm.RentalUnitID, alarm.RaisedBy, alarm.Category,
			string(alarm.Status), formatTime(alarm.AcknowledgedAt), formatTime(alarm.ResolvedAt),
			alarm.CreatedAt.Format(timeFormat), alarm.UpdatedAt.Format(timeFormat),
		)
		if err != nil {
			return fmt.Errorf("inserting sos: %w", err)
		}
		return insertLog(ctx, tx, log)
	})
}

func (s *Store) GetSos(ctx context.Context, id string) (domain.Sos, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, society_id, rental_unit_id, raised_by, category, status,
		   acknowledged_at, resolved_at, created_at, updated_at
		 FROM sos WHERE id = ?`, id,
	)

	var alarm domain.Sos
	var status, acknowledgedAt, resolvedAt, createdAt, updatedAt string
	err := row.Scan(&alarm.ID, &alarm.SocietyID, &alarm.RentalUnitID, &alarm.RaisedBy,
		&alarm.Category, &status, &acknowledgedAt, &resolvedAt, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Sos{}, domain.NotFoundError{Kind: domain.KindSos, ID: id}
		}
		return domain.Sos{}, fmt.Errorf("scanning sos: %w", err)
	}

	alarm.Status = domain.Status(status)
	alarm.AcknowledgedAt = parseTime(acknowledgedAt)
	alarm.ResolvedAt = parseTime(resolvedAt)
	alarm.CreatedAt = parseTime(createdAt)
	alarm.UpdatedAt = parseTime(updatedAt)
	return alarm, nil
}

func (s *Store) UpdateSos(ctx context.Context, alarm domain.Sos, log domain.StatusLogEntry) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE sos SET status = ?, acknowledged_at = ?, resolved_at = ?, updated_at = ? WHERE id = ?`,
			string(alarm.Status), formatTime(alarm.AcknowledgedAt), formatTime(alarm.ResolvedAt),
			time.Now().UTC().Format(timeFormat), alarm.ID,
		)
		if err != nil {
			return fmt.Errorf("updating sos: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("checking rows affected: %w", err)
		}
		if rows == 0 {
			return domain.NotFoundError{Kind: domain.KindSos, ID: alarm.ID}
		}
		return insertLog(ctx, tx, log)
	})
}
