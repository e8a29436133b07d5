package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/courtyardhq/courtyard/internal/domain"
)

func (s *Store) CreateProvider(ctx context.Context, p domain.ServiceProvider) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO service_providers (id, society_id, name, code, service, mobile_number,
		   inside, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.SocietyID, p.Name, p.Code, p.Service, p.MobileNumber,
		boolToInt(p.Inside), p.CreatedAt.Format(timeFormat), p.UpdatedAt.Format(timeFormat),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ConflictError{Reason: fmt.Sprintf("provider code %q is already registered", p.Code)}
		}
		return fmt.Errorf("inserting provider: %w", err)
	}
	return nil
}

func (s *Store) GetProvider(ctx context.Context, id string) (domain.ServiceProvider, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, society_id, name, code, service, mobile_number, inside, created_at, updated_at
		 FROM service_providers WHERE id = ?`, id,
	)

	var p domain.ServiceProvider
	var inside int
	var createdAt, updatedAt string
	err := row.Scan(&p.ID, &p.SocietyID, &p.Name, &p.Code, &p.Service, &p.MobileNumber,
		&inside, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.ServiceProvider{}, domain.NotFoundError{Kind: domain.KindServiceProvider, ID: id}
		}
		return domain.ServiceProvider{}, fmt.Errorf("scanning provider: %w", err)
	}

	p.Inside = inside != 0
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return p, nil
}

func (s *Store) SetProviderInside(ctx context.Context, id string, inside bool, log domain.StatusLogEntry) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE service_providers SET inside = ?, updated_at = ? WHERE id = ?`,
			boolToInt(inside), time.Now().UTC().Format(timeFormat), id,
		)
		if err != nil {
			return fmt.Errorf("updating provider: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("checking rows affected: %w", err)
		}
		if rows == 0 {
			return domain.NotFoundError{Kind: domain.KindServiceProvider, ID: id}
		}
		return insertLog(ctx, tx, log)
	})
}

func (s *Store) GetAssignment(ctx context.Context, providerID, rentalUnitID string) (domain.Assignment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, provider_id, rental_unit_id, status, created_at, updated_at
		 FROM provider_assignments WHERE provider_id = ? AND rental_unit_id = ?`,
		providerID, rentalUnitID,
	)

	var a domain.Assignment
	var status, createdAt, updatedAt string
	err := row.Scan(&a.ID, &a.ProviderID, &a.RentalUnitID, &status, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Assignment{}, domain.NotFoundError{Kind: domain.KindServiceProvider, ID: providerID}
		}
		return domain.Assignment{}, fmt.Errorf("scanning assignment: %w", err)
	}

	a.Status = domain.Status(status)
	a.CreatedAt = parseTime(createdAt)
	a.UpdatedAt = parseTime(updatedAt)
	return a, nil
}

func (s *Store) CreateAssignment(ctx context.Context, a domain.Assignment, log domain.StatusLogEntry) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO provider_assignments (id, provider_id, rental_unit_id, status, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			a.ID, a.ProviderID, a.RentalUnitID, string(a.Status),
			a.CreatedAt.Format(timeFormat), a.UpdatedAt.Format(timeFormat),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ConflictError{Reason: "provider is already assigned to this unit"}
			}
			return fmt.Errorf("inserting assignment: %w", err)
		}
		return insertLog(ctx, tx, log)
	})
}

func (s *Store) UpdateAssignment(ctx context.Context, a domain.Assignment, log domain.StatusLogEntry) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE provider_assignments SET status = ?, updated_at = ? WHERE id = ?`,
			string(a.Status), time.Now().UTC().Format(timeFormat), a.ID,
		)
		if err != nil {
			return fmt.Errorf("updating assignment: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("checking rows affected: %w", err)
		}
		if rows == 0 {
			return domain.NotFoundError{Kind: domain.KindServiceProvider, ID: a.ProviderID}
		}
		return insertLog(ctx, tx, log)
	})
}

// ActiveUnits returns the rental units a provider currently works for.
func (s *Store) ActiveUnits(ctx context.Context, providerID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT rental_unit_id FROM provider_assignments WHERE provider_id = ? AND status = ?`,
		providerID, string(domain.AssignmentActive),
	)
	if err != nil {
		return nil, fmt.Errorf("listing active units: %w", err)
	}
	defer rows.Close()

	var units []string
	for rows.Next() {
		var unit string
		if err := rows.Scan(&unit); err != nil {
			return nil, fmt.Errorf("scanning unit: %w", err)
		}
		units = append(units, unit)
	}

	return units, rows.Err()
}

func (s *Store) HasAttendanceOn(ctx context.Context, providerID, rentalUnitID, day string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM provider_attendance WHERE provider_id = ? AND rental_unit_id = ? AND day = ?`,
		providerID, rentalUnitID, day,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking attendance: %w", err)
	}
	return true, nil
}

func (s *Store) CreateAttendance(ctx context.Context, rec domain.AttendanceRecord, log domain.StatusLogEntry) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO provider_attendance (id, provider_id, rental_unit_id, day, created_at)
			 VALUES (?, ?, ?, ?, ?)`,
			rec.ID, rec.ProviderID, rec.RentalUnitID, rec.Day, rec.CreatedAt.Format(timeFormat),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ConflictError{Reason: "attendance already marked for today"}
			}
			return fmt.Errorf("inserting attendance: %w", err)
		}
		return insertLog(ctx, tx, log)
	})
}
