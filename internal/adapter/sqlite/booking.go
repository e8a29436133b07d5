package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/courtyardhq/courtyard/internal/domain"
)

func (s *Store) CreateAmenity(ctx context.Context, a domain.Amenity) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO amenities (id, society_id, name, description, granularity, price_per_slot, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.SocietyID, a.Name, a.Description, string(a.Granularity),
		a.PricePerSlot, a.CreatedAt.Format(timeFormat),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ConflictError{Reason: fmt.Sprintf("amenity %q already exists in society", a.Name)}
		}
		return fmt.Errorf("inserting amenity: %w", err)
	}
	return nil
}

func (s *Store) GetAmenity(ctx context.Context, id string) (domain.Amenity, error) {
	return scanAmenity(s.db.QueryRowContext(ctx,
		`SELECT id, society_id, name, description, granularity, price_per_slot, created_at
		 FROM amenities WHERE id = ?`, id,
	), id)
}

func scanAmenity(row *sql.Row, id string) (domain.Amenity, error) {
	var a domain.Amenity
	var granularity, createdAt string
	err := row.Scan(&a.ID, &a.SocietyID, &a.Name, &a.Description, &granularity, &a.PricePerSlot, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Amenity{}, domain.NotFoundError{Kind: "amenity", ID: id}
		}
		return domain.Amenity{}, fmt.Errorf("scanning amenity: %w", err)
	}
	a.Granularity = domain.Granularity(granularity)
	a.CreatedAt = parseTime(createdAt)
	return a, nil
}

func (s *Store) ListAmenities(ctx context.Context, societyID string) ([]domain.Amenity, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, society_id, name, description, granularity, price_per_slot, created_at
		 FROM amenities WHERE society_id = ? ORDER BY name`, societyID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing amenities: %w", err)
	}
	defer rows.Close()

	var amenities []domain.Amenity
	for rows.Next() {
		var a domain.Amenity
		var granularity, createdAt string
		if err := rows.Scan(&a.ID, &a.SocietyID, &a.Name, &a.Description, &granularity, &a.PricePerSlot, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning amenity row: %w", err)
		}
		a.Granularity = domain.Granularity(granularity)
		a.CreatedAt = parseTime(createdAt)
		amenities = append(amenities, a)
	}

	return amenities, rows.Err()
}

// CreateBooking checks for a conflicting booking and inserts the new one
// atomically. It takes a dedicated connection and starts an immediate
// transaction so two concurrent requests for the same window serialize: the
// second one sees the first one's row and gets a ConflictError.
func (s *Store) CreateBooking(ctx context.Context, b domain.Booking, log domain.StatusLogEntry) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquiring connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "BEGIN IMMEDIATE"); err != nil {
		return fmt.Errorf("beginning booking transaction: %w", err)
	}
	rollback := func() {
		conn.ExecContext(ctx, "ROLLBACK")
	}

	start := b.StartTime.Format(timeFormat)
	end := b.EndTime.Format(timeFormat)

	query := `SELECT id FROM bookings
		 WHERE amenity_id = ? AND status = ?
		   AND ((start_time >= ? AND start_time < ?) OR (end_time > ? AND end_time <= ?))
		 LIMIT 1`
	args := []any{b.AmenityID, string(domain.BookingBooked), start, end, start, end}
	if s.fullOverlap {
		query = `SELECT id FROM bookings
		 WHERE amenity_id = ? AND status = ? AND start_time < ? AND end_time > ?
		 LIMIT 1`
		args = []any{b.AmenityID, string(domain.BookingBooked), end, start}
	}

	var existing string
	err = conn.QueryRowContext(ctx, query, args...).Scan(&existing)
	switch {
	case err == nil:
		rollback()
		return domain.ConflictError{Reason: "amenity is already booked for the requested window"}
	case err != sql.ErrNoRows:
		rollback()
		return fmt.Errorf("checking booking overlap: %w", err)
	}

	_, err = conn.ExecContext(ctx,
		`INSERT INTO bookings (id, amenity_id, society_id, rental_unit_id, booked_by,
		   start_time, end_time, slots_booked, amount_paid, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.AmenityID, b.SocietyID, b.RentalUnitID, b.BookedBy,
		start, end, b.SlotsBooked, b.AmountPaid, string(b.Status),
		b.CreatedAt.Format(timeFormat), b.UpdatedAt.Format(timeFormat),
	)
	if err != nil {
		rollback()
		return fmt.Errorf("inserting booking: %w", err)
	}

	if err := insertLog(ctx, conn, log); err != nil {
		rollback()
		return err
	}

	if _, err := conn.ExecContext(ctx, "COMMIT"); err != nil {
		return fmt.Errorf("committing booking: %w", err)
	}
	return nil
}

func (s *Store) GetBooking(ctx context.Context, id string) (domain.Booking, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, amenity_id, society_id, rental_unit_id, booked_by, start_time, end_time,
		   slots_booked, amount_paid, status, created_at, updated_at
		 FROM bookings WHERE id = ?`, id,
	)

	var b domain.Booking
	var start, end, status, createdAt, updatedAt string
	err := row.Scan(&b.ID, &b.AmenityID, &b.SocietyID, &b.RentalUnitID, &b.BookedBy,
		&start, &end, &b.SlotsBooked, &b.AmountPaid, &status, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Booking{}, domain.NotFoundError{Kind: domain.KindBooking, ID: id}
		}
		return domain.Booking{}, fmt.Errorf("scanning booking: %w", err)
	}

	b.StartTime = parseTime(start)
	b.EndTime = parseTime(end)
	b.Status = domain.Status(status)
	b.CreatedAt = parseTime(createdAt)
	b.UpdatedAt = parseTime(updatedAt)
	return b, nil
}

func (s *Store) UpdateBooking(ctx context.Context, b domain.Booking, log domain.StatusLogEntry) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?`,
			string(b.Status), time.Now().UTC().Format(timeFormat), b.ID,
		)
		if err != nil {
			return fmt.Errorf("updating booking: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("checking rows affected: %w", err)
		}
		if rows == 0 {
			return domain.NotFoundError{Kind: domain.KindBooking, ID: b.ID}
		}
		return insertLog(ctx, tx, log)
	})
}
