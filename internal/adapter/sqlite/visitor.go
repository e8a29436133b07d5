package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/courtyardhq/courtyard/internal/domain"
)

func (s *Store) CreateVisitor(ctx context.Context, v domain.Visitor, log domain.StatusLogEntry) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO visitors (id, society_id, rental_unit_id, type, name, vendor_name,
			   mobile_number, vehicle_number, visitor_count, leave_parcel_at_gate,
			   parcel_collected_by, approved_from, approved_till, status, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			v.ID, v.SocietyID, v.RentalUnitID, string(v.Type), v.Name, v.VendorName,
			v.MobileNumber, v.VehicleNumber, v.VisitorCount, boolToInt(v.LeaveParcelAtGate),
			v.ParcelCollectedBy, formatTime(v.ApprovedFrom), formatTime(v.ApprovedTill),
			string(v.Status), v.CreatedAt.Format(timeFormat), v.UpdatedAt.Format(timeFormat),
		)
		if err != nil {
			return fmt.Errorf("inserting visitor: %w", err)
		}
		return insertLog(ctx, tx, log)
	})
}

func (s *Store) GetVisitor(ctx context.Context, id string) (domain.Visitor, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, society_id, rental_unit_id, type, name, vendor_name, mobile_number,
		   vehicle_number, visitor_count, leave_parcel_at_gate, parcel_collected_by,
		   approved_from, approved_till, status, created_at, updated_at
		 FROM visitors WHERE id = ?`, id,
	)

	var v domain.Visitor
	var typ, status, from, till, createdAt, updatedAt string
	var parcelAtGate int
	err := row.Scan(&v.ID, &v.SocietyID, &v.RentalUnitID, &typ, &v.Name, &v.VendorName,
		&v.MobileNumber, &v.VehicleNumber, &v.VisitorCount, &parcelAtGate,
		&v.ParcelCollectedBy, &from, &till, &status, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Visitor{}, domain.NotFoundError{Kind: domain.KindVisitor, ID: id}
		}
		return domain.Visitor{}, fmt.Errorf("scanning visitor: %w", err)
	}

	v.Type = domain.VisitorType(typ)
	v.LeaveParcelAtGate = parcelAtGate != 0
	v.ApprovedFrom = parseTime(from)
	v.ApprovedTill = parseTime(till)
	v.Status = domain.Status(status)
	v.CreatedAt = parseTime(createdAt)
	v.UpdatedAt = parseTime(updatedAt)
	return v, nil
}

func (s *Store) UpdateVisitor(ctx context.Context, v domain.Visitor, log domain.StatusLogEntry) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE visitors SET status = ?, parcel_collected_by = ?, updated_at = ? WHERE id = ?`,
			string(v.Status), v.ParcelCollectedBy,
			time.Now().UTC().Format(timeFormat), v.ID,
		)
		if err != nil {
			return fmt.Errorf("updating visitor: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("checking rows affected: %w", err)
		}
		if rows == 0 {
			return domain.NotFoundError{Kind: domain.KindVisitor, ID: v.ID}
		}
		return insertLog(ctx, tx, log)
	})
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
