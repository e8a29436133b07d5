package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/courtyardhq/courtyard/internal/domain"
)

// AddRole registers a user's role within a society. Duplicate grants are
// ignored.
func (s *Store) AddRole(ctx context.Context, a domain.Actor) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_roles (user_id, role, society_id, rental_unit_id)
		 VALUES (?, ?, ?, ?)`,
		a.UserID, string(a.Role), a.SocietyID, a.RentalUnitID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("inserting user role: %w", err)
	}
	return nil
}

// Resolve finds any grant of role for the user, regardless of scope.
func (s *Store) Resolve(ctx context.Context, userID string, role domain.Role) (domain.Actor, error) {
	return s.scanActor(s.db.QueryRowContext(ctx,
		`SELECT user_id, role, society_id, rental_unit_id
		 FROM user_roles WHERE user_id = ? AND role = ? LIMIT 1`,
		userID, string(role),
	), fmt.Sprintf("user %q does not hold role %q", userID, role))
}

// ResolveInUnit finds the user's role within a rental unit.
func (s *Store) ResolveInUnit(ctx context.Context, userID, rentalUnitID string) (domain.Actor, error) {
	return s.scanActor(s.db.QueryRowContext(ctx,
		`SELECT user_id, role, society_id, rental_unit_id
		 FROM user_roles WHERE user_id = ? AND rental_unit_id = ? LIMIT 1`,
		userID, rentalUnitID,
	), fmt.Sprintf("user %q has no role in unit %q", userID, rentalUnitID))
}

// ResolveInSociety finds the user's grant of one of the given roles within a
// society.
func (s *Store) ResolveInSociety(ctx context.Context, userID, societyID string, roles ...domain.Role) (domain.Actor, error) {
	query := `SELECT user_id, role, society_id, rental_unit_id
	 FROM user_roles WHERE user_id = ? AND society_id = ?`
	args := []any{userID, societyID}

	if len(roles) > 0 {
		placeholders := make([]string, len(roles))
		for i, role := range roles {
			placeholders[i] = "?"
			args = append(args, string(role))
		}
		query += ` AND role IN (` + strings.Join(placeholders, ", ") + `)`
	}
	query += ` LIMIT 1`

	return s.scanActor(s.db.QueryRowContext(ctx, query, args...),
		fmt.Sprintf("user %q has no matching role in society %q", userID, societyID))
}

func (s *Store) scanActor(row *sql.Row, denyReason string) (domain.Actor, error) {
	var a domain.Actor
	var role string
	err := row.Scan(&a.UserID, &role, &a.SocietyID, &a.RentalUnitID)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Actor{}, domain.AuthorizationError{Reason: denyReason}
		}
		return domain.Actor{}, fmt.Errorf("scanning user role: %w", err)
	}
	a.Role = domain.Role(role)
	return a, nil
}
