package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/courtyardhq/courtyard/internal/domain"
)

func (s *Store) CreateComplaint(ctx context.Context, c domain.Complaint, log domain.StatusLogEntry) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO complaints (id, society_id, rental_unit_id, raised_by, category,
			   subject, description, status, rating, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.SocietyID, c.RentalUnitID, c.RaisedBy, c.Category,
			c.Subject, c.Description, string(c.Status), c.Rating,
			c.CreatedAt.Format(timeFormat), c.UpdatedAt.Format(timeFormat),
		)
		if err != nil {
			return fmt.Errorf("inserting complaint: %w", err)
		}
		return insertLog(ctx, tx, log)
	})
}

func (s *Store) GetComplaint(ctx context.Context, id string) (domain.Complaint, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, society_id, rental_unit_id, raised_by, category, subject, description,
		   status, rating, created_at, updated_at
		 FROM complaints WHERE id = ?`, id,
	)

	var c domain.Complaint
	var status, createdAt, updatedAt string
	err := row.Scan(&c.ID, &c.SocietyID, &c.RentalUnitID, &c.RaisedBy, &c.Category,
		&c.Subject, &c.Description, &status, &c.Rating, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Complaint{}, domain.NotFoundError{Kind: domain.KindComplaint, ID: id}
		}
		return domain.Complaint{}, fmt.Errorf("scanning complaint: %w", err)
	}

	c.Status = domain.Status(status)
	c.CreatedAt = parseTime(createdAt)
	c.UpdatedAt = parseTime(updatedAt)
	return c, nil
}

// UpdateComplaint persists a status and rating change and, when comment is
// non-nil, writes the closing comment in the same transaction.
func (s *Store) UpdateComplaint(ctx context.Context, c domain.Complaint, comment *domain.ComplaintComment, log domain.StatusLogEntry) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE complaints SET status = ?, rating = ?, updated_at = ? WHERE id = ?`,
			string(c.Status), c.Rating, time.Now().UTC().Format(timeFormat), c.ID,
		)
		if err != nil {
			return fmt.Errorf("updating complaint: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("checking rows affected: %w", err)
		}
		if rows == 0 {
			return domain.NotFoundError{Kind: domain.KindComplaint, ID: c.ID}
		}
		if comment != nil {
			if err := insertComment(ctx, tx, *comment); err != nil {
				return err
			}
		}
		return insertLog(ctx, tx, log)
	})
}

func (s *Store) AddComment(ctx context.Context, comment domain.ComplaintComment) error {
	return insertComment(ctx, s.db, comment)
}

func insertComment(ctx context.Context, ex execer, comment domain.ComplaintComment) error {
	_, err := ex.ExecContext(ctx,
		`INSERT INTO complaint_comments (id, complaint_id, author_id, body, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		comment.ID, comment.ComplaintID, comment.AuthorID, comment.Body,
		comment.CreatedAt.Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("inserting complaint comment: %w", err)
	}
	return nil
}

func (s *Store) ListComments(ctx context.Context, complaintID string) ([]domain.ComplaintComment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, complaint_id, author_id, body, created_at
		 FROM complaint_comments WHERE complaint_id = ? ORDER BY created_at`,
		complaintID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing complaint comments: %w", err)
	}
	defer rows.Close()

	var comments []domain.ComplaintComment
	for rows.Next() {
		var c domain.ComplaintComment
		var createdAt string
		if err := rows.Scan(&c.ID, &c.ComplaintID, &c.AuthorID, &c.Body, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning complaint comment: %w", err)
		}
		c.CreatedAt = parseTime(createdAt)
		comments = append(comments, c)
	}

	return comments, rows.Err()
}
