package repository

import (
	"context"
	"fmt"

	"github.com/lib/pq"
	"github.com/nayna-import-api/internal/database"
	"github.com/nayna-import-api/internal/models"
)

// guestRepo is the concrete implementation of GuestRepository
type guestRepo struct {
	db *database.DB
}

// NewGuestRepo creates a new guest repository
func NewGuestRepo(db *database.DB) GuestRepository {
	return &guestRepo{db: db}
}

const guestColumns = `id, instance_id, name, email, phone, country_code, side, relationship, rsvp, created_at`

// ReplaceForInstance swaps the instance's whole guest list in one transaction.
// Rows are written with COPY; list order is kept in the position column.
func (r *guestRepo) ReplaceForInstance(ctx context.Context, instanceID string, guests []*models.Guest) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM guests WHERE instance_id = $1`, instanceID); err != nil {
		return 0, fmt.Errorf("clear guests: %w", err)
	}

	if len(guests) > 0 {
		stmt, err := tx.PrepareContext(ctx, pq.CopyIn("guests",
			"id", "instance_id", "position", "name", "email", "phone",
			"country_code", "side", "relationship", "rsvp", "created_at",
		))
		if err != nil {
			return 0, err
		}
		defer stmt.Close()

		for i, g := range guests {
			if _, err := stmt.ExecContext(ctx,
				g.ID, instanceID, i, g.Name, g.Email, g.Phone,
				g.CountryCode, string(g.Side), g.Relationship, string(g.RSVP), g.CreatedAt,
			); err != nil {
				return 0, fmt.Errorf("copy guest %d: %w", i, err)
			}
		}

		// Flush the COPY buffer
		if _, err := stmt.ExecContext(ctx); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(guests), nil
}

// ListByInstance returns the instance's guests in list order
func (r *guestRepo) ListByInstance(ctx context.Context, instanceID string) ([]*models.Guest, error) {
	guests := make([]*models.Guest, 0)
	err := r.StreamByInstance(ctx, instanceID, func(g *models.Guest) error {
		guests = append(guests, g)
		return nil
	})
	return guests, err
}

// StreamByInstance streams the instance's guests for export (memory efficient)
func (r *guestRepo) StreamByInstance(ctx context.Context, instanceID string, callback func(*models.Guest) error) error {
	query := `SELECT ` + guestColumns + ` FROM guests WHERE instance_id = $1 ORDER BY position`
	rows, err := r.db.QueryContext(ctx, query, instanceID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var g models.Guest
		err := rows.Scan(
			&g.ID, &g.InstanceID, &g.Name, &g.Email, &g.Phone,
			&g.CountryCode, &g.Side, &g.Relationship, &g.RSVP, &g.CreatedAt,
		)
		if err != nil {
			return err
		}

		if err := callback(&g); err != nil {
			return err
		}
	}

	return rows.Err()
}

// Count returns the total number of guests
func (r *guestRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM guests").Scan(&count)
	return count, err
}
