package repository

import (
	"context"
	"fmt"

	"github.com/lib/pq"
	"github.com/nayna-import-api/internal/database"
	"github.com/nayna-import-api/internal/models"
)

// roomRepo is the concrete implementation of RoomRepository
type roomRepo struct {
	db *database.DB
}

// NewRoomRepo creates a new room repository
func NewRoomRepo(db *database.DB) RoomRepository {
	return &roomRepo{db: db}
}

const roomColumns = `id, instance_id, room_number, hotel_name, room_type, check_in_date, check_in_time,
	check_out_date, check_out_time, guest_ids, notes, created_at`

// ReplaceForInstance swaps the instance's room allocations in one transaction
func (r *roomRepo) ReplaceForInstance(ctx context.Context, instanceID string, rooms []*models.Room) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM rooms WHERE instance_id = $1`, instanceID); err != nil {
		return 0, fmt.Errorf("clear rooms: %w", err)
	}

	if len(rooms) > 0 {
		stmt, err := tx.PrepareContext(ctx, pq.CopyIn("rooms",
			"id", "instance_id", "position", "room_number", "hotel_name", "room_type",
			"check_in_date", "check_in_time", "check_out_date", "check_out_time",
			"guest_ids", "notes", "created_at",
		))
		if err != nil {
			return 0, err
		}
		defer stmt.Close()

		for i, rm := range rooms {
			if _, err := stmt.ExecContext(ctx,
				rm.ID, instanceID, i, rm.RoomNumber, rm.HotelName, rm.RoomType,
				rm.CheckInDate, rm.CheckInTime, rm.CheckOutDate, rm.CheckOutTime,
				pq.Array(rm.GuestIDs), rm.Notes, rm.CreatedAt,
			); err != nil {
				return 0, fmt.Errorf("copy room %d: %w", i, err)
			}
		}

		if _, err := stmt.ExecContext(ctx); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(rooms), nil
}

// ListByInstance returns the instance's rooms in list order
func (r *roomRepo) ListByInstance(ctx context.Context, instanceID string) ([]*models.Room, error) {
	rooms := make([]*models.Room, 0)
	err := r.StreamByInstance(ctx, instanceID, func(rm *models.Room) error {
		rooms = append(rooms, rm)
		return nil
	})
	return rooms, err
}

// StreamByInstance streams the instance's rooms for export
func (r *roomRepo) StreamByInstance(ctx context.Context, instanceID string, callback func(*models.Room) error) error {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE instance_id = $1 ORDER BY position`
	rows, err := r.db.QueryContext(ctx, query, instanceID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var rm models.Room
		err := rows.Scan(
			&rm.ID, &rm.InstanceID, &rm.RoomNumber, &rm.HotelName, &rm.RoomType,
			&rm.CheckInDate, &rm.CheckInTime, &rm.CheckOutDate, &rm.CheckOutTime,
			pq.Array(&rm.GuestIDs), &rm.Notes, &rm.CreatedAt,
		)
		if err != nil {
			return err
		}
		if rm.GuestIDs == nil {
			rm.GuestIDs = []string{}
		}

		if err := callback(&rm); err != nil {
			return err
		}
	}

	return rows.Err()
}

// Count returns the total number of rooms
func (r *roomRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM rooms").Scan(&count)
	return count, err
}
