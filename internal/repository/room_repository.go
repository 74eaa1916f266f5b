package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/univ-admin-api/internal/models"
)

// RoomRepository stores the seating capacity table.
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository constructs a RoomRepository.
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// List returns every known room.
func (r *RoomRepository) List(ctx context.Context) ([]models.Room, error) {
	const query = `SELECT name, capacity, updated_at FROM rooms ORDER BY name`
	var rooms []models.Room
	if err := r.db.SelectContext(ctx, &rooms, query); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

// Capacities returns the room table keyed by name.
func (r *RoomRepository) Capacities(ctx context.Context) (map[string]int, error) {
	rooms, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	capacities := make(map[string]int, len(rooms))
	for _, room := range rooms {
		capacities[room.Name] = room.Capacity
	}
	return capacities, nil
}

// Upsert inserts or replaces the capacity of a room.
func (r *RoomRepository) Upsert(ctx context.Context, room *models.Room) error {
	room.UpdatedAt = time.Now().UTC()
	const query = `INSERT INTO rooms (name, capacity, updated_at) VALUES (:name, :capacity, :updated_at)
		ON CONFLICT (name) DO UPDATE SET capacity = EXCLUDED.capacity, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, room); err != nil {
		return fmt.Errorf("upsert room: %w", err)
	}
	return nil
}
