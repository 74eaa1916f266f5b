package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/univ-admin-api/internal/models"
)

const timetableEventColumns = `id, subject, type, teacher, formation, level, group_name, room, day, start_time,
	end_time, students, is_validated, has_reservation, created_at, updated_at`

// TimetableEventRepository persists scheduled sessions.
type TimetableEventRepository struct {
	db *sqlx.DB
}

// NewTimetableEventRepository constructs a TimetableEventRepository.
func NewTimetableEventRepository(db *sqlx.DB) *TimetableEventRepository {
	return &TimetableEventRepository{db: db}
}

// List returns the events in scope in insertion order.
func (r *TimetableEventRepository) List(ctx context.Context, filter models.TimetableEventFilter) ([]models.TimetableEvent, error) {
	var conditions []string
	var args []interface{}

	add := func(column, value string) {
		if value == "" {
			return
		}
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(args)+1))
		args = append(args, value)
	}
	add("formation", filter.Formation)
	add("level", filter.Level)
	add("day", filter.Day)
	add("room", filter.Room)

	query := "SELECT " + timetableEventColumns + " FROM timetable_events"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at ASC, id ASC"

	var events []models.TimetableEvent
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, fmt.Errorf("list timetable events: %w", err)
	}
	return events, nil
}

// FindByID fetches one event.
func (r *TimetableEventRepository) FindByID(ctx context.Context, id string) (*models.TimetableEvent, error) {
	query := "SELECT " + timetableEventColumns + " FROM timetable_events WHERE id = $1"
	var event models.TimetableEvent
	if err := r.db.GetContext(ctx, &event, query, id); err != nil {
		return nil, err
	}
	return &event, nil
}

// Create inserts a new event.
func (r *TimetableEventRepository) Create(ctx context.Context, event *models.TimetableEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = now
	}
	event.UpdatedAt = now

	const query = `INSERT INTO timetable_events (id, subject, type, teacher, formation, level, group_name, room, day,
		start_time, end_time, students, is_validated, has_reservation, created_at, updated_at)
		VALUES (:id, :subject, :type, :teacher, :formation, :level, :group_name, :room, :day,
		:start_time, :end_time, :students, :is_validated, :has_reservation, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("create timetable event: %w", err)
	}
	return nil
}

// Update overwrites an event. It returns sql.ErrNoRows when the id is unknown.
func (r *TimetableEventRepository) Update(ctx context.Context, event *models.TimetableEvent) error {
	event.UpdatedAt = time.Now().UTC()
	const query = `UPDATE timetable_events SET subject = :subject, type = :type, teacher = :teacher, formation = :formation,
		level = :level, group_name = :group_name, room = :room, day = :day, start_time = :start_time, end_time = :end_time,
		students = :students, is_validated = :is_validated, has_reservation = :has_reservation, updated_at = :updated_at
		WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, event)
	if err != nil {
		return fmt.Errorf("update timetable event: %w", err)
	}
	return expectAffected(res, "update timetable event")
}

// Delete removes an event. It returns sql.ErrNoRows when the id is unknown.
func (r *TimetableEventRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM timetable_events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete timetable event: %w", err)
	}
	return expectAffected(res, "delete timetable event")
}

func expectAffected(res sql.Result, op string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows: %w", op, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
