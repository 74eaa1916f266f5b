package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/univ-admin-api/internal/models"
)

const assignmentColumns = `id, teacher_id, module_id, module_name, specialty_id, specialty_name, atom_type,
	target_type, target_id, target_name, target_capacity, semester, hours_per_week, total_weeks,
	total_hours, coefficient, is_confirmed, created_at`

// AssignmentRepository persists teacher to module assignments.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs an AssignmentRepository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// List returns assignments matching filter, ordered by creation so detector output is stable.
func (r *AssignmentRepository) List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error) {
	var conditions []string
	var args []interface{}

	if filter.TeacherID != "" {
		conditions = append(conditions, fmt.Sprintf("teacher_id = $%d", len(args)+1))
		args = append(args, filter.TeacherID)
	}
	if filter.Semester != "" {
		conditions = append(conditions, fmt.Sprintf("semester = $%d", len(args)+1))
		args = append(args, filter.Semester)
	}
	if filter.SpecialtyID != "" {
		conditions = append(conditions, fmt.Sprintf("specialty_id = $%d", len(args)+1))
		args = append(args, filter.SpecialtyID)
	}

	query := "SELECT " + assignmentColumns + " FROM assignments"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at ASC, id ASC"

	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, args...); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}

// ListByTeacher returns the assignments owned by a teacher.
func (r *AssignmentRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.Assignment, error) {
	return r.List(ctx, models.AssignmentFilter{TeacherID: teacherID})
}

// FindByID fetches one assignment.
func (r *AssignmentRepository) FindByID(ctx context.Context, id string) (*models.Assignment, error) {
	query := "SELECT " + assignmentColumns + " FROM assignments WHERE id = $1"
	var assignment models.Assignment
	if err := r.db.GetContext(ctx, &assignment, query, id); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// ExistsForTarget reports whether the module is already delivered to the target in that format.
func (r *AssignmentRepository) ExistsForTarget(ctx context.Context, moduleID, targetID string, atom models.AtomType) (bool, error) {
	const query = `SELECT 1 FROM assignments WHERE module_id = $1 AND target_id = $2 AND atom_type = $3 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, moduleID, targetID, atom); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check assignment target: %w", err)
	}
	return true, nil
}

// Create inserts an assignment, deriving total hours from the weekly volume.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = time.Now().UTC()
	}
	assignment.TotalHours = assignment.HoursPerWeek * float64(assignment.TotalWeeks)

	const query = `INSERT INTO assignments (id, teacher_id, module_id, module_name, specialty_id, specialty_name, atom_type,
		target_type, target_id, target_name, target_capacity, semester, hours_per_week, total_weeks, total_hours,
		coefficient, is_confirmed, created_at)
		VALUES (:id, :teacher_id, :module_id, :module_name, :specialty_id, :specialty_name, :atom_type,
		:target_type, :target_id, :target_name, :target_capacity, :semester, :hours_per_week, :total_weeks, :total_hours,
		:coefficient, :is_confirmed, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

// Delete removes an assignment. It returns sql.ErrNoRows when nothing matched.
func (r *AssignmentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM assignments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	return expectAffected(res, "delete assignment")
}
