package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/univ-admin-api/internal/models"
)

var assignmentRowColumns = []string{
	"id", "teacher_id", "module_id", "module_name", "specialty_id", "specialty_name", "atom_type",
	"target_type", "target_id", "target_name", "target_capacity", "semester", "hours_per_week", "total_weeks",
	"total_hours", "coefficient", "is_confirmed", "created_at",
}

func TestAssignmentRepositoryListByTeacherAndSemester(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	rows := sqlmock.NewRows(assignmentRowColumns).
		AddRow("a1", "t1", "m1", "Algorithmique", "s1", "Informatique", "td",
			"group", "g1", "Groupe 1", 30, "S1", 3.0, 15, 45.0, 2.0, true, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM assignments WHERE teacher_id = $1 AND semester = $2 ORDER BY created_at ASC, id ASC")).
		WithArgs("t1", "S1").
		WillReturnRows(rows)

	list, err := repo.List(context.Background(), models.AssignmentFilter{TeacherID: "t1", Semester: "S1"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.AtomTD, list[0].AtomType)
	assert.Equal(t, "g1", list[0].TargetAudience.ID)
	assert.Equal(t, models.AudienceGroup, list[0].TargetAudience.Type)
	assert.Equal(t, 45.0, list[0].TotalHours)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryCreateDerivesTotalHours(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectExec("INSERT INTO assignments").
		WithArgs(sqlmock.AnyArg(), "t1", "m1", "Algorithmique", "s1", "Informatique", models.AtomTD,
			models.AudienceGroup, "g1", "Groupe 1", 30, "S1", 3.0, 15, 45.0, 2.0, false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	a := &models.Assignment{
		TeacherID: "t1", ModuleID: "m1", ModuleName: "Algorithmique", SpecialtyID: "s1", SpecialtyName: "Informatique",
		AtomType:       models.AtomTD,
		TargetAudience: models.TargetAudience{Type: models.AudienceGroup, ID: "g1", Name: "Groupe 1", Capacity: 30},
		Semester:       "S1", HoursPerWeek: 3, TotalWeeks: 15, Coefficient: 2,
	}
	require.NoError(t, repo.Create(context.Background(), a))
	assert.Equal(t, 45.0, a.TotalHours)
	assert.NotEmpty(t, a.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryExistsForTarget(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectQuery("SELECT 1 FROM assignments WHERE module_id").
		WithArgs("m1", "g1", models.AtomTD).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(1))
	mock.ExpectQuery("SELECT 1 FROM assignments WHERE module_id").
		WithArgs("m1", "g2", models.AtomTD).
		WillReturnError(sql.ErrNoRows)

	exists, err := repo.ExistsForTarget(context.Background(), "m1", "g1", models.AtomTD)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsForTarget(context.Background(), "m1", "g2", models.AtomTD)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryDeleteMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM assignments WHERE id = $1")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}
