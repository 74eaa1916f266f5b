package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/univ-admin-api/internal/conflict"
	"github.com/noah-isme/univ-admin-api/internal/dto"
	appErrors "github.com/noah-isme/univ-admin-api/pkg/errors"
)

type fakeWorkloadService struct {
	report    *dto.WorkloadReport
	err       error
	lastQuery dto.WorkloadQuery
}

func (f *fakeWorkloadService) Analyze(_ context.Context, query dto.WorkloadQuery) (*dto.WorkloadReport, error) {
	f.lastQuery = query
	return f.report, f.err
}

func (f *fakeWorkloadService) Teachers(_ context.Context, query dto.WorkloadQuery) ([]conflict.TeacherWorkload, error) {
	f.lastQuery = query
	if f.err != nil {
		return nil, f.err
	}
	return f.report.Teachers, nil
}

func TestWorkloadHandlerConflicts(t *testing.T) {
	conflicts := []conflict.Conflict{{ID: "overload-T1", Type: conflict.TypeOverload, Severity: conflict.SeverityHigh, Refs: []string{"T1"}}}
	svc := &fakeWorkloadService{report: &dto.WorkloadReport{Conflicts: conflicts, Summary: conflict.Summarize(conflicts)}}
	handler := NewWorkloadHandler(svc)

	c, rec := newTestContext(http.MethodGet, "/workload/conflicts?underload_threshold=40&overload_threshold=110&semester=S1", nil)
	handler.Conflicts(c)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.lastQuery.UnderloadThresholdPct)
	assert.Equal(t, 40.0, *svc.lastQuery.UnderloadThresholdPct)
	assert.Equal(t, 110.0, *svc.lastQuery.OverloadThresholdPct)
	assert.Equal(t, "S1", svc.lastQuery.Semester)

	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, true, envelope.Meta["blocking"])
	var report dto.WorkloadReport
	require.NoError(t, json.Unmarshal(envelope.Data, &report))
	assert.Equal(t, "overload-T1", report.Conflicts[0].ID)
}

func TestWorkloadHandlerRejectsNonNumericThreshold(t *testing.T) {
	handler := NewWorkloadHandler(&fakeWorkloadService{})

	c, rec := newTestContext(http.MethodGet, "/workload/conflicts?underload_threshold=abc", nil)
	handler.Conflicts(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWorkloadHandlerTeachersUnboundedPercentage(t *testing.T) {
	teacher := conflict.TeacherWorkload{TotalHours: 12, WorkloadPercentage: conflict.LoadPercent(12, 0), Status: conflict.StatusOverload}
	teacher.ID = "T1"
	handler := NewWorkloadHandler(&fakeWorkloadService{report: &dto.WorkloadReport{Teachers: []conflict.TeacherWorkload{teacher}}})

	c, rec := newTestContext(http.MethodGet, "/workload/teachers", nil)
	handler.Teachers(c)

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	var teachers []map[string]interface{}
	require.NoError(t, json.Unmarshal(envelope.Data, &teachers))
	require.Len(t, teachers, 1)
	assert.Nil(t, teachers[0]["workload_percentage"])
	assert.Equal(t, "overload", teachers[0]["status"])
}

func TestWorkloadHandlerServiceError(t *testing.T) {
	handler := NewWorkloadHandler(&fakeWorkloadService{err: appErrors.Clone(appErrors.ErrValidation, "invalid workload query")})

	c, rec := newTestContext(http.MethodGet, "/workload/conflicts", nil)
	handler.Conflicts(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	envelope := decodeEnvelope(t, rec)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrValidation.Code, envelope.Error.Code)
}
