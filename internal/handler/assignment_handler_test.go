package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/univ-admin-api/internal/dto"
	"github.com/noah-isme/univ-admin-api/internal/models"
	appErrors "github.com/noah-isme/univ-admin-api/pkg/errors"
)

type fakeAssignmentService struct {
	lastQuery dto.AssignmentListQuery
	createErr error
	deletedID string
}

func (f *fakeAssignmentService) List(_ context.Context, query dto.AssignmentListQuery) ([]models.Assignment, error) {
	f.lastQuery = query
	return []models.Assignment{{ID: "a1", TeacherID: query.TeacherID}}, nil
}

func (f *fakeAssignmentService) Create(_ context.Context, req dto.CreateAssignmentRequest) (*models.Assignment, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Assignment{ID: "a-new", TeacherID: req.TeacherID}, nil
}

func (f *fakeAssignmentService) Delete(_ context.Context, id string) error {
	f.deletedID = id
	return nil
}

func TestAssignmentHandlerList(t *testing.T) {
	svc := &fakeAssignmentService{}
	handler := NewAssignmentHandler(svc)

	c, rec := newTestContext(http.MethodGet, "/assignments?teacher_id=T1&semester=S2", nil)
	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "T1", svc.lastQuery.TeacherID)
	assert.Equal(t, "S2", svc.lastQuery.Semester)
}

func TestAssignmentHandlerCreate(t *testing.T) {
	handler := NewAssignmentHandler(&fakeAssignmentService{})

	c, rec := newTestContext(http.MethodPost, "/assignments", map[string]interface{}{"teacher_id": "T1", "module_id": "M1"})
	handler.Create(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestAssignmentHandlerCreateMalformedJSON(t *testing.T) {
	handler := NewAssignmentHandler(&fakeAssignmentService{})

	c, rec := newTestContext(http.MethodPost, "/assignments", "not-an-object")
	handler.Create(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAssignmentHandlerCreateDuplicateRejected(t *testing.T) {
	handler := NewAssignmentHandler(&fakeAssignmentService{createErr: appErrors.Clone(appErrors.ErrConflict, "module already assigned")})

	c, rec := newTestContext(http.MethodPost, "/assignments", map[string]interface{}{"teacher_id": "T1", "reject_duplicate": true})
	handler.Create(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
	envelope := decodeEnvelope(t, rec)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "module already assigned", envelope.Error.Message)
}

func TestAssignmentHandlerDelete(t *testing.T) {
	svc := &fakeAssignmentService{}
	handler := NewAssignmentHandler(svc)

	c, rec := newTestContext(http.MethodDelete, "/assignments/a1", nil)
	c.Params = gin.Params{{Key: "id", Value: "a1"}}
	handler.Delete(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "a1", svc.deletedID)
}
