package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/univ-admin-api/internal/conflict"
	"github.com/noah-isme/univ-admin-api/internal/dto"
	appErrors "github.com/noah-isme/univ-admin-api/pkg/errors"
	"github.com/noah-isme/univ-admin-api/pkg/response"
)

type workloadService interface {
	Analyze(ctx context.Context, query dto.WorkloadQuery) (*dto.WorkloadReport, error)
	Teachers(ctx context.Context, query dto.WorkloadQuery) ([]conflict.TeacherWorkload, error)
}

// WorkloadHandler exposes the workload conflict analysis.
type WorkloadHandler struct {
	service workloadService
}

// NewWorkloadHandler constructs the handler.
func NewWorkloadHandler(service workloadService) *WorkloadHandler {
	return &WorkloadHandler{service: service}
}

// Conflicts godoc
// @Summary Detect workload conflicts
// @Description Flags under/overloaded teachers and modules assigned more than once to the same audience and format.
// @Tags Workload
// @Produce json
// @Param underload_threshold query number false "Underload threshold in percent (default 50)"
// @Param overload_threshold query number false "Overload threshold in percent (default 100)"
// @Param semester query string false "Semester label, e.g. S1"
// @Param specialty_id query string false "Specialty ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /workload/conflicts [get]
func (h *WorkloadHandler) Conflicts(c *gin.Context) {
	query, ok := bindWorkloadQuery(c)
	if !ok {
		return
	}
	report, err := h.service.Analyze(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil, map[string]interface{}{
		"total":    report.Summary.Total,
		"blocking": report.Summary.Blocking,
	})
}

// Teachers godoc
// @Summary List teachers with computed workload
// @Tags Workload
// @Produce json
// @Param underload_threshold query number false "Underload threshold in percent"
// @Param overload_threshold query number false "Overload threshold in percent"
// @Param semester query string false "Semester label"
// @Success 200 {object} response.Envelope
// @Router /workload/teachers [get]
func (h *WorkloadHandler) Teachers(c *gin.Context) {
	query, ok := bindWorkloadQuery(c)
	if !ok {
		return
	}
	teachers, err := h.service.Teachers(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teachers, nil)
}

func bindWorkloadQuery(c *gin.Context) (dto.WorkloadQuery, bool) {
	var query dto.WorkloadQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid workload query"))
		return query, false
	}
	return query, true
}
