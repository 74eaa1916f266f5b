package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/univ-admin-api/internal/dto"
	"github.com/noah-isme/univ-admin-api/internal/service"
	appErrors "github.com/noah-isme/univ-admin-api/pkg/errors"
	"github.com/noah-isme/univ-admin-api/pkg/response"
)

type exportService interface {
	Export(ctx context.Context, query dto.ExportQuery) (*service.ExportResult, error)
}

// ExportHandler streams conflict reports as downloadable files.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(service exportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// Export godoc
// @Summary Export a conflict report
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param domain query string true "workload or timetable"
// @Param format query string true "csv or pdf"
// @Param semester query string false "Workload semester"
// @Param day query string false "Timetable day"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /conflicts/export [get]
func (h *ExportHandler) Export(c *gin.Context) {
	var query dto.ExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export query"))
		return
	}
	result, err := h.service.Export(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, result.Filename, result.ContentType, result.Payload)
}
