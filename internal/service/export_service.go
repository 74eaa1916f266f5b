package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/univ-admin-api/internal/conflict"
	"github.com/noah-isme/univ-admin-api/internal/dto"
	appErrors "github.com/noah-isme/univ-admin-api/pkg/errors"
	"github.com/noah-isme/univ-admin-api/pkg/export"
)

type workloadAnalyzer interface {
	Analyze(ctx context.Context, query dto.WorkloadQuery) (*dto.WorkloadReport, error)
}

type timetableAnalyzer interface {
	Analyze(ctx context.Context, query dto.TimetableQuery) (*dto.TimetableReport, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

var conflictHeaders = []string{"id", "type", "severity", "description", "details", "suggestion", "refs"}

// ExportResult is a rendered conflict report ready for download.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders conflict reports as CSV or PDF.
type ExportService struct {
	workload  workloadAnalyzer
	timetable timetableAnalyzer
	csv       csvRenderer
	pdf       pdfRenderer
	title     string
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(workload workloadAnalyzer, timetable timetableAnalyzer, csv csvRenderer, pdf pdfRenderer, title string, validate *validator.Validate, logger *zap.Logger) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if strings.TrimSpace(title) == "" {
		title = "Rapport des conflits"
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		workload:  workload,
		timetable: timetable,
		csv:       csv,
		pdf:       pdf,
		title:     title,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// Export analyses the requested domain and renders its conflicts.
func (s *ExportService) Export(ctx context.Context, query dto.ExportQuery) (*ExportResult, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export query")
	}

	var (
		conflicts []conflict.Conflict
		label     string
	)
	switch query.Domain {
	case DomainWorkload:
		report, err := s.workload.Analyze(ctx, query.WorkloadQuery)
		if err != nil {
			return nil, err
		}
		conflicts, label = report.Conflicts, "Charge pédagogique"
	case DomainTimetable:
		report, err := s.timetable.Analyze(ctx, query.TimetableQuery)
		if err != nil {
			return nil, err
		}
		conflicts, label = report.Conflicts, "Emploi du temps"
	}

	dataset := conflictDataset(conflicts)
	var (
		payload     []byte
		contentType string
		err         error
	)
	switch query.Format {
	case "csv":
		payload, err = s.csv.Render(dataset)
		contentType = "text/csv; charset=utf-8"
	case "pdf":
		payload, err = s.pdf.Render(dataset, fmt.Sprintf("%s - %s", s.title, label))
		contentType = "application/pdf"
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	filename := fmt.Sprintf("conflicts_%s_%s.%s", query.Domain, s.now().UTC().Format("20060102_150405"), query.Format)
	s.logger.Info("conflict report exported",
		zap.String("domain", query.Domain),
		zap.String("format", query.Format),
		zap.Int("conflicts", len(conflicts)),
	)
	return &ExportResult{Filename: filename, ContentType: contentType, Payload: payload}, nil
}

func conflictDataset(conflicts []conflict.Conflict) export.Dataset {
	rows := make([]map[string]string, 0, len(conflicts))
	for _, c := range conflicts {
		rows = append(rows, map[string]string{
			"id":          c.ID,
			"type":        string(c.Type),
			"severity":    string(c.Severity),
			"description": c.Description,
			"details":     c.Details,
			"suggestion":  c.Suggestion,
			"refs":        strings.Join(c.Refs, " "),
		})
	}
	return export.Dataset{Headers: conflictHeaders, Rows: rows}
}
