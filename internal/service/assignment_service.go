package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/univ-admin-api/internal/dto"
	"github.com/noah-isme/univ-admin-api/internal/models"
	appErrors "github.com/noah-isme/univ-admin-api/pkg/errors"
)

type assignmentRepository interface {
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error)
	ExistsForTarget(ctx context.Context, moduleID, targetID string, atom models.AtomType) (bool, error)
	Create(ctx context.Context, assignment *models.Assignment) error
	Delete(ctx context.Context, id string) error
}

type teacherLookup interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
}

// AssignmentService manages teacher assignments. Duplicates are accepted by default so the
// workload detector can report them.
type AssignmentService struct {
	repo      assignmentRepository
	teachers  teacherLookup
	notifier  changeNotifier
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAssignmentService constructs an AssignmentService.
func NewAssignmentService(repo assignmentRepository, teachers teacherLookup, notifier changeNotifier, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{repo: repo, teachers: teachers, notifier: notifier, validator: validate, logger: logger}
}

// List returns assignments matching query.
func (s *AssignmentService) List(ctx context.Context, query dto.AssignmentListQuery) ([]models.Assignment, error) {
	assignments, err := s.repo.List(ctx, models.AssignmentFilter{
		TeacherID:   query.TeacherID,
		Semester:    query.Semester,
		SpecialtyID: query.SpecialtyID,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	if assignments == nil {
		assignments = []models.Assignment{}
	}
	return assignments, nil
}

// Create stores a new assignment and schedules a workload recompute.
func (s *AssignmentService) Create(ctx context.Context, req dto.CreateAssignmentRequest) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	if _, err := s.teachers.FindByID(ctx, req.TeacherID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}

	atom := models.AtomType(req.AtomType)
	exists, err := s.repo.ExistsForTarget(ctx, req.ModuleID, req.TargetID, atom)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check duplicate assignment")
	}
	if exists {
		if req.RejectDuplicate {
			return nil, appErrors.Clone(appErrors.ErrConflict, "module already assigned to this audience for this format")
		}
		s.logger.Info("duplicate assignment accepted",
			zap.String("module_id", req.ModuleID),
			zap.String("target_id", req.TargetID),
			zap.String("atom_type", req.AtomType),
		)
	}

	assignment := &models.Assignment{
		TeacherID:     req.TeacherID,
		ModuleID:      req.ModuleID,
		ModuleName:    strings.TrimSpace(req.ModuleName),
		SpecialtyID:   req.SpecialtyID,
		SpecialtyName: strings.TrimSpace(req.SpecialtyName),
		AtomType:      atom,
		TargetAudience: models.TargetAudience{
			Type:     models.AudienceType(req.TargetType),
			ID:       req.TargetID,
			Name:     strings.TrimSpace(req.TargetName),
			Capacity: req.TargetCapacity,
		},
		Semester:     strings.TrimSpace(req.Semester),
		HoursPerWeek: req.HoursPerWeek,
		TotalWeeks:   req.TotalWeeks,
		Coefficient:  req.Coefficient,
		Confirmed:    req.Confirmed,
	}
	if err := s.repo.Create(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment")
	}
	s.notify(ctx)
	return assignment, nil
}

// Delete removes an assignment and schedules a workload recompute.
func (s *AssignmentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete assignment")
	}
	s.notify(ctx)
	return nil
}

func (s *AssignmentService) notify(ctx context.Context) {
	if s.notifier != nil {
		s.notifier.Notify(ctx, DomainWorkload)
	}
}
