package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

type timetableRepository interface {
	List(ctx context.Context, filter models.TimetableFilter) ([]models.TimetableDetail, error)
	FindByID(ctx context.Context, id string) (*models.Timetable, error)
	Create(ctx context.Context, tt *models.Timetable) error
	Delete(ctx context.Context, id string) error
}

// CreateTimetableEntryRequest adds a single period by hand, outside the
// generator.
type CreateTimetableEntryRequest struct {
	ClassID   string `json:"class_id" validate:"required,uuid"`
	Day       string `json:"day" validate:"required"`
	StartTime string `json:"start_time" validate:"required,len=5"`
	EndTime   string `json:"end_time" validate:"required,len=5"`
	SubjectID string `json:"subject_id" validate:"required,uuid"`
	TeacherID string `json:"teacher_id" validate:"required,uuid"`
}

// TimetableService serves weekly timetables and manual period edits.
type TimetableService struct {
	repo      timetableRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTimetableService constructs a TimetableService.
func NewTimetableService(repo timetableRepository, validate *validator.Validate, logger *zap.Logger) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{repo: repo, validator: validate, logger: logger}
}

// List returns periods in class, day-of-week then start-time order.
func (s *TimetableService) List(ctx context.Context, filter models.TimetableFilter) ([]models.TimetableDetail, error) {
	if filter.Day != "" && !models.ValidDay(filter.Day) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid day")
	}
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetable")
	}
	return rows, nil
}

// Create adds one period.
func (s *TimetableService) Create(ctx context.Context, req CreateTimetableEntryRequest) (*models.Timetable, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable payload")
	}
	if !models.ValidDay(req.Day) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid day")
	}
	if req.EndTime <= req.StartTime {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end time must be after start time")
	}

	tt := &models.Timetable{
		ClassID:   req.ClassID,
		Day:       req.Day,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		SubjectID: req.SubjectID,
		TeacherID: req.TeacherID,
	}
	if err := s.repo.Create(ctx, tt); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create timetable entry")
	}

	s.logger.Info("timetable entry created",
		zap.String("class_id", tt.ClassID),
		zap.String("day", tt.Day),
		zap.String("start", tt.StartTime))
	return tt, nil
}

// Delete removes one period.
func (s *TimetableService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "timetable entry not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable entry")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete timetable entry")
	}
	return nil
}
