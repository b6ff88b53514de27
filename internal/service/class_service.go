package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

type classRepository interface {
	List(ctx context.Context, filter models.SchoolClassFilter) ([]models.SchoolClassDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.SchoolClass, error)
	Create(ctx context.Context, class *models.SchoolClass) error
	Update(ctx context.Context, class *models.SchoolClass) error
	Delete(ctx context.Context, id string) error
}

type classTeacherLookup interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
}

// CreateClassRequest represents payload for creating classes.
type CreateClassRequest struct {
	Name           string  `json:"name" validate:"required,max=100"`
	ImagePath      *string `json:"image_path" validate:"omitempty,max=255"`
	AgeGroup       string  `json:"age_group" validate:"required,max=50"`
	Capacity       int     `json:"capacity" validate:"required,min=1,max=200"`
	ClassTeacherID *string `json:"class_teacher_id" validate:"omitempty,uuid"`
}

// UpdateClassRequest represents payload for updating classes.
type UpdateClassRequest struct {
	Name           string  `json:"name" validate:"required,max=100"`
	ImagePath      *string `json:"image_path" validate:"omitempty,max=255"`
	AgeGroup       string  `json:"age_group" validate:"required,max=50"`
	Capacity       int     `json:"capacity" validate:"required,min=1,max=200"`
	ClassTeacherID *string `json:"class_teacher_id" validate:"omitempty,uuid"`
}

// ClassService orchestrates school-class operations.
type ClassService struct {
	repo      classRepository
	teachers  classTeacherLookup
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassService constructs a ClassService.
func NewClassService(repo classRepository, teachers classTeacherLookup, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{repo: repo, teachers: teachers, validator: validate, logger: logger}
}

// List returns classes plus pagination data.
func (s *ClassService) List(ctx context.Context, filter models.SchoolClassFilter) ([]models.SchoolClassDetail, *models.Pagination, error) {
	classes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return classes, pagination, nil
}

// Get returns a class by id.
func (s *ClassService) Get(ctx context.Context, id string) (*models.SchoolClass, error) {
	class, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	return class, nil
}

// Create registers a new class.
func (s *ClassService) Create(ctx context.Context, req CreateClassRequest) (*models.SchoolClass, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}
	if err := s.ensureClassTeacher(ctx, req.ClassTeacherID); err != nil {
		return nil, err
	}

	class := &models.SchoolClass{
		Name:           strings.TrimSpace(req.Name),
		ImagePath:      req.ImagePath,
		AgeGroup:       strings.TrimSpace(req.AgeGroup),
		Capacity:       req.Capacity,
		ClassTeacherID: req.ClassTeacherID,
	}
	if err := s.repo.Create(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class")
	}
	return class, nil
}

// Update modifies an existing class.
func (s *ClassService) Update(ctx context.Context, id string, req UpdateClassRequest) (*models.SchoolClass, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}

	class, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}

	if err := s.ensureClassTeacher(ctx, req.ClassTeacherID); err != nil {
		return nil, err
	}

	class.Name = strings.TrimSpace(req.Name)
	class.ImagePath = req.ImagePath
	class.AgeGroup = strings.TrimSpace(req.AgeGroup)
	class.Capacity = req.Capacity
	class.ClassTeacherID = req.ClassTeacherID

	if err := s.repo.Update(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update class")
	}
	return class, nil
}

// Delete removes a class record.
func (s *ClassService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete class")
	}
	return nil
}

func (s *ClassService) ensureClassTeacher(ctx context.Context, teacherID *string) error {
	if teacherID == nil {
		return nil
	}
	if _, err := s.teachers.FindByID(ctx, *teacherID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "class-teacher not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class-teacher")
	}
	return nil
}
