package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

type homeworkRepository interface {
	List(ctx context.Context, filter models.HomeworkFilter) ([]models.HomeworkDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.Homework, error)
	ExistsBySubjectAndDate(ctx context.Context, subjectID string, assignedDate time.Time, excludeID string) (bool, error)
	Create(ctx context.Context, hw *models.Homework) error
	Update(ctx context.Context, hw *models.Homework) error
	Delete(ctx context.Context, id string) error
}

type homeworkExpertise interface {
	IsExpert(ctx context.Context, teacherID, subjectID string) (bool, error)
}

// CreateHomeworkRequest represents payload for assigning homework.
type CreateHomeworkRequest struct {
	SubjectID    string `json:"subject_id" validate:"required,uuid"`
	Description  string `json:"description" validate:"required"`
	AssignedDate string `json:"assigned_date" validate:"required,datetime=2006-01-02"`
	DueDate      string `json:"due_date" validate:"required,datetime=2006-01-02"`
}

// UpdateHomeworkRequest represents payload for editing homework.
type UpdateHomeworkRequest struct {
	Description  string `json:"description" validate:"required"`
	AssignedDate string `json:"assigned_date" validate:"required,datetime=2006-01-02"`
	DueDate      string `json:"due_date" validate:"required,datetime=2006-01-02"`
}

// HomeworkService orchestrates homework operations. Only subject experts
// may assign homework for a subject, and each subject gets at most one
// homework per assigned date.
type HomeworkService struct {
	repo      homeworkRepository
	expertise homeworkExpertise
	validator *validator.Validate
	logger    *zap.Logger
}

// NewHomeworkService constructs a HomeworkService.
func NewHomeworkService(repo homeworkRepository, expertise homeworkExpertise, validate *validator.Validate, logger *zap.Logger) *HomeworkService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HomeworkService{repo: repo, expertise: expertise, validator: validate, logger: logger}
}

// List returns homework plus pagination data.
func (s *HomeworkService) List(ctx context.Context, filter models.HomeworkFilter) ([]models.HomeworkDetail, *models.Pagination, error) {
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list homework")
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
	return rows, pagination, nil
}

// Get returns a homework row by id.
func (s *HomeworkService) Get(ctx context.Context, id string) (*models.Homework, error) {
	hw, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "homework not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load homework")
	}
	return hw, nil
}

// Create assigns homework on behalf of the acting teacher.
func (s *HomeworkService) Create(ctx context.Context, teacherID string, req CreateHomeworkRequest) (*models.Homework, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid homework payload")
	}

	assigned, due, err := parseDateRange(req.AssignedDate, req.DueDate)
	if err != nil {
		return nil, err
	}

	expert, err := s.expertise.IsExpert(ctx, teacherID, req.SubjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check subject expertise")
	}
	if !expert {
		return nil, appErrors.Clone(appErrors.ErrNotExpert, "teacher is not an expert for this subject")
	}

	exists, err := s.repo.ExistsBySubjectAndDate(ctx, req.SubjectID, assigned, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check homework uniqueness")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "homework already assigned for this subject on that date")
	}

	hw := &models.Homework{
		SubjectID:    req.SubjectID,
		TeacherID:    teacherID,
		Description:  strings.TrimSpace(req.Description),
		AssignedDate: assigned,
		DueDate:      due,
	}
	if err := s.repo.Create(ctx, hw); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create homework")
	}
	return hw, nil
}

// Update edits an existing homework assignment.
func (s *HomeworkService) Update(ctx context.Context, id string, req UpdateHomeworkRequest) (*models.Homework, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid homework payload")
	}

	hw, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	assigned, due, err := parseDateRange(req.AssignedDate, req.DueDate)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsBySubjectAndDate(ctx, hw.SubjectID, assigned, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check homework uniqueness")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "homework already assigned for this subject on that date")
	}

	hw.Description = strings.TrimSpace(req.Description)
	hw.AssignedDate = assigned
	hw.DueDate = due

	if err := s.repo.Update(ctx, hw); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update homework")
	}
	return hw, nil
}

// Delete removes a homework assignment.
func (s *HomeworkService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete homework")
	}
	return nil
}

func parseDateRange(assignedDate, dueDate string) (time.Time, time.Time, error) {
	assigned, err := time.Parse("2006-01-02", assignedDate)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "invalid assigned date")
	}
	due, err := time.Parse("2006-01-02", dueDate)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "invalid due date")
	}
	if due.Before(assigned) {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "due date precedes assigned date")
	}
	return assigned, due, nil
}
