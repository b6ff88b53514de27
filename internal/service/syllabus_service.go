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

type syllabusRepository interface {
	List(ctx context.Context, filter models.SyllabusFilter) ([]models.SyllabusDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.Syllabus, error)
	ExistsByTitle(ctx context.Context, subjectID, title, excludeID string) (bool, error)
	Create(ctx context.Context, sy *models.Syllabus) error
	Update(ctx context.Context, sy *models.Syllabus) error
	Delete(ctx context.Context, id string) error
}

// CreateSyllabusRequest represents payload for adding syllabus sections.
type CreateSyllabusRequest struct {
	SubjectID string `json:"subject_id" validate:"required,uuid"`
	Title     string `json:"title" validate:"required,max=200"`
	Content   string `json:"content" validate:"required"`
}

// UpdateSyllabusRequest represents payload for editing syllabus sections.
type UpdateSyllabusRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"required"`
}

// SyllabusService orchestrates syllabus operations. Section titles are
// unique per subject and only subject experts may publish.
type SyllabusService struct {
	repo      syllabusRepository
	expertise homeworkExpertise
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSyllabusService constructs a SyllabusService.
func NewSyllabusService(repo syllabusRepository, expertise homeworkExpertise, validate *validator.Validate, logger *zap.Logger) *SyllabusService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyllabusService{repo: repo, expertise: expertise, validator: validate, logger: logger}
}

// List returns syllabus sections plus pagination data.
func (s *SyllabusService) List(ctx context.Context, filter models.SyllabusFilter) ([]models.SyllabusDetail, *models.Pagination, error) {
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list syllabus")
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

// Get returns a syllabus section by id.
func (s *SyllabusService) Get(ctx context.Context, id string) (*models.Syllabus, error) {
	sy, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "syllabus section not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load syllabus section")
	}
	return sy, nil
}

// Create publishes a syllabus section on behalf of the acting teacher.
func (s *SyllabusService) Create(ctx context.Context, teacherID string, req CreateSyllabusRequest) (*models.Syllabus, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid syllabus payload")
	}

	expert, err := s.expertise.IsExpert(ctx, teacherID, req.SubjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check subject expertise")
	}
	if !expert {
		return nil, appErrors.Clone(appErrors.ErrNotExpert, "teacher is not an expert for this subject")
	}

	exists, err := s.repo.ExistsByTitle(ctx, req.SubjectID, req.Title, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check syllabus title uniqueness")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a section with this title already exists for the subject")
	}

	sy := &models.Syllabus{
		SubjectID: req.SubjectID,
		TeacherID: teacherID,
		Title:     strings.TrimSpace(req.Title),
		Content:   req.Content,
	}
	if err := s.repo.Create(ctx, sy); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create syllabus section")
	}
	return sy, nil
}

// Update edits an existing syllabus section.
func (s *SyllabusService) Update(ctx context.Context, id string, req UpdateSyllabusRequest) (*models.Syllabus, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid syllabus payload")
	}

	sy, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByTitle(ctx, sy.SubjectID, req.Title, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check syllabus title uniqueness")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a section with this title already exists for the subject")
	}

	sy.Title = strings.TrimSpace(req.Title)
	sy.Content = req.Content

	if err := s.repo.Update(ctx, sy); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update syllabus section")
	}
	return sy, nil
}

// Delete removes a syllabus section.
func (s *SyllabusService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete syllabus section")
	}
	return nil
}
