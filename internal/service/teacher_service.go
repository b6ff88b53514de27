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

type teacherRepository interface {
	List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error)
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)
	Create(ctx context.Context, teacher *models.Teacher) error
	Update(ctx context.Context, teacher *models.Teacher) error
	SetUserID(ctx context.Context, id, userID string) error
	Delete(ctx context.Context, id string) error
	SetExpertSubjects(ctx context.Context, teacherID string, subjectIDs []string) error
	ListExpertSubjects(ctx context.Context, teacherID string) ([]models.Subject, error)
}

type teacherProvisioner interface {
	ProvisionTeacher(ctx context.Context, teacher *models.Teacher, actorID string) (*ProvisionedAccount, error)
	SyncEmail(ctx context.Context, userID, email string) error
}

// CreateTeacherRequest represents payload for creating teachers.
type CreateTeacherRequest struct {
	FullName       string   `json:"full_name" validate:"required"`
	Email          string   `json:"email" validate:"required,email"`
	Mobile         string   `json:"mobile" validate:"required,max=20"`
	ProfileImage   *string  `json:"profile_image" validate:"omitempty,max=255"`
	ExpertSubjects []string `json:"expert_subjects" validate:"omitempty,dive,uuid"`
}

// UpdateTeacherRequest represents payload for updating teachers.
type UpdateTeacherRequest struct {
	FullName       string   `json:"full_name" validate:"required"`
	Email          string   `json:"email" validate:"required,email"`
	Mobile         string   `json:"mobile" validate:"required,max=20"`
	ProfileImage   *string  `json:"profile_image" validate:"omitempty,max=255"`
	ExpertSubjects []string `json:"expert_subjects" validate:"omitempty,dive,uuid"`
}

// CreateTeacherResult returns the created teacher and the one-time
// credentials of the provisioned account.
type CreateTeacherResult struct {
	Teacher *models.Teacher     `json:"teacher"`
	Account *ProvisionedAccount `json:"account,omitempty"`
}

// TeacherService orchestrates teacher operations.
type TeacherService struct {
	repo        teacherRepository
	provisioner teacherProvisioner
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewTeacherService constructs a TeacherService.
func NewTeacherService(repo teacherRepository, provisioner teacherProvisioner, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{repo: repo, provisioner: provisioner, validator: validate, logger: logger}
}

// List returns teachers plus pagination data.
func (s *TeacherService) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, *models.Pagination, error) {
	teachers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
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
	return teachers, pagination, nil
}

// Get returns a teacher with their expert subjects.
func (s *TeacherService) Get(ctx context.Context, id string) (*models.TeacherDetail, error) {
	teacher, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}

	subjects, err := s.repo.ListExpertSubjects(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load expert subjects")
	}

	return &models.TeacherDetail{Teacher: *teacher, ExpertSubjects: subjects}, nil
}

// Create registers a new teacher and provisions their login account. The
// account is created exactly once here; later updates never touch it.
func (s *TeacherService) Create(ctx context.Context, req CreateTeacherRequest, actorID string) (*CreateTeacherResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}

	exists, err := s.repo.ExistsByEmail(ctx, req.Email, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email uniqueness")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already used")
	}

	teacher := &models.Teacher{
		FullName:     strings.TrimSpace(req.FullName),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Mobile:       strings.TrimSpace(req.Mobile),
		ProfileImage: req.ProfileImage,
	}
	if err := s.repo.Create(ctx, teacher); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create teacher")
	}

	if len(req.ExpertSubjects) > 0 {
		if err := s.repo.SetExpertSubjects(ctx, teacher.ID, req.ExpertSubjects); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to set expert subjects")
		}
	}

	result := &CreateTeacherResult{Teacher: teacher}
	account, err := s.provisioner.ProvisionTeacher(ctx, teacher, actorID)
	if err != nil {
		s.logger.Error("teacher account provisioning failed", zap.String("teacher_id", teacher.ID), zap.Error(err))
		return nil, err
	}
	if err := s.repo.SetUserID(ctx, teacher.ID, account.UserID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to link teacher account")
	}
	teacher.UserID = &account.UserID
	result.Account = account

	return result, nil
}

// Update modifies an existing teacher. An email change is propagated to the
// linked login account.
func (s *TeacherService) Update(ctx context.Context, id string, req UpdateTeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}

	teacher, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}

	exists, err := s.repo.ExistsByEmail(ctx, req.Email, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email uniqueness")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already used")
	}

	previousEmail := teacher.Email
	teacher.FullName = strings.TrimSpace(req.FullName)
	teacher.Email = strings.ToLower(strings.TrimSpace(req.Email))
	teacher.Mobile = strings.TrimSpace(req.Mobile)
	teacher.ProfileImage = req.ProfileImage

	if err := s.repo.Update(ctx, teacher); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update teacher")
	}

	if teacher.UserID != nil && teacher.Email != previousEmail {
		if err := s.provisioner.SyncEmail(ctx, *teacher.UserID, teacher.Email); err != nil {
			return nil, err
		}
	}

	if req.ExpertSubjects != nil {
		if err := s.repo.SetExpertSubjects(ctx, teacher.ID, req.ExpertSubjects); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to set expert subjects")
		}
	}

	return teacher, nil
}

// Delete removes a teacher record.
func (s *TeacherService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete teacher")
	}
	return nil
}
