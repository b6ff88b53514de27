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

type diaryRepository interface {
	List(ctx context.Context, filter models.StudentDiaryFilter) ([]models.StudentDiaryDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.StudentDiary, error)
	Create(ctx context.Context, entry *models.StudentDiary) error
	Update(ctx context.Context, entry *models.StudentDiary) error
	Delete(ctx context.Context, id string) error
}

type diaryStudentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

// CreateDiaryEntryRequest writes a dated note on a student's record.
type CreateDiaryEntryRequest struct {
	StudentID string `json:"student_id" validate:"required,uuid"`
	Date      string `json:"date" validate:"required"`
	Title     string `json:"title" validate:"required,min=2,max=200"`
	Entry     string `json:"entry" validate:"required,min=2"`
}

// UpdateDiaryEntryRequest edits the text of an existing note.
type UpdateDiaryEntryRequest struct {
	Title string `json:"title" validate:"required,min=2,max=200"`
	Entry string `json:"entry" validate:"required,min=2"`
}

// DiaryService manages teacher notes on students. Parents and students
// read them; only the authoring teacher or an admin edits them.
type DiaryService struct {
	repo      diaryRepository
	students  diaryStudentRepository
	policy    *AccessPolicy
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDiaryService constructs a DiaryService.
func NewDiaryService(repo diaryRepository, students diaryStudentRepository, policy *AccessPolicy, validate *validator.Validate, logger *zap.Logger) *DiaryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DiaryService{repo: repo, students: students, policy: policy, validator: validate, logger: logger}
}

// List returns diary entries, newest date first.
func (s *DiaryService) List(ctx context.Context, claims *models.JWTClaims, filter models.StudentDiaryFilter) ([]models.StudentDiaryDetail, int, error) {
	if filter.StudentID != "" {
		if err := s.policy.CanViewStudent(ctx, claims, filter.StudentID); err != nil {
			return nil, 0, err
		}
	}
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list diary entries")
	}
	return rows, total, nil
}

// Create writes a new note. The authoring teacher is resolved from the
// caller's account; admin-authored notes carry no teacher.
func (s *DiaryService) Create(ctx context.Context, claims *models.JWTClaims, req CreateDiaryEntryRequest) (*models.StudentDiary, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid diary payload")
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}
	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	var teacherID *string
	if claims.Role == models.RoleTeacher {
		teacher, err := s.policy.TeacherForUser(ctx, claims.UserID)
		if err != nil {
			return nil, err
		}
		teacherID = &teacher.ID
	}

	entry := &models.StudentDiary{
		StudentID: req.StudentID,
		TeacherID: teacherID,
		Date:      date,
		Title:     strings.TrimSpace(req.Title),
		Entry:     strings.TrimSpace(req.Entry),
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create diary entry")
	}

	s.logger.Info("diary entry created",
		zap.String("student_id", entry.StudentID),
		zap.String("date", req.Date))
	return entry, nil
}

// Update edits an existing note's title and text.
func (s *DiaryService) Update(ctx context.Context, claims *models.JWTClaims, id string, req UpdateDiaryEntryRequest) (*models.StudentDiary, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid diary payload")
	}
	entry, err := s.loadOwned(ctx, claims, id)
	if err != nil {
		return nil, err
	}

	entry.Title = strings.TrimSpace(req.Title)
	entry.Entry = strings.TrimSpace(req.Entry)
	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update diary entry")
	}
	return entry, nil
}

// Delete removes a note.
func (s *DiaryService) Delete(ctx context.Context, claims *models.JWTClaims, id string) error {
	if _, err := s.loadOwned(ctx, claims, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete diary entry")
	}
	return nil
}

func (s *DiaryService) loadOwned(ctx context.Context, claims *models.JWTClaims, id string) (*models.StudentDiary, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "diary entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load diary entry")
	}
	owner := ""
	if entry.TeacherID != nil {
		owner = *entry.TeacherID
	}
	if err := s.policy.CanManageTeacherContent(ctx, claims, owner); err != nil {
		return nil, err
	}
	return entry, nil
}
