package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

type attendanceRepository interface {
	List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, int, error)
	Upsert(ctx context.Context, a *models.Attendance) error
	Summarize(ctx context.Context, studentID string, from, to *time.Time) (*models.AttendanceSummary, error)
	ListByClassAndRange(ctx context.Context, classID string, from, to time.Time) ([]models.AttendanceRecord, error)
}

type attendanceStudentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	ListByClass(ctx context.Context, classID string) ([]models.Student, error)
}

// AttendanceEntry is one student's status within a register submission.
type AttendanceEntry struct {
	StudentID string `json:"student_id" validate:"required,uuid"`
	Status    string `json:"status" validate:"required,oneof=present absent leave"`
}

// MarkAttendanceRequest records the daily register for one class. Entries
// already present for the same (student, date) pair are overwritten.
type MarkAttendanceRequest struct {
	ClassID string            `json:"class_id" validate:"required,uuid"`
	Date    string            `json:"date" validate:"required"`
	Entries []AttendanceEntry `json:"entries" validate:"required,min=1,dive"`
}

// AttendanceService records and reads daily attendance. Marking is
// restricted to admins and the class-teacher of the class.
type AttendanceService struct {
	repo      attendanceRepository
	students  attendanceStudentRepository
	policy    *AccessPolicy
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs an AttendanceService.
func NewAttendanceService(repo attendanceRepository, students attendanceStudentRepository, policy *AccessPolicy, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, students: students, policy: policy, validator: validate, logger: logger}
}

// Mark upserts the submitted register. Every entry must belong to the
// class being marked; one bad entry rejects the whole submission before
// any row is written.
func (s *AttendanceService) Mark(ctx context.Context, claims *models.JWTClaims, req MarkAttendanceRequest) (int, error) {
	if err := s.validator.Struct(req); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}
	if err := s.policy.CanMarkAttendance(ctx, claims, req.ClassID); err != nil {
		return 0, err
	}

	roster, err := s.students.ListByClass(ctx, req.ClassID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class roster")
	}
	inClass := make(map[string]bool, len(roster))
	for _, st := range roster {
		inClass[st.ID] = true
	}
	for _, entry := range req.Entries {
		if !inClass[entry.StudentID] {
			return 0, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("student %s is not in this class", entry.StudentID))
		}
	}

	marked := 0
	for _, entry := range req.Entries {
		row := &models.Attendance{
			StudentID: entry.StudentID,
			ClassID:   req.ClassID,
			Date:      date,
			Status:    models.AttendanceStatus(entry.Status),
			MarkedBy:  claims.UserID,
		}
		if err := s.repo.Upsert(ctx, row); err != nil {
			return marked, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record attendance")
		}
		marked++
	}

	s.logger.Info("attendance marked",
		zap.String("class_id", req.ClassID),
		zap.String("date", req.Date),
		zap.Int("entries", marked))
	return marked, nil
}

// List returns attendance rows with student metadata.
func (s *AttendanceService) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, int, error) {
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance")
	}
	return rows, total, nil
}

// Summary aggregates one student's attendance, optionally bounded by a
// date range. Students see only their own summary.
func (s *AttendanceService) Summary(ctx context.Context, claims *models.JWTClaims, studentID string, from, to *time.Time) (*models.AttendanceSummary, error) {
	if err := s.policy.CanViewStudent(ctx, claims, studentID); err != nil {
		return nil, err
	}
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	summary, err := s.repo.Summarize(ctx, studentID, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to summarize attendance")
	}
	return summary, nil
}

// Register returns the marked rows of a class over a date range, ordered
// by date then roll number. The export pipeline feeds from this.
func (s *AttendanceService) Register(ctx context.Context, classID string, from, to time.Time) ([]models.AttendanceRecord, error) {
	if to.Before(from) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date range end precedes start")
	}
	rows, err := s.repo.ListByClassAndRange(ctx, classID, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance register")
	}
	return rows, nil
}
