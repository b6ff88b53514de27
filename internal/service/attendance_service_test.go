package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

const (
	attClassID  = "6a8f4f4e-0000-4000-8000-00000000cc01"
	attStudent1 = "6a8f4f4e-0000-4000-8000-00000000dd01"
	attStudent2 = "6a8f4f4e-0000-4000-8000-00000000dd02"
)

type mockAttendanceRepo struct {
	upserts  []*models.Attendance
	summary  *models.AttendanceSummary
	register []models.AttendanceRecord
}

func (m *mockAttendanceRepo) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, int, error) {
	return nil, 0, nil
}

func (m *mockAttendanceRepo) Upsert(ctx context.Context, a *models.Attendance) error {
	m.upserts = append(m.upserts, a)
	return nil
}

func (m *mockAttendanceRepo) Summarize(ctx context.Context, studentID string, from, to *time.Time) (*models.AttendanceSummary, error) {
	return m.summary, nil
}

func (m *mockAttendanceRepo) ListByClassAndRange(ctx context.Context, classID string, from, to time.Time) ([]models.AttendanceRecord, error) {
	return m.register, nil
}

type mockAttendanceStudents struct {
	byID    map[string]*models.Student
	byClass map[string][]models.Student
}

func (m *mockAttendanceStudents) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if student, ok := m.byID[id]; ok {
		return student, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAttendanceStudents) ListByClass(ctx context.Context, classID string) ([]models.Student, error) {
	return m.byClass[classID], nil
}

func newAttendanceFixture() (*AttendanceService, *mockAttendanceRepo) {
	repo := &mockAttendanceRepo{summary: &models.AttendanceSummary{}}
	students := &mockAttendanceStudents{
		byID: map[string]*models.Student{
			attStudent1: {ID: attStudent1, ClassID: attClassID},
			attStudent2: {ID: attStudent2, ClassID: attClassID},
		},
		byClass: map[string][]models.Student{
			attClassID: {{ID: attStudent1, ClassID: attClassID}, {ID: attStudent2, ClassID: attClassID}},
		},
	}
	policy := NewAccessPolicy(
		&mockPolicyClassRepo{classes: map[string]*models.SchoolClass{
			attClassID: {ID: attClassID, ClassTeacherID: strPtr("t1")},
		}},
		&mockPolicyTeacherRepo{byUser: map[string]*models.Teacher{
			"u-teacher1": {ID: "t1"},
		}},
		&mockPolicyStudentRepo{byUser: map[string]*models.Student{}},
		zap.NewNop(),
	)
	return NewAttendanceService(repo, students, policy, validator.New(), zap.NewNop()), repo
}

func TestMarkAttendanceUpsertsEveryEntry(t *testing.T) {
	svc, repo := newAttendanceFixture()
	claims := &models.JWTClaims{UserID: "u-teacher1", Role: models.RoleTeacher}

	marked, err := svc.Mark(context.Background(), claims, MarkAttendanceRequest{
		ClassID: attClassID,
		Date:    "2026-03-02",
		Entries: []AttendanceEntry{
			{StudentID: attStudent1, Status: "present"},
			{StudentID: attStudent2, Status: "absent"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, marked)
	require.Len(t, repo.upserts, 2)
	assert.Equal(t, models.AttendanceStatusAbsent, repo.upserts[1].Status)
	assert.Equal(t, "u-teacher1", repo.upserts[0].MarkedBy)
}

func TestMarkAttendanceRejectsForeignStudent(t *testing.T) {
	svc, repo := newAttendanceFixture()
	claims := &models.JWTClaims{UserID: "u-teacher1", Role: models.RoleTeacher}

	_, err := svc.Mark(context.Background(), claims, MarkAttendanceRequest{
		ClassID: attClassID,
		Date:    "2026-03-02",
		Entries: []AttendanceEntry{
			{StudentID: attStudent1, Status: "present"},
			{StudentID: "6a8f4f4e-0000-4000-8000-00000000ffff", Status: "present"},
		},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.upserts, "no rows written when one entry is invalid")
}

func TestMarkAttendanceRequiresClassTeacher(t *testing.T) {
	svc, _ := newAttendanceFixture()
	claims := &models.JWTClaims{UserID: "u-other", Role: models.RoleTeacher}

	_, err := svc.Mark(context.Background(), claims, MarkAttendanceRequest{
		ClassID: attClassID,
		Date:    "2026-03-02",
		Entries: []AttendanceEntry{{StudentID: attStudent1, Status: "present"}},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestMarkAttendanceRejectsBadStatus(t *testing.T) {
	svc, _ := newAttendanceFixture()
	claims := &models.JWTClaims{UserID: "u-teacher1", Role: models.RoleTeacher}

	_, err := svc.Mark(context.Background(), claims, MarkAttendanceRequest{
		ClassID: attClassID,
		Date:    "2026-03-02",
		Entries: []AttendanceEntry{{StudentID: attStudent1, Status: "tardy"}},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSummaryUnknownStudent(t *testing.T) {
	svc, _ := newAttendanceFixture()
	claims := &models.JWTClaims{UserID: "u-admin", Role: models.RoleAdmin}

	_, err := svc.Summary(context.Background(), claims, "6a8f4f4e-0000-4000-8000-00000000ffff", nil, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestRegisterRejectsInvertedRange(t *testing.T) {
	svc, _ := newAttendanceFixture()

	from := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, -5)
	_, err := svc.Register(context.Background(), attClassID, from, to)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
