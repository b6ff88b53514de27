package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/internal/repository"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
	"github.com/noah-isme/school-portal-api/pkg/jobs"
)

const rptClassID = "6a8f4f4e-0000-4000-8000-00000000bb01"

type mockReportJobStore struct {
	jobs    map[string]*models.ReportJob
	updates []repository.UpdateReportJobParams
}

func (m *mockReportJobStore) Create(ctx context.Context, job *models.ReportJob) error {
	job.ID = "job-new"
	if m.jobs == nil {
		m.jobs = make(map[string]*models.ReportJob)
	}
	m.jobs[job.ID] = job
	return nil
}

func (m *mockReportJobStore) GetByID(ctx context.Context, id string) (*models.ReportJob, error) {
	if job, ok := m.jobs[id]; ok {
		return job, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockReportJobStore) Update(ctx context.Context, id string, params repository.UpdateReportJobParams) error {
	m.updates = append(m.updates, params)
	if job, ok := m.jobs[id]; ok && params.Status != nil {
		job.Status = *params.Status
	}
	return nil
}

func (m *mockReportJobStore) ListQueued(ctx context.Context, limit int) ([]models.ReportJob, error) {
	var out []models.ReportJob
	for _, job := range m.jobs {
		if job.Status == models.ReportStatusQueued {
			out = append(out, *job)
		}
	}
	return out, nil
}

func (m *mockReportJobStore) ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ReportJob, error) {
	return nil, nil
}

type mockDispatcher struct {
	enqueued []jobs.Job
	err      error
}

func (m *mockDispatcher) Enqueue(job jobs.Job) error {
	if m.err != nil {
		return m.err
	}
	m.enqueued = append(m.enqueued, job)
	return nil
}

func newReportFixture(queue *mockDispatcher) (*ReportService, *mockReportJobStore) {
	repo := &mockReportJobStore{}
	policy := NewAccessPolicy(
		&mockPolicyClassRepo{classes: map[string]*models.SchoolClass{
			rptClassID: {ID: rptClassID, ClassTeacherID: strPtr("t1")},
		}},
		&mockPolicyTeacherRepo{byUser: map[string]*models.Teacher{
			"u-teacher1": {ID: "t1"},
			"u-teacher2": {ID: "t2"},
		}},
		&mockPolicyStudentRepo{},
		zap.NewNop(),
	)
	svc := NewReportService(repo, policy, queue, nil, zap.NewNop(), ReportServiceConfig{})
	return svc, repo
}

func TestCreateJobEnqueues(t *testing.T) {
	queue := &mockDispatcher{}
	svc, repo := newReportFixture(queue)
	claims := &models.JWTClaims{UserID: "u-admin", Role: models.RoleAdmin}

	resp, err := svc.CreateJob(context.Background(), dto.ReportRequest{
		Type:     models.ReportTypeAttendanceRegister,
		ClassID:  rptClassID,
		DateFrom: "2026-03-01",
		DateTo:   "2026-03-31",
		Format:   models.ReportFormatCSV,
	}, claims)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusQueued, resp.Status)
	require.Len(t, queue.enqueued, 1)
	assert.Equal(t, resp.ID, queue.enqueued[0].ID)
	assert.Equal(t, "u-admin", repo.jobs[resp.ID].CreatedBy)
}

func TestCreateJobTeacherOwnClassOnly(t *testing.T) {
	svc, _ := newReportFixture(&mockDispatcher{})
	req := dto.ReportRequest{
		Type:    models.ReportTypeClassTimetable,
		ClassID: rptClassID,
		Format:  models.ReportFormatPDF,
	}

	_, err := svc.CreateJob(context.Background(), req, &models.JWTClaims{UserID: "u-teacher1", Role: models.RoleTeacher})
	require.NoError(t, err)

	_, err = svc.CreateJob(context.Background(), req, &models.JWTClaims{UserID: "u-teacher2", Role: models.RoleTeacher})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotClassTeacher.Code, appErrors.FromError(err).Code)
}

func TestCreateJobValidation(t *testing.T) {
	svc, _ := newReportFixture(&mockDispatcher{})
	claims := &models.JWTClaims{UserID: "u-admin", Role: models.RoleAdmin}

	cases := []struct {
		name string
		req  dto.ReportRequest
	}{
		{"missing class", dto.ReportRequest{Type: models.ReportTypeClassTimetable, Format: models.ReportFormatCSV}},
		{"bad type", dto.ReportRequest{Type: "grade_sheet", ClassID: rptClassID, Format: models.ReportFormatCSV}},
		{"bad format", dto.ReportRequest{Type: models.ReportTypeClassTimetable, ClassID: rptClassID, Format: "xlsx"}},
		{"bad range", dto.ReportRequest{Type: models.ReportTypeAttendanceRegister, ClassID: rptClassID, DateFrom: "2026-03-31", DateTo: "2026-03-01", Format: models.ReportFormatCSV}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateJob(context.Background(), tc.req, claims)
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
		})
	}
}

func TestCreateJobEnqueueFailureMarksFailed(t *testing.T) {
	queue := &mockDispatcher{err: errors.New("queue stopped")}
	svc, repo := newReportFixture(queue)
	claims := &models.JWTClaims{UserID: "u-admin", Role: models.RoleAdmin}

	_, err := svc.CreateJob(context.Background(), dto.ReportRequest{
		Type:    models.ReportTypeClassTimetable,
		ClassID: rptClassID,
		Format:  models.ReportFormatCSV,
	}, claims)
	require.Error(t, err)
	assert.Equal(t, models.ReportStatusFailed, repo.jobs["job-new"].Status)
}

func TestGetStatusOwnership(t *testing.T) {
	svc, repo := newReportFixture(&mockDispatcher{})
	repo.jobs = map[string]*models.ReportJob{
		"job-1": {ID: "job-1", Status: models.ReportStatusFinished, Progress: 100, CreatedBy: "u-teacher1"},
	}

	owner := &models.JWTClaims{UserID: "u-teacher1", Role: models.RoleTeacher}
	resp, err := svc.GetStatus(context.Background(), "job-1", owner)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusFinished, resp.Status)

	admin := &models.JWTClaims{UserID: "u-admin", Role: models.RoleAdmin}
	_, err = svc.GetStatus(context.Background(), "job-1", admin)
	require.NoError(t, err)

	stranger := &models.JWTClaims{UserID: "u-teacher2", Role: models.RoleTeacher}
	_, err = svc.GetStatus(context.Background(), "job-1", stranger)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestGetStatusUnknownJob(t *testing.T) {
	svc, _ := newReportFixture(&mockDispatcher{})

	_, err := svc.GetStatus(context.Background(), "absent", &models.JWTClaims{UserID: "u-admin", Role: models.RoleAdmin})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
