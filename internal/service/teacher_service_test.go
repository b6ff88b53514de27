package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

type mockTeacherRepo struct {
	teachers map[string]*models.Teacher
	updated  *models.Teacher
}

func (m *mockTeacherRepo) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error) {
	return nil, 0, nil
}

func (m *mockTeacherRepo) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	if t, ok := m.teachers[id]; ok {
		clone := *t
		return &clone, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockTeacherRepo) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	return false, nil
}

func (m *mockTeacherRepo) Create(ctx context.Context, teacher *models.Teacher) error {
	teacher.ID = "t-new"
	return nil
}

func (m *mockTeacherRepo) Update(ctx context.Context, teacher *models.Teacher) error {
	m.updated = teacher
	return nil
}

func (m *mockTeacherRepo) SetUserID(ctx context.Context, id, userID string) error { return nil }
func (m *mockTeacherRepo) Delete(ctx context.Context, id string) error            { return nil }
func (m *mockTeacherRepo) SetExpertSubjects(ctx context.Context, teacherID string, subjectIDs []string) error {
	return nil
}
func (m *mockTeacherRepo) ListExpertSubjects(ctx context.Context, teacherID string) ([]models.Subject, error) {
	return nil, nil
}

type mockTeacherProvisioner struct {
	account      *ProvisionedAccount
	syncedUserID string
	syncedEmail  string
	syncCalls    int
}

func (m *mockTeacherProvisioner) ProvisionTeacher(ctx context.Context, teacher *models.Teacher, actorID string) (*ProvisionedAccount, error) {
	return m.account, nil
}

func (m *mockTeacherProvisioner) SyncEmail(ctx context.Context, userID, email string) error {
	m.syncCalls++
	m.syncedUserID = userID
	m.syncedEmail = email
	return nil
}

func newTeacherServiceFixture(userID *string) (*TeacherService, *mockTeacherRepo, *mockTeacherProvisioner) {
	repo := &mockTeacherRepo{teachers: map[string]*models.Teacher{
		"t1": {
			ID:       "t1",
			UserID:   userID,
			FullName: "Asha Verma",
			Email:    "asha.verma@school.example",
			Mobile:   "9876543210",
		},
	}}
	provisioner := &mockTeacherProvisioner{}
	return NewTeacherService(repo, provisioner, validator.New(), zap.NewNop()), repo, provisioner
}

func TestTeacherUpdatePropagatesEmailToLinkedAccount(t *testing.T) {
	linked := "u-teacher1"
	svc, repo, provisioner := newTeacherServiceFixture(&linked)

	teacher, err := svc.Update(context.Background(), "t1", UpdateTeacherRequest{
		FullName: "Asha Verma",
		Email:    "Asha.New@School.Example",
		Mobile:   "9876543210",
	})
	require.NoError(t, err)
	assert.Equal(t, "asha.new@school.example", teacher.Email)
	require.NotNil(t, repo.updated)
	assert.Equal(t, 1, provisioner.syncCalls)
	assert.Equal(t, "u-teacher1", provisioner.syncedUserID)
	assert.Equal(t, "asha.new@school.example", provisioner.syncedEmail)
}

func TestTeacherUpdateUnchangedEmailSkipsSync(t *testing.T) {
	linked := "u-teacher1"
	svc, _, provisioner := newTeacherServiceFixture(&linked)

	_, err := svc.Update(context.Background(), "t1", UpdateTeacherRequest{
		FullName: "Asha Verma",
		Email:    "asha.verma@school.example",
		Mobile:   "9876543210",
	})
	require.NoError(t, err)
	assert.Zero(t, provisioner.syncCalls)
}

func TestTeacherUpdateWithoutLinkedAccount(t *testing.T) {
	svc, _, provisioner := newTeacherServiceFixture(nil)

	_, err := svc.Update(context.Background(), "t1", UpdateTeacherRequest{
		FullName: "Asha Verma",
		Email:    "asha.new@school.example",
		Mobile:   "9876543210",
	})
	require.NoError(t, err)
	assert.Zero(t, provisioner.syncCalls)
}

func TestTeacherUpdateMissing(t *testing.T) {
	svc, _, _ := newTeacherServiceFixture(nil)

	_, err := svc.Update(context.Background(), "t-missing", UpdateTeacherRequest{
		FullName: "Asha Verma",
		Email:    "asha@school.example",
		Mobile:   "9876543210",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
