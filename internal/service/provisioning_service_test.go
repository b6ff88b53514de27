package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

type mockProvisioningRepo struct {
	taken        map[string]bool
	created      []*models.User
	auditLogs    []*models.AuditLog
	syncedUserID string
	syncedEmail  string
}

func (m *mockProvisioningRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.taken[username] {
		return &models.User{Username: username}, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockProvisioningRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = "u-new"
	m.created = append(m.created, user)
	return nil
}

func (m *mockProvisioningRepo) UpdateEmail(ctx context.Context, id, email string, updatedAt time.Time) error {
	m.syncedUserID = id
	m.syncedEmail = email
	return nil
}

func (m *mockProvisioningRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.auditLogs = append(m.auditLogs, log)
	return nil
}

func TestProvisionTeacherUsesEmailLocalPart(t *testing.T) {
	repo := &mockProvisioningRepo{}
	provisioner := NewAccountProvisioner(repo, zap.NewNop())

	account, err := provisioner.ProvisionTeacher(context.Background(), &models.Teacher{
		ID:       "t1",
		FullName: "Asha Verma",
		Email:    "Asha.Verma@school.example",
	}, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, "asha.verma", account.Username)
	assert.Len(t, account.Password, generatedPasswordLength)

	require.Len(t, repo.created, 1)
	created := repo.created[0]
	assert.Equal(t, models.RoleTeacher, created.Role)
	assert.True(t, created.Active)
	assert.NotEqual(t, account.Password, created.PasswordHash, "password stored only as a hash")
	require.Len(t, repo.auditLogs, 1)
	assert.Equal(t, "teachers", repo.auditLogs[0].Resource)
}

func TestProvisionStudentUsesPenNumber(t *testing.T) {
	repo := &mockProvisioningRepo{}
	provisioner := NewAccountProvisioner(repo, zap.NewNop())

	account, err := provisioner.ProvisionStudent(context.Background(), &models.Student{
		ID:        "s1",
		FullName:  "Mira Rao",
		PenNumber: "PEN12345",
		Email:     "mira@school.example",
	}, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, "pen12345", account.Username)
	assert.Equal(t, models.RoleStudent, repo.created[0].Role)
}

func TestProvisionDriverUsesLicenceNumber(t *testing.T) {
	repo := &mockProvisioningRepo{}
	provisioner := NewAccountProvisioner(repo, zap.NewNop())

	account, err := provisioner.ProvisionDriver(context.Background(), &models.Driver{
		ID:            "d1",
		FullName:      "Gopal Singh",
		LicenceNumber: "DL-0420-1998",
		Email:         "gopal@school.example",
	}, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, "dl-0420-1998", account.Username)
	assert.Equal(t, models.RoleDriver, repo.created[0].Role)
}

func TestProvisionAppendsSuffixOnCollision(t *testing.T) {
	repo := &mockProvisioningRepo{taken: map[string]bool{"asha": true, "asha1": true}}
	provisioner := NewAccountProvisioner(repo, zap.NewNop())

	account, err := provisioner.ProvisionTeacher(context.Background(), &models.Teacher{
		ID:       "t1",
		FullName: "Asha Verma",
		Email:    "asha@school.example",
	}, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, "asha2", account.Username)
}

func TestProvisionEmptyUsernameRejected(t *testing.T) {
	provisioner := NewAccountProvisioner(&mockProvisioningRepo{}, zap.NewNop())

	_, err := provisioner.ProvisionStudent(context.Background(), &models.Student{
		ID:       "s1",
		FullName: "Mira Rao",
	}, "admin-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSyncEmailUpdatesLinkedAccount(t *testing.T) {
	repo := &mockProvisioningRepo{}
	provisioner := NewAccountProvisioner(repo, zap.NewNop())

	require.NoError(t, provisioner.SyncEmail(context.Background(), "u1", "  New.Mail@school.example "))
	assert.Equal(t, "u1", repo.syncedUserID)
	assert.Equal(t, "new.mail@school.example", repo.syncedEmail)

	err := provisioner.SyncEmail(context.Background(), "", "mail@school.example")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
