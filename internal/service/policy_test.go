package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

type mockPolicyClassRepo struct {
	classes map[string]*models.SchoolClass
}

func (m *mockPolicyClassRepo) FindByID(ctx context.Context, id string) (*models.SchoolClass, error) {
	if class, ok := m.classes[id]; ok {
		return class, nil
	}
	return nil, sql.ErrNoRows
}

type mockPolicyTeacherRepo struct {
	byUser map[string]*models.Teacher
}

func (m *mockPolicyTeacherRepo) FindByUserID(ctx context.Context, userID string) (*models.Teacher, error) {
	if teacher, ok := m.byUser[userID]; ok {
		return teacher, nil
	}
	return nil, sql.ErrNoRows
}

type mockPolicyStudentRepo struct {
	byUser map[string]*models.Student
}

func (m *mockPolicyStudentRepo) FindByUserID(ctx context.Context, userID string) (*models.Student, error) {
	if student, ok := m.byUser[userID]; ok {
		return student, nil
	}
	return nil, sql.ErrNoRows
}

func newPolicyFixture() *AccessPolicy {
	classes := &mockPolicyClassRepo{classes: map[string]*models.SchoolClass{
		"c1": {ID: "c1", Name: "Class 1", ClassTeacherID: strPtr("t1")},
		"c2": {ID: "c2", Name: "Class 2"},
	}}
	teachers := &mockPolicyTeacherRepo{byUser: map[string]*models.Teacher{
		"u-teacher1": {ID: "t1", FullName: "Asha"},
		"u-teacher2": {ID: "t2", FullName: "Ravi"},
	}}
	students := &mockPolicyStudentRepo{byUser: map[string]*models.Student{
		"u-student1": {ID: "s1", FullName: "Mira"},
	}}
	return NewAccessPolicy(classes, teachers, students, zap.NewNop())
}

func TestCanMarkAttendanceClassTeacher(t *testing.T) {
	policy := newPolicyFixture()
	claims := &models.JWTClaims{UserID: "u-teacher1", Role: models.RoleTeacher}

	require.NoError(t, policy.CanMarkAttendance(context.Background(), claims, "c1"))
}

func TestCanMarkAttendanceOtherTeacherRejected(t *testing.T) {
	policy := newPolicyFixture()
	claims := &models.JWTClaims{UserID: "u-teacher2", Role: models.RoleTeacher}

	err := policy.CanMarkAttendance(context.Background(), claims, "c1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotClassTeacher.Code, appErrors.FromError(err).Code)
}

func TestCanMarkAttendanceAdminBypassesOwnership(t *testing.T) {
	policy := newPolicyFixture()
	claims := &models.JWTClaims{UserID: "u-admin", Role: models.RoleAdmin}

	require.NoError(t, policy.CanMarkAttendance(context.Background(), claims, "c1"))
}

func TestCanMarkAttendanceUnassignedClass(t *testing.T) {
	policy := newPolicyFixture()
	claims := &models.JWTClaims{UserID: "u-teacher1", Role: models.RoleTeacher}

	err := policy.CanMarkAttendance(context.Background(), claims, "c2")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotClassTeacher.Code, appErrors.FromError(err).Code)
}

func TestCanManageTeacherContentOwnership(t *testing.T) {
	policy := newPolicyFixture()
	owner := &models.JWTClaims{UserID: "u-teacher1", Role: models.RoleTeacher}
	other := &models.JWTClaims{UserID: "u-teacher2", Role: models.RoleTeacher}

	require.NoError(t, policy.CanManageTeacherContent(context.Background(), owner, "t1"))

	err := policy.CanManageTeacherContent(context.Background(), other, "t1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestCanViewStudentSelfOnly(t *testing.T) {
	policy := newPolicyFixture()
	self := &models.JWTClaims{UserID: "u-student1", Role: models.RoleStudent}

	require.NoError(t, policy.CanViewStudent(context.Background(), self, "s1"))

	err := policy.CanViewStudent(context.Background(), self, "s2")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestTeacherForUserMissingProfile(t *testing.T) {
	policy := newPolicyFixture()

	_, err := policy.TeacherForUser(context.Background(), "u-nobody")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}
