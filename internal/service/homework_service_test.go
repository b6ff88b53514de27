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

const hwSubjectID = "6a8f4f4e-0000-4000-8000-00000000aa01"

type mockHomeworkRepo struct {
	existing map[string]*models.Homework
	exists   bool
	created  *models.Homework
	updated  *models.Homework
	deleted  []string
}

func (m *mockHomeworkRepo) List(ctx context.Context, filter models.HomeworkFilter) ([]models.HomeworkDetail, int, error) {
	return nil, 0, nil
}

func (m *mockHomeworkRepo) FindByID(ctx context.Context, id string) (*models.Homework, error) {
	if hw, ok := m.existing[id]; ok {
		return hw, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockHomeworkRepo) ExistsBySubjectAndDate(ctx context.Context, subjectID string, assignedDate time.Time, excludeID string) (bool, error) {
	return m.exists, nil
}

func (m *mockHomeworkRepo) Create(ctx context.Context, hw *models.Homework) error {
	hw.ID = "hw-new"
	m.created = hw
	return nil
}

func (m *mockHomeworkRepo) Update(ctx context.Context, hw *models.Homework) error {
	m.updated = hw
	return nil
}

func (m *mockHomeworkRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

type mockExpertise struct {
	expert bool
}

func (m *mockExpertise) IsExpert(ctx context.Context, teacherID, subjectID string) (bool, error) {
	return m.expert, nil
}

func TestHomeworkCreate(t *testing.T) {
	repo := &mockHomeworkRepo{}
	svc := NewHomeworkService(repo, &mockExpertise{expert: true}, validator.New(), zap.NewNop())

	hw, err := svc.Create(context.Background(), "t1", CreateHomeworkRequest{
		SubjectID:    hwSubjectID,
		Description:  "  Read chapter 4  ",
		AssignedDate: "2026-03-02",
		DueDate:      "2026-03-04",
	})
	require.NoError(t, err)
	assert.Equal(t, "t1", hw.TeacherID)
	assert.Equal(t, "Read chapter 4", hw.Description)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), hw.AssignedDate)
	require.NotNil(t, repo.created)
}

func TestHomeworkCreateNonExpertRejected(t *testing.T) {
	svc := NewHomeworkService(&mockHomeworkRepo{}, &mockExpertise{expert: false}, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), "t1", CreateHomeworkRequest{
		SubjectID:    hwSubjectID,
		Description:  "Read chapter 4",
		AssignedDate: "2026-03-02",
		DueDate:      "2026-03-04",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotExpert.Code, appErrors.FromError(err).Code)
}

func TestHomeworkCreateDuplicateDateRejected(t *testing.T) {
	repo := &mockHomeworkRepo{exists: true}
	svc := NewHomeworkService(repo, &mockExpertise{expert: true}, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), "t1", CreateHomeworkRequest{
		SubjectID:    hwSubjectID,
		Description:  "Read chapter 4",
		AssignedDate: "2026-03-02",
		DueDate:      "2026-03-04",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.created)
}

func TestHomeworkCreateDueBeforeAssignedRejected(t *testing.T) {
	svc := NewHomeworkService(&mockHomeworkRepo{}, &mockExpertise{expert: true}, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), "t1", CreateHomeworkRequest{
		SubjectID:    hwSubjectID,
		Description:  "Read chapter 4",
		AssignedDate: "2026-03-04",
		DueDate:      "2026-03-02",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestHomeworkUpdate(t *testing.T) {
	repo := &mockHomeworkRepo{existing: map[string]*models.Homework{
		"hw1": {ID: "hw1", SubjectID: hwSubjectID, TeacherID: "t1", Description: "old"},
	}}
	svc := NewHomeworkService(repo, &mockExpertise{expert: true}, validator.New(), zap.NewNop())

	hw, err := svc.Update(context.Background(), "hw1", UpdateHomeworkRequest{
		Description:  "revised",
		AssignedDate: "2026-03-02",
		DueDate:      "2026-03-05",
	})
	require.NoError(t, err)
	assert.Equal(t, "revised", hw.Description)
	require.NotNil(t, repo.updated)
}

func TestHomeworkDeleteMissing(t *testing.T) {
	svc := NewHomeworkService(&mockHomeworkRepo{}, &mockExpertise{expert: true}, validator.New(), zap.NewNop())

	err := svc.Delete(context.Background(), "absent")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
