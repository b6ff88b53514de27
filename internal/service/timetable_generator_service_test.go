package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

const (
	genClassA   = "6a8f4f4e-0000-4000-8000-000000000001"
	genClassB   = "6a8f4f4e-0000-4000-8000-000000000002"
	genTeacher1 = "teacher-1"
	genTeacher2 = "teacher-2"
)

type mockGenClassRepo struct {
	classes map[string]*models.SchoolClass
}

func (m *mockGenClassRepo) FindByID(ctx context.Context, id string) (*models.SchoolClass, error) {
	return m.classes[id], nil
}

type mockGenSubjectRepo struct {
	subjects map[string][]models.Subject
	experts  map[string][]models.Teacher
}

func (m *mockGenSubjectRepo) ListByClass(ctx context.Context, classID string) ([]models.Subject, error) {
	return m.subjects[classID], nil
}

func (m *mockGenSubjectRepo) ListExperts(ctx context.Context, subjectID string) ([]models.Teacher, error) {
	return m.experts[subjectID], nil
}

type mockGenTimetableRepo struct {
	deleted []string
	rows    []models.Timetable
}

func (m *mockGenTimetableRepo) DeleteByClass(ctx context.Context, classID string) error {
	m.deleted = append(m.deleted, classID)
	kept := m.rows[:0]
	for _, row := range m.rows {
		if row.ClassID != classID {
			kept = append(kept, row)
		}
	}
	m.rows = kept
	return nil
}

func (m *mockGenTimetableRepo) BulkCreate(ctx context.Context, rows []models.Timetable) error {
	m.rows = append(m.rows, rows...)
	return nil
}

func strPtr(s string) *string { return &s }

func newGeneratorFixture() (*TimetableGeneratorService, *mockGenTimetableRepo) {
	classes := &mockGenClassRepo{classes: map[string]*models.SchoolClass{
		genClassA: {ID: genClassA, Name: "Class 1", ClassTeacherID: strPtr(genTeacher1)},
	}}
	subjects := &mockGenSubjectRepo{
		subjects: map[string][]models.Subject{
			genClassA: {
				{ID: "sub-math", Name: "Math", ClassID: genClassA},
				{ID: "sub-science", Name: "Science", ClassID: genClassA},
			},
		},
		experts: map[string][]models.Teacher{
			"sub-math":    {{ID: genTeacher1, FullName: "Asha"}},
			"sub-science": {{ID: genTeacher2, FullName: "Ravi"}},
		},
	}
	timetables := &mockGenTimetableRepo{}
	svc := NewTimetableGeneratorService(classes, subjects, timetables, validator.New(), zap.NewNop())
	return svc, timetables
}

func TestGenerateClassTeacherTakesFirstPeriod(t *testing.T) {
	svc, timetables := newGeneratorFixture()

	result, err := svc.Generate(context.Background(), GenerateTimetableRequest{
		ClassIDs:      []string{genClassA},
		StartHour:     9,
		EndHour:       11,
		PeriodMinutes: 60,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.GeneratedClasses)
	assert.Empty(t, result.Warnings)

	// Two periods per day over the six-day week.
	require.Len(t, timetables.rows, 12)

	monday := rowsForDay(timetables.rows, models.DayMonday)
	require.Len(t, monday, 2)
	assert.Equal(t, "09:00", monday[0].StartTime)
	assert.Equal(t, "10:00", monday[0].EndTime)
	assert.Equal(t, "sub-math", monday[0].SubjectID)
	assert.Equal(t, genTeacher1, monday[0].TeacherID)
	assert.Equal(t, "10:00", monday[1].StartTime)
	assert.Equal(t, "11:00", monday[1].EndTime)
	assert.Equal(t, "sub-science", monday[1].SubjectID)
	assert.Equal(t, genTeacher2, monday[1].TeacherID)
}

func TestGenerateNoTeacherDoubleBookedAcrossClasses(t *testing.T) {
	classes := &mockGenClassRepo{classes: map[string]*models.SchoolClass{
		genClassA: {ID: genClassA, Name: "Class 1", ClassTeacherID: strPtr(genTeacher1)},
		genClassB: {ID: genClassB, Name: "Class 2", ClassTeacherID: strPtr(genTeacher2)},
	}}
	// Both classes have a Math subject whose only expert is teacher-1.
	subjects := &mockGenSubjectRepo{
		subjects: map[string][]models.Subject{
			genClassA: {{ID: "math-a", Name: "Math", ClassID: genClassA}},
			genClassB: {{ID: "math-b", Name: "Math", ClassID: genClassB}},
		},
		experts: map[string][]models.Teacher{
			"math-a": {{ID: genTeacher1}},
			"math-b": {{ID: genTeacher1}},
		},
	}
	timetables := &mockGenTimetableRepo{}
	svc := NewTimetableGeneratorService(classes, subjects, timetables, validator.New(), zap.NewNop())

	_, err := svc.Generate(context.Background(), GenerateTimetableRequest{
		ClassIDs:      []string{genClassA, genClassB},
		StartHour:     9,
		EndHour:       10,
		PeriodMinutes: 60,
	})
	require.NoError(t, err)

	booked := make(map[string]map[string]bool)
	for _, row := range timetables.rows {
		slot := row.Day + row.StartTime
		if booked[slot] == nil {
			booked[slot] = make(map[string]bool)
		}
		assert.False(t, booked[slot][row.TeacherID],
			"teacher %s booked twice at %s %s", row.TeacherID, row.Day, row.StartTime)
		booked[slot][row.TeacherID] = true
	}
}

func TestGenerateBreakShiftsLaterPeriods(t *testing.T) {
	svc, timetables := newGeneratorFixture()

	_, err := svc.Generate(context.Background(), GenerateTimetableRequest{
		ClassIDs:       []string{genClassA},
		StartHour:      9,
		EndHour:        11,
		PeriodMinutes:  60,
		BreakStartHour: 10,
		BreakMinutes:   30,
	})
	require.NoError(t, err)

	monday := rowsForDay(timetables.rows, models.DayMonday)
	require.Len(t, monday, 2)
	assert.Equal(t, "09:00", monday[0].StartTime)
	assert.Equal(t, "10:30", monday[1].StartTime)
	assert.Equal(t, "11:30", monday[1].EndTime)
}

func TestGenerateSkipsClassWithoutClassTeacher(t *testing.T) {
	classes := &mockGenClassRepo{classes: map[string]*models.SchoolClass{
		genClassA: {ID: genClassA, Name: "Class 1"},
	}}
	subjects := &mockGenSubjectRepo{}
	timetables := &mockGenTimetableRepo{}
	svc := NewTimetableGeneratorService(classes, subjects, timetables, validator.New(), zap.NewNop())

	result, err := svc.Generate(context.Background(), GenerateTimetableRequest{
		ClassIDs:      []string{genClassA},
		StartHour:     9,
		EndHour:       11,
		PeriodMinutes: 60,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.GeneratedClasses)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "no class-teacher")
	assert.Empty(t, timetables.deleted)
}

func TestGenerateRejectsInvertedHours(t *testing.T) {
	svc, _ := newGeneratorFixture()

	_, err := svc.Generate(context.Background(), GenerateTimetableRequest{
		ClassIDs:      []string{genClassA},
		StartHour:     11,
		EndHour:       9,
		PeriodMinutes: 60,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func rowsForDay(rows []models.Timetable, day string) []models.Timetable {
	var out []models.Timetable
	for _, row := range rows {
		if row.Day == day {
			out = append(out, row)
		}
	}
	return out
}

func TestGenerateIsIdempotent(t *testing.T) {
	svc, timetables := newGeneratorFixture()
	req := GenerateTimetableRequest{
		ClassIDs:      []string{genClassA},
		StartHour:     9,
		EndHour:       12,
		PeriodMinutes: 60,
	}

	first, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	firstRows := append([]models.Timetable(nil), timetables.rows...)

	// Regenerating with identical inputs replaces the week with the exact
	// same rows; the delete-then-insert cycle must not reshuffle anything.
	second, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.RowsCreated, second.RowsCreated)
	assert.Equal(t, firstRows, timetables.rows)
	assert.Equal(t, []string{genClassA, genClassA}, timetables.deleted)
}
