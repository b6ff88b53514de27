package repository

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-portal-api/internal/models"
)

// Day values written by Go must be exactly the values the schema's CHECK
// constraint accepts, or every insert is rejected by Postgres.
func TestTimetableDaysMatchSchemaConstraint(t *testing.T) {
	schema, err := os.ReadFile("../../migrations/000001_init_schema.up.sql")
	require.NoError(t, err)

	checkRe := regexp.MustCompile(`day\s+VARCHAR\(\d+\)\s+NOT NULL CHECK \(day IN \(([^)]+)\)\)`)
	match := checkRe.FindStringSubmatch(string(schema))
	require.NotNil(t, match, "timetable day CHECK constraint not found in migration")

	for _, day := range models.SchoolWeek {
		assert.Contains(t, match[1], fmt.Sprintf("'%s'", day))
	}
	assert.Len(t, regexp.MustCompile(`'[^']+'`).FindAllString(match[1], -1), len(models.SchoolWeek))
}

func TestTimetableRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newTeacherRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectExec("INSERT INTO timetable").
		WithArgs(sqlmock.AnyArg(), "c1", models.DayMonday, "09:00", "10:00", "sub1", "t1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	row := &models.Timetable{
		ClassID:   "c1",
		Day:       models.DayMonday,
		StartTime: "09:00",
		EndTime:   "10:00",
		SubjectID: "sub1",
		TeacherID: "t1",
	}
	require.NoError(t, repo.Create(context.Background(), row))
	assert.NotEmpty(t, row.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryListOrdersByClassDayStart(t *testing.T) {
	db, mock, cleanup := newTeacherRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	rows := sqlmock.NewRows([]string{"id", "class_id", "day", "start_time", "end_time", "subject_id", "teacher_id", "created_at", "subject_name", "teacher_name", "class_name"}).
		AddRow("tt1", "c1", models.DayMonday, "09:00", "10:00", "sub1", "t1", time.Now(), "Maths", "Asha Verma", "Class 5-A")
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY c.name ASC, array_position(ARRAY['Monday','Tuesday','Wednesday','Thursday','Friday','Saturday'], tt.day), tt.start_time ASC")).
		WillReturnRows(rows)

	list, err := repo.List(context.Background(), models.TimetableFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.DayMonday, list[0].Day)
	assert.NoError(t, mock.ExpectationsWereMet())
}
