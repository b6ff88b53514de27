package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-portal-api/internal/models"
)

func TestAttendanceRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newTeacherRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectExec("INSERT INTO attendance").
		WithArgs(sqlmock.AnyArg(), "s1", "c1", sqlmock.AnyArg(), models.AttendanceStatusPresent, "u1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	record := &models.Attendance{
		StudentID: "s1",
		ClassID:   "c1",
		Date:      time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Status:    models.AttendanceStatusPresent,
		MarkedBy:  "u1",
	}
	require.NoError(t, repo.Upsert(context.Background(), record))
	assert.NotEmpty(t, record.ID)
	assert.False(t, record.MarkedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryListByClassAndDate(t *testing.T) {
	db, mock, cleanup := newTeacherRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "student_id", "class_id", "date", "status", "marked_by", "marked_at", "student_name", "roll_no", "class_name"}).
		AddRow("a1", "s1", "c1", date, "present", "u1", time.Now(), "Student One", "1", "Class 5-A").
		AddRow("a2", "s2", "c1", date, "absent", "u1", time.Now(), "Student Two", "2", "Class 5-A")
	mock.ExpectQuery(regexp.QuoteMeta("a.class_id = $1")).
		WithArgs("c1", date).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("c1", date).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	records, total, err := repo.List(context.Background(), models.AttendanceFilter{ClassID: "c1", DateFrom: &date, DateTo: nil, Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, 2, total)
	assert.Equal(t, "Student One", records[0].StudentName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositorySummarize(t *testing.T) {
	db, mock, cleanup := newTeacherRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM attendance WHERE student_id = $1")).
		WithArgs("s1").
		WillReturnRows(sqlmock.NewRows([]string{"present", "absent", "leave", "total"}).AddRow(18, 1, 1, 20))

	summary, err := repo.Summarize(context.Background(), "s1", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 18, summary.Present)
	assert.Equal(t, 20, summary.Total)
	assert.InDelta(t, 90.0, summary.Percent, 0.01)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryListByClassAndRange(t *testing.T) {
	db, mock, cleanup := newTeacherRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "student_id", "class_id", "date", "status", "marked_by", "marked_at", "student_name", "roll_no", "class_name"}).
		AddRow("a1", "s1", "c1", from, "leave", "u1", time.Now(), "Student One", "1", "Class 5-A")
	mock.ExpectQuery(regexp.QuoteMeta("WHERE a.class_id = $1 AND a.date >= $2 AND a.date <= $3")).
		WithArgs("c1", from, to).
		WillReturnRows(rows)

	records, err := repo.ListByClassAndRange(context.Background(), "c1", from, to)
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, models.AttendanceStatusLeave, records[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
