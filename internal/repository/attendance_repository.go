package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-portal-api/internal/models"
)

// AttendanceRepository manages persistence for daily attendance.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs an AttendanceRepository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// List returns attendance records matching filters with total count.
func (r *AttendanceRepository) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, int, error) {
	base := `FROM attendance a
		JOIN students st ON st.id = a.student_id
		JOIN classes c ON c.id = a.class_id
		WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.ClassID != "" {
		conditions = append(conditions, fmt.Sprintf("a.class_id = $%d", len(args)+1))
		args = append(args, filter.ClassID)
	}
	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("a.student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("a.date >= $%d", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("a.date <= $%d", len(args)+1))
		args = append(args, *filter.DateTo)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "date"
	}
	allowedSorts := map[string]string{
		"date":      "a.date",
		"roll_no":   "st.roll_no",
		"marked_at": "a.marked_at",
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "a.date"
	}

	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT a.id, a.student_id, a.class_id, a.date, a.status, a.marked_by, a.marked_at,
		st.full_name AS student_name, st.roll_no, c.name AS class_name
		%s ORDER BY %s %s, st.roll_no ASC LIMIT %d OFFSET %d`, base, column, order, size, offset)
	var records []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list attendance: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count attendance: %w", err)
	}

	return records, total, nil
}

// FindByStudentAndDate fetches the attendance row for a student on a date.
func (r *AttendanceRepository) FindByStudentAndDate(ctx context.Context, studentID string, date time.Time) (*models.Attendance, error) {
	const query = `SELECT id, student_id, class_id, date, status, marked_by, marked_at FROM attendance WHERE student_id = $1 AND date = $2 LIMIT 1`
	var a models.Attendance
	if err := r.db.GetContext(ctx, &a, query, studentID, date); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find attendance: %w", err)
	}
	return &a, nil
}

// Upsert inserts the attendance row or updates the status of an existing one.
// Re-marking the same (student, date) overwrites rather than duplicating.
func (r *AttendanceRepository) Upsert(ctx context.Context, a *models.Attendance) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.MarkedAt.IsZero() {
		a.MarkedAt = time.Now().UTC()
	}
	const query = `INSERT INTO attendance (id, student_id, class_id, date, status, marked_by, marked_at)
		VALUES (:id, :student_id, :class_id, :date, :status, :marked_by, :marked_at)
		ON CONFLICT (student_id, date) DO UPDATE SET status = EXCLUDED.status, marked_by = EXCLUDED.marked_by, marked_at = EXCLUDED.marked_at`
	if _, err := r.db.NamedExecContext(ctx, query, a); err != nil {
		return fmt.Errorf("upsert attendance: %w", err)
	}
	return nil
}

// Summarize aggregates a student's attendance counts over an optional range.
func (r *AttendanceRepository) Summarize(ctx context.Context, studentID string, from, to *time.Time) (*models.AttendanceSummary, error) {
	query := `SELECT
		COUNT(*) FILTER (WHERE status = 'present') AS present,
		COUNT(*) FILTER (WHERE status = 'absent') AS absent,
		COUNT(*) FILTER (WHERE status = 'leave') AS leave,
		COUNT(*) AS total
		FROM attendance WHERE student_id = $1`
	args := []interface{}{studentID}
	if from != nil {
		query += fmt.Sprintf(" AND date >= $%d", len(args)+1)
		args = append(args, *from)
	}
	if to != nil {
		query += fmt.Sprintf(" AND date <= $%d", len(args)+1)
		args = append(args, *to)
	}

	var row struct {
		Present int `db:"present"`
		Absent  int `db:"absent"`
		Leave   int `db:"leave"`
		Total   int `db:"total"`
	}
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return nil, fmt.Errorf("summarize attendance: %w", err)
	}

	summary := models.AttendanceSummary{
		Present: row.Present,
		Absent:  row.Absent,
		Leave:   row.Leave,
		Total:   row.Total,
	}
	if summary.Total > 0 {
		summary.Percent = float64(summary.Present) / float64(summary.Total) * 100
	}
	return &summary, nil
}

// ListByClassAndRange returns attendance rows for a class in a date window,
// ordered for register exports.
func (r *AttendanceRepository) ListByClassAndRange(ctx context.Context, classID string, from, to time.Time) ([]models.AttendanceRecord, error) {
	const query = `SELECT a.id, a.student_id, a.class_id, a.date, a.status, a.marked_by, a.marked_at,
		st.full_name AS student_name, st.roll_no, c.name AS class_name
		FROM attendance a
		JOIN students st ON st.id = a.student_id
		JOIN classes c ON c.id = a.class_id
		WHERE a.class_id = $1 AND a.date >= $2 AND a.date <= $3
		ORDER BY a.date ASC, st.roll_no ASC`
	var records []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &records, query, classID, from, to); err != nil {
		return nil, fmt.Errorf("list attendance range: %w", err)
	}
	return records, nil
}
