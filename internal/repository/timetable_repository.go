package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-portal-api/internal/models"
)

// dayOrderSQL sorts weekday names Monday first. Keeps listings in teaching
// order without a lookup table.
const dayOrderSQL = `array_position(ARRAY['Monday','Tuesday','Wednesday','Thursday','Friday','Saturday'], tt.day)`

// TimetableRepository manages persistence for timetable periods.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository constructs a TimetableRepository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

// List returns timetable rows matching filters, ordered by class, day and
// start time.
func (r *TimetableRepository) List(ctx context.Context, filter models.TimetableFilter) ([]models.TimetableDetail, error) {
	base := `FROM timetable tt
		JOIN subjects s ON s.id = tt.subject_id
		JOIN teachers t ON t.id = tt.teacher_id
		JOIN classes c ON c.id = tt.class_id
		WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.ClassID != "" {
		conditions = append(conditions, fmt.Sprintf("tt.class_id = $%d", len(args)+1))
		args = append(args, filter.ClassID)
	}
	if filter.TeacherID != "" {
		conditions = append(conditions, fmt.Sprintf("tt.teacher_id = $%d", len(args)+1))
		args = append(args, filter.TeacherID)
	}
	if filter.Day != "" {
		conditions = append(conditions, fmt.Sprintf("tt.day = $%d", len(args)+1))
		args = append(args, filter.Day)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`SELECT tt.id, tt.class_id, tt.day, tt.start_time, tt.end_time, tt.subject_id, tt.teacher_id, tt.created_at,
		s.name AS subject_name, t.full_name AS teacher_name, c.name AS class_name
		%s ORDER BY c.name ASC, %s, tt.start_time ASC`, base, dayOrderSQL)
	var rows []models.TimetableDetail
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list timetable: %w", err)
	}
	return rows, nil
}

// FindByID fetches one timetable period.
func (r *TimetableRepository) FindByID(ctx context.Context, id string) (*models.Timetable, error) {
	const query = `SELECT id, class_id, day, start_time, end_time, subject_id, teacher_id, created_at FROM timetable WHERE id = $1`
	var tt models.Timetable
	if err := r.db.GetContext(ctx, &tt, query, id); err != nil {
		return nil, err
	}
	return &tt, nil
}

// Create inserts a single timetable period.
func (r *TimetableRepository) Create(ctx context.Context, tt *models.Timetable) error {
	if tt.ID == "" {
		tt.ID = uuid.NewString()
	}
	if tt.CreatedAt.IsZero() {
		tt.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO timetable (id, class_id, day, start_time, end_time, subject_id, teacher_id, created_at)
		VALUES (:id, :class_id, :day, :start_time, :end_time, :subject_id, :teacher_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, tt); err != nil {
		return fmt.Errorf("create timetable row: %w", err)
	}
	return nil
}

// Delete removes a single timetable period.
func (r *TimetableRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM timetable WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete timetable row: %w", err)
	}
	return nil
}

// DeleteByClass removes every period of a class. The generator calls this
// before bulk-inserting the regenerated week.
func (r *TimetableRepository) DeleteByClass(ctx context.Context, classID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM timetable WHERE class_id = $1`, classID); err != nil {
		return fmt.Errorf("clear class timetable: %w", err)
	}
	return nil
}

// BulkCreate inserts a batch of periods. Rows are inserted in order; a
// failure part-way leaves the earlier rows in place.
func (r *TimetableRepository) BulkCreate(ctx context.Context, rows []models.Timetable) error {
	const insert = `INSERT INTO timetable (id, class_id, day, start_time, end_time, subject_id, teacher_id, created_at)
		VALUES (:id, :class_id, :day, :start_time, :end_time, :subject_id, :teacher_id, :created_at)`
	now := time.Now().UTC()
	for i := range rows {
		if rows[i].ID == "" {
			rows[i].ID = uuid.NewString()
		}
		if rows[i].CreatedAt.IsZero() {
			rows[i].CreatedAt = now
		}
		if _, err := r.db.NamedExecContext(ctx, insert, rows[i]); err != nil {
			return fmt.Errorf("insert timetable row: %w", err)
		}
	}
	return nil
}
