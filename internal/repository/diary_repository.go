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

// DiaryRepository manages persistence for student diary entries.
type DiaryRepository struct {
	db *sqlx.DB
}

// NewDiaryRepository constructs a DiaryRepository.
func NewDiaryRepository(db *sqlx.DB) *DiaryRepository {
	return &DiaryRepository{db: db}
}

// List returns diary entries matching filters with total count.
func (r *DiaryRepository) List(ctx context.Context, filter models.StudentDiaryFilter) ([]models.StudentDiaryDetail, int, error) {
	base := `FROM student_diary d
		JOIN students st ON st.id = d.student_id
		LEFT JOIN teachers t ON t.id = d.teacher_id
		WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("d.student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.TeacherID != "" {
		conditions = append(conditions, fmt.Sprintf("d.teacher_id = $%d", len(args)+1))
		args = append(args, filter.TeacherID)
	}
	if filter.ClassID != "" {
		conditions = append(conditions, fmt.Sprintf("st.class_id = $%d", len(args)+1))
		args = append(args, filter.ClassID)
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("d.date >= $%d", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("d.date <= $%d", len(args)+1))
		args = append(args, *filter.DateTo)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
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

	query := fmt.Sprintf(`SELECT d.id, d.student_id, d.teacher_id, d.date, d.title, d.entry, d.created_at, d.updated_at,
		st.full_name AS student_name, t.full_name AS teacher_name
		%s ORDER BY d.date DESC, d.created_at DESC LIMIT %d OFFSET %d`, base, size, offset)
	var entries []models.StudentDiaryDetail
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list diary entries: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count diary entries: %w", err)
	}

	return entries, total, nil
}

// FindByID fetches a diary entry by ID.
func (r *DiaryRepository) FindByID(ctx context.Context, id string) (*models.StudentDiary, error) {
	const query = `SELECT id, student_id, teacher_id, date, title, entry, created_at, updated_at FROM student_diary WHERE id = $1`
	var entry models.StudentDiary
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Create inserts a new diary entry.
func (r *DiaryRepository) Create(ctx context.Context, entry *models.StudentDiary) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now

	const query = `INSERT INTO student_diary (id, student_id, teacher_id, date, title, entry, created_at, updated_at)
		VALUES (:id, :student_id, :teacher_id, :date, :title, :entry, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create diary entry: %w", err)
	}
	return nil
}

// Update modifies an existing diary entry.
func (r *DiaryRepository) Update(ctx context.Context, entry *models.StudentDiary) error {
	entry.UpdatedAt = time.Now().UTC()
	const query = `UPDATE student_diary SET date = :date, title = :title, entry = :entry, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("update diary entry: %w", err)
	}
	return nil
}

// Delete removes a diary entry.
func (r *DiaryRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM student_diary WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete diary entry: %w", err)
	}
	return nil
}
