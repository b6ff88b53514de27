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

// HomeworkRepository manages persistence for homework assignments.
type HomeworkRepository struct {
	db *sqlx.DB
}

// NewHomeworkRepository constructs a HomeworkRepository.
func NewHomeworkRepository(db *sqlx.DB) *HomeworkRepository {
	return &HomeworkRepository{db: db}
}

// List returns homework rows matching filters along with total count.
func (r *HomeworkRepository) List(ctx context.Context, filter models.HomeworkFilter) ([]models.HomeworkDetail, int, error) {
	base := "FROM homework h JOIN subjects s ON s.id = h.subject_id JOIN teachers t ON t.id = h.teacher_id WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.SubjectID != "" {
		conditions = append(conditions, fmt.Sprintf("h.subject_id = $%d", len(args)+1))
		args = append(args, filter.SubjectID)
	}
	if filter.TeacherID != "" {
		conditions = append(conditions, fmt.Sprintf("h.teacher_id = $%d", len(args)+1))
		args = append(args, filter.TeacherID)
	}
	if filter.ClassID != "" {
		conditions = append(conditions, fmt.Sprintf("s.class_id = $%d", len(args)+1))
		args = append(args, filter.ClassID)
	}
	if filter.AssignedFrom != nil {
		conditions = append(conditions, fmt.Sprintf("h.assigned_date >= $%d", len(args)+1))
		args = append(args, *filter.AssignedFrom)
	}
	if filter.AssignedTo != nil {
		conditions = append(conditions, fmt.Sprintf("h.assigned_date <= $%d", len(args)+1))
		args = append(args, *filter.AssignedTo)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "assigned_date"
	}
	allowedSorts := map[string]string{
		"assigned_date": "h.assigned_date",
		"due_date":      "h.due_date",
		"created_at":    "h.created_at",
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "h.assigned_date"
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

	query := fmt.Sprintf("SELECT h.id, h.subject_id, h.teacher_id, h.description, h.assigned_date, h.due_date, h.created_at, h.updated_at, s.name AS subject_name, s.class_id, t.full_name AS teacher_name %s ORDER BY %s %s LIMIT %d OFFSET %d", base, column, order, size, offset)
	var rows []models.HomeworkDetail
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list homework: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count homework: %w", err)
	}

	return rows, total, nil
}

// FindByID fetches a homework row by ID.
func (r *HomeworkRepository) FindByID(ctx context.Context, id string) (*models.Homework, error) {
	const query = `SELECT id, subject_id, teacher_id, description, assigned_date, due_date, created_at, updated_at FROM homework WHERE id = $1`
	var hw models.Homework
	if err := r.db.GetContext(ctx, &hw, query, id); err != nil {
		return nil, err
	}
	return &hw, nil
}

// ExistsBySubjectAndDate checks the one-homework-per-subject-per-day rule.
func (r *HomeworkRepository) ExistsBySubjectAndDate(ctx context.Context, subjectID string, assignedDate time.Time, excludeID string) (bool, error) {
	query := "SELECT 1 FROM homework WHERE subject_id = $1 AND assigned_date = $2"
	args := []interface{}{subjectID, assignedDate}
	if excludeID != "" {
		query += " AND id <> $3"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check homework date: %w", err)
	}
	return true, nil
}

// Create inserts a new homework record.
func (r *HomeworkRepository) Create(ctx context.Context, hw *models.Homework) error {
	if hw.ID == "" {
		hw.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if hw.CreatedAt.IsZero() {
		hw.CreatedAt = now
	}
	hw.UpdatedAt = now

	const query = `INSERT INTO homework (id, subject_id, teacher_id, description, assigned_date, due_date, created_at, updated_at)
		VALUES (:id, :subject_id, :teacher_id, :description, :assigned_date, :due_date, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, hw); err != nil {
		return fmt.Errorf("create homework: %w", err)
	}
	return nil
}

// Update modifies an existing homework record.
func (r *HomeworkRepository) Update(ctx context.Context, hw *models.Homework) error {
	hw.UpdatedAt = time.Now().UTC()
	const query = `UPDATE homework SET subject_id = :subject_id, teacher_id = :teacher_id, description = :description, assigned_date = :assigned_date, due_date = :due_date, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, hw); err != nil {
		return fmt.Errorf("update homework: %w", err)
	}
	return nil
}

// Delete removes a homework record.
func (r *HomeworkRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM homework WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete homework: %w", err)
	}
	return nil
}
