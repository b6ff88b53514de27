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

// SyllabusRepository manages persistence for syllabus sections.
type SyllabusRepository struct {
	db *sqlx.DB
}

// NewSyllabusRepository constructs a SyllabusRepository.
func NewSyllabusRepository(db *sqlx.DB) *SyllabusRepository {
	return &SyllabusRepository{db: db}
}

// List returns syllabus rows matching filters along with total count.
func (r *SyllabusRepository) List(ctx context.Context, filter models.SyllabusFilter) ([]models.SyllabusDetail, int, error) {
	base := "FROM syllabus sy JOIN subjects s ON s.id = sy.subject_id JOIN teachers t ON t.id = sy.teacher_id WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.SubjectID != "" {
		conditions = append(conditions, fmt.Sprintf("sy.subject_id = $%d", len(args)+1))
		args = append(args, filter.SubjectID)
	}
	if filter.TeacherID != "" {
		conditions = append(conditions, fmt.Sprintf("sy.teacher_id = $%d", len(args)+1))
		args = append(args, filter.TeacherID)
	}
	if filter.ClassID != "" {
		conditions = append(conditions, fmt.Sprintf("s.class_id = $%d", len(args)+1))
		args = append(args, filter.ClassID)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(sy.title) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "title"
	}
	allowedSorts := map[string]string{
		"title":      "sy.title",
		"created_at": "sy.created_at",
		"updated_at": "sy.updated_at",
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "sy.title"
	}

	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
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

	query := fmt.Sprintf("SELECT sy.id, sy.subject_id, sy.teacher_id, sy.title, sy.content, sy.created_at, sy.updated_at, s.name AS subject_name, s.class_id, t.full_name AS teacher_name %s ORDER BY %s %s LIMIT %d OFFSET %d", base, column, order, size, offset)
	var rows []models.SyllabusDetail
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list syllabus: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count syllabus: %w", err)
	}

	return rows, total, nil
}

// FindByID fetches a syllabus section by ID.
func (r *SyllabusRepository) FindByID(ctx context.Context, id string) (*models.Syllabus, error) {
	const query = `SELECT id, subject_id, teacher_id, title, content, created_at, updated_at FROM syllabus WHERE id = $1`
	var sy models.Syllabus
	if err := r.db.GetContext(ctx, &sy, query, id); err != nil {
		return nil, err
	}
	return &sy, nil
}

// ExistsByTitle checks the unique (subject, title) rule.
func (r *SyllabusRepository) ExistsByTitle(ctx context.Context, subjectID, title string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM syllabus WHERE subject_id = $1 AND LOWER(title) = LOWER($2)"
	args := []interface{}{subjectID, title}
	if excludeID != "" {
		query += " AND id <> $3"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check syllabus title: %w", err)
	}
	return true, nil
}

// Create inserts a new syllabus section.
func (r *SyllabusRepository) Create(ctx context.Context, sy *models.Syllabus) error {
	if sy.ID == "" {
		sy.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if sy.CreatedAt.IsZero() {
		sy.CreatedAt = now
	}
	sy.UpdatedAt = now

	const query = `INSERT INTO syllabus (id, subject_id, teacher_id, title, content, created_at, updated_at)
		VALUES (:id, :subject_id, :teacher_id, :title, :content, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, sy); err != nil {
		return fmt.Errorf("create syllabus: %w", err)
	}
	return nil
}

// Update modifies an existing syllabus section.
func (r *SyllabusRepository) Update(ctx context.Context, sy *models.Syllabus) error {
	sy.UpdatedAt = time.Now().UTC()
	const query = `UPDATE syllabus SET subject_id = :subject_id, teacher_id = :teacher_id, title = :title, content = :content, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, sy); err != nil {
		return fmt.Errorf("update syllabus: %w", err)
	}
	return nil
}

// Delete removes a syllabus section.
func (r *SyllabusRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM syllabus WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete syllabus: %w", err)
	}
	return nil
}
