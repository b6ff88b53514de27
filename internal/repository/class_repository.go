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

// ClassRepository manages persistence for school classes.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a ClassRepository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// List returns classes matching filters along with total count. Each row
// carries the class-teacher's name when one is assigned.
func (r *ClassRepository) List(ctx context.Context, filter models.SchoolClassFilter) ([]models.SchoolClassDetail, int, error) {
	base := "FROM classes c LEFT JOIN teachers t ON t.id = c.class_teacher_id WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(c.name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.AgeGroup != "" {
		conditions = append(conditions, fmt.Sprintf("c.age_group = $%d", len(args)+1))
		args = append(args, filter.AgeGroup)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "name"
	}
	allowedSorts := map[string]string{
		"name":       "c.name",
		"age_group":  "c.age_group",
		"capacity":   "c.capacity",
		"created_at": "c.created_at",
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "c.name"
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

	query := fmt.Sprintf("SELECT c.id, c.name, c.image_path, c.age_group, c.capacity, c.class_teacher_id, c.created_at, c.updated_at, t.full_name AS class_teacher_name %s ORDER BY %s %s LIMIT %d OFFSET %d", base, column, order, size, offset)
	var classes []models.SchoolClassDetail
	if err := r.db.SelectContext(ctx, &classes, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list classes: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count classes: %w", err)
	}

	return classes, total, nil
}

// FindByID fetches a class by ID.
func (r *ClassRepository) FindByID(ctx context.Context, id string) (*models.SchoolClass, error) {
	const query = `SELECT id, name, image_path, age_group, capacity, class_teacher_id, created_at, updated_at FROM classes WHERE id = $1`
	var class models.SchoolClass
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		return nil, err
	}
	return &class, nil
}

// FindByClassTeacher returns the class a teacher is class-teacher of, if any.
func (r *ClassRepository) FindByClassTeacher(ctx context.Context, teacherID string) (*models.SchoolClass, error) {
	const query = `SELECT id, name, image_path, age_group, capacity, class_teacher_id, created_at, updated_at FROM classes WHERE class_teacher_id = $1 LIMIT 1`
	var class models.SchoolClass
	if err := r.db.GetContext(ctx, &class, query, teacherID); err != nil {
		return nil, err
	}
	return &class, nil
}

// ListAll returns every class ordered by name. Used by the timetable
// generator, which needs a stable ordering.
func (r *ClassRepository) ListAll(ctx context.Context) ([]models.SchoolClass, error) {
	const query = `SELECT id, name, image_path, age_group, capacity, class_teacher_id, created_at, updated_at FROM classes ORDER BY name ASC`
	var classes []models.SchoolClass
	if err := r.db.SelectContext(ctx, &classes, query); err != nil {
		return nil, fmt.Errorf("list all classes: %w", err)
	}
	return classes, nil
}

// Create inserts a new class record.
func (r *ClassRepository) Create(ctx context.Context, class *models.SchoolClass) error {
	if class.ID == "" {
		class.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if class.CreatedAt.IsZero() {
		class.CreatedAt = now
	}
	class.UpdatedAt = now

	const query = `INSERT INTO classes (id, name, image_path, age_group, capacity, class_teacher_id, created_at, updated_at)
		VALUES (:id, :name, :image_path, :age_group, :capacity, :class_teacher_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

// Update modifies an existing class record.
func (r *ClassRepository) Update(ctx context.Context, class *models.SchoolClass) error {
	class.UpdatedAt = time.Now().UTC()
	const query = `UPDATE classes SET name = :name, image_path = :image_path, age_group = :age_group, capacity = :capacity, class_teacher_id = :class_teacher_id, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		return fmt.Errorf("update class: %w", err)
	}
	return nil
}

// Delete removes a class record.
func (r *ClassRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM classes WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	return nil
}
