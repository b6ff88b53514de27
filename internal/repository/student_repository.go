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

const studentColumns = `id, user_id, full_name, roll_no, pen_number, email, phone, gender, date_of_birth, address, guardian_name, guardian_contact, image_path, class_id, created_at, updated_at`

// StudentRepository manages persistence for students.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns students matching filters along with total count.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error) {
	base := "FROM students st JOIN classes c ON c.id = st.class_id WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.ClassID != "" {
		conditions = append(conditions, fmt.Sprintf("st.class_id = $%d", len(args)+1))
		args = append(args, filter.ClassID)
	}
	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(st.full_name) LIKE $%d OR LOWER(st.pen_number) LIKE $%d OR LOWER(st.roll_no) LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, search)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "roll_no"
	}
	allowedSorts := map[string]string{
		"full_name":  "st.full_name",
		"roll_no":    "st.roll_no",
		"pen_number": "st.pen_number",
		"created_at": "st.created_at",
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "st.roll_no"
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

	query := fmt.Sprintf("SELECT st.id, st.user_id, st.full_name, st.roll_no, st.pen_number, st.email, st.phone, st.gender, st.date_of_birth, st.address, st.guardian_name, st.guardian_contact, st.image_path, st.class_id, st.created_at, st.updated_at, c.name AS class_name %s ORDER BY %s %s LIMIT %d OFFSET %d", base, column, order, size, offset)
	var students []models.StudentDetail
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}

	return students, total, nil
}

// FindByID fetches a student by ID.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	const query = `SELECT ` + studentColumns + ` FROM students WHERE id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByUserID fetches the student linked to a user account.
func (r *StudentRepository) FindByUserID(ctx context.Context, userID string) (*models.Student, error) {
	const query = `SELECT ` + studentColumns + ` FROM students WHERE user_id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, userID); err != nil {
		return nil, err
	}
	return &student, nil
}

// ListByClass returns every student of a class ordered by roll number.
func (r *StudentRepository) ListByClass(ctx context.Context, classID string) ([]models.Student, error) {
	const query = `SELECT ` + studentColumns + ` FROM students WHERE class_id = $1 ORDER BY roll_no ASC`
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, classID); err != nil {
		return nil, fmt.Errorf("list students by class: %w", err)
	}
	return students, nil
}

// ExistsByPenNumber checks if another student uses the same pen number.
func (r *StudentRepository) ExistsByPenNumber(ctx context.Context, penNumber string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM students WHERE pen_number = $1"
	args := []interface{}{penNumber}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check student pen number: %w", err)
	}
	return true, nil
}

// ExistsByRollNo checks if another student of the same class uses the roll number.
func (r *StudentRepository) ExistsByRollNo(ctx context.Context, classID, rollNo string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM students WHERE class_id = $1 AND roll_no = $2"
	args := []interface{}{classID, rollNo}
	if excludeID != "" {
		query += " AND id <> $3"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check student roll no: %w", err)
	}
	return true, nil
}

// Create inserts a new student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now

	const query = `INSERT INTO students (id, user_id, full_name, roll_no, pen_number, email, phone, gender, date_of_birth, address, guardian_name, guardian_contact, image_path, class_id, created_at, updated_at)
		VALUES (:id, :user_id, :full_name, :roll_no, :pen_number, :email, :phone, :gender, :date_of_birth, :address, :guardian_name, :guardian_contact, :image_path, :class_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update modifies an existing student record.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET full_name = :full_name, roll_no = :roll_no, pen_number = :pen_number, email = :email, phone = :phone, gender = :gender, date_of_birth = :date_of_birth, address = :address, guardian_name = :guardian_name, guardian_contact = :guardian_contact, image_path = :image_path, class_id = :class_id, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// SetUserID links the provisioned user account to a student.
func (r *StudentRepository) SetUserID(ctx context.Context, id, userID string) error {
	const query = `UPDATE students SET user_id = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, userID, time.Now().UTC()); err != nil {
		return fmt.Errorf("set student user id: %w", err)
	}
	return nil
}

// Delete removes a student record.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM students WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return nil
}
