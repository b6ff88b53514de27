package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	ListByClass(ctx context.Context, classID string) ([]models.Student, error)
	ExistsByPenNumber(ctx context.Context, penNumber, excludeID string) (bool, error)
	ExistsByRollNo(ctx context.Context, classID, rollNo, excludeID string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	SetUserID(ctx context.Context, id, userID string) error
	Delete(ctx context.Context, id string) error
}

type studentClassRepository interface {
	FindByID(ctx context.Context, id string) (*models.SchoolClass, error)
}

type studentProvisioner interface {
	ProvisionStudent(ctx context.Context, student *models.Student, actorID string) (*ProvisionedAccount, error)
	SyncEmail(ctx context.Context, userID, email string) error
}

// CreateStudentRequest represents payload for registering students.
type CreateStudentRequest struct {
	FullName        string  `json:"full_name" validate:"required"`
	RollNo          string  `json:"roll_no" validate:"required,max=20"`
	PenNumber       string  `json:"pen_number" validate:"required,max=50"`
	Email           string  `json:"email" validate:"required,email"`
	Phone           string  `json:"phone" validate:"required,max=20"`
	Gender          *string `json:"gender" validate:"omitempty,oneof=male female other"`
	DateOfBirth     *string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Address         *string `json:"address" validate:"omitempty,max=500"`
	GuardianName    *string `json:"guardian_name" validate:"omitempty,max=150"`
	GuardianContact *string `json:"guardian_contact" validate:"omitempty,max=20"`
	ImagePath       *string `json:"image_path" validate:"omitempty,max=255"`
	ClassID         string  `json:"class_id" validate:"required,uuid"`
}

// UpdateStudentRequest represents payload for updating students.
type UpdateStudentRequest struct {
	FullName        string  `json:"full_name" validate:"required"`
	RollNo          string  `json:"roll_no" validate:"required,max=20"`
	PenNumber       string  `json:"pen_number" validate:"required,max=50"`
	Email           string  `json:"email" validate:"required,email"`
	Phone           string  `json:"phone" validate:"required,max=20"`
	Gender          *string `json:"gender" validate:"omitempty,oneof=male female other"`
	DateOfBirth     *string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Address         *string `json:"address" validate:"omitempty,max=500"`
	GuardianName    *string `json:"guardian_name" validate:"omitempty,max=150"`
	GuardianContact *string `json:"guardian_contact" validate:"omitempty,max=20"`
	ImagePath       *string `json:"image_path" validate:"omitempty,max=255"`
	ClassID         string  `json:"class_id" validate:"required,uuid"`
}

// CreateStudentResult returns the created student and one-time credentials.
type CreateStudentResult struct {
	Student *models.Student     `json:"student"`
	Account *ProvisionedAccount `json:"account,omitempty"`
}

// StudentService orchestrates student operations.
type StudentService struct {
	repo        studentRepository
	classes     studentClassRepository
	provisioner studentProvisioner
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewStudentService constructs a StudentService.
func NewStudentService(repo studentRepository, classes studentClassRepository, provisioner studentProvisioner, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, classes: classes, provisioner: provisioner, validator: validate, logger: logger}
}

// List returns students plus pagination data, with derived ages.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, *models.Pagination, error) {
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}

	today := time.Now().UTC()
	for i := range students {
		students[i].Age = students[i].Student.Age(today)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return students, pagination, nil
}

// Get returns a student by id.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// Create registers a student and provisions their login account keyed on
// the pen number. The account is created exactly once here.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest, actorID string) (*CreateStudentResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	if _, err := s.classes.FindByID(ctx, req.ClassID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}

	if err := s.ensureUniqueFields(ctx, req.PenNumber, req.ClassID, req.RollNo, ""); err != nil {
		return nil, err
	}

	student := &models.Student{
		FullName:        strings.TrimSpace(req.FullName),
		RollNo:          strings.TrimSpace(req.RollNo),
		PenNumber:       strings.TrimSpace(req.PenNumber),
		Email:           strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:           strings.TrimSpace(req.Phone),
		Gender:          req.Gender,
		Address:         req.Address,
		GuardianName:    req.GuardianName,
		GuardianContact: req.GuardianContact,
		ImagePath:       req.ImagePath,
		ClassID:         req.ClassID,
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date of birth")
		}
		student.DateOfBirth = &dob
	}

	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}

	result := &CreateStudentResult{Student: student}
	account, err := s.provisioner.ProvisionStudent(ctx, student, actorID)
	if err != nil {
		s.logger.Error("student account provisioning failed", zap.String("student_id", student.ID), zap.Error(err))
		return nil, err
	}
	if err := s.repo.SetUserID(ctx, student.ID, account.UserID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to link student account")
	}
	student.UserID = &account.UserID
	result.Account = account

	return result, nil
}

// Update modifies an existing student. An email change is propagated to the
// linked login account.
func (s *StudentService) Update(ctx context.Context, id string, req UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	if _, err := s.classes.FindByID(ctx, req.ClassID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}

	if err := s.ensureUniqueFields(ctx, req.PenNumber, req.ClassID, req.RollNo, id); err != nil {
		return nil, err
	}

	previousEmail := student.Email
	student.FullName = strings.TrimSpace(req.FullName)
	student.RollNo = strings.TrimSpace(req.RollNo)
	student.PenNumber = strings.TrimSpace(req.PenNumber)
	student.Email = strings.ToLower(strings.TrimSpace(req.Email))
	student.Phone = strings.TrimSpace(req.Phone)
	student.Gender = req.Gender
	student.Address = req.Address
	student.GuardianName = req.GuardianName
	student.GuardianContact = req.GuardianContact
	student.ImagePath = req.ImagePath
	student.ClassID = req.ClassID
	student.DateOfBirth = nil
	if req.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date of birth")
		}
		student.DateOfBirth = &dob
	}

	if err := s.repo.Update(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}

	if student.UserID != nil && student.Email != previousEmail {
		if err := s.provisioner.SyncEmail(ctx, *student.UserID, student.Email); err != nil {
			return nil, err
		}
	}
	return student, nil
}

// Delete removes a student record.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	return nil
}

func (s *StudentService) ensureUniqueFields(ctx context.Context, penNumber, classID, rollNo, excludeID string) error {
	exists, err := s.repo.ExistsByPenNumber(ctx, strings.TrimSpace(penNumber), excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check pen number uniqueness")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "pen number already used")
	}

	exists, err = s.repo.ExistsByRollNo(ctx, classID, strings.TrimSpace(rollNo), excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check roll number uniqueness")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "roll number already used in this class")
	}
	return nil
}
