package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

type policyClassRepository interface {
	FindByID(ctx context.Context, id string) (*models.SchoolClass, error)
}

type policyTeacherRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.Teacher, error)
}

type policyStudentRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.Student, error)
}

// AccessPolicy centralises the authorization rules that go beyond plain
// role checks. Handlers enforce roles via middleware; services consult the
// policy for ownership rules such as "only the class-teacher marks
// attendance".
type AccessPolicy struct {
	classes  policyClassRepository
	teachers policyTeacherRepository
	students policyStudentRepository
	logger   *zap.Logger
}

// NewAccessPolicy constructs an AccessPolicy.
func NewAccessPolicy(classes policyClassRepository, teachers policyTeacherRepository, students policyStudentRepository, logger *zap.Logger) *AccessPolicy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccessPolicy{classes: classes, teachers: teachers, students: students, logger: logger}
}

// IsAdmin reports whether the role carries full administrative rights.
func (p *AccessPolicy) IsAdmin(role models.UserRole) bool {
	return role == models.RoleSuperAdmin || role == models.RoleAdmin
}

// CanMarkAttendance allows admins always, and teachers only for the class
// they are class-teacher of.
func (p *AccessPolicy) CanMarkAttendance(ctx context.Context, claims *models.JWTClaims, classID string) error {
	if p.IsAdmin(claims.Role) {
		return nil
	}
	if claims.Role != models.RoleTeacher {
		return appErrors.Clone(appErrors.ErrForbidden, "only teachers mark attendance")
	}

	class, err := p.classes.FindByID(ctx, classID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	if class.ClassTeacherID == nil {
		return appErrors.Clone(appErrors.ErrNotClassTeacher, "class has no class-teacher assigned")
	}

	teacher, err := p.teachers.FindByUserID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrForbidden, "no teacher profile linked to account")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	if *class.ClassTeacherID != teacher.ID {
		return appErrors.Clone(appErrors.ErrNotClassTeacher, "only the class-teacher marks attendance for this class")
	}
	return nil
}

// CanManageTeacherContent allows admins, and the owning teacher identified
// by ownerTeacherID. Used for homework, syllabus and diary edits.
func (p *AccessPolicy) CanManageTeacherContent(ctx context.Context, claims *models.JWTClaims, ownerTeacherID string) error {
	if p.IsAdmin(claims.Role) {
		return nil
	}
	if claims.Role != models.RoleTeacher {
		return appErrors.Clone(appErrors.ErrForbidden, "insufficient role")
	}

	teacher, err := p.teachers.FindByUserID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrForbidden, "no teacher profile linked to account")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	if teacher.ID != ownerTeacherID {
		return appErrors.Clone(appErrors.ErrForbidden, "record belongs to another teacher")
	}
	return nil
}

// CanViewStudent allows admins and teachers; students may only view their
// own record.
func (p *AccessPolicy) CanViewStudent(ctx context.Context, claims *models.JWTClaims, studentID string) error {
	if p.IsAdmin(claims.Role) || claims.Role == models.RoleTeacher {
		return nil
	}
	if claims.Role != models.RoleStudent {
		return appErrors.Clone(appErrors.ErrForbidden, "insufficient role")
	}

	student, err := p.students.FindByUserID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrForbidden, "no student profile linked to account")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if student.ID != studentID {
		return appErrors.Clone(appErrors.ErrForbidden, "students may only view their own record")
	}
	return nil
}

// TeacherForUser resolves the teacher profile of an authenticated account.
func (p *AccessPolicy) TeacherForUser(ctx context.Context, userID string) (*models.Teacher, error) {
	teacher, err := p.teachers.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "no teacher profile linked to account")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	return teacher, nil
}
