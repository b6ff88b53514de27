package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

const generatedPasswordLength = 10

const passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

type provisioningUserRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateEmail(ctx context.Context, id, email string, updatedAt time.Time) error
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// ProvisionedAccount carries the credentials of a freshly created login.
// The plaintext password is only available here, it is never stored.
type ProvisionedAccount struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// AccountProvisioner creates login accounts for teachers, students and
// drivers exactly once per person. The username is derived from the
// person's natural identifier: the email local-part for teachers, the pen
// number for students and the licence number for drivers.
type AccountProvisioner struct {
	repo   provisioningUserRepository
	logger *zap.Logger
}

// NewAccountProvisioner constructs an AccountProvisioner.
func NewAccountProvisioner(repo provisioningUserRepository, logger *zap.Logger) *AccountProvisioner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountProvisioner{repo: repo, logger: logger}
}

// ProvisionTeacher creates the login account for a teacher.
func (p *AccountProvisioner) ProvisionTeacher(ctx context.Context, teacher *models.Teacher, actorID string) (*ProvisionedAccount, error) {
	username := teacher.Email
	if at := strings.Index(username, "@"); at > 0 {
		username = username[:at]
	}
	return p.provision(ctx, strings.ToLower(username), teacher.Email, teacher.FullName, models.RoleTeacher, "teachers", teacher.ID, actorID)
}

// ProvisionStudent creates the login account for a student. The pen number
// becomes the username.
func (p *AccountProvisioner) ProvisionStudent(ctx context.Context, student *models.Student, actorID string) (*ProvisionedAccount, error) {
	return p.provision(ctx, strings.ToLower(student.PenNumber), student.Email, student.FullName, models.RoleStudent, "students", student.ID, actorID)
}

// ProvisionDriver creates the login account for a driver keyed on the
// licence number.
func (p *AccountProvisioner) ProvisionDriver(ctx context.Context, driver *models.Driver, actorID string) (*ProvisionedAccount, error) {
	return p.provision(ctx, strings.ToLower(driver.LicenceNumber), driver.Email, driver.FullName, models.RoleDriver, "drivers", driver.ID, actorID)
}

// SyncEmail propagates a changed profile email onto the linked login account.
func (p *AccountProvisioner) SyncEmail(ctx context.Context, userID, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if userID == "" || email == "" {
		return appErrors.Clone(appErrors.ErrValidation, "user id and email are required")
	}
	if err := p.repo.UpdateEmail(ctx, userID, email, time.Now().UTC()); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sync account email")
	}
	return nil
}

func (p *AccountProvisioner) provision(ctx context.Context, username, email, fullName string, role models.UserRole, resource, resourceID, actorID string) (*ProvisionedAccount, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "cannot derive username for account")
	}

	available, err := p.uniqueUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	password, err := generatePassword(generatedPasswordLength)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{
		Username:     available,
		Email:        strings.ToLower(email),
		PasswordHash: string(hash),
		FullName:     fullName,
		Role:         role,
		Active:       true,
	}
	if err := p.repo.Create(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create account")
	}

	payload, _ := json.Marshal(map[string]interface{}{"username": user.Username, "role": user.Role})
	if err := p.repo.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &actorID,
		Action:     models.AuditActionAccountProvision,
		Resource:   resource,
		ResourceID: &resourceID,
		NewValues:  payload,
	}); err != nil {
		p.logger.Warn("failed to record provisioning audit log", zap.Error(err))
	}

	p.logger.Info("account provisioned",
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)))

	return &ProvisionedAccount{UserID: user.ID, Username: user.Username, Password: password}, nil
}

// uniqueUsername returns the base username, or appends a numeric suffix
// when the base is already taken.
func (p *AccountProvisioner) uniqueUsername(ctx context.Context, base string) (string, error) {
	candidate := base
	for i := 0; i < 10; i++ {
		_, err := p.repo.FindByUsername(ctx, candidate)
		if errors.Is(err, sql.ErrNoRows) {
			return candidate, nil
		}
		if err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check username")
		}
		candidate = fmt.Sprintf("%s%d", base, i+1)
	}
	return "", appErrors.Clone(appErrors.ErrConflict, "could not allocate a unique username")
}

func generatePassword(length int) (string, error) {
	out := make([]byte, length)
	max := big.NewInt(int64(len(passwordAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = passwordAlphabet[n.Int64()]
	}
	return string(out), nil
}
