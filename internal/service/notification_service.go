package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

type notificationRepository interface {
	List(ctx context.Context, page, pageSize int) ([]models.Notification, int, error)
	Create(ctx context.Context, n *models.Notification) error
	MarkRead(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	UpsertToken(ctx context.Context, token string) error
	ListTokens(ctx context.Context) ([]string, error)
	DeleteToken(ctx context.Context, token string) error
}

type pushSender interface {
	Send(ctx context.Context, token, title, body string) error
}

// CreateNotificationRequest broadcasts a message to every registered
// device.
type CreateNotificationRequest struct {
	Title   string `json:"title" validate:"required,min=2,max=200"`
	Message string `json:"message" validate:"required,min=2,max=2000"`
}

// RegisterTokenRequest registers a device's Expo push token.
type RegisterTokenRequest struct {
	Token string `json:"token" validate:"required,min=10,max=200"`
}

// NotificationService stores broadcast notifications and fans them out to
// registered push tokens. Delivery is best-effort: the notification row is
// the record, push failures are logged and swallowed.
type NotificationService struct {
	repo      notificationRepository
	push      pushSender
	validator *validator.Validate
	logger    *zap.Logger
}

// NewNotificationService constructs a NotificationService. A nil push
// sender disables fan-out without disabling the notification log.
func NewNotificationService(repo notificationRepository, push pushSender, validate *validator.Validate, logger *zap.Logger) *NotificationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{repo: repo, push: push, validator: validate, logger: logger}
}

// List returns notifications, newest first.
func (s *NotificationService) List(ctx context.Context, page, pageSize int) ([]models.Notification, int, error) {
	rows, total, err := s.repo.List(ctx, page, pageSize)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notifications")
	}
	return rows, total, nil
}

// Create stores the notification and pushes it to every registered token.
func (s *NotificationService) Create(ctx context.Context, req CreateNotificationRequest) (*models.Notification, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid notification payload")
	}

	notification := &models.Notification{
		Title:   strings.TrimSpace(req.Title),
		Message: strings.TrimSpace(req.Message),
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create notification")
	}

	s.fanOut(ctx, notification)
	return notification, nil
}

// MarkRead flags a notification as read.
func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	if err := s.repo.MarkRead(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark notification read")
	}
	return nil
}

// Delete removes a notification.
func (s *NotificationService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete notification")
	}
	return nil
}

// RegisterToken stores a device token idempotently.
func (s *NotificationService) RegisterToken(ctx context.Context, req RegisterTokenRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid token payload")
	}
	if err := s.repo.UpsertToken(ctx, strings.TrimSpace(req.Token)); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to register push token")
	}
	return nil
}

// UnregisterToken removes a device token.
func (s *NotificationService) UnregisterToken(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return appErrors.Clone(appErrors.ErrValidation, "token required")
	}
	if err := s.repo.DeleteToken(ctx, token); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove push token")
	}
	return nil
}

// fanOut pushes to every registered token. Failures never surface to the
// caller; the stored notification is already the source of truth.
func (s *NotificationService) fanOut(ctx context.Context, n *models.Notification) {
	if s.push == nil {
		return
	}
	tokens, err := s.repo.ListTokens(ctx)
	if err != nil {
		s.logger.Warn("failed to list push tokens", zap.Error(err))
		return
	}

	delivered := 0
	for _, token := range tokens {
		if err := s.push.Send(ctx, token, n.Title, n.Message); err != nil {
			s.logger.Warn("push delivery failed",
				zap.String("notification_id", n.ID),
				zap.Error(err))
			continue
		}
		delivered++
	}
	s.logger.Info("notification pushed",
		zap.String("notification_id", n.ID),
		zap.Int("tokens", len(tokens)),
		zap.Int("delivered", delivered))
}
