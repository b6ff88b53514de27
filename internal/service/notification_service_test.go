package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
	"github.com/noah-isme/school-portal-api/pkg/push"
)

type mockNotificationRepo struct {
	tokens  []string
	created *models.Notification
	deleted []string
	upserts []string
	read    []string
}

func (m *mockNotificationRepo) List(ctx context.Context, page, pageSize int) ([]models.Notification, int, error) {
	return nil, 0, nil
}

func (m *mockNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	n.ID = "n-new"
	m.created = n
	return nil
}

func (m *mockNotificationRepo) MarkRead(ctx context.Context, id string) error {
	m.read = append(m.read, id)
	return nil
}

func (m *mockNotificationRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockNotificationRepo) UpsertToken(ctx context.Context, token string) error {
	m.upserts = append(m.upserts, token)
	return nil
}

func (m *mockNotificationRepo) ListTokens(ctx context.Context) ([]string, error) {
	return m.tokens, nil
}

func (m *mockNotificationRepo) DeleteToken(ctx context.Context, token string) error {
	return nil
}

func TestNotificationFanOutDeliversToAllTokens(t *testing.T) {
	var received []push.Message
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var msg push.Message
		require.NoError(t, json.Unmarshal(body, &msg))
		received = append(received, msg)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	repo := &mockNotificationRepo{tokens: []string{"ExponentPushToken[aaa]", "ExponentPushToken[bbb]"}}
	svc := NewNotificationService(repo, push.NewClient(server.URL, time.Second), validator.New(), zap.NewNop())

	notification, err := svc.Create(context.Background(), CreateNotificationRequest{
		Title:   "Sports day",
		Message: "School closes at noon on Friday",
	})
	require.NoError(t, err)
	assert.Equal(t, "Sports day", notification.Title)

	require.Len(t, received, 2)
	assert.Equal(t, "ExponentPushToken[aaa]", received[0].To)
	assert.Equal(t, "Sports day", received[0].Title)
	assert.Equal(t, "high", received[0].Priority)
}

func TestNotificationCreateSurvivesPushFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	repo := &mockNotificationRepo{tokens: []string{"ExponentPushToken[aaa]"}}
	svc := NewNotificationService(repo, push.NewClient(server.URL, time.Second), validator.New(), zap.NewNop())

	notification, err := svc.Create(context.Background(), CreateNotificationRequest{
		Title:   "Sports day",
		Message: "School closes at noon on Friday",
	})
	require.NoError(t, err, "push failure must not fail the broadcast")
	require.NotNil(t, repo.created)
	assert.Equal(t, notification.ID, repo.created.ID)
}

func TestNotificationCreateWithoutPushSender(t *testing.T) {
	repo := &mockNotificationRepo{tokens: []string{"ExponentPushToken[aaa]"}}
	svc := NewNotificationService(repo, nil, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateNotificationRequest{
		Title:   "Sports day",
		Message: "School closes at noon on Friday",
	})
	require.NoError(t, err)
}

func TestRegisterTokenTrimsInput(t *testing.T) {
	repo := &mockNotificationRepo{}
	svc := NewNotificationService(repo, nil, validator.New(), zap.NewNop())

	err := svc.RegisterToken(context.Background(), RegisterTokenRequest{Token: " ExponentPushToken[aaa] "})
	require.NoError(t, err)
	require.Len(t, repo.upserts, 1)
	assert.Equal(t, "ExponentPushToken[aaa]", repo.upserts[0])
}

func TestUnregisterTokenEmptyRejected(t *testing.T) {
	svc := NewNotificationService(&mockNotificationRepo{}, nil, validator.New(), zap.NewNop())

	err := svc.UnregisterToken(context.Background(), "   ")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
