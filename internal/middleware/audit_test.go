package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/internal/repository"
)

func newAuditTestRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	repo := repository.NewUserRepository(sqlx.NewDb(db, "sqlmock"))

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(ContextUserKey, &models.JWTClaims{UserID: "u1", Role: models.RoleAdmin})
	})
	group := r.Group("/content", Audit(repo, models.AuditActionContentChange, "content"))
	group.POST("/testimonials", func(c *gin.Context) { c.Status(http.StatusCreated) })
	group.GET("/appointments", func(c *gin.Context) { c.Status(http.StatusOK) })
	group.POST("/fail", func(c *gin.Context) { c.Status(http.StatusBadRequest) })

	return r, mock, func() { db.Close() }
}

func TestAuditLogsSuccessfulMutation(t *testing.T) {
	r, mock, cleanup := newAuditTestRouter(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO audit_logs").
		WithArgs(sqlmock.AnyArg(), "u1", models.AuditActionContentChange, "content", nil, nil, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/content/testimonials", nil))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditSkipsReadsAndFailures(t *testing.T) {
	r, mock, cleanup := newAuditTestRouter(t)
	defer cleanup()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/content/appointments", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/content/fail", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// No INSERT expectations were registered; any write would fail here.
	assert.NoError(t, mock.ExpectationsWereMet())
}
