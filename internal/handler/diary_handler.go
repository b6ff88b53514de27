package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/internal/service"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
	"github.com/noah-isme/school-portal-api/pkg/response"
)

// DiaryHandler wires the student diary service to HTTP routes.
type DiaryHandler struct {
	diary *service.DiaryService
}

// NewDiaryHandler constructs a new DiaryHandler.
func NewDiaryHandler(diary *service.DiaryService) *DiaryHandler {
	return &DiaryHandler{diary: diary}
}

// List godoc
// @Summary List diary entries
// @Tags Diary
// @Produce json
// @Param studentId query string false "Filter by student"
// @Param teacherId query string false "Filter by teacher"
// @Param classId query string false "Filter by class"
// @Param from query string false "Date from (YYYY-MM-DD)"
// @Param to query string false "Date to (YYYY-MM-DD)"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /diary [get]
func (h *DiaryHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	filter := models.StudentDiaryFilter{
		StudentID: c.Query("studentId"),
		TeacherID: c.Query("teacherId"),
		ClassID:   c.Query("classId"),
	}
	var err error
	if filter.DateFrom, err = dateQuery(c, "from"); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	if filter.DateTo, err = dateQuery(c, "to"); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	entries, total, err := h.diary.List(c.Request.Context(), claims, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	response.JSON(c, http.StatusOK, entries, pagination)
}

// Create godoc
// @Summary Create diary entry
// @Description Teachers write per-student diary notes; admins may write on behalf of the school.
// @Tags Diary
// @Accept json
// @Produce json
// @Param payload body service.CreateDiaryEntryRequest true "Diary payload"
// @Success 201 {object} response.Envelope
// @Router /diary [post]
func (h *DiaryHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.CreateDiaryEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid diary payload"))
		return
	}
	entry, err := h.diary.Create(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// Update godoc
// @Summary Update diary entry
// @Tags Diary
// @Accept json
// @Produce json
// @Param id path string true "Diary ID"
// @Param payload body service.UpdateDiaryEntryRequest true "Diary payload"
// @Success 200 {object} response.Envelope
// @Router /diary/{id} [put]
func (h *DiaryHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.UpdateDiaryEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid diary payload"))
		return
	}
	entry, err := h.diary.Update(c.Request.Context(), claims, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// Delete godoc
// @Summary Delete diary entry
// @Tags Diary
// @Param id path string true "Diary ID"
// @Success 204
// @Router /diary/{id} [delete]
func (h *DiaryHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.diary.Delete(c.Request.Context(), claims, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
