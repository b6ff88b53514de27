package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/internal/service"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
	"github.com/noah-isme/school-portal-api/pkg/response"
)

// SyllabusHandler wires the syllabus service to HTTP routes. Like homework,
// syllabus entries belong to the teacher who created them.
type SyllabusHandler struct {
	syllabus *service.SyllabusService
	policy   *service.AccessPolicy
}

// NewSyllabusHandler constructs a new SyllabusHandler.
func NewSyllabusHandler(syllabus *service.SyllabusService, policy *service.AccessPolicy) *SyllabusHandler {
	return &SyllabusHandler{syllabus: syllabus, policy: policy}
}

// List godoc
// @Summary List syllabus entries
// @Tags Syllabus
// @Produce json
// @Param subjectId query string false "Filter by subject"
// @Param teacherId query string false "Filter by teacher"
// @Param classId query string false "Filter by class"
// @Param search query string false "Search by title"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /syllabus [get]
func (h *SyllabusHandler) List(c *gin.Context) {
	filter := models.SyllabusFilter{
		SubjectID: c.Query("subjectId"),
		TeacherID: c.Query("teacherId"),
		ClassID:   c.Query("classId"),
		Search:    strings.TrimSpace(c.Query("search")),
		SortBy:    c.Query("sort"),
		SortOrder: c.Query("order"),
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	entries, pagination, err := h.syllabus.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, pagination)
}

// Get godoc
// @Summary Get syllabus entry
// @Tags Syllabus
// @Produce json
// @Param id path string true "Syllabus ID"
// @Success 200 {object} response.Envelope
// @Router /syllabus/{id} [get]
func (h *SyllabusHandler) Get(c *gin.Context) {
	entry, err := h.syllabus.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// Create godoc
// @Summary Create syllabus entry
// @Description Teachers publish syllabus material for subjects they are experts in.
// @Tags Syllabus
// @Accept json
// @Produce json
// @Param payload body service.CreateSyllabusRequest true "Syllabus payload"
// @Success 201 {object} response.Envelope
// @Router /syllabus [post]
func (h *SyllabusHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	teacher, err := h.policy.TeacherForUser(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req service.CreateSyllabusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid syllabus payload"))
		return
	}
	entry, err := h.syllabus.Create(c.Request.Context(), teacher.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// Update godoc
// @Summary Update syllabus entry
// @Tags Syllabus
// @Accept json
// @Produce json
// @Param id path string true "Syllabus ID"
// @Param payload body service.UpdateSyllabusRequest true "Syllabus payload"
// @Success 200 {object} response.Envelope
// @Router /syllabus/{id} [put]
func (h *SyllabusHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	existing, err := h.syllabus.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.policy.CanManageTeacherContent(c.Request.Context(), claims, existing.TeacherID); err != nil {
		response.Error(c, err)
		return
	}

	var req service.UpdateSyllabusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid syllabus payload"))
		return
	}
	entry, err := h.syllabus.Update(c.Request.Context(), existing.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// Delete godoc
// @Summary Delete syllabus entry
// @Tags Syllabus
// @Param id path string true "Syllabus ID"
// @Success 204
// @Router /syllabus/{id} [delete]
func (h *SyllabusHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	existing, err := h.syllabus.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.policy.CanManageTeacherContent(c.Request.Context(), claims, existing.TeacherID); err != nil {
		response.Error(c, err)
		return
	}
	if err := h.syllabus.Delete(c.Request.Context(), existing.ID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
