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

// HomeworkHandler wires the homework service to HTTP routes. Teachers may
// only touch their own homework; the policy resolves ownership from claims.
type HomeworkHandler struct {
	homework *service.HomeworkService
	policy   *service.AccessPolicy
}

// NewHomeworkHandler constructs a new HomeworkHandler.
func NewHomeworkHandler(homework *service.HomeworkService, policy *service.AccessPolicy) *HomeworkHandler {
	return &HomeworkHandler{homework: homework, policy: policy}
}

// List godoc
// @Summary List homework
// @Tags Homework
// @Produce json
// @Param subjectId query string false "Filter by subject"
// @Param teacherId query string false "Filter by teacher"
// @Param classId query string false "Filter by class"
// @Param from query string false "Assigned from (YYYY-MM-DD)"
// @Param to query string false "Assigned to (YYYY-MM-DD)"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /homework [get]
func (h *HomeworkHandler) List(c *gin.Context) {
	filter := models.HomeworkFilter{
		SubjectID: c.Query("subjectId"),
		TeacherID: c.Query("teacherId"),
		ClassID:   c.Query("classId"),
		SortBy:    c.Query("sort"),
		SortOrder: c.Query("order"),
	}
	var err error
	if filter.AssignedFrom, err = dateQuery(c, "from"); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	if filter.AssignedTo, err = dateQuery(c, "to"); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	homework, pagination, err := h.homework.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, homework, pagination)
}

// Get godoc
// @Summary Get homework detail
// @Tags Homework
// @Produce json
// @Param id path string true "Homework ID"
// @Success 200 {object} response.Envelope
// @Router /homework/{id} [get]
func (h *HomeworkHandler) Get(c *gin.Context) {
	hw, err := h.homework.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, hw, nil)
}

// Create godoc
// @Summary Create homework
// @Description Teachers create homework for subjects they are experts in; one homework per subject per day.
// @Tags Homework
// @Accept json
// @Produce json
// @Param payload body service.CreateHomeworkRequest true "Homework payload"
// @Success 201 {object} response.Envelope
// @Router /homework [post]
func (h *HomeworkHandler) Create(c *gin.Context) {
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

	var req service.CreateHomeworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid homework payload"))
		return
	}
	hw, err := h.homework.Create(c.Request.Context(), teacher.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, hw)
}

// Update godoc
// @Summary Update homework
// @Tags Homework
// @Accept json
// @Produce json
// @Param id path string true "Homework ID"
// @Param payload body service.UpdateHomeworkRequest true "Homework payload"
// @Success 200 {object} response.Envelope
// @Router /homework/{id} [put]
func (h *HomeworkHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	existing, err := h.homework.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.policy.CanManageTeacherContent(c.Request.Context(), claims, existing.TeacherID); err != nil {
		response.Error(c, err)
		return
	}

	var req service.UpdateHomeworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid homework payload"))
		return
	}
	hw, err := h.homework.Update(c.Request.Context(), existing.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, hw, nil)
}

// Delete godoc
// @Summary Delete homework
// @Tags Homework
// @Param id path string true "Homework ID"
// @Success 204
// @Router /homework/{id} [delete]
func (h *HomeworkHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	existing, err := h.homework.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.policy.CanManageTeacherContent(c.Request.Context(), claims, existing.TeacherID); err != nil {
		response.Error(c, err)
		return
	}
	if err := h.homework.Delete(c.Request.Context(), existing.ID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
