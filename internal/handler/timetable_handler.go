package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/internal/service"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
	"github.com/noah-isme/school-portal-api/pkg/response"
)

// TimetableHandler exposes the weekly timetable plus the batch generator.
type TimetableHandler struct {
	timetables *service.TimetableService
	generator  *service.TimetableGeneratorService
}

// NewTimetableHandler constructs a new TimetableHandler.
func NewTimetableHandler(timetables *service.TimetableService, generator *service.TimetableGeneratorService) *TimetableHandler {
	return &TimetableHandler{timetables: timetables, generator: generator}
}

// List godoc
// @Summary List timetable entries
// @Tags Timetable
// @Produce json
// @Param classId query string false "Filter by class"
// @Param teacherId query string false "Filter by teacher"
// @Param day query string false "Filter by day (Monday...Saturday)"
// @Success 200 {object} response.Envelope
// @Router /timetable [get]
func (h *TimetableHandler) List(c *gin.Context) {
	filter := models.TimetableFilter{
		ClassID:   c.Query("classId"),
		TeacherID: c.Query("teacherId"),
		Day:       c.Query("day"),
	}
	entries, err := h.timetables.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// Create godoc
// @Summary Create timetable entry
// @Description Adds a single period manually, outside the generator.
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body service.CreateTimetableEntryRequest true "Entry payload"
// @Success 201 {object} response.Envelope
// @Router /timetable [post]
func (h *TimetableHandler) Create(c *gin.Context) {
	var req service.CreateTimetableEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid timetable payload"))
		return
	}
	entry, err := h.timetables.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// Delete godoc
// @Summary Delete timetable entry
// @Tags Timetable
// @Param id path string true "Entry ID"
// @Success 204
// @Router /timetable/{id} [delete]
func (h *TimetableHandler) Delete(c *gin.Context) {
	if err := h.timetables.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Generate godoc
// @Summary Generate weekly timetables
// @Description Regenerates the Monday-Saturday timetable for the requested classes. Existing entries for those classes are replaced.
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body service.GenerateTimetableRequest true "Generation parameters"
// @Success 200 {object} response.Envelope
// @Router /timetable/generate [post]
func (h *TimetableHandler) Generate(c *gin.Context) {
	var req service.GenerateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generation payload"))
		return
	}
	result, err := h.generator.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
