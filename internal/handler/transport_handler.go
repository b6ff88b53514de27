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

// TransportHandler wires the transport fleet endpoints: vehicles, drivers,
// routes, student assignments and daily meter readings.
type TransportHandler struct {
	transport *service.TransportService
}

// NewTransportHandler constructs a new TransportHandler.
func NewTransportHandler(transport *service.TransportService) *TransportHandler {
	return &TransportHandler{transport: transport}
}

// ListVehicles godoc
// @Summary List vehicles
// @Tags Transport
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /transport/vehicles [get]
func (h *TransportHandler) ListVehicles(c *gin.Context) {
	vehicles, err := h.transport.ListVehicles(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, vehicles, nil)
}

// CreateVehicle godoc
// @Summary Create vehicle
// @Tags Transport
// @Accept json
// @Produce json
// @Param payload body service.CreateVehicleRequest true "Vehicle payload"
// @Success 201 {object} response.Envelope
// @Router /transport/vehicles [post]
func (h *TransportHandler) CreateVehicle(c *gin.Context) {
	var req service.CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid vehicle payload"))
		return
	}
	vehicle, err := h.transport.CreateVehicle(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, vehicle)
}

// UpdateVehicle godoc
// @Summary Update vehicle
// @Tags Transport
// @Accept json
// @Produce json
// @Param id path string true "Vehicle ID"
// @Param payload body service.CreateVehicleRequest true "Vehicle payload"
// @Success 200 {object} response.Envelope
// @Router /transport/vehicles/{id} [put]
func (h *TransportHandler) UpdateVehicle(c *gin.Context) {
	var req service.CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid vehicle payload"))
		return
	}
	vehicle, err := h.transport.UpdateVehicle(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, vehicle, nil)
}

// DeleteVehicle godoc
// @Summary Delete vehicle
// @Tags Transport
// @Param id path string true "Vehicle ID"
// @Success 204
// @Router /transport/vehicles/{id} [delete]
func (h *TransportHandler) DeleteVehicle(c *gin.Context) {
	if err := h.transport.DeleteVehicle(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListDrivers godoc
// @Summary List drivers
// @Tags Transport
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /transport/drivers [get]
func (h *TransportHandler) ListDrivers(c *gin.Context) {
	drivers, err := h.transport.ListDrivers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, drivers, nil)
}

// CreateDriver godoc
// @Summary Create driver
// @Description Creates the driver record together with a login account; the generated credentials are returned once.
// @Tags Transport
// @Accept json
// @Produce json
// @Param payload body service.CreateDriverRequest true "Driver payload"
// @Success 201 {object} response.Envelope
// @Router /transport/drivers [post]
func (h *TransportHandler) CreateDriver(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.CreateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid driver payload"))
		return
	}
	result, err := h.transport.CreateDriver(c.Request.Context(), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// UpdateDriver godoc
// @Summary Update driver
// @Tags Transport
// @Accept json
// @Produce json
// @Param id path string true "Driver ID"
// @Param payload body service.CreateDriverRequest true "Driver payload"
// @Success 200 {object} response.Envelope
// @Router /transport/drivers/{id} [put]
func (h *TransportHandler) UpdateDriver(c *gin.Context) {
	var req service.CreateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid driver payload"))
		return
	}
	driver, err := h.transport.UpdateDriver(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, driver, nil)
}

// DeleteDriver godoc
// @Summary Delete driver
// @Tags Transport
// @Param id path string true "Driver ID"
// @Success 204
// @Router /transport/drivers/{id} [delete]
func (h *TransportHandler) DeleteDriver(c *gin.Context) {
	if err := h.transport.DeleteDriver(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListRoutes godoc
// @Summary List routes
// @Tags Transport
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /transport/routes [get]
func (h *TransportHandler) ListRoutes(c *gin.Context) {
	routes, err := h.transport.ListRoutes(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, routes, nil)
}

// CreateRoute godoc
// @Summary Create route
// @Tags Transport
// @Accept json
// @Produce json
// @Param payload body service.CreateRouteRequest true "Route payload"
// @Success 201 {object} response.Envelope
// @Router /transport/routes [post]
func (h *TransportHandler) CreateRoute(c *gin.Context) {
	var req service.CreateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid route payload"))
		return
	}
	route, err := h.transport.CreateRoute(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, route)
}

// UpdateRoute godoc
// @Summary Update route
// @Tags Transport
// @Accept json
// @Produce json
// @Param id path string true "Route ID"
// @Param payload body service.CreateRouteRequest true "Route payload"
// @Success 200 {object} response.Envelope
// @Router /transport/routes/{id} [put]
func (h *TransportHandler) UpdateRoute(c *gin.Context) {
	var req service.CreateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid route payload"))
		return
	}
	route, err := h.transport.UpdateRoute(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, route, nil)
}

// DeleteRoute godoc
// @Summary Delete route
// @Tags Transport
// @Param id path string true "Route ID"
// @Success 204
// @Router /transport/routes/{id} [delete]
func (h *TransportHandler) DeleteRoute(c *gin.Context) {
	if err := h.transport.DeleteRoute(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListAssignments godoc
// @Summary List student transport assignments
// @Tags Transport
// @Produce json
// @Param classId query string false "Filter by class"
// @Param vehicleId query string false "Filter by vehicle"
// @Param routeId query string false "Filter by route"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /transport/assignments [get]
func (h *TransportHandler) ListAssignments(c *gin.Context) {
	filter := models.TransportAssignmentFilter{
		ClassID:   c.Query("classId"),
		VehicleID: c.Query("vehicleId"),
		RouteID:   c.Query("routeId"),
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	assignments, total, err := h.transport.ListAssignments(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	response.JSON(c, http.StatusOK, assignments, pagination)
}

// CreateAssignment godoc
// @Summary Assign a student to transport
// @Tags Transport
// @Accept json
// @Produce json
// @Param payload body service.CreateAssignmentRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Router /transport/assignments [post]
func (h *TransportHandler) CreateAssignment(c *gin.Context) {
	var req service.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignment payload"))
		return
	}
	assignment, err := h.transport.CreateAssignment(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment)
}

// DeleteAssignment godoc
// @Summary Remove a student transport assignment
// @Tags Transport
// @Param id path string true "Assignment ID"
// @Success 204
// @Router /transport/assignments/{id} [delete]
func (h *TransportHandler) DeleteAssignment(c *gin.Context) {
	if err := h.transport.DeleteAssignment(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// RecordMeterReading godoc
// @Summary Record a daily meter reading
// @Description Drivers record today's odometer start/end for their vehicle; admins may backfill any date.
// @Tags Transport
// @Accept json
// @Produce json
// @Param payload body service.RecordMeterReadingRequest true "Meter reading payload"
// @Success 200 {object} response.Envelope
// @Router /transport/meter-readings [post]
func (h *TransportHandler) RecordMeterReading(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.RecordMeterReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid meter reading payload"))
		return
	}
	reading, err := h.transport.RecordMeterReading(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reading, nil)
}

// ListMeterReadings godoc
// @Summary List meter readings for a vehicle
// @Tags Transport
// @Produce json
// @Param id path string true "Vehicle ID"
// @Param from query string true "Date from (YYYY-MM-DD)"
// @Param to query string true "Date to (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /transport/vehicles/{id}/meter-readings [get]
func (h *TransportHandler) ListMeterReadings(c *gin.Context) {
	from, err := dateQuery(c, "from")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	to, err := dateQuery(c, "to")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	if from == nil || to == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "from and to are required"))
		return
	}

	readings, err := h.transport.ListMeterReadings(c.Request.Context(), c.Param("id"), *from, *to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, readings, nil)
}
