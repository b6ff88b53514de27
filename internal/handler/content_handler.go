package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-portal-api/internal/middleware"
	"github.com/noah-isme/school-portal-api/internal/service"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
	"github.com/noah-isme/school-portal-api/pkg/response"
)

// ContentHandler serves the marketing-site content: the public home
// aggregate plus the admin CRUD behind it.
type ContentHandler struct {
	content *service.ContentService
}

// NewContentHandler constructs a new ContentHandler.
func NewContentHandler(content *service.ContentService) *ContentHandler {
	return &ContentHandler{content: content}
}

// Home godoc
// @Summary Public home page content
// @Description Aggregated branding, carousel, facilities, about, classes, team, testimonials and footer in a single payload. Served from cache.
// @Tags Content
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /content/home [get]
func (h *ContentHandler) Home(c *gin.Context) {
	home, cached, err := h.content.Home(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cached)
	response.JSON(c, http.StatusOK, home, nil, middleware.ExtractMeta(c))
}

// UpsertBranding godoc
// @Summary Upsert site branding
// @Tags Content
// @Accept json
// @Produce json
// @Param payload body service.UpsertBrandingRequest true "Branding payload"
// @Success 200 {object} response.Envelope
// @Router /content/branding [put]
func (h *ContentHandler) UpsertBranding(c *gin.Context) {
	var req service.UpsertBrandingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid branding payload"))
		return
	}
	branding, err := h.content.UpsertBranding(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, branding, nil)
}

// CreateCarouselItem godoc
// @Summary Create carousel item
// @Tags Content
// @Accept json
// @Produce json
// @Param payload body service.UpsertCarouselItemRequest true "Carousel payload"
// @Success 201 {object} response.Envelope
// @Router /content/carousel [post]
func (h *ContentHandler) CreateCarouselItem(c *gin.Context) {
	var req service.UpsertCarouselItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid carousel payload"))
		return
	}
	item, err := h.content.CreateCarouselItem(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// UpdateCarouselItem godoc
// @Summary Update carousel item
// @Tags Content
// @Accept json
// @Produce json
// @Param id path string true "Carousel item ID"
// @Param payload body service.UpsertCarouselItemRequest true "Carousel payload"
// @Success 200 {object} response.Envelope
// @Router /content/carousel/{id} [put]
func (h *ContentHandler) UpdateCarouselItem(c *gin.Context) {
	var req service.UpsertCarouselItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid carousel payload"))
		return
	}
	item, err := h.content.UpdateCarouselItem(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// DeleteCarouselItem godoc
// @Summary Delete carousel item
// @Tags Content
// @Param id path string true "Carousel item ID"
// @Success 204
// @Router /content/carousel/{id} [delete]
func (h *ContentHandler) DeleteCarouselItem(c *gin.Context) {
	if err := h.content.DeleteCarouselItem(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// CreateFacility godoc
// @Summary Create facility
// @Description Facility descriptions are capped at 15 words to keep the home page cards uniform.
// @Tags Content
// @Accept json
// @Produce json
// @Param payload body service.UpsertFacilityRequest true "Facility payload"
// @Success 201 {object} response.Envelope
// @Router /content/facilities [post]
func (h *ContentHandler) CreateFacility(c *gin.Context) {
	var req service.UpsertFacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid facility payload"))
		return
	}
	facility, err := h.content.CreateFacility(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, facility)
}

// UpdateFacility godoc
// @Summary Update facility
// @Tags Content
// @Accept json
// @Produce json
// @Param id path string true "Facility ID"
// @Param payload body service.UpsertFacilityRequest true "Facility payload"
// @Success 200 {object} response.Envelope
// @Router /content/facilities/{id} [put]
func (h *ContentHandler) UpdateFacility(c *gin.Context) {
	var req service.UpsertFacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid facility payload"))
		return
	}
	facility, err := h.content.UpdateFacility(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, facility, nil)
}

// DeleteFacility godoc
// @Summary Delete facility
// @Tags Content
// @Param id path string true "Facility ID"
// @Success 204
// @Router /content/facilities/{id} [delete]
func (h *ContentHandler) DeleteFacility(c *gin.Context) {
	if err := h.content.DeleteFacility(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// UpsertAbout godoc
// @Summary Upsert about-us section
// @Tags Content
// @Accept json
// @Produce json
// @Param payload body service.UpsertAboutRequest true "About payload"
// @Success 200 {object} response.Envelope
// @Router /content/about [put]
func (h *ContentHandler) UpsertAbout(c *gin.Context) {
	var req service.UpsertAboutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid about payload"))
		return
	}
	about, err := h.content.UpsertAbout(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, about, nil)
}

// UpsertCallToAction godoc
// @Summary Upsert call-to-action section
// @Tags Content
// @Accept json
// @Produce json
// @Param payload body service.UpsertCallToActionRequest true "Call-to-action payload"
// @Success 200 {object} response.Envelope
// @Router /content/call-to-action [put]
func (h *ContentHandler) UpsertCallToAction(c *gin.Context) {
	var req service.UpsertCallToActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid call-to-action payload"))
		return
	}
	cta, err := h.content.UpsertCallToAction(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cta, nil)
}

// CreateTeamMember godoc
// @Summary Create team member
// @Tags Content
// @Accept json
// @Produce json
// @Param payload body service.UpsertTeamMemberRequest true "Team member payload"
// @Success 201 {object} response.Envelope
// @Router /content/team [post]
func (h *ContentHandler) CreateTeamMember(c *gin.Context) {
	var req service.UpsertTeamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid team member payload"))
		return
	}
	member, err := h.content.CreateTeamMember(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, member)
}

// UpdateTeamMember godoc
// @Summary Update team member
// @Tags Content
// @Accept json
// @Produce json
// @Param id path string true "Team member ID"
// @Param payload body service.UpsertTeamMemberRequest true "Team member payload"
// @Success 200 {object} response.Envelope
// @Router /content/team/{id} [put]
func (h *ContentHandler) UpdateTeamMember(c *gin.Context) {
	var req service.UpsertTeamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid team member payload"))
		return
	}
	member, err := h.content.UpdateTeamMember(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, member, nil)
}

// DeleteTeamMember godoc
// @Summary Delete team member
// @Tags Content
// @Param id path string true "Team member ID"
// @Success 204
// @Router /content/team/{id} [delete]
func (h *ContentHandler) DeleteTeamMember(c *gin.Context) {
	if err := h.content.DeleteTeamMember(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// CreateTestimonial godoc
// @Summary Create testimonial
// @Description Testimonial messages are capped at 40 words.
// @Tags Content
// @Accept json
// @Produce json
// @Param payload body service.UpsertTestimonialRequest true "Testimonial payload"
// @Success 201 {object} response.Envelope
// @Router /content/testimonials [post]
func (h *ContentHandler) CreateTestimonial(c *gin.Context) {
	var req service.UpsertTestimonialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid testimonial payload"))
		return
	}
	testimonial, err := h.content.CreateTestimonial(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, testimonial)
}

// UpdateTestimonial godoc
// @Summary Update testimonial
// @Tags Content
// @Accept json
// @Produce json
// @Param id path string true "Testimonial ID"
// @Param payload body service.UpsertTestimonialRequest true "Testimonial payload"
// @Success 200 {object} response.Envelope
// @Router /content/testimonials/{id} [put]
func (h *ContentHandler) UpdateTestimonial(c *gin.Context) {
	var req service.UpsertTestimonialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid testimonial payload"))
		return
	}
	testimonial, err := h.content.UpdateTestimonial(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, testimonial, nil)
}

// DeleteTestimonial godoc
// @Summary Delete testimonial
// @Tags Content
// @Param id path string true "Testimonial ID"
// @Success 204
// @Router /content/testimonials/{id} [delete]
func (h *ContentHandler) DeleteTestimonial(c *gin.Context) {
	if err := h.content.DeleteTestimonial(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// UpsertFooterLink godoc
// @Summary Upsert footer social link
// @Description Footer links are keyed by platform name; posting an existing name updates its URL.
// @Tags Content
// @Accept json
// @Produce json
// @Param payload body service.UpsertFooterLinkRequest true "Footer link payload"
// @Success 200 {object} response.Envelope
// @Router /content/footer-links [put]
func (h *ContentHandler) UpsertFooterLink(c *gin.Context) {
	var req service.UpsertFooterLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid footer link payload"))
		return
	}
	link, err := h.content.UpsertFooterLink(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, link, nil)
}

// DeleteFooterLink godoc
// @Summary Delete footer social link
// @Tags Content
// @Param id path string true "Footer link ID"
// @Success 204
// @Router /content/footer-links/{id} [delete]
func (h *ContentHandler) DeleteFooterLink(c *gin.Context) {
	if err := h.content.DeleteFooterLink(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// SubscribeNewsletter godoc
// @Summary Subscribe to the newsletter
// @Description Public endpoint. Subscribing an already-registered email is a no-op.
// @Tags Content
// @Accept json
// @Success 204
// @Param payload body service.SubscribeNewsletterRequest true "Subscription payload"
// @Router /content/newsletter [post]
func (h *ContentHandler) SubscribeNewsletter(c *gin.Context) {
	var req service.SubscribeNewsletterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid subscription payload"))
		return
	}
	if err := h.content.SubscribeNewsletter(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListNewsletterSubscriptions godoc
// @Summary List newsletter subscriptions
// @Tags Content
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /content/newsletter [get]
func (h *ContentHandler) ListNewsletterSubscriptions(c *gin.Context) {
	subscriptions, err := h.content.ListNewsletterSubscriptions(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subscriptions, nil)
}

// CreateAppointment godoc
// @Summary Book a school visit appointment
// @Description Public endpoint used by the marketing site's booking form.
// @Tags Content
// @Accept json
// @Produce json
// @Param payload body service.CreateAppointmentRequest true "Appointment payload"
// @Success 201 {object} response.Envelope
// @Router /content/appointments [post]
func (h *ContentHandler) CreateAppointment(c *gin.Context) {
	var req service.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid appointment payload"))
		return
	}
	appointment, err := h.content.CreateAppointment(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, appointment)
}

// ListAppointments godoc
// @Summary List appointments
// @Tags Content
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /content/appointments [get]
func (h *ContentHandler) ListAppointments(c *gin.Context) {
	appointments, err := h.content.ListAppointments(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, appointments, nil)
}
