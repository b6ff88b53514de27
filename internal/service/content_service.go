package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

const homeContentCacheKey = "content:home"

// Word caps carried over from the marketing-site forms.
const (
	facilityDescriptionMaxWords = 15
	testimonialMaxWords         = 40
)

type contentRepository interface {
	GetBranding(ctx context.Context) (*models.Branding, error)
	UpsertBranding(ctx context.Context, b *models.Branding) error

	ListCarousel(ctx context.Context) ([]models.CarouselItem, error)
	CreateCarouselItem(ctx context.Context, item *models.CarouselItem) error
	UpdateCarouselItem(ctx context.Context, item *models.CarouselItem) error
	DeleteCarouselItem(ctx context.Context, id string) error

	ListFacilities(ctx context.Context) ([]models.SchoolFacility, error)
	CreateFacility(ctx context.Context, f *models.SchoolFacility) error
	UpdateFacility(ctx context.Context, f *models.SchoolFacility) error
	DeleteFacility(ctx context.Context, id string) error

	GetAbout(ctx context.Context) (*models.AboutUs, error)
	UpsertAbout(ctx context.Context, about *models.AboutUs) error
	GetCallToAction(ctx context.Context) (*models.CallToAction, error)
	UpsertCallToAction(ctx context.Context, cta *models.CallToAction) error

	ListTeam(ctx context.Context) ([]models.TeamMemberDetail, error)
	CreateTeamMember(ctx context.Context, tm *models.TeamMember) error
	UpdateTeamMember(ctx context.Context, tm *models.TeamMember) error
	DeleteTeamMember(ctx context.Context, id string) error

	ListTestimonials(ctx context.Context) ([]models.Testimonial, error)
	CreateTestimonial(ctx context.Context, t *models.Testimonial) error
	UpdateTestimonial(ctx context.Context, t *models.Testimonial) error
	DeleteTestimonial(ctx context.Context, id string) error

	ListFooterLinks(ctx context.Context) ([]models.FooterSocialLink, error)
	UpsertFooterLink(ctx context.Context, link *models.FooterSocialLink) error
	DeleteFooterLink(ctx context.Context, id string) error

	CreateNewsletterSubscription(ctx context.Context, sub *models.NewsletterSubscription) error
	ListNewsletterSubscriptions(ctx context.Context) ([]models.NewsletterSubscription, error)
	CreateAppointment(ctx context.Context, a *models.Appointment) error
	ListAppointments(ctx context.Context) ([]models.Appointment, error)
}

type contentClassRepository interface {
	List(ctx context.Context, filter models.SchoolClassFilter) ([]models.SchoolClassDetail, int, error)
}

type contentCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Invalidate(ctx context.Context, pattern string) error
}

// UpsertBrandingRequest edits the site logo and favicon block.
type UpsertBrandingRequest struct {
	LogoText       string  `json:"logo_text" validate:"required,min=1,max=100"`
	LogoPath       *string `json:"logo_path,omitempty"`
	FaviconPath    *string `json:"favicon_path,omitempty"`
	AppleTouchPath *string `json:"apple_touch_path,omitempty"`
}

// UpsertCarouselItemRequest edits one carousel slide.
type UpsertCarouselItemRequest struct {
	ImagePath   string  `json:"image_path" validate:"required"`
	Heading     string  `json:"heading" validate:"required,min=2,max=200"`
	Description string  `json:"description" validate:"required,min=2,max=500"`
	Link1Text   *string `json:"link1_text,omitempty"`
	Link1URL    *string `json:"link1_url,omitempty" validate:"omitempty,url"`
	Link2Text   *string `json:"link2_text,omitempty"`
	Link2URL    *string `json:"link2_url,omitempty" validate:"omitempty,url"`
	Position    int     `json:"position" validate:"min=0"`
}

// UpsertFacilityRequest edits one facility card.
type UpsertFacilityRequest struct {
	Name            string `json:"name" validate:"required,min=2,max=100"`
	Description     string `json:"description" validate:"required"`
	IconClass       string `json:"icon_class" validate:"required,max=100"`
	BackgroundColor string `json:"background_color" validate:"required,max=30"`
}

// UpsertAboutRequest edits the about section.
type UpsertAboutRequest struct {
	Title             string  `json:"title" validate:"required,min=2,max=200"`
	Content           string  `json:"content" validate:"required"`
	AdditionalContent *string `json:"additional_content,omitempty"`
	CEOName           string  `json:"ceo_name" validate:"required,max=100"`
	CEOTitle          string  `json:"ceo_title" validate:"required,max=100"`
	CEOImagePath      *string `json:"ceo_image_path,omitempty"`
	Image1Path        *string `json:"image1_path,omitempty"`
	Image2Path        *string `json:"image2_path,omitempty"`
	Image3Path        *string `json:"image3_path,omitempty"`
}

// UpsertCallToActionRequest edits the CTA banner.
type UpsertCallToActionRequest struct {
	Title       string  `json:"title" validate:"required,min=2,max=200"`
	Description string  `json:"description" validate:"required,max=500"`
	ImagePath   *string `json:"image_path,omitempty"`
	ButtonText  string  `json:"button_text" validate:"required,max=50"`
	ButtonLink  string  `json:"button_link" validate:"required,max=200"`
}

// UpsertTeamMemberRequest edits a public team card.
type UpsertTeamMemberRequest struct {
	TeacherID    *string `json:"teacher_id,omitempty" validate:"omitempty,uuid"`
	Designation  string  `json:"designation" validate:"required,min=2,max=100"`
	FacebookURL  *string `json:"facebook_url,omitempty" validate:"omitempty,url"`
	TwitterURL   *string `json:"twitter_url,omitempty" validate:"omitempty,url"`
	InstagramURL *string `json:"instagram_url,omitempty" validate:"omitempty,url"`
	ImagePath    *string `json:"image_path,omitempty"`
}

// UpsertTestimonialRequest edits a testimonial quote.
type UpsertTestimonialRequest struct {
	ClientName string  `json:"client_name" validate:"required,min=2,max=100"`
	Profession string  `json:"profession" validate:"required,max=100"`
	Message    string  `json:"message" validate:"required"`
	ImagePath  *string `json:"image_path,omitempty"`
}

// UpsertFooterLinkRequest edits one footer social link, keyed on platform
// name.
type UpsertFooterLinkRequest struct {
	Name string `json:"name" validate:"required,min=2,max=50"`
	URL  string `json:"url" validate:"required,url"`
}

// SubscribeNewsletterRequest captures a footer signup.
type SubscribeNewsletterRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// CreateAppointmentRequest captures a visit enquiry.
type CreateAppointmentRequest struct {
	GuardianName  string `json:"guardian_name" validate:"required,min=2,max=100"`
	GuardianEmail string `json:"guardian_email" validate:"required,email"`
	ChildName     string `json:"child_name" validate:"required,min=2,max=100"`
	ChildAge      int    `json:"child_age" validate:"required,min=1,max=25"`
	Message       string `json:"message" validate:"max=2000"`
}

// ContentService manages the marketing-site content. The aggregated home
// payload is cached in Redis and invalidated on every admin edit.
type ContentService struct {
	repo      contentRepository
	classes   contentClassRepository
	cache     contentCache
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewContentService constructs a ContentService.
func NewContentService(repo contentRepository, classes contentClassRepository, cache contentCache, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *ContentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &ContentService{repo: repo, classes: classes, cache: cache, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

// Home assembles the public landing-page payload, serving from cache when
// fresh. The second return reports whether the payload came from cache.
func (s *ContentService) Home(ctx context.Context) (*models.HomeContent, bool, error) {
	var cached models.HomeContent
	if hit, err := s.cache.Get(ctx, homeContentCacheKey, &cached); err == nil && hit {
		return &cached, true, nil
	}

	content := &models.HomeContent{
		Carousel:     []models.CarouselItem{},
		Facilities:   []models.SchoolFacility{},
		Classes:      []models.SchoolClassDetail{},
		Team:         []models.TeamMemberDetail{},
		Testimonials: []models.Testimonial{},
		FooterLinks:  []models.FooterSocialLink{},
	}

	var err error
	if content.Branding, err = s.repo.GetBranding(ctx); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load branding")
	}
	if content.Carousel, err = s.repo.ListCarousel(ctx); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load carousel")
	}
	if content.Facilities, err = s.repo.ListFacilities(ctx); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load facilities")
	}
	if content.About, err = s.repo.GetAbout(ctx); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load about section")
	}
	if content.CallToAction, err = s.repo.GetCallToAction(ctx); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load call to action")
	}
	classes, _, err := s.classes.List(ctx, models.SchoolClassFilter{Page: 1, PageSize: 100})
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classes")
	}
	content.Classes = classes
	if content.Team, err = s.repo.ListTeam(ctx); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load team")
	}
	if content.Testimonials, err = s.repo.ListTestimonials(ctx); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load testimonials")
	}
	if content.FooterLinks, err = s.repo.ListFooterLinks(ctx); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load footer links")
	}

	if err := s.cache.Set(ctx, homeContentCacheKey, content, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache home content", zap.Error(err))
	}
	return content, false, nil
}

// UpsertBranding replaces the branding block.
func (s *ContentService) UpsertBranding(ctx context.Context, req UpsertBrandingRequest) (*models.Branding, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid branding payload")
	}
	branding := &models.Branding{
		LogoText:       strings.TrimSpace(req.LogoText),
		LogoPath:       req.LogoPath,
		FaviconPath:    req.FaviconPath,
		AppleTouchPath: req.AppleTouchPath,
	}
	if err := s.repo.UpsertBranding(ctx, branding); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save branding")
	}
	s.invalidateHome(ctx)
	return branding, nil
}

// CreateCarouselItem adds a slide.
func (s *ContentService) CreateCarouselItem(ctx context.Context, req UpsertCarouselItemRequest) (*models.CarouselItem, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid carousel payload")
	}
	item := carouselFromRequest(req)
	if err := s.repo.CreateCarouselItem(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create carousel item")
	}
	s.invalidateHome(ctx)
	return item, nil
}

// UpdateCarouselItem edits a slide.
func (s *ContentService) UpdateCarouselItem(ctx context.Context, id string, req UpsertCarouselItemRequest) (*models.CarouselItem, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid carousel payload")
	}
	item := carouselFromRequest(req)
	item.ID = id
	if err := s.repo.UpdateCarouselItem(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update carousel item")
	}
	s.invalidateHome(ctx)
	return item, nil
}

// DeleteCarouselItem removes a slide.
func (s *ContentService) DeleteCarouselItem(ctx context.Context, id string) error {
	if err := s.repo.DeleteCarouselItem(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete carousel item")
	}
	s.invalidateHome(ctx)
	return nil
}

// CreateFacility adds a facility card. Descriptions are capped at 15 words.
func (s *ContentService) CreateFacility(ctx context.Context, req UpsertFacilityRequest) (*models.SchoolFacility, error) {
	if err := s.validateFacility(req); err != nil {
		return nil, err
	}
	facility := &models.SchoolFacility{
		Name:            strings.TrimSpace(req.Name),
		Description:     strings.TrimSpace(req.Description),
		IconClass:       strings.TrimSpace(req.IconClass),
		BackgroundColor: strings.TrimSpace(req.BackgroundColor),
	}
	if err := s.repo.CreateFacility(ctx, facility); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create facility")
	}
	s.invalidateHome(ctx)
	return facility, nil
}

// UpdateFacility edits a facility card.
func (s *ContentService) UpdateFacility(ctx context.Context, id string, req UpsertFacilityRequest) (*models.SchoolFacility, error) {
	if err := s.validateFacility(req); err != nil {
		return nil, err
	}
	facility := &models.SchoolFacility{
		ID:              id,
		Name:            strings.TrimSpace(req.Name),
		Description:     strings.TrimSpace(req.Description),
		IconClass:       strings.TrimSpace(req.IconClass),
		BackgroundColor: strings.TrimSpace(req.BackgroundColor),
	}
	if err := s.repo.UpdateFacility(ctx, facility); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update facility")
	}
	s.invalidateHome(ctx)
	return facility, nil
}

// DeleteFacility removes a facility card.
func (s *ContentService) DeleteFacility(ctx context.Context, id string) error {
	if err := s.repo.DeleteFacility(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete facility")
	}
	s.invalidateHome(ctx)
	return nil
}

// UpsertAbout replaces the about section.
func (s *ContentService) UpsertAbout(ctx context.Context, req UpsertAboutRequest) (*models.AboutUs, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid about payload")
	}
	about := &models.AboutUs{
		Title:             strings.TrimSpace(req.Title),
		Content:           strings.TrimSpace(req.Content),
		AdditionalContent: req.AdditionalContent,
		CEOName:           strings.TrimSpace(req.CEOName),
		CEOTitle:          strings.TrimSpace(req.CEOTitle),
		CEOImagePath:      req.CEOImagePath,
		Image1Path:        req.Image1Path,
		Image2Path:        req.Image2Path,
		Image3Path:        req.Image3Path,
	}
	if err := s.repo.UpsertAbout(ctx, about); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save about section")
	}
	s.invalidateHome(ctx)
	return about, nil
}

// UpsertCallToAction replaces the CTA banner.
func (s *ContentService) UpsertCallToAction(ctx context.Context, req UpsertCallToActionRequest) (*models.CallToAction, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid call to action payload")
	}
	cta := &models.CallToAction{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		ImagePath:   req.ImagePath,
		ButtonText:  strings.TrimSpace(req.ButtonText),
		ButtonLink:  strings.TrimSpace(req.ButtonLink),
	}
	if err := s.repo.UpsertCallToAction(ctx, cta); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save call to action")
	}
	s.invalidateHome(ctx)
	return cta, nil
}

// CreateTeamMember adds a team card.
func (s *ContentService) CreateTeamMember(ctx context.Context, req UpsertTeamMemberRequest) (*models.TeamMember, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid team member payload")
	}
	member := &models.TeamMember{
		TeacherID:    req.TeacherID,
		Designation:  strings.TrimSpace(req.Designation),
		FacebookURL:  req.FacebookURL,
		TwitterURL:   req.TwitterURL,
		InstagramURL: req.InstagramURL,
		ImagePath:    req.ImagePath,
	}
	if err := s.repo.CreateTeamMember(ctx, member); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create team member")
	}
	s.invalidateHome(ctx)
	return member, nil
}

// UpdateTeamMember edits a team card.
func (s *ContentService) UpdateTeamMember(ctx context.Context, id string, req UpsertTeamMemberRequest) (*models.TeamMember, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid team member payload")
	}
	member := &models.TeamMember{
		ID:           id,
		TeacherID:    req.TeacherID,
		Designation:  strings.TrimSpace(req.Designation),
		FacebookURL:  req.FacebookURL,
		TwitterURL:   req.TwitterURL,
		InstagramURL: req.InstagramURL,
		ImagePath:    req.ImagePath,
	}
	if err := s.repo.UpdateTeamMember(ctx, member); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update team member")
	}
	s.invalidateHome(ctx)
	return member, nil
}

// DeleteTeamMember removes a team card.
func (s *ContentService) DeleteTeamMember(ctx context.Context, id string) error {
	if err := s.repo.DeleteTeamMember(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete team member")
	}
	s.invalidateHome(ctx)
	return nil
}

// CreateTestimonial adds a quote. Messages are capped at 40 words.
func (s *ContentService) CreateTestimonial(ctx context.Context, req UpsertTestimonialRequest) (*models.Testimonial, error) {
	if err := s.validateTestimonial(req); err != nil {
		return nil, err
	}
	testimonial := &models.Testimonial{
		ClientName: strings.TrimSpace(req.ClientName),
		Profession: strings.TrimSpace(req.Profession),
		Message:    strings.TrimSpace(req.Message),
		ImagePath:  req.ImagePath,
	}
	if err := s.repo.CreateTestimonial(ctx, testimonial); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create testimonial")
	}
	s.invalidateHome(ctx)
	return testimonial, nil
}

// UpdateTestimonial edits a quote.
func (s *ContentService) UpdateTestimonial(ctx context.Context, id string, req UpsertTestimonialRequest) (*models.Testimonial, error) {
	if err := s.validateTestimonial(req); err != nil {
		return nil, err
	}
	testimonial := &models.Testimonial{
		ID:         id,
		ClientName: strings.TrimSpace(req.ClientName),
		Profession: strings.TrimSpace(req.Profession),
		Message:    strings.TrimSpace(req.Message),
		ImagePath:  req.ImagePath,
	}
	if err := s.repo.UpdateTestimonial(ctx, testimonial); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update testimonial")
	}
	s.invalidateHome(ctx)
	return testimonial, nil
}

// DeleteTestimonial removes a quote.
func (s *ContentService) DeleteTestimonial(ctx context.Context, id string) error {
	if err := s.repo.DeleteTestimonial(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete testimonial")
	}
	s.invalidateHome(ctx)
	return nil
}

// UpsertFooterLink saves a footer social link keyed on platform name.
func (s *ContentService) UpsertFooterLink(ctx context.Context, req UpsertFooterLinkRequest) (*models.FooterSocialLink, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid footer link payload")
	}
	link := &models.FooterSocialLink{
		Name: strings.TrimSpace(req.Name),
		URL:  strings.TrimSpace(req.URL),
	}
	if err := s.repo.UpsertFooterLink(ctx, link); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save footer link")
	}
	s.invalidateHome(ctx)
	return link, nil
}

// DeleteFooterLink removes a footer social link.
func (s *ContentService) DeleteFooterLink(ctx context.Context, id string) error {
	if err := s.repo.DeleteFooterLink(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete footer link")
	}
	s.invalidateHome(ctx)
	return nil
}

// SubscribeNewsletter records a footer signup, idempotent on email.
func (s *ContentService) SubscribeNewsletter(ctx context.Context, req SubscribeNewsletterRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid newsletter payload")
	}
	sub := &models.NewsletterSubscription{Email: strings.ToLower(strings.TrimSpace(req.Email))}
	if err := s.repo.CreateNewsletterSubscription(ctx, sub); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save subscription")
	}
	return nil
}

// ListNewsletterSubscriptions returns captured emails for the admin panel.
func (s *ContentService) ListNewsletterSubscriptions(ctx context.Context) ([]models.NewsletterSubscription, error) {
	subs, err := s.repo.ListNewsletterSubscriptions(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subscriptions")
	}
	return subs, nil
}

// CreateAppointment records a visit enquiry from the public site.
func (s *ContentService) CreateAppointment(ctx context.Context, req CreateAppointmentRequest) (*models.Appointment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid appointment payload")
	}
	appointment := &models.Appointment{
		GuardianName:  strings.TrimSpace(req.GuardianName),
		GuardianEmail: strings.ToLower(strings.TrimSpace(req.GuardianEmail)),
		ChildName:     strings.TrimSpace(req.ChildName),
		ChildAge:      req.ChildAge,
		Message:       strings.TrimSpace(req.Message),
	}
	if err := s.repo.CreateAppointment(ctx, appointment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save appointment")
	}
	return appointment, nil
}

// ListAppointments returns enquiries for the admin panel.
func (s *ContentService) ListAppointments(ctx context.Context) ([]models.Appointment, error) {
	appointments, err := s.repo.ListAppointments(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list appointments")
	}
	return appointments, nil
}

func (s *ContentService) validateFacility(req UpsertFacilityRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid facility payload")
	}
	if n := wordCount(req.Description); n > facilityDescriptionMaxWords {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("description exceeds %d words", facilityDescriptionMaxWords))
	}
	return nil
}

func (s *ContentService) validateTestimonial(req UpsertTestimonialRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid testimonial payload")
	}
	if n := wordCount(req.Message); n > testimonialMaxWords {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("message exceeds %d words", testimonialMaxWords))
	}
	return nil
}

// invalidateHome drops the cached landing-page payload after any edit.
func (s *ContentService) invalidateHome(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, homeContentCacheKey); err != nil {
		s.logger.Warn("failed to invalidate home content cache", zap.Error(err))
	}
}

func carouselFromRequest(req UpsertCarouselItemRequest) *models.CarouselItem {
	return &models.CarouselItem{
		ImagePath:   strings.TrimSpace(req.ImagePath),
		Heading:     strings.TrimSpace(req.Heading),
		Description: strings.TrimSpace(req.Description),
		Link1Text:   req.Link1Text,
		Link1URL:    req.Link1URL,
		Link2Text:   req.Link2Text,
		Link2URL:    req.Link2URL,
		Position:    req.Position,
	}
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
