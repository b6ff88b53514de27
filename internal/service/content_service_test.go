package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

type mockContentRepo struct {
	brandingReads int
	facilities    []*models.SchoolFacility
	testimonials  []*models.Testimonial
	newsletter    []*models.NewsletterSubscription
}

func (m *mockContentRepo) GetBranding(ctx context.Context) (*models.Branding, error) {
	m.brandingReads++
	return &models.Branding{ID: "b1", LogoText: "Sunrise School"}, nil
}

func (m *mockContentRepo) UpsertBranding(ctx context.Context, b *models.Branding) error { return nil }

func (m *mockContentRepo) ListCarousel(ctx context.Context) ([]models.CarouselItem, error) {
	return nil, nil
}
func (m *mockContentRepo) CreateCarouselItem(ctx context.Context, item *models.CarouselItem) error {
	return nil
}
func (m *mockContentRepo) UpdateCarouselItem(ctx context.Context, item *models.CarouselItem) error {
	return nil
}
func (m *mockContentRepo) DeleteCarouselItem(ctx context.Context, id string) error { return nil }

func (m *mockContentRepo) ListFacilities(ctx context.Context) ([]models.SchoolFacility, error) {
	return nil, nil
}

func (m *mockContentRepo) CreateFacility(ctx context.Context, f *models.SchoolFacility) error {
	m.facilities = append(m.facilities, f)
	return nil
}

func (m *mockContentRepo) UpdateFacility(ctx context.Context, f *models.SchoolFacility) error {
	return nil
}
func (m *mockContentRepo) DeleteFacility(ctx context.Context, id string) error { return nil }

func (m *mockContentRepo) GetAbout(ctx context.Context) (*models.AboutUs, error) { return nil, nil }
func (m *mockContentRepo) UpsertAbout(ctx context.Context, about *models.AboutUs) error {
	return nil
}
func (m *mockContentRepo) GetCallToAction(ctx context.Context) (*models.CallToAction, error) {
	return nil, nil
}
func (m *mockContentRepo) UpsertCallToAction(ctx context.Context, cta *models.CallToAction) error {
	return nil
}

func (m *mockContentRepo) ListTeam(ctx context.Context) ([]models.TeamMemberDetail, error) {
	return nil, nil
}
func (m *mockContentRepo) CreateTeamMember(ctx context.Context, tm *models.TeamMember) error {
	return nil
}
func (m *mockContentRepo) UpdateTeamMember(ctx context.Context, tm *models.TeamMember) error {
	return nil
}
func (m *mockContentRepo) DeleteTeamMember(ctx context.Context, id string) error { return nil }

func (m *mockContentRepo) ListTestimonials(ctx context.Context) ([]models.Testimonial, error) {
	return nil, nil
}

func (m *mockContentRepo) CreateTestimonial(ctx context.Context, t *models.Testimonial) error {
	m.testimonials = append(m.testimonials, t)
	return nil
}

func (m *mockContentRepo) UpdateTestimonial(ctx context.Context, t *models.Testimonial) error {
	return nil
}
func (m *mockContentRepo) DeleteTestimonial(ctx context.Context, id string) error { return nil }

func (m *mockContentRepo) ListFooterLinks(ctx context.Context) ([]models.FooterSocialLink, error) {
	return nil, nil
}
func (m *mockContentRepo) UpsertFooterLink(ctx context.Context, link *models.FooterSocialLink) error {
	return nil
}
func (m *mockContentRepo) DeleteFooterLink(ctx context.Context, id string) error { return nil }

func (m *mockContentRepo) CreateNewsletterSubscription(ctx context.Context, sub *models.NewsletterSubscription) error {
	m.newsletter = append(m.newsletter, sub)
	return nil
}

func (m *mockContentRepo) ListNewsletterSubscriptions(ctx context.Context) ([]models.NewsletterSubscription, error) {
	return nil, nil
}

func (m *mockContentRepo) CreateAppointment(ctx context.Context, a *models.Appointment) error {
	return nil
}

func (m *mockContentRepo) ListAppointments(ctx context.Context) ([]models.Appointment, error) {
	return nil, nil
}

type mockContentClasses struct{}

func (m *mockContentClasses) List(ctx context.Context, filter models.SchoolClassFilter) ([]models.SchoolClassDetail, int, error) {
	return nil, 0, nil
}

type mockContentCache struct {
	store       map[string][]byte
	invalidated []string
}

func (m *mockContentCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := m.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *mockContentCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if m.store == nil {
		m.store = make(map[string][]byte)
	}
	m.store[key] = raw
	return nil
}

func (m *mockContentCache) Invalidate(ctx context.Context, pattern string) error {
	m.invalidated = append(m.invalidated, pattern)
	delete(m.store, pattern)
	return nil
}

func newContentFixture() (*ContentService, *mockContentRepo, *mockContentCache) {
	repo := &mockContentRepo{}
	cache := &mockContentCache{}
	svc := NewContentService(repo, &mockContentClasses{}, cache, time.Minute, validator.New(), zap.NewNop())
	return svc, repo, cache
}

func TestHomeFillsAndServesCache(t *testing.T) {
	svc, repo, cache := newContentFixture()

	first, cached, err := svc.Home(context.Background())
	require.NoError(t, err)
	require.NotNil(t, first.Branding)
	assert.False(t, cached)
	assert.Equal(t, 1, repo.brandingReads)
	assert.Contains(t, cache.store, "content:home")

	second, cached, err := svc.Home(context.Background())
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, first.Branding.LogoText, second.Branding.LogoText)
	assert.Equal(t, 1, repo.brandingReads, "second read served from cache")
}

func TestContentEditInvalidatesHomeCache(t *testing.T) {
	svc, _, cache := newContentFixture()

	_, _, err := svc.Home(context.Background())
	require.NoError(t, err)
	require.Contains(t, cache.store, "content:home")

	_, err = svc.UpsertBranding(context.Background(), UpsertBrandingRequest{LogoText: "New Name"})
	require.NoError(t, err)
	assert.Contains(t, cache.invalidated, "content:home")
	assert.NotContains(t, cache.store, "content:home")
}

func TestCreateFacilityWordCap(t *testing.T) {
	svc, repo, _ := newContentFixture()

	_, err := svc.CreateFacility(context.Background(), UpsertFacilityRequest{
		Name:            "Library",
		Description:     strings.Repeat("word ", 16),
		IconClass:       "fa-book",
		BackgroundColor: "#fff",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.facilities)

	_, err = svc.CreateFacility(context.Background(), UpsertFacilityRequest{
		Name:            "Library",
		Description:     "A quiet reading room stocked with over two thousand titles",
		IconClass:       "fa-book",
		BackgroundColor: "#fff",
	})
	require.NoError(t, err)
	require.Len(t, repo.facilities, 1)
}

func TestCreateTestimonialWordCap(t *testing.T) {
	svc, repo, _ := newContentFixture()

	_, err := svc.CreateTestimonial(context.Background(), UpsertTestimonialRequest{
		ClientName: "Priya",
		Profession: "Parent",
		Message:    strings.Repeat("word ", 41),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.testimonials)
}

func TestSubscribeNewsletterNormalizesEmail(t *testing.T) {
	svc, repo, _ := newContentFixture()

	err := svc.SubscribeNewsletter(context.Background(), SubscribeNewsletterRequest{Email: " Parent@Example.COM "})
	require.NoError(t, err)
	require.Len(t, repo.newsletter, 1)
	assert.Equal(t, "parent@example.com", repo.newsletter[0].Email)
}
