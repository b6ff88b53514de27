package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-portal-api/internal/models"
)

// ContentRepository manages the editable public-site content blocks.
type ContentRepository struct {
	db *sqlx.DB
}

// NewContentRepository constructs a ContentRepository.
func NewContentRepository(db *sqlx.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// GetBranding returns the branding row, nil when none configured yet.
func (r *ContentRepository) GetBranding(ctx context.Context) (*models.Branding, error) {
	const query = `SELECT id, logo_path, logo_text, favicon_path, apple_touch_path, updated_at FROM branding ORDER BY updated_at DESC LIMIT 1`
	var b models.Branding
	if err := r.db.GetContext(ctx, &b, query); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get branding: %w", err)
	}
	return &b, nil
}

// UpsertBranding replaces the branding row.
func (r *ContentRepository) UpsertBranding(ctx context.Context, b *models.Branding) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	b.UpdatedAt = time.Now().UTC()
	const query = `INSERT INTO branding (id, logo_path, logo_text, favicon_path, apple_touch_path, updated_at)
		VALUES (:id, :logo_path, :logo_text, :favicon_path, :apple_touch_path, :updated_at)
		ON CONFLICT (id) DO UPDATE SET logo_path = EXCLUDED.logo_path, logo_text = EXCLUDED.logo_text, favicon_path = EXCLUDED.favicon_path, apple_touch_path = EXCLUDED.apple_touch_path, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, b); err != nil {
		return fmt.Errorf("upsert branding: %w", err)
	}
	return nil
}

// ListCarousel returns carousel slides in display order.
func (r *ContentRepository) ListCarousel(ctx context.Context) ([]models.CarouselItem, error) {
	const query = `SELECT id, image_path, heading, description, link1_text, link1_url, link2_text, link2_url, position, created_at, updated_at FROM carousel_items ORDER BY position ASC, created_at ASC`
	var items []models.CarouselItem
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list carousel: %w", err)
	}
	return items, nil
}

// CreateCarouselItem inserts a carousel slide.
func (r *ContentRepository) CreateCarouselItem(ctx context.Context, item *models.CarouselItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	const query = `INSERT INTO carousel_items (id, image_path, heading, description, link1_text, link1_url, link2_text, link2_url, position, created_at, updated_at)
		VALUES (:id, :image_path, :heading, :description, :link1_text, :link1_url, :link2_text, :link2_url, :position, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create carousel item: %w", err)
	}
	return nil
}

// UpdateCarouselItem modifies a carousel slide.
func (r *ContentRepository) UpdateCarouselItem(ctx context.Context, item *models.CarouselItem) error {
	item.UpdatedAt = time.Now().UTC()
	const query = `UPDATE carousel_items SET image_path = :image_path, heading = :heading, description = :description, link1_text = :link1_text, link1_url = :link1_url, link2_text = :link2_text, link2_url = :link2_url, position = :position, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("update carousel item: %w", err)
	}
	return nil
}

// DeleteCarouselItem removes a carousel slide.
func (r *ContentRepository) DeleteCarouselItem(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM carousel_items WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete carousel item: %w", err)
	}
	return nil
}

// ListFacilities returns facility cards.
func (r *ContentRepository) ListFacilities(ctx context.Context) ([]models.SchoolFacility, error) {
	const query = `SELECT id, name, description, icon_class, background_color, created_at, updated_at FROM school_facilities ORDER BY created_at ASC`
	var facilities []models.SchoolFacility
	if err := r.db.SelectContext(ctx, &facilities, query); err != nil {
		return nil, fmt.Errorf("list facilities: %w", err)
	}
	return facilities, nil
}

// CreateFacility inserts a facility card.
func (r *ContentRepository) CreateFacility(ctx context.Context, f *models.SchoolFacility) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if f.CreatedAt.IsZero() {
		f.CreatedAt = now
	}
	f.UpdatedAt = now
	const query = `INSERT INTO school_facilities (id, name, description, icon_class, background_color, created_at, updated_at)
		VALUES (:id, :name, :description, :icon_class, :background_color, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, f); err != nil {
		return fmt.Errorf("create facility: %w", err)
	}
	return nil
}

// UpdateFacility modifies a facility card.
func (r *ContentRepository) UpdateFacility(ctx context.Context, f *models.SchoolFacility) error {
	f.UpdatedAt = time.Now().UTC()
	const query = `UPDATE school_facilities SET name = :name, description = :description, icon_class = :icon_class, background_color = :background_color, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, f); err != nil {
		return fmt.Errorf("update facility: %w", err)
	}
	return nil
}

// DeleteFacility removes a facility card.
func (r *ContentRepository) DeleteFacility(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM school_facilities WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete facility: %w", err)
	}
	return nil
}

// GetAbout returns the about section, nil when none configured yet.
func (r *ContentRepository) GetAbout(ctx context.Context) (*models.AboutUs, error) {
	const query = `SELECT id, title, content, additional_content, ceo_name, ceo_title, ceo_image_path, image1_path, image2_path, image3_path, created_at, updated_at FROM about_us ORDER BY updated_at DESC LIMIT 1`
	var about models.AboutUs
	if err := r.db.GetContext(ctx, &about, query); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get about: %w", err)
	}
	return &about, nil
}

// UpsertAbout replaces the about section.
func (r *ContentRepository) UpsertAbout(ctx context.Context, about *models.AboutUs) error {
	if about.ID == "" {
		about.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if about.CreatedAt.IsZero() {
		about.CreatedAt = now
	}
	about.UpdatedAt = now
	const query = `INSERT INTO about_us (id, title, content, additional_content, ceo_name, ceo_title, ceo_image_path, image1_path, image2_path, image3_path, created_at, updated_at)
		VALUES (:id, :title, :content, :additional_content, :ceo_name, :ceo_title, :ceo_image_path, :image1_path, :image2_path, :image3_path, :created_at, :updated_at)
		ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title, content = EXCLUDED.content, additional_content = EXCLUDED.additional_content, ceo_name = EXCLUDED.ceo_name, ceo_title = EXCLUDED.ceo_title, ceo_image_path = EXCLUDED.ceo_image_path, image1_path = EXCLUDED.image1_path, image2_path = EXCLUDED.image2_path, image3_path = EXCLUDED.image3_path, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, about); err != nil {
		return fmt.Errorf("upsert about: %w", err)
	}
	return nil
}

// GetCallToAction returns the CTA banner, nil when none configured yet.
func (r *ContentRepository) GetCallToAction(ctx context.Context) (*models.CallToAction, error) {
	const query = `SELECT id, title, description, image_path, button_text, button_link, created_at, updated_at FROM call_to_action ORDER BY updated_at DESC LIMIT 1`
	var cta models.CallToAction
	if err := r.db.GetContext(ctx, &cta, query); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get call to action: %w", err)
	}
	return &cta, nil
}

// UpsertCallToAction replaces the CTA banner.
func (r *ContentRepository) UpsertCallToAction(ctx context.Context, cta *models.CallToAction) error {
	if cta.ID == "" {
		cta.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if cta.CreatedAt.IsZero() {
		cta.CreatedAt = now
	}
	cta.UpdatedAt = now
	const query = `INSERT INTO call_to_action (id, title, description, image_path, button_text, button_link, created_at, updated_at)
		VALUES (:id, :title, :description, :image_path, :button_text, :button_link, :created_at, :updated_at)
		ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title, description = EXCLUDED.description, image_path = EXCLUDED.image_path, button_text = EXCLUDED.button_text, button_link = EXCLUDED.button_link, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, cta); err != nil {
		return fmt.Errorf("upsert call to action: %w", err)
	}
	return nil
}

// ListTeam returns team members with teacher names.
func (r *ContentRepository) ListTeam(ctx context.Context) ([]models.TeamMemberDetail, error) {
	const query = `SELECT tm.id, tm.teacher_id, tm.designation, tm.facebook_url, tm.twitter_url, tm.instagram_url, tm.image_path, tm.created_at, tm.updated_at, t.full_name AS teacher_name
		FROM team_members tm
		LEFT JOIN teachers t ON t.id = tm.teacher_id
		ORDER BY tm.created_at ASC`
	var members []models.TeamMemberDetail
	if err := r.db.SelectContext(ctx, &members, query); err != nil {
		return nil, fmt.Errorf("list team: %w", err)
	}
	return members, nil
}

// CreateTeamMember inserts a team member.
func (r *ContentRepository) CreateTeamMember(ctx context.Context, tm *models.TeamMember) error {
	if tm.ID == "" {
		tm.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if tm.CreatedAt.IsZero() {
		tm.CreatedAt = now
	}
	tm.UpdatedAt = now
	const query = `INSERT INTO team_members (id, teacher_id, designation, facebook_url, twitter_url, instagram_url, image_path, created_at, updated_at)
		VALUES (:id, :teacher_id, :designation, :facebook_url, :twitter_url, :instagram_url, :image_path, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, tm); err != nil {
		return fmt.Errorf("create team member: %w", err)
	}
	return nil
}

// UpdateTeamMember modifies a team member.
func (r *ContentRepository) UpdateTeamMember(ctx context.Context, tm *models.TeamMember) error {
	tm.UpdatedAt = time.Now().UTC()
	const query = `UPDATE team_members SET teacher_id = :teacher_id, designation = :designation, facebook_url = :facebook_url, twitter_url = :twitter_url, instagram_url = :instagram_url, image_path = :image_path, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, tm); err != nil {
		return fmt.Errorf("update team member: %w", err)
	}
	return nil
}

// DeleteTeamMember removes a team member.
func (r *ContentRepository) DeleteTeamMember(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM team_members WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete team member: %w", err)
	}
	return nil
}

// ListTestimonials returns testimonials newest first.
func (r *ContentRepository) ListTestimonials(ctx context.Context) ([]models.Testimonial, error) {
	const query = `SELECT id, client_name, profession, message, image_path, created_at, updated_at FROM testimonials ORDER BY created_at DESC`
	var testimonials []models.Testimonial
	if err := r.db.SelectContext(ctx, &testimonials, query); err != nil {
		return nil, fmt.Errorf("list testimonials: %w", err)
	}
	return testimonials, nil
}

// CreateTestimonial inserts a testimonial.
func (r *ContentRepository) CreateTestimonial(ctx context.Context, t *models.Testimonial) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	const query = `INSERT INTO testimonials (id, client_name, profession, message, image_path, created_at, updated_at)
		VALUES (:id, :client_name, :profession, :message, :image_path, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, t); err != nil {
		return fmt.Errorf("create testimonial: %w", err)
	}
	return nil
}

// UpdateTestimonial modifies a testimonial.
func (r *ContentRepository) UpdateTestimonial(ctx context.Context, t *models.Testimonial) error {
	t.UpdatedAt = time.Now().UTC()
	const query = `UPDATE testimonials SET client_name = :client_name, profession = :profession, message = :message, image_path = :image_path, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, t); err != nil {
		return fmt.Errorf("update testimonial: %w", err)
	}
	return nil
}

// DeleteTestimonial removes a testimonial.
func (r *ContentRepository) DeleteTestimonial(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM testimonials WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete testimonial: %w", err)
	}
	return nil
}

// ListFooterLinks returns footer social links.
func (r *ContentRepository) ListFooterLinks(ctx context.Context) ([]models.FooterSocialLink, error) {
	const query = `SELECT id, name, url FROM footer_social_links ORDER BY name ASC`
	var links []models.FooterSocialLink
	if err := r.db.SelectContext(ctx, &links, query); err != nil {
		return nil, fmt.Errorf("list footer links: %w", err)
	}
	return links, nil
}

// UpsertFooterLink inserts or replaces a footer social link by platform name.
func (r *ContentRepository) UpsertFooterLink(ctx context.Context, link *models.FooterSocialLink) error {
	if link.ID == "" {
		link.ID = uuid.NewString()
	}
	const query = `INSERT INTO footer_social_links (id, name, url) VALUES (:id, :name, :url)
		ON CONFLICT (name) DO UPDATE SET url = EXCLUDED.url`
	if _, err := r.db.NamedExecContext(ctx, query, link); err != nil {
		return fmt.Errorf("upsert footer link: %w", err)
	}
	return nil
}

// DeleteFooterLink removes a footer social link.
func (r *ContentRepository) DeleteFooterLink(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM footer_social_links WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete footer link: %w", err)
	}
	return nil
}

// CreateNewsletterSubscription stores a newsletter email, idempotent on email.
func (r *ContentRepository) CreateNewsletterSubscription(ctx context.Context, sub *models.NewsletterSubscription) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO newsletter_subscriptions (id, email, created_at) VALUES (:id, :email, :created_at)
		ON CONFLICT (email) DO NOTHING`
	if _, err := r.db.NamedExecContext(ctx, query, sub); err != nil {
		return fmt.Errorf("create newsletter subscription: %w", err)
	}
	return nil
}

// ListNewsletterSubscriptions returns captured emails newest first.
func (r *ContentRepository) ListNewsletterSubscriptions(ctx context.Context) ([]models.NewsletterSubscription, error) {
	const query = `SELECT id, email, created_at FROM newsletter_subscriptions ORDER BY created_at DESC`
	var subs []models.NewsletterSubscription
	if err := r.db.SelectContext(ctx, &subs, query); err != nil {
		return nil, fmt.Errorf("list newsletter subscriptions: %w", err)
	}
	return subs, nil
}

// CreateAppointment stores a visit enquiry.
func (r *ContentRepository) CreateAppointment(ctx context.Context, a *models.Appointment) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO appointments (id, guardian_name, guardian_email, child_name, child_age, message, created_at)
		VALUES (:id, :guardian_name, :guardian_email, :child_name, :child_age, :message, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, a); err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}
	return nil
}

// ListAppointments returns visit enquiries newest first.
func (r *ContentRepository) ListAppointments(ctx context.Context) ([]models.Appointment, error) {
	const query = `SELECT id, guardian_name, guardian_email, child_name, child_age, message, created_at FROM appointments ORDER BY created_at DESC`
	var appointments []models.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query); err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appointments, nil
}
