package models

import "time"

// Branding holds the site logo and favicon assets.
type Branding struct {
	ID             string    `db:"id" json:"id"`
	LogoPath       *string   `db:"logo_path" json:"logo_path,omitempty"`
	LogoText       string    `db:"logo_text" json:"logo_text"`
	FaviconPath    *string   `db:"favicon_path" json:"favicon_path,omitempty"`
	AppleTouchPath *string   `db:"apple_touch_path" json:"apple_touch_path,omitempty"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// CarouselItem is one slide of the landing-page carousel with up to two
// optional button links.
type CarouselItem struct {
	ID          string    `db:"id" json:"id"`
	ImagePath   string    `db:"image_path" json:"image_path"`
	Heading     string    `db:"heading" json:"heading"`
	Description string    `db:"description" json:"description"`
	Link1Text   *string   `db:"link1_text" json:"link1_text,omitempty"`
	Link1URL    *string   `db:"link1_url" json:"link1_url,omitempty"`
	Link2Text   *string   `db:"link2_text" json:"link2_text,omitempty"`
	Link2URL    *string   `db:"link2_url" json:"link2_url,omitempty"`
	Position    int       `db:"position" json:"position"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// SchoolFacility is one facility card. Descriptions are capped at 15 words.
type SchoolFacility struct {
	ID              string    `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Description     string    `db:"description" json:"description"`
	IconClass       string    `db:"icon_class" json:"icon_class"`
	BackgroundColor string    `db:"background_color" json:"background_color"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// AboutUs is the about section content including CEO presentation.
type AboutUs struct {
	ID                string    `db:"id" json:"id"`
	Title             string    `db:"title" json:"title"`
	Content           string    `db:"content" json:"content"`
	AdditionalContent *string   `db:"additional_content" json:"additional_content,omitempty"`
	CEOName           string    `db:"ceo_name" json:"ceo_name"`
	CEOTitle          string    `db:"ceo_title" json:"ceo_title"`
	CEOImagePath      *string   `db:"ceo_image_path" json:"ceo_image_path,omitempty"`
	Image1Path        *string   `db:"image1_path" json:"image1_path,omitempty"`
	Image2Path        *string   `db:"image2_path" json:"image2_path,omitempty"`
	Image3Path        *string   `db:"image3_path" json:"image3_path,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// CallToAction is the CTA banner content.
type CallToAction struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	ImagePath   *string   `db:"image_path" json:"image_path,omitempty"`
	ButtonText  string    `db:"button_text" json:"button_text"`
	ButtonLink  string    `db:"button_link" json:"button_link"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// TeamMember presents a teacher on the public team section.
type TeamMember struct {
	ID           string    `db:"id" json:"id"`
	TeacherID    *string   `db:"teacher_id" json:"teacher_id,omitempty"`
	Designation  string    `db:"designation" json:"designation"`
	FacebookURL  *string   `db:"facebook_url" json:"facebook_url,omitempty"`
	TwitterURL   *string   `db:"twitter_url" json:"twitter_url,omitempty"`
	InstagramURL *string   `db:"instagram_url" json:"instagram_url,omitempty"`
	ImagePath    *string   `db:"image_path" json:"image_path,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// TeamMemberDetail extends a team member with the teacher's name.
type TeamMemberDetail struct {
	TeamMember
	TeacherName *string `db:"teacher_name" json:"teacher_name,omitempty"`
}

// Testimonial is a parent/client quote. Messages are capped at 40 words.
type Testimonial struct {
	ID         string    `db:"id" json:"id"`
	ClientName string    `db:"client_name" json:"client_name"`
	Profession string    `db:"profession" json:"profession"`
	Message    string    `db:"message" json:"message"`
	ImagePath  *string   `db:"image_path" json:"image_path,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// FooterSocialLink is a social platform link shown in the footer.
type FooterSocialLink struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
	URL  string `db:"url" json:"url"`
}

// NewsletterSubscription is an email captured by the footer signup form.
type NewsletterSubscription struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Appointment is a visit enquiry submitted by a guardian.
type Appointment struct {
	ID            string    `db:"id" json:"id"`
	GuardianName  string    `db:"guardian_name" json:"guardian_name"`
	GuardianEmail string    `db:"guardian_email" json:"guardian_email"`
	ChildName     string    `db:"child_name" json:"child_name"`
	ChildAge      int       `db:"child_age" json:"child_age"`
	Message       string    `db:"message" json:"message"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// HomeContent aggregates everything the public landing page needs.
type HomeContent struct {
	Branding     *Branding           `json:"branding,omitempty"`
	Carousel     []CarouselItem      `json:"carousel"`
	Facilities   []SchoolFacility    `json:"facilities"`
	About        *AboutUs            `json:"about,omitempty"`
	CallToAction *CallToAction       `json:"call_to_action,omitempty"`
	Classes      []SchoolClassDetail `json:"classes"`
	Team         []TeamMemberDetail  `json:"team"`
	Testimonials []Testimonial       `json:"testimonials"`
	FooterLinks  []FooterSocialLink  `json:"footer_links"`
}
