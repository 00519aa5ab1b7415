package projects

import (
	"github.com/SignorelliLorenzo/portfolio/locale"
	"github.com/SignorelliLorenzo/portfolio/models"
)

// DefaultOrder places projects without an explicit order after the rest.
const DefaultOrder = 999

// Record is a project as a source stores it, with both locales side by side.
// Italian fields are considered absent when empty.
type Record struct {
	ID                 string
	Title              string
	ShortDescription   string
	ShortDescriptionIt string
	Image              *string
	Tags               []string
	Markdown           *string
	MarkdownIt         string
	Github             *string
	Demo               *string
	Features           []string
	FeaturesIt         []string
	Featured           bool
	Order              *int
}

// HasItalian reports whether any translatable field carries Italian content.
func (r Record) HasItalian() bool {
	return r.ShortDescriptionIt != "" || r.MarkdownIt != "" || len(r.FeaturesIt) > 0
}

func (r Record) order() int {
	if r.Order == nil {
		return DefaultOrder
	}
	return *r.Order
}

// withDonor fills the Italian fields r lacks from donor.
func (r Record) withDonor(donor Record) Record {
	if r.ShortDescriptionIt == "" {
		r.ShortDescriptionIt = donor.ShortDescriptionIt
	}
	if r.MarkdownIt == "" {
		r.MarkdownIt = donor.MarkdownIt
	}
	if len(r.FeaturesIt) == 0 {
		r.FeaturesIt = donor.FeaturesIt
	}
	return r
}

// Localize resolves r for loc. Each translatable field independently takes
// its Italian value when loc is Italian and that value is non-empty.
func Localize(r Record, loc locale.Locale) models.Project {
	italian := loc == locale.Italian

	shortDescription := r.ShortDescription
	if italian && r.ShortDescriptionIt != "" {
		shortDescription = r.ShortDescriptionIt
	}

	markdown := r.Markdown
	if italian && r.MarkdownIt != "" {
		md := r.MarkdownIt
		markdown = &md
	}

	features := r.Features
	if italian && len(r.FeaturesIt) > 0 {
		features = r.FeaturesIt
	}

	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}

	return models.Project{
		ID:                    r.ID,
		Title:                 r.Title,
		ShortDescription:      shortDescription,
		Image:                 r.Image,
		Tags:                  tags,
		Markdown:              markdown,
		Github:                r.Github,
		Demo:                  r.Demo,
		Features:              features,
		Featured:              r.Featured,
		HasItalianTranslation: r.HasItalian(),
	}
}

func nonEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
