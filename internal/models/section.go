// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the content types served by the Sitecraft backend:
// the closed set of website sections, the content kinds each section is
// composed of, and the three row shapes (text, image, video) they map to.
package models

// Section is one of the fixed top-level groupings of website content.
type Section string

const (
	SectionHero         Section = "hero"
	SectionInterior     Section = "interior"
	SectionConstruction Section = "construction"
	SectionAbout        Section = "about"
	SectionTeam         Section = "team"
	SectionTestimonials Section = "testimonials"
	SectionPartners     Section = "partners"
	SectionWhyUs        Section = "whyus"
)

// Shape identifies which of the three row shapes a content kind stores.
type Shape string

const (
	ShapeText  Shape = "text"
	ShapeImage Shape = "image"
	ShapeVideo Shape = "video"
)

// CategoryRule states whether rows of a kind carry a category label.
type CategoryRule int

const (
	CategoryNone CategoryRule = iota
	CategoryOptional
	CategoryRequired
)

// Kind describes one content kind within a section. The full set of kinds
// is static configuration, not stored data.
type Kind struct {
	Name     string
	Section  Section
	Shape    Shape
	Category CategoryRule
}

// HasCategory reports whether rows of this kind can carry a category.
func (k Kind) HasCategory() bool {
	return k.Category != CategoryNone
}

// sectionKinds is the fixed section composition. Order matters: overview
// and dashboard responses list kinds in declaration order.
var sectionKinds = map[Section][]Kind{
	SectionHero: {
		{Name: "text", Section: SectionHero, Shape: ShapeText},
		{Name: "video", Section: SectionHero, Shape: ShapeVideo},
	},
	SectionInterior: {
		{Name: "text", Section: SectionInterior, Shape: ShapeText, Category: CategoryRequired},
		{Name: "image", Section: SectionInterior, Shape: ShapeImage, Category: CategoryRequired},
		{Name: "video", Section: SectionInterior, Shape: ShapeVideo, Category: CategoryOptional},
	},
	SectionConstruction: {
		{Name: "text", Section: SectionConstruction, Shape: ShapeText, Category: CategoryRequired},
		{Name: "intro_image", Section: SectionConstruction, Shape: ShapeImage},
		{Name: "gallery_image", Section: SectionConstruction, Shape: ShapeImage, Category: CategoryRequired},
		{Name: "video", Section: SectionConstruction, Shape: ShapeVideo, Category: CategoryOptional},
	},
	SectionAbout: {
		{Name: "badge", Section: SectionAbout, Shape: ShapeText},
		{Name: "image", Section: SectionAbout, Shape: ShapeImage},
	},
	SectionTeam: {
		{Name: "text", Section: SectionTeam, Shape: ShapeText},
		{Name: "image", Section: SectionTeam, Shape: ShapeImage},
	},
	SectionTestimonials: {
		{Name: "text", Section: SectionTestimonials, Shape: ShapeText},
		{Name: "video", Section: SectionTestimonials, Shape: ShapeVideo},
	},
	SectionPartners: {
		{Name: "image", Section: SectionPartners, Shape: ShapeImage},
	},
	SectionWhyUs: {
		{Name: "image", Section: SectionWhyUs, Shape: ShapeImage},
	},
}

// ParseSection validates a section name from a URL. Returns false for
// anything outside the closed enumeration.
func ParseSection(name string) (Section, bool) {
	s := Section(name)
	_, ok := sectionKinds[s]
	return s, ok
}

// Kinds returns the content kinds of a section in declaration order.
func (s Section) Kinds() []Kind {
	return sectionKinds[s]
}

// Kind looks up a content kind by name within the section. Returns false
// when the name is not part of the section's composition.
func (s Section) Kind(name string) (Kind, bool) {
	for _, k := range sectionKinds[s] {
		if k.Name == name {
			return k, true
		}
	}
	return Kind{}, false
}

// AllSections returns every section in a stable order.
func AllSections() []Section {
	return []Section{
		SectionHero, SectionInterior, SectionConstruction, SectionAbout,
		SectionTeam, SectionTestimonials, SectionPartners, SectionWhyUs,
	}
}

// CategorySections returns the sections whose kinds carry categories
// (interior and construction in the current configuration).
func CategorySections() []Section {
	return []Section{SectionInterior, SectionConstruction}
}
