package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidPublishedAt is returned by Normalize when publishedAt is set but unparsable.
var ErrInvalidPublishedAt = errors.New("invalid publishedAt")

// publishedLayouts are tried in order; the first that parses wins.
var publishedLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
}

// FAQ 问答对
type FAQ struct {
	Question string `bson:"ques" json:"ques"`
	Answer   string `bson:"ans" json:"ans"`
}

// ContentRecord is a neighborhood or subdomain/city entry of a content collection.
type ContentRecord struct {
	Slug        string `bson:"slug" json:"slug"`
	Name        string `bson:"name" json:"name"`
	ParentState string `bson:"parentState,omitempty" json:"parentState,omitempty"`
	ParentCity  string `bson:"parentCity,omitempty" json:"parentCity,omitempty"`
	PublishedAt string `bson:"publishedAt,omitempty" json:"publishedAt,omitempty"` // YYYY-MM-DD or RFC3339

	MetaTitle       string `bson:"metaTitle,omitempty" json:"metaTitle,omitempty"`
	MetaDescription string `bson:"metaDescription,omitempty" json:"metaDescription,omitempty"`
	H1Banner        string `bson:"h1Banner,omitempty" json:"h1Banner,omitempty"`
	BannerImage     string `bson:"bannerImage,omitempty" json:"bannerImage,omitempty"`
	BannerQuote     string `bson:"bannerQuote,omitempty" json:"bannerQuote,omitempty"`
	Address         string `bson:"address,omitempty" json:"address,omitempty"`

	H2      string `bson:"h2,omitempty" json:"h2,omitempty"`
	H2Image string `bson:"h2Image,omitempty" json:"h2Image,omitempty"`
	P2      string `bson:"p2,omitempty" json:"p2,omitempty"`
	H3      string `bson:"h3,omitempty" json:"h3,omitempty"`
	H3Image string `bson:"h3Image,omitempty" json:"h3Image,omitempty"`
	P3      string `bson:"p3,omitempty" json:"p3,omitempty"`
	H4      string `bson:"h4,omitempty" json:"h4,omitempty"`
	H4Image string `bson:"h4Image,omitempty" json:"h4Image,omitempty"`
	P4      string `bson:"p4,omitempty" json:"p4,omitempty"`
	H5      string `bson:"h5,omitempty" json:"h5,omitempty"`
	H5Image string `bson:"h5Image,omitempty" json:"h5Image,omitempty"`
	P5      string `bson:"p5,omitempty" json:"p5,omitempty"`
	H6      string `bson:"h6,omitempty" json:"h6,omitempty"`
	H6Image string `bson:"h6Image,omitempty" json:"h6Image,omitempty"`
	P6      string `bson:"p6,omitempty" json:"p6,omitempty"`
	H7      string `bson:"h7,omitempty" json:"h7,omitempty"`
	H7Image string `bson:"h7Image,omitempty" json:"h7Image,omitempty"`
	P7      string `bson:"p7,omitempty" json:"p7,omitempty"`

	FAQ            []FAQ  `bson:"faq,omitempty" json:"faq,omitempty"`
	ZipCodes       string `bson:"zipCodes,omitempty" json:"zipCodes,omitempty"`             // "78701|78702" or "78701, 78702"
	Neighbourhoods string `bson:"neighbourhoods,omitempty" json:"neighbourhoods,omitempty"` // "North Loop|South Congress"

	publishedOn time.Time
}

// Normalize back-fills the slug from the collection key and parses publishedAt
// into a calendar date in loc. It must run before a record is filtered or sorted.
func (r *ContentRecord) Normalize(key string, loc *time.Location) error {
	r.Slug = strings.TrimSpace(r.Slug)
	if r.Slug == "" {
		r.Slug = strings.TrimSpace(key)
	}
	r.PublishedAt = strings.TrimSpace(r.PublishedAt)
	r.publishedOn = time.Time{}
	if r.PublishedAt == "" {
		return nil
	}
	d, err := ParseDate(r.PublishedAt, loc)
	if err != nil {
		return fmt.Errorf("record %q: %w", r.Slug, err)
	}
	r.publishedOn = d
	return nil
}

// PublishedOn returns the publish date (midnight in the load location) and
// whether the record has one.
func (r *ContentRecord) PublishedOn() (time.Time, bool) {
	return r.publishedOn, !r.publishedOn.IsZero()
}

// VisibleOn reports whether the record is published on or before day.
// Records without a publish date are always visible.
func (r *ContentRecord) VisibleOn(day time.Time) bool {
	if r.publishedOn.IsZero() {
		return true
	}
	return !r.publishedOn.After(day)
}

// ParentSlug returns the owning city/state slug.
func (r *ContentRecord) ParentSlug() string {
	if r.ParentState != "" {
		return r.ParentState
	}
	return r.ParentCity
}

// TextFields returns pointers to every free-text field that may carry
// placeholder tokens. Slugs, parent references and image URLs are excluded.
func (r *ContentRecord) TextFields() []*string {
	return []*string{
		&r.MetaTitle, &r.MetaDescription,
		&r.H1Banner, &r.BannerQuote, &r.Address,
		&r.H2, &r.P2,
		&r.H3, &r.P3,
		&r.H4, &r.P4,
		&r.H5, &r.P5,
		&r.H6, &r.P6,
		&r.H7, &r.P7,
	}
}

// ParseDate parses s with the accepted publishedAt layouts and truncates the
// result to midnight of its calendar date in loc. Date-only values keep the
// date as written.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range publishedLayouts {
		var (
			t   time.Time
			err error
		)
		if layout == time.RFC3339 || layout == time.RFC3339Nano {
			t, err = time.Parse(layout, s)
			if err == nil {
				t = t.In(loc)
			}
		} else {
			t, err = time.ParseInLocation(layout, s, loc)
		}
		if err == nil {
			return DateOf(t, loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidPublishedAt, s)
}

// DateOf strips the time of day from t in loc.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
