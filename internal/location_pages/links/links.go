// Package links derives slugs and cross-links between city, neighborhood and
// zip-code pages.
package links

import (
	"net/url"
	"regexp"
	"strings"

	"location-pages/internal/location_pages/model"
)

type Kind int

const (
	Neighborhood Kind = iota
	ZipCode
)

func (k Kind) String() string {
	if k == ZipCode {
		return "zipcode"
	}
	return "neighborhood"
}

const mapsSearchURL = "https://www.google.com/maps/search/"

var whitespace = regexp.MustCompile(`\s+`)

// Link 页面上渲染的一个链接
type Link struct {
	Label    string
	Href     string
	External bool // open in a new browsing context
}

// Slugify lowercases label and collapses whitespace runs into a single hyphen.
func Slugify(label string) string {
	return whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(label)), "-")
}

// NeighborhoodSlug is the canonical slug of a neighborhood inside parent.
func NeighborhoodSlug(label, parent string) string {
	s := Slugify(label)
	if s == "" || parent == "" {
		return s
	}
	return s + "-" + parent
}

// NeighborhoodPath is the internal path of a neighborhood page.
func NeighborhoodPath(slug string) string {
	return "/neighborhoods/" + slug + "/"
}

// ZipSearchURL builds the external map search link for zip inside parent.
func ZipSearchURL(zip, parent string) string {
	q := url.Values{}
	q.Set("api", "1")
	q.Set("query", zip+", "+parent+",")
	return mapsSearchURL + "?" + q.Encode()
}

// SplitList splits a delimited list. Neighborhoods use "|"; zip codes accept
// "|" or ",". Entries are trimmed and empties dropped.
func SplitList(list string, kind Kind) []string {
	sep := func(r rune) bool { return r == '|' }
	if kind == ZipCode {
		sep = func(r rune) bool { return r == '|' || r == ',' }
	}
	var out []string
	for _, p := range strings.FieldsFunc(list, sep) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Derive turns a delimited list into ordered links under parentSlug.
func Derive(parentSlug, list string, kind Kind) []Link {
	items := SplitList(list, kind)
	out := make([]Link, 0, len(items))
	for _, label := range items {
		switch kind {
		case ZipCode:
			out = append(out, Link{Label: label, Href: ZipSearchURL(label, parentSlug), External: true})
		default:
			out = append(out, Link{Label: label, Href: NeighborhoodPath(NeighborhoodSlug(label, parentSlug))})
		}
	}
	return out
}

// Related selects the records of the same city other than current, in
// collection order.
func Related(all []model.ContentRecord, citySlug, currentSlug string) []model.ContentRecord {
	var out []model.ContentRecord
	for i := range all {
		if all[i].ParentSlug() == citySlug && all[i].Slug != currentSlug {
			out = append(out, all[i])
		}
	}
	return out
}

// RelatedLinks is Related rendered as internal neighborhood links.
func RelatedLinks(all []model.ContentRecord, citySlug, currentSlug string) []Link {
	related := Related(all, citySlug, currentSlug)
	out := make([]Link, 0, len(related))
	for _, r := range related {
		out = append(out, Link{Label: r.Name, Href: NeighborhoodPath(r.Slug)})
	}
	return out
}

// Find returns the record with slug, or nil.
func Find(all []model.ContentRecord, slug string) *model.ContentRecord {
	for i := range all {
		if all[i].Slug == slug {
			return &all[i]
		}
	}
	return nil
}
