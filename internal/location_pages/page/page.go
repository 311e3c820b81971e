// Package page composes neighborhood and city landing pages from resolved
// content: one substitution pass feeds both the visible HTML and the JSON-LD.
package page

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/url"
	"path"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"location-pages/internal/location_pages/content"
	"location-pages/internal/location_pages/links"
	"location-pages/internal/location_pages/model"
	"location-pages/internal/location_pages/placeholder"
)

// ErrNotFound is returned whenever a page cannot be rendered in full.
var ErrNotFound = errors.New("page not found")

// Section 可选的正文区块
type Section struct {
	Heading    string
	Body       template.HTML
	Image      string
	ImageAlt   string
	Band       bool // full-width colored band without image
	ImageFirst bool
}

type Banner struct {
	Heading string
	Image   string
	Quote   string
	Text    string
}

type Page struct {
	Kind        string // "neighborhood" or "city"
	Title       string
	Description string
	Canonical   string

	Business    model.BusinessInfo
	Record      model.ContentRecord // after substitution
	CitySlug    string
	CityName    string
	StateAbbrev string
	StateName   string
	Location    string // "North Loop, Austin, TX"

	Banner        Banner
	Sections      []Section
	Related       []links.Link
	Neighborhoods []links.Link
	ZipCodes      []links.Link
	Cities        []links.Link
	Services      []links.Link
	Intro         string
	FAQ           []model.FAQ
	MapURL        string

	StructuredData template.JS
}

type Composer struct {
	Fetcher  content.Fetcher
	Business model.BusinessInfo
	Services []model.Service // service catalog for the site-level pages
	Log      *zap.Logger

	subst placeholder.Substituter
}

func NewComposer(f content.Fetcher, b model.BusinessInfo, log *zap.Logger) *Composer {
	if log == nil {
		log = zap.NewNop()
	}
	subst := placeholder.New(b)
	subst.Log = log
	return &Composer{Fetcher: f, Business: b, Log: log, subst: subst}
}

// fetchBoth loads neighborhoods and subdomains concurrently. An empty
// subdomain collection is not a failure; the city name then falls back to
// the slug.
func (c *Composer) fetchBoth(ctx context.Context) (hoods, cities []model.ContentRecord, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		hoods, err = c.Fetcher.Fetch(gctx, content.Neighborhoods)
		return err
	})
	g.Go(func() error {
		var err error
		cities, err = c.Fetcher.Fetch(gctx, content.Subdomains)
		if errors.Is(err, content.ErrNotFound) {
			cities, err = nil, nil
		}
		return err
	})
	err = g.Wait()
	return hoods, cities, err
}

// Neighborhood composes /{state}/neighborhoods/{slug}. An empty stateSlug is
// taken from the record's parent.
func (c *Composer) Neighborhood(ctx context.Context, stateSlug, slug string) (*Page, error) {
	hoods, cities, err := c.fetchBoth(ctx)
	if err != nil {
		c.Log.Warn("Content fetch failed, rendering not found",
			zap.String("state", stateSlug),
			zap.String("neighborhood", slug),
			zap.Error(err),
		)
		return nil, ErrNotFound
	}

	current := links.Find(hoods, slug)
	if current == nil {
		return nil, ErrNotFound
	}
	if stateSlug == "" {
		if stateSlug = current.ParentSlug(); stateSlug == "" {
			return nil, ErrNotFound
		}
	}

	cityName := stateSlug
	if city := links.Find(cities, stateSlug); city != nil && city.Name != "" {
		cityName = city.Name
	}

	rec := c.subst.Record(*current)
	p := c.base("neighborhood", rec, stateSlug, cityName)
	p.Canonical = fmt.Sprintf("https://%s.%s/neighborhoods/%s/", stateSlug, c.Business.Host, slug)
	p.Related = links.RelatedLinks(hoods, stateSlug, slug)
	p.ZipCodes = links.Derive(stateSlug, rec.ZipCodes, links.ZipCode)
	p.Location = fmt.Sprintf("%s, %s, %s", rec.Name, cityName, p.StateAbbrev)

	if err := c.finish(p); err != nil {
		return nil, err
	}
	return p, nil
}

// City composes the /{city} landing page with its neighborhood and zip links.
func (c *Composer) City(ctx context.Context, citySlug string) (*Page, error) {
	cities, err := c.Fetcher.Fetch(ctx, content.Subdomains)
	if err != nil {
		if !errors.Is(err, content.ErrNotFound) {
			c.Log.Warn("Content fetch failed, rendering not found",
				zap.String("city", citySlug),
				zap.Error(err),
			)
		}
		return nil, ErrNotFound
	}
	current := links.Find(cities, citySlug)
	if current == nil {
		return nil, ErrNotFound
	}

	rec := c.subst.Record(*current)
	cityName := rec.Name
	if cityName == "" {
		cityName = citySlug
	}
	p := c.base("city", rec, citySlug, cityName)
	p.Canonical = fmt.Sprintf("https://%s.%s/", citySlug, c.Business.Host)
	p.Neighborhoods = links.Derive(citySlug, rec.Neighbourhoods, links.Neighborhood)
	p.ZipCodes = links.Derive(citySlug, rec.ZipCodes, links.ZipCode)
	p.Location = fmt.Sprintf("%s, %s", cityName, p.StateAbbrev)

	if err := c.finish(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (c *Composer) base(kind string, rec model.ContentRecord, citySlug, cityName string) *Page {
	abbrev, state := stateOf(citySlug)
	p := &Page{
		Kind:        kind,
		Title:       rec.MetaTitle,
		Description: rec.MetaDescription,
		Business:    c.Business,
		Record:      rec,
		CitySlug:    citySlug,
		CityName:    cityName,
		StateAbbrev: abbrev,
		StateName:   state,
		Sections:    sections(rec),
		FAQ:         rec.FAQ,
		MapURL:      mapURL(rec, cityName),
	}
	p.Banner = Banner{
		Heading: bannerHeading(rec),
		Image:   rec.BannerImage,
		Quote:   rec.BannerQuote,
	}
	if rec.MetaDescription != "" {
		p.Banner.Text = strings.TrimSuffix(rec.MetaDescription, ".") + "."
	}
	return p
}

func (c *Composer) finish(p *Page) error {
	ld, err := structuredData(p)
	if err != nil {
		// never show a page whose metadata could not be built
		c.Log.Error("Failed to build structured data", zap.String("slug", p.Record.Slug), zap.Error(err))
		return ErrNotFound
	}
	p.StructuredData = template.JS(ld)
	return nil
}

// sections lists the narrative blocks in display order. h2 is always shown;
// h3..h7 only when their heading is present.
func sections(r model.ContentRecord) []Section {
	out := []Section{{
		Heading: r.H2, Body: template.HTML(r.P2),
		Image: r.H2Image, ImageAlt: imageAlt(r.H2Image), ImageFirst: true,
	}}
	add := func(h, body, img string, band, imageFirst bool) {
		if strings.TrimSpace(h) == "" {
			return
		}
		s := Section{Heading: h, Body: template.HTML(body), Band: band, ImageFirst: imageFirst}
		if !band {
			s.Image, s.ImageAlt = img, imageAlt(img)
		}
		out = append(out, s)
	}
	add(r.H3, r.P3, r.H3Image, true, false)
	add(r.H5, r.P5, r.H5Image, false, false)
	add(r.H6, r.P6, r.H6Image, false, true)
	add(r.H4, r.P4, r.H4Image, true, false)
	add(r.H7, r.P7, r.H7Image, false, false)
	return out
}

// imageAlt derives alt text from the image file name.
func imageAlt(src string) string {
	if src == "" {
		return "image"
	}
	base := path.Base(src)
	if i := strings.Index(base, "."); i >= 0 {
		base = base[:i]
	}
	if base == "" || base == "/" {
		return "image"
	}
	return base
}

func bannerHeading(r model.ContentRecord) string {
	h := r.H1Banner
	if zips := links.SplitList(r.ZipCodes, links.ZipCode); len(zips) > 0 {
		h = strings.TrimSpace(h + " " + zips[0])
	}
	return h
}

func mapURL(r model.ContentRecord, cityName string) string {
	place := r.Address
	if place == "" {
		place = r.Name
	}
	q := url.QueryEscape(place) + "+" + url.QueryEscape(cityName) + "+USA"
	return "https://maps.google.com/maps?q=" + q + "&t=&z=7&ie=UTF8&iwloc=&output=embed"
}
