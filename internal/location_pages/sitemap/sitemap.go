// Package sitemap builds /sitemap-main.xml from the static pages, the service
// catalog and the published cities with their neighborhoods.
package sitemap

import (
	"context"
	"encoding/xml"
	"strings"
	"time"

	"go.uber.org/zap"

	"location-pages/internal/location_pages/content"
	"location-pages/internal/location_pages/links"
	"location-pages/internal/location_pages/model"
)

const xmlns = "http://www.sitemaps.org/schemas/sitemap/0.9"

type URL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

type urlSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

type staticPage struct {
	path       string
	changeFreq string
	priority   string
}

var staticPages = []staticPage{
	{"", "monthly", "1.0"},
	{"about/", "monthly", "0.8"},
	{"contact/", "monthly", "0.8"},
	{"services/", "monthly", "0.8"},
}

// Generator 生成站点地图；任何上游错误都退化为空列表，不向调用方报错
type Generator struct {
	Fetcher  content.Fetcher
	Services []model.Service
	Log      *zap.Logger
	Now      func() time.Time
}

func NewGenerator(f content.Fetcher, services []model.Service, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{Fetcher: f, Services: services, Log: log, Now: time.Now}
}

// Entries lists every URL of the sitemap. baseURL must end with "/".
func (g *Generator) Entries(ctx context.Context, baseURL string) []URL {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	lastmod := now().UTC().Format(time.RFC3339)

	out := make([]URL, 0, len(staticPages)+len(g.Services))
	add := func(path, freq, prio string) {
		out = append(out, URL{Loc: baseURL + path, LastMod: lastmod, ChangeFreq: freq, Priority: prio})
	}

	for _, p := range staticPages {
		add(p.path, p.changeFreq, p.priority)
	}
	for _, s := range g.Services {
		add("services/"+s.Slug+"/", "weekly", "0.7")
	}

	cities := g.cities(ctx)
	type city struct {
		slug  string
		hoods []string
	}
	var withSlug []city
	for _, c := range cities {
		slug := c.Slug
		if slug == "" {
			slug = links.Slugify(c.Name)
		}
		if slug == "" {
			continue
		}
		withSlug = append(withSlug, city{slug: slug, hoods: links.SplitList(c.Neighbourhoods, links.Neighborhood)})
		add(slug+"/", "weekly", "0.8")
	}
	for _, c := range withSlug {
		for _, name := range c.hoods {
			add(c.slug+"/neighborhoods/"+links.NeighborhoodSlug(name, c.slug)+"/", "monthly", "0.6")
		}
	}
	return out
}

// Generate renders the sitemap document.
func (g *Generator) Generate(ctx context.Context, baseURL string) []byte {
	set := urlSet{Xmlns: xmlns, URLs: g.Entries(ctx, baseURL)}
	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		// URL only holds strings; this cannot fail in practice
		g.Log.Error("Failed to marshal sitemap", zap.Error(err))
		return []byte(xml.Header + `<urlset xmlns="` + xmlns + `"></urlset>`)
	}
	return append([]byte(xml.Header), body...)
}

func (g *Generator) cities(ctx context.Context) []model.ContentRecord {
	if g.Fetcher == nil {
		return nil
	}
	cities, err := g.Fetcher.Fetch(ctx, content.Subdomains)
	if err != nil {
		g.Log.Warn("Subdomain fetch failed, sitemap falls back to static entries", zap.Error(err))
		return nil
	}
	return cities
}
