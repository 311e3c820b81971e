package page

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"location-pages/internal/location_pages/content"
	"location-pages/internal/location_pages/links"
	"location-pages/internal/location_pages/model"
)

// Site-level pages served on the apex host: home, about, contact and the
// service catalog. They list cities and services and carry no JSON-LD.

const siteView = "site"

func (c *Composer) sitePage(title, heading, path string) *Page {
	return &Page{
		Kind:      siteView,
		Title:     title,
		Canonical: fmt.Sprintf("https://%s/%s", c.Business.Host, path),
		Business:  c.Business,
		Banner:    Banner{Heading: heading},
	}
}

// cityLinks lists the published cities; fetch failures leave the list empty.
func (c *Composer) cityLinks(ctx context.Context) []links.Link {
	cities, err := c.Fetcher.Fetch(ctx, content.Subdomains)
	if err != nil {
		if !errors.Is(err, content.ErrNotFound) {
			c.Log.Warn("Subdomain fetch failed, listing no cities", zap.Error(err))
		}
		return nil
	}
	out := make([]links.Link, 0, len(cities))
	for _, city := range cities {
		label := city.Name
		if label == "" {
			label = city.Slug
		}
		out = append(out, links.Link{Label: label, Href: fmt.Sprintf("https://%s.%s/", city.Slug, c.Business.Host)})
	}
	return out
}

func (c *Composer) serviceLinks() []links.Link {
	out := make([]links.Link, 0, len(c.Services))
	for _, s := range c.Services {
		out = append(out, links.Link{Label: s.Title, Href: "/services/" + s.Slug + "/"})
	}
	return out
}

// Home composes the apex landing page.
func (c *Composer) Home(ctx context.Context) *Page {
	b := c.Business
	p := c.sitePage(fmt.Sprintf("%s | %s", b.Name, b.Service), fmt.Sprintf("%s by %s", b.Service, b.Name), "")
	p.Banner.Quote = b.Phone
	p.Cities = c.cityLinks(ctx)
	p.Services = c.serviceLinks()
	return p
}

func (c *Composer) About() *Page {
	b := c.Business
	p := c.sitePage("About "+b.Name, "About "+b.Name, "about/")
	p.Intro = fmt.Sprintf("%s provides %s in every city listed below.", b.Name, b.Service)
	return p
}

func (c *Composer) Contact() *Page {
	b := c.Business
	p := c.sitePage("Contact "+b.Name, "Contact "+b.Name, "contact/")
	p.Intro = "Call " + b.Phone + " to book a visit."
	return p
}

// ServiceIndex lists the service catalog.
func (c *Composer) ServiceIndex() *Page {
	p := c.sitePage(c.Business.Name+" Services", "Our Services", "services/")
	p.Services = c.serviceLinks()
	return p
}

// Service composes /services/{slug}/ with the cities it is offered in.
func (c *Composer) Service(ctx context.Context, slug string) (*Page, error) {
	var svc *model.Service
	for i := range c.Services {
		if c.Services[i].Slug == slug {
			svc = &c.Services[i]
			break
		}
	}
	if svc == nil {
		return nil, ErrNotFound
	}
	p := c.sitePage(fmt.Sprintf("%s | %s", svc.Title, c.Business.Name), svc.Title, "services/"+slug+"/")
	p.Intro = fmt.Sprintf("%s by %s. Call %s.", svc.Title, c.Business.Name, c.Business.Phone)
	p.Cities = c.cityLinks(ctx)
	return p, nil
}
