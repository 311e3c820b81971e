package page

import (
	"encoding/json"
	"fmt"
)

// schema.org JSON-LD payload embedded in every page.

const schemaContext = "https://schema.org"

const (
	reviewRating    = "4.9"
	bestRating      = "5"
	aggregateCount  = 7
	aggregateRating = 4.802
	opensAt         = "09:00"
	closesAt        = "20:00"
)

var openDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

type ldGraph struct {
	Context string `json:"@context"`
	Graph   []any  `json:"@graph"`
}

type ldLocalBusiness struct {
	Context      string         `json:"@context"`
	Type         string         `json:"@type"`
	Name         string         `json:"name"`
	Image        string         `json:"image,omitempty"`
	Address      ldAddress      `json:"address"`
	Review       ldReview       `json:"review"`
	Telephone    string         `json:"telephone"`
	OpeningHours ldOpeningHours `json:"openingHoursSpecification"`
}

type ldAddress struct {
	Type            string `json:"@type"`
	StreetAddress   string `json:"streetAddress"`
	AddressLocality string `json:"addressLocality"`
	AddressRegion   string `json:"addressRegion"`
	PostalCode      string `json:"postalCode"`
	AddressCountry  string `json:"addressCountry"`
}

type ldReview struct {
	Type         string   `json:"@type"`
	ReviewRating ldRating `json:"reviewRating"`
	Author       ldThing  `json:"author"`
}

type ldRating struct {
	Type        string `json:"@type"`
	RatingValue string `json:"ratingValue"`
	BestRating  string `json:"bestRating"`
}

type ldThing struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

type ldOpeningHours struct {
	Type      string   `json:"@type"`
	DayOfWeek []string `json:"dayOfWeek"`
	Opens     string   `json:"opens"`
	Closes    string   `json:"closes"`
}

type ldProduct struct {
	Context         string            `json:"@context"`
	Type            string            `json:"@type"`
	Name            string            `json:"name"`
	Brand           ldThing           `json:"brand"`
	Description     string            `json:"description"`
	URL             string            `json:"url"`
	AggregateRating ldAggregateRating `json:"aggregateRating"`
}

type ldAggregateRating struct {
	Type        string  `json:"@type"`
	ReviewCount int     `json:"reviewCount"`
	RatingValue float64 `json:"ratingValue"`
}

type ldFAQPage struct {
	Type       string       `json:"@type"`
	MainEntity []ldQuestion `json:"mainEntity"`
}

type ldQuestion struct {
	Type           string   `json:"@type"`
	Name           string   `json:"name"`
	AcceptedAnswer ldAnswer `json:"acceptedAnswer"`
}

type ldAnswer struct {
	Type string `json:"@type"`
	Text string `json:"text"`
}

func structuredData(p *Page) ([]byte, error) {
	b := p.Business
	streetAddress := fmt.Sprintf("%s %s", p.StateName, b.Service)

	business := ldLocalBusiness{
		Context: schemaContext,
		Type:    "LocalBusiness",
		Name:    b.Name,
		Image:   b.LogoImage,
		Address: ldAddress{
			Type:            "PostalAddress",
			StreetAddress:   streetAddress,
			AddressLocality: p.Location,
			AddressRegion:   p.StateName,
			PostalCode:      p.Record.ZipCodes,
			AddressCountry:  "US",
		},
		Review: ldReview{
			Type:         "Review",
			ReviewRating: ldRating{Type: "Rating", RatingValue: reviewRating, BestRating: bestRating},
			Author:       ldThing{Type: "Person", Name: streetAddress},
		},
		Telephone: b.Phone,
		OpeningHours: ldOpeningHours{
			Type:      "OpeningHoursSpecification",
			DayOfWeek: openDays,
			Opens:     opensAt,
			Closes:    closesAt,
		},
	}

	product := ldProduct{
		Context:     schemaContext,
		Type:        "Product",
		Name:        fmt.Sprintf("%s in %s", b.Service, p.Location),
		Brand:       ldThing{Type: "Brand", Name: fmt.Sprintf("%s %s Pros", b.Service, p.Location)},
		Description: p.Description,
		URL:         p.Canonical,
		AggregateRating: ldAggregateRating{
			Type:        "AggregateRating",
			ReviewCount: aggregateCount,
			RatingValue: aggregateRating,
		},
	}

	faq := ldFAQPage{Type: "FAQPage", MainEntity: make([]ldQuestion, 0, len(p.FAQ))}
	for _, q := range p.FAQ {
		faq.MainEntity = append(faq.MainEntity, ldQuestion{
			Type:           "Question",
			Name:           q.Question,
			AcceptedAnswer: ldAnswer{Type: "Answer", Text: q.Answer},
		})
	}

	return json.Marshal(ldGraph{
		Context: schemaContext,
		Graph:   []any{business, product, faq},
	})
}
