// Package placeholder replaces location and phone tokens in authored content.
package placeholder

import (
	"strings"

	"go.uber.org/zap"

	"location-pages/internal/location_pages/model"
)

const DefaultPhoneToken = "[phone]"

type Substituter struct {
	LocationToken   string
	PhoneToken      string
	DefaultLocation string
	Phone           string
	Log             *zap.Logger
}

func New(b model.BusinessInfo) Substituter {
	s := Substituter{
		LocationToken:   b.LocationToken,
		PhoneToken:      b.PhoneToken,
		DefaultLocation: b.DefaultLocation,
		Phone:           b.Phone,
	}
	if s.PhoneToken == "" {
		s.PhoneToken = DefaultPhoneToken
	}
	return s
}

// Text replaces the tokens in text. location falls back to DefaultLocation
// when empty. A replacement that itself contains a token is not applied, which
// keeps Text idempotent.
func (s Substituter) Text(text, location string) string {
	if text == "" {
		return text
	}
	if location == "" {
		location = s.DefaultLocation
	}
	text = s.replace(text, s.LocationToken, location, s.PhoneToken)
	text = s.replace(text, s.PhoneToken, s.Phone, s.LocationToken)
	return text
}

func (s Substituter) replace(text, token, value, other string) string {
	if token == "" || !strings.Contains(text, token) {
		return text
	}
	if strings.Contains(value, token) || (other != "" && strings.Contains(value, other)) {
		if s.Log != nil {
			s.Log.Warn("Replacement value contains a placeholder token, text left unsubstituted",
				zap.String("token", token),
				zap.String("value", value),
			)
		}
		return text
	}
	return strings.ReplaceAll(text, token, value)
}

// Record returns a copy of rec with every text field and FAQ entry substituted
// using rec.Name as the location.
func (s Substituter) Record(rec model.ContentRecord) model.ContentRecord {
	out := rec
	for _, f := range out.TextFields() {
		*f = s.Text(*f, rec.Name)
	}
	if len(rec.FAQ) > 0 {
		out.FAQ = make([]model.FAQ, len(rec.FAQ))
		for i, q := range rec.FAQ {
			out.FAQ[i] = model.FAQ{
				Question: s.Text(q.Question, rec.Name),
				Answer:   s.Text(q.Answer, rec.Name),
			}
		}
	}
	return out
}
