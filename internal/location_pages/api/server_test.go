package api

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"location-pages/internal/location_pages/content"
	"location-pages/internal/location_pages/model"
	"location-pages/internal/location_pages/page"
	"location-pages/internal/location_pages/sitemap"
)

type memSource struct {
	data map[string][]content.Entry
	err  error
}

func (s memSource) Load(_ context.Context, collection string) ([]content.Entry, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.data[collection], nil
}

var business = model.BusinessInfo{
	Name:          "Bug Busters",
	Phone:         "(512) 555-0100",
	Host:          "bugbusters.com",
	Service:       "Pest Control",
	LocationToken: "[location]",
	PhoneToken:    "[phone]",
}

var services = []model.Service{{Slug: "termite-control", Title: "Termite Control"}}

func fixture() memSource {
	return memSource{data: map[string][]content.Entry{
		content.Neighborhoods: {
			{Key: "north-loop-austin-tx", Record: model.ContentRecord{
				Name: "North Loop", ParentState: "austin-tx", PublishedAt: "2024-05-01",
				MetaTitle: "Pest Control in [location]", H1Banner: "[location] Exterminators",
			}},
			{Key: "hyde-park-austin-tx", Record: model.ContentRecord{
				Name: "Hyde Park", ParentState: "austin-tx", PublishedAt: "2024-05-20",
			}},
			{Key: "future-austin-tx", Record: model.ContentRecord{
				Name: "Future", ParentState: "austin-tx", PublishedAt: "2030-01-01",
			}},
		},
		content.Subdomains: {
			{Key: "austin-tx", Record: model.ContentRecord{
				Name: "Austin", MetaTitle: "[location] Pest Control", Neighbourhoods: "North Loop|Hyde Park",
			}},
		},
	}}
}

func newServer(src content.Source) *Server {
	gin.SetMode(gin.TestMode)
	log := zap.NewNop()
	res := content.NewResolver(src, log)
	res.Now = func() time.Time { return time.Date(2024, 6, 1, 9, 0, 0, 0, time.Local) }
	res.Location = time.Local
	pages := page.NewComposer(res, business, log)
	pages.Services = services
	return &Server{
		Resolver: res,
		Pages:    pages,
		Sitemap:  sitemap.NewGenerator(res, services, log),
		Business: business,
		BaseURL:  "https://bugbusters.com/",
		Log:      log,
	}
}

func get(r http.Handler, target string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListNeighborhoods(t *testing.T) {
	r := newServer(fixture()).Router()
	w := get(r, "/api/neighborhoods", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-store, must-revalidate", w.Header().Get("Cache-Control"))
	assert.Equal(t, "no-cache", w.Header().Get("Pragma"))

	var body struct {
		Neighborhoods      []model.ContentRecord `json:"neighborhoods"`
		CurrentDate        string                `json:"currentDate"`
		TotalNeighborhoods int                   `json:"totalNeighborhoods"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "2024-06-01", body.CurrentDate)
	assert.Equal(t, 2, body.TotalNeighborhoods)
	require.Len(t, body.Neighborhoods, 2)
	assert.Equal(t, "hyde-park-austin-tx", body.Neighborhoods[0].Slug)
	assert.Equal(t, "north-loop-austin-tx", body.Neighborhoods[1].Slug)
}

func TestListSubdomainsKeys(t *testing.T) {
	r := newServer(fixture()).Router()
	w := get(r, "/api/subdomains", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body, "subdomains")
	assert.EqualValues(t, 1, body["totalSubdomains"])
}

func TestListEmptyIsNotFound(t *testing.T) {
	src := memSource{data: map[string][]content.Entry{
		content.Neighborhoods: {{Key: "later", Record: model.ContentRecord{PublishedAt: "2030-01-01"}}},
	}}
	w := get(newServer(src).Router(), "/api/neighborhoods", nil)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "no-store, must-revalidate", w.Header().Get("Cache-Control"))
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "2024-06-01", body["currentDate"])
	assert.Equal(t, "No published neighborhoods found for the current date", body["message"])
}

func TestListLoadFailure(t *testing.T) {
	w := get(newServer(memSource{err: errors.New("unexpected end of JSON input")}).Router(), "/api/subdomains", nil)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Error reading subdomains", body["message"])
	assert.Contains(t, body["error"], "unexpected end of JSON input")
}

func TestNeighborhoodPageRoute(t *testing.T) {
	r := newServer(fixture()).Router()

	w := get(r, "/austin-tx/neighborhoods/north-loop-austin-tx/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "North Loop Exterminators")
	assert.NotContains(t, w.Body.String(), "[location]")

	w = get(r, "/austin-tx/neighborhoods/future-austin-tx/", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
}

func TestCityPageRoute(t *testing.T) {
	r := newServer(fixture()).Router()

	w := get(r, "/austin-tx/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Austin Pest Control")

	w = get(r, "/austin-tx", nil)
	assert.Equal(t, http.StatusMovedPermanently, w.Code)
	assert.Equal(t, "/austin-tx/", w.Header().Get("Location"))

	w = get(r, "/nowhere-zz/", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPagesNotFoundOnLoadFailure(t *testing.T) {
	r := newServer(memSource{err: errors.New("disk on fire")}).Router()
	assert.Equal(t, http.StatusNotFound, get(r, "/austin-tx/neighborhoods/north-loop-austin-tx/", nil).Code)
	assert.Equal(t, http.StatusNotFound, get(r, "/austin-tx/", nil).Code)
}

func TestSitemapUsesRequestHost(t *testing.T) {
	r := newServer(fixture()).Router()

	w := get(r, "/sitemap-main.xml", map[string]string{"X-Forwarded-Proto": "http"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/xml")
	// httptest requests carry Host example.com
	assert.Contains(t, w.Body.String(), "<loc>http://example.com/</loc>")
	assert.Contains(t, w.Body.String(), "<loc>http://example.com/austin-tx/</loc>")

	w = get(r, "/sitemap-main.xml", nil)
	assert.Contains(t, w.Body.String(), "<loc>https://example.com/about/</loc>")
}

func TestSitemapNeverFails(t *testing.T) {
	w := get(newServer(memSource{err: errors.New("boom")}).Router(), "/sitemap-main.xml", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<loc>https://example.com/</loc>")
}

func TestCanonicalURLsResolve(t *testing.T) {
	srv := newServer(fixture())
	h := srv.Handler()
	ctx := context.Background()

	hood, err := srv.Pages.Neighborhood(ctx, "austin-tx", "north-loop-austin-tx")
	require.NoError(t, err)
	city, err := srv.Pages.City(ctx, "austin-tx")
	require.NoError(t, err)

	for _, target := range []string{hood.Canonical, city.Canonical} {
		w := get(h, target, nil)
		assert.Equal(t, http.StatusOK, w.Code, target)
	}

	// relative links rendered on a city subdomain
	for _, l := range append(hood.Related, city.Neighborhoods...) {
		w := get(h, "https://austin-tx.bugbusters.com"+l.Href, nil)
		assert.Equal(t, http.StatusOK, w.Code, l.Href)
		assert.Contains(t, w.Body.String(), l.Label)
	}

	// and on the apex host the parent city comes from the record
	w := get(h, "/neighborhoods/hyde-park-austin-tx/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "https://austin-tx.bugbusters.com/neighborhoods/hyde-park-austin-tx/")

	w = get(h, "https://dallas-tx.bugbusters.com/", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSitemapURLsResolve(t *testing.T) {
	h := newServer(fixture()).Handler()

	body := get(h, "/sitemap-main.xml", nil).Body.Bytes()
	var set struct {
		URLs []struct {
			Loc string `xml:"loc"`
		} `xml:"url"`
	}
	require.NoError(t, xml.Unmarshal(body, &set))
	require.Len(t, set.URLs, 4+1+1+2)

	for _, u := range set.URLs {
		w := get(h, u.Loc, nil)
		assert.Equal(t, http.StatusOK, w.Code, u.Loc)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html", u.Loc)
	}
}

func TestCityOf(t *testing.T) {
	s := &Server{Business: business}
	tests := map[string]string{
		"austin-tx.bugbusters.com":      "austin-tx",
		"Austin-TX.BugBusters.com:8080": "austin-tx",
		"bugbusters.com":                "",
		"www.bugbusters.com":            "",
		"a.b.bugbusters.com":            "",
		"austin-tx.example.com":         "",
	}
	for host, want := range tests {
		assert.Equal(t, want, s.cityOf(host), host)
	}
}

func TestHealthz(t *testing.T) {
	w := get(newServer(fixture()).Router(), "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
