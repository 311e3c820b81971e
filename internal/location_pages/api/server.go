package api

import (
	"bytes"
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"location-pages/internal/location_pages/content"
	"location-pages/internal/location_pages/model"
	"location-pages/internal/location_pages/page"
	"location-pages/internal/location_pages/sitemap"
	"location-pages/internal/middleware/logger"
)

type Server struct {
	Resolver *content.Resolver
	Pages    *page.Composer
	Sitemap  *sitemap.Generator
	Business model.BusinessInfo
	BaseURL  string // used when the request carries no Host
	Log      *zap.Logger
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(logger.RequestID(), logger.Gin(s.Log), logger.Recovery(s.Log))

	api := r.Group("/api", noStore())
	api.GET("/neighborhoods", s.listCollection(content.Neighborhoods))
	api.GET("/subdomains", s.listCollection(content.Subdomains))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/sitemap-main.xml", s.sitemap)

	// 页面路径以 / 结尾，与站点地图一致；不带 / 的请求由 gin 重定向
	r.GET("/", s.sitePage(s.Pages.Home))
	r.GET("/about/", s.staticPage(s.Pages.About))
	r.GET("/contact/", s.staticPage(s.Pages.Contact))
	r.GET("/services/", s.staticPage(s.Pages.ServiceIndex))
	r.GET("/services/:service/", s.servicePage)
	r.GET("/neighborhoods/:neighborhood/", s.neighborhoodPage)
	r.GET("/:state/", s.cityPage)
	r.GET("/:state/neighborhoods/:neighborhood/", s.neighborhoodPage)
	r.NoRoute(s.notFound)
	return r
}

// Handler serves Router with city subdomains mapped onto the city routes.
func (s *Server) Handler() http.Handler {
	return s.Subdomains(s.Router())
}

// Subdomains rewrites requests for {city}.{host} so "/" and "/neighborhoods/..."
// resolve to "/{city}/" and "/{city}/neighborhoods/...".
func (s *Server) Subdomains(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if city := s.cityOf(r.Host); city != "" {
			p := r.URL.Path
			if p == "/" || p == "/neighborhoods" || strings.HasPrefix(p, "/neighborhoods/") {
				r.URL.Path = "/" + city + p
				r.URL.RawPath = ""
			}
		}
		next.ServeHTTP(w, r)
	})
}

// cityOf returns the city slug of a {city}.{business host} Host header.
func (s *Server) cityOf(host string) string {
	if s.Business.Host == "" {
		return ""
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.ToLower(host)
	city, ok := strings.CutSuffix(host, "."+strings.ToLower(s.Business.Host))
	if !ok || city == "" || city == "www" || strings.Contains(city, ".") {
		return ""
	}
	return city
}

func noStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store, must-revalidate")
		c.Header("Pragma", "no-cache")
		c.Next()
	}
}

// listCollection 返回当日可见的记录；空结果与读取失败分别对应 404 / 500
func (s *Server) listCollection(collection string) gin.HandlerFunc {
	total := "total" + strings.ToUpper(collection[:1]) + collection[1:]
	return func(c *gin.Context) {
		res, err := s.Resolver.Resolve(c.Request.Context(), collection)
		switch {
		case errors.Is(err, content.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"message":     "No published " + collection + " found for the current date",
				"currentDate": res.CurrentDate(),
			})
		case err != nil:
			s.Log.Error("Failed to resolve collection",
				zap.String("collection", collection),
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, gin.H{
				"message": "Error reading " + collection,
				"error":   err.Error(),
			})
		default:
			c.JSON(http.StatusOK, gin.H{
				collection:    res.Items,
				"currentDate": res.CurrentDate(),
				total:         len(res.Items),
			})
		}
	}
}

func (s *Server) sitemap(c *gin.Context) {
	body := s.Sitemap.Generate(c.Request.Context(), s.requestBaseURL(c))
	c.Data(http.StatusOK, "application/xml; charset=utf-8", body)
}

// requestBaseURL 按 X-Forwarded-Proto 与 Host 拼出站点根地址
func (s *Server) requestBaseURL(c *gin.Context) string {
	host := c.Request.Host
	if host == "" {
		return s.BaseURL
	}
	proto := c.GetHeader("X-Forwarded-Proto")
	if proto == "" {
		proto = "https"
	}
	return proto + "://" + host + "/"
}

func (s *Server) sitePage(compose func(context.Context) *page.Page) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.renderPage(c, compose(c.Request.Context()), nil)
	}
}

func (s *Server) staticPage(compose func() *page.Page) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.renderPage(c, compose(), nil)
	}
}

func (s *Server) servicePage(c *gin.Context) {
	p, err := s.Pages.Service(c.Request.Context(), c.Param("service"))
	s.renderPage(c, p, err)
}

func (s *Server) neighborhoodPage(c *gin.Context) {
	p, err := s.Pages.Neighborhood(c.Request.Context(), c.Param("state"), c.Param("neighborhood"))
	s.renderPage(c, p, err)
}

func (s *Server) cityPage(c *gin.Context) {
	p, err := s.Pages.City(c.Request.Context(), c.Param("state"))
	s.renderPage(c, p, err)
}

func (s *Server) renderPage(c *gin.Context, p *page.Page, err error) {
	if err != nil {
		if !errors.Is(err, page.ErrNotFound) {
			s.Log.Error("Failed to compose page", zap.String("path", c.Request.URL.Path), zap.Error(err))
		}
		s.notFound(c)
		return
	}
	var buf bytes.Buffer
	if err := page.Render(&buf, p); err != nil {
		s.Log.Error("Failed to render page", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.String(http.StatusInternalServerError, "internal server error")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (s *Server) notFound(c *gin.Context) {
	var buf bytes.Buffer
	if err := page.RenderNotFound(&buf, s.Business); err != nil {
		s.Log.Error("Failed to render not found page", zap.Error(err))
		c.String(http.StatusNotFound, "not found")
		return
	}
	c.Data(http.StatusNotFound, "text/html; charset=utf-8", buf.Bytes())
}
