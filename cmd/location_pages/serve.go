package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"location-pages/internal/location_pages/api"
	"location-pages/internal/location_pages/apiclient"
	"location-pages/internal/location_pages/content"
	"location-pages/internal/location_pages/helper"
	"location-pages/internal/location_pages/model"
	"location-pages/internal/location_pages/page"
	"location-pages/internal/location_pages/sitemap"
	"location-pages/pkg/config"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Long: `Run the HTTP server.

Routes:
  GET /api/neighborhoods, /api/subdomains   published content as JSON
  GET /sitemap-main.xml                     sitemap
  GET /, /about/, /contact/, /services/      site pages
  GET /{city}/ or {city}.{host}/            city page
  GET /{city}/neighborhoods/{slug}/         neighborhood page`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Starting location pages service...", zap.String("store", cfg.Content.Store))

	src, closeSrc, err := openSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSrc()

	resolver := content.NewResolver(src, log)

	// 页面与站点地图默认在进程内解析；store=api 时改走远端 /api
	var fetcher content.Fetcher = resolver
	if cfg.Content.Store == config.StoreAPI {
		fetcher = apiclient.New(cfg.Content.APIBaseURL, cfg.Content.APITimeout, log)
	}

	services, err := content.LoadServices(cfg.Content.ServicesFile)
	if err != nil {
		log.Warn("Service catalog unavailable, sitemap lists no services", zap.Error(err))
		services = []model.Service{}
	}

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	pages := page.NewComposer(fetcher, cfg.Business, log)
	pages.Services = services
	srv := &api.Server{
		Resolver: resolver,
		Pages:    pages,
		Sitemap:  sitemap.NewGenerator(fetcher, services, log),
		Business: cfg.Business,
		BaseURL:  cfg.Server.BaseURL,
		Log:      log,
	}
	r := srv.Router()
	if err := r.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		return fmt.Errorf("trusted proxies: %w", err)
	}

	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Subdomains(r),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("Location pages service is running", zap.String("address", cfg.Server.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen %s: %w", cfg.Server.Addr, err)
	case <-ctx.Done():
	}

	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// openSource builds the content source for the configured store. The api store
// still serves /api from the local content directory.
func openSource(ctx context.Context, c *config.Config) (content.Source, func(), error) {
	switch c.Content.Store {
	case config.StoreMongo:
		stores, err := helper.NewMongo(ctx, mongoOptions(c))
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := stores.Close(closeCtx); err != nil {
				log.Warn("Mongo disconnect failed", zap.Error(err))
			}
		}
		return &content.MongoSource{Stores: stores}, closeFn, nil
	default:
		return content.NewFileSource(c.Content.Dir, c.Content.Files), func() {}, nil
	}
}

func mongoOptions(c *config.Config) helper.MongoOptions {
	return helper.MongoOptions{
		Host:       c.Mongo.Host,
		DBName:     c.Mongo.DBName,
		Username:   c.Mongo.Username,
		Password:   c.Mongo.Password,
		AuthSource: c.Mongo.AuthSource,
		Timeout:    c.Mongo.Timeout,
	}
}
