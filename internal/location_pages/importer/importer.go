// Package importer copies authored JSON collections into MongoDB.
package importer

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"location-pages/internal/location_pages/content"
	"location-pages/internal/location_pages/helper"
	"location-pages/internal/location_pages/model"
)

// Writer persists one record keyed by slug.
type Writer interface {
	Upsert(ctx context.Context, collection string, rec model.ContentRecord) error
}

// MongoWriter upserts into the fixed collections of Stores.
type MongoWriter struct {
	Stores *helper.Stores
}

func (w *MongoWriter) Upsert(ctx context.Context, collection string, rec model.ContentRecord) error {
	coll := w.Stores.Collection(collection)
	if coll == nil {
		return fmt.Errorf("unknown collection %q", collection)
	}
	_, err := coll.ReplaceOne(ctx, bson.M{"slug": rec.Slug}, rec, options.Replace().SetUpsert(true))
	return err
}

type Importer struct {
	Source      content.Source
	Writer      Writer
	Log         *zap.Logger
	MaxAttempts int
	BaseDelay   time.Duration
}

func New(src content.Source, w Writer, log *zap.Logger) *Importer {
	return &Importer{Source: src, Writer: w, Log: log, MaxAttempts: 5, BaseDelay: 2 * time.Second}
}

// Import upserts every record of collection and returns how many were written.
// Publish dates are validated but not filtered: scheduled records are imported
// too and become visible on their date.
func (im *Importer) Import(ctx context.Context, collection string) (int, error) {
	entries, err := im.Source.Load(ctx, collection)
	if err != nil {
		return 0, fmt.Errorf("load %s: %w", collection, err)
	}

	written := 0
	for _, e := range entries {
		rec := e.Record
		if err := rec.Normalize(e.Key, helper.Location()); err != nil {
			im.Log.Warn("Skipping record with invalid publish date",
				zap.String("collection", collection),
				zap.String("key", e.Key),
				zap.Error(err),
			)
			continue
		}
		if rec.Slug == "" {
			continue
		}
		if err := im.upsertWithRetry(ctx, collection, rec); err != nil {
			return written, err
		}
		written++
	}

	im.Log.Info("Import completed",
		zap.String("collection", collection),
		zap.Int("records", len(entries)),
		zap.Int("written", written),
	)
	return written, nil
}

// retryDelay 计算重试延迟：base * 2^(n-1)
func (im *Importer) retryDelay(attempt int) time.Duration {
	delay := im.BaseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}
	return delay
}

func (im *Importer) upsertWithRetry(ctx context.Context, collection string, rec model.ContentRecord) error {
	maxAttempts := im.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = im.Writer.Upsert(ctx, collection, rec); err == nil {
			return nil
		}
		if attempt == maxAttempts {
			break
		}
		delay := im.retryDelay(attempt)
		im.Log.Warn("Upsert failed, retry scheduled",
			zap.String("collection", collection),
			zap.String("slug", rec.Slug),
			zap.Int("attempt", attempt),
			zap.Int("maxAttempts", maxAttempts),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	im.Log.Error("Upsert max attempts exceeded, giving up",
		zap.String("collection", collection),
		zap.String("slug", rec.Slug),
		zap.Error(err),
	)
	return fmt.Errorf("upsert %s/%s: %w", collection, rec.Slug, err)
}
