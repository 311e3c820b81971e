package content

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"location-pages/internal/location_pages/helper"
	"location-pages/internal/location_pages/model"
)

// ErrNotFound means the collection loaded fine but no record is published yet.
var ErrNotFound = errors.New("no published records found for the current date")

// Fetcher returns the visible, ordered records of a collection.
type Fetcher interface {
	Fetch(ctx context.Context, collection string) ([]model.ContentRecord, error)
}

// Result 一次解析的结果
type Result struct {
	Items []model.ContentRecord
	AsOf  time.Time // midnight of the evaluation date
}

// CurrentDate formats AsOf as YYYY-MM-DD.
func (r *Result) CurrentDate() string {
	return r.AsOf.Format("2006-01-02")
}

// Resolver loads a collection, filters out unpublished records and orders the
// rest newest first.
type Resolver struct {
	Source   Source
	Log      *zap.Logger
	Now      func() time.Time
	Location *time.Location
}

func NewResolver(src Source, log *zap.Logger) *Resolver {
	return &Resolver{Source: src, Log: log, Now: time.Now, Location: helper.Location()}
}

// Today returns the evaluation date used for filtering.
func (r *Resolver) Today() time.Time {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	return model.DateOf(now(), r.loc())
}

func (r *Resolver) logger() *zap.Logger {
	if r.Log != nil {
		return r.Log
	}
	return zap.NewNop()
}

func (r *Resolver) loc() *time.Location {
	if r.Location != nil {
		return r.Location
	}
	return time.Local
}

// Resolve returns the visible records of collection. The result is non-nil
// whenever the collection loaded, including when err is ErrNotFound, so callers
// can still report the evaluation date.
func (r *Resolver) Resolve(ctx context.Context, collection string) (*Result, error) {
	today := r.Today()
	res := &Result{AsOf: today}

	entries, err := r.Source.Load(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", collection, err)
	}

	items := make([]model.ContentRecord, 0, len(entries))
	for _, e := range entries {
		rec := e.Record
		if err := rec.Normalize(e.Key, r.loc()); err != nil {
			r.logger().Warn("Skipping record with invalid publish date",
				zap.String("collection", collection),
				zap.String("key", e.Key),
				zap.Error(err),
			)
			continue
		}
		if rec.Slug == "" {
			r.logger().Warn("Skipping record without slug", zap.String("collection", collection))
			continue
		}
		if !rec.VisibleOn(today) {
			continue
		}
		items = append(items, rec)
	}

	SortByPublished(items)
	res.Items = items

	if len(items) == 0 {
		return res, ErrNotFound
	}
	return res, nil
}

// Fetch implements Fetcher.
func (r *Resolver) Fetch(ctx context.Context, collection string) ([]model.ContentRecord, error) {
	res, err := r.Resolve(ctx, collection)
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}

// SortByPublished orders records newest first; undated records go last and
// ties keep their original order.
func SortByPublished(items []model.ContentRecord) {
	sort.SliceStable(items, func(i, j int) bool {
		di, iok := items[i].PublishedOn()
		dj, jok := items[j].PublishedOn()
		if !iok {
			return false
		}
		if !jok {
			return true
		}
		return di.After(dj)
	})
}
