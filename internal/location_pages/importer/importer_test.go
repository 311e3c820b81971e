package importer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"location-pages/internal/location_pages/content"
	"location-pages/internal/location_pages/model"
)

type memSource struct{ entries []content.Entry }

func (s memSource) Load(context.Context, string) ([]content.Entry, error) { return s.entries, nil }

type flakyWriter struct {
	failures map[string]int // slug -> remaining failures
	written  []string
}

func (w *flakyWriter) Upsert(_ context.Context, _ string, rec model.ContentRecord) error {
	if w.failures[rec.Slug] > 0 {
		w.failures[rec.Slug]--
		return errors.New("write conflict")
	}
	w.written = append(w.written, rec.Slug)
	return nil
}

func newImporter(src content.Source, w Writer) *Importer {
	im := New(src, w, zap.NewNop())
	im.BaseDelay = time.Millisecond
	im.MaxAttempts = 3
	return im
}

func TestImportRetriesAndBackfillsSlugs(t *testing.T) {
	src := memSource{entries: []content.Entry{
		{Key: "north-loop-austin-tx", Record: model.ContentRecord{Name: "North Loop"}},
		{Key: "bad", Record: model.ContentRecord{PublishedAt: "tomorrow-ish"}},
		{Key: "scheduled", Record: model.ContentRecord{PublishedAt: "2099-01-01"}},
	}}
	w := &flakyWriter{failures: map[string]int{"north-loop-austin-tx": 2}}

	n, err := newImporter(src, w).Import(context.Background(), content.Neighborhoods)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"north-loop-austin-tx", "scheduled"}, w.written)
}

func TestImportGivesUp(t *testing.T) {
	src := memSource{entries: []content.Entry{{Key: "a"}, {Key: "b"}}}
	w := &flakyWriter{failures: map[string]int{"a": 10}}

	n, err := newImporter(src, w).Import(context.Background(), content.Subdomains)
	require.Error(t, err)
	assert.Equal(t, 0, n)
	assert.Empty(t, w.written)
}

func TestImportStopsOnCancel(t *testing.T) {
	src := memSource{entries: []content.Entry{{Key: "a"}}}
	w := &flakyWriter{failures: map[string]int{"a": 10}}
	im := newImporter(src, w)
	im.BaseDelay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	_, err := im.Import(ctx, content.Subdomains)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRetryDelayDoubles(t *testing.T) {
	im := &Importer{BaseDelay: 15 * time.Second}
	assert.Equal(t, 15*time.Second, im.retryDelay(1))
	assert.Equal(t, 30*time.Second, im.retryDelay(2))
	assert.Equal(t, 60*time.Second, im.retryDelay(3))
}
