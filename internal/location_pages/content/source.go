package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"location-pages/internal/location_pages/model"
)

// Collection names served by the API.
const (
	Neighborhoods = "neighborhoods"
	Subdomains    = "subdomains"
)

// Entry is a record together with the key it was stored under.
type Entry struct {
	Key    string
	Record model.ContentRecord
}

// Source loads a raw collection. Implementations must not cache: every call
// reads the backing store again.
type Source interface {
	Load(ctx context.Context, collection string) ([]Entry, error)
}

// FileSource reads collections from JSON files in Dir.
type FileSource struct {
	Dir   string
	Files map[string]string // collection -> file name
}

// NewFileSource 以默认文件名创建 FileSource，files 中的条目覆盖默认值
func NewFileSource(dir string, files map[string]string) *FileSource {
	fs := &FileSource{
		Dir: dir,
		Files: map[string]string{
			Neighborhoods: "neighborhoodContent.json",
			Subdomains:    "subdomainContent.json",
		},
	}
	for k, v := range files {
		fs.Files[k] = v
	}
	return fs
}

func (s *FileSource) Load(ctx context.Context, collection string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name, ok := s.Files[collection]
	if !ok {
		return nil, fmt.Errorf("unknown collection %q", collection)
	}
	path := filepath.Join(s.Dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	entries, err := DecodeCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return entries, nil
}

// DecodeCollection decodes either a slug-keyed object or an array of records.
// Object key order is preserved so ties in publish date keep authoring order.
// A repeated key keeps its first position and takes the last value.
func DecodeCollection(data []byte) ([]Entry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return nil, fmt.Errorf("collection must be a JSON object or array, got %T", tok)
	}

	var out []Entry
	seen := make(map[string]int)
	put := func(e Entry) {
		if e.Key == "" {
			out = append(out, e)
			return
		}
		if i, ok := seen[e.Key]; ok {
			out[i] = e
			return
		}
		seen[e.Key] = len(out)
		out = append(out, e)
	}
	switch delim {
	case '{':
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, _ := keyTok.(string)
			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			var rec model.ContentRecord
			// null values become empty records; the key still supplies the slug
			if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
				if err := json.Unmarshal(raw, &rec); err != nil {
					return nil, fmt.Errorf("key %q: %w", key, err)
				}
			}
			put(Entry{Key: key, Record: rec})
		}
	case '[':
		for dec.More() {
			var rec model.ContentRecord
			if err := dec.Decode(&rec); err != nil {
				return nil, fmt.Errorf("index %d: %w", len(out), err)
			}
			put(Entry{Key: strings.TrimSpace(rec.Slug), Record: rec})
		}
	default:
		return nil, fmt.Errorf("unexpected delimiter %q", delim)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return out, nil
}
