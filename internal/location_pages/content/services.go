package content

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"location-pages/internal/location_pages/model"
)

// LoadServices reads the static service catalog. Entries without a slug are dropped.
func LoadServices(path string) ([]model.Service, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read services %s: %w", path, err)
	}
	var cat model.ServiceCatalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parse services %s: %w", path, err)
	}
	out := make([]model.Service, 0, len(cat.ServiceData.Lists))
	for _, s := range cat.ServiceData.Lists {
		s.Slug = strings.TrimSpace(s.Slug)
		if s.Slug == "" {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}
