package news

import (
	"fmt"
	"strings"

	"MarketAtlas/internal/domain/models"
)

// Registry is the static, ordered set of news sources. It is read-only after construction.
type Registry struct {
	order []models.NewsSource
	byID  map[string]int
}

// NewRegistry builds a registry. Ids are normalized; duplicates are rejected.
func NewRegistry(sources []models.NewsSource) (*Registry, error) {
	r := &Registry{
		order: make([]models.NewsSource, 0, len(sources)),
		byID:  make(map[string]int, len(sources)),
	}
	for _, s := range sources {
		s.ID = NormalizeID(s.ID)
		if s.ID == "" {
			return nil, fmt.Errorf("news source without id")
		}
		if s.Feed == "" {
			return nil, fmt.Errorf("news source %q has no feed", s.ID)
		}
		if _, dup := r.byID[s.ID]; dup {
			return nil, fmt.Errorf("duplicate news source %q", s.ID)
		}
		if s.Label == "" {
			s.Label = s.ID
		}
		r.byID[s.ID] = len(r.order)
		r.order = append(r.order, s)
	}
	return r, nil
}

// NormalizeID trims and lowercases a source id.
func NormalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// Lookup finds a source by id, case-insensitively.
func (r *Registry) Lookup(id string) (models.NewsSource, bool) {
	i, ok := r.byID[NormalizeID(id)]
	if !ok {
		return models.NewsSource{}, false
	}
	return r.order[i], true
}

// All returns the sources in registry order.
func (r *Registry) All() []models.NewsSource {
	return append([]models.NewsSource(nil), r.order...)
}

// IDs returns the source ids in registry order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.order))
	for i, s := range r.order {
		ids[i] = s.ID
	}
	return ids
}
