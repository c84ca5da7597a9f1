package models

import "time"

// NewsSource is a registry entry.
type NewsSource struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Weight float64 `json:"weight"`
	Focus  string  `json:"focus"`
	Feed   string  `json:"feed"`
}

// NormalizedArticle is a feed item in the uniform shape.
// PublishedAt is nil when the feed date is missing or unparseable.
type NormalizedArticle struct {
	Source      string      `json:"source"`
	Label       string      `json:"label"`
	Weight      float64     `json:"weight"`
	Focus       string      `json:"focus"`
	Title       string      `json:"title"`
	Link        string      `json:"link"`
	Author      string      `json:"author"`
	Summary     string      `json:"summary"`
	PublishedAt *time.Time  `json:"publishedAt"`
	Raw         interface{} `json:"raw,omitempty"`
}
