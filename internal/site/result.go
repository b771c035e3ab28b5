package site

import (
	"time"

	"git.home.luguber.info/inful/sitegen/internal/index"
)

// Page is one written post page.
type Page struct {
	Title string
	Slug  string
	// Path is the absolute file path; RelPath is relative to the site directory.
	Path    string
	RelPath string
	Bytes   int
}

// Collision records titles that map to the same slug. Only the page of the
// last title survives on disk.
type Collision struct {
	Slug   string
	Titles []string
}

// Result summarizes a generation run.
type Result struct {
	RunID      string
	Date       time.Time
	Pages      []Page
	Entries    []index.Entry
	Collisions []Collision
	IndexPath  string
	Sitemap    string
	Stages     map[string]time.Duration
	Duration   time.Duration
}
