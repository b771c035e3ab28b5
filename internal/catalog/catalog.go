// Package catalog holds the curated topic list and turns it into dated posts.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// DateLayout is the ISO-8601 calendar date format used for post dates.
const DateLayout = "2006-01-02"

// Category groups topics; it selects the advice block of a rendered post.
type Category string

const (
	Publishing    Category = "Publishing"
	Workflow      Category = "Workflow"
	Design        Category = "Design"
	Quality       Category = "Quality"
	Marketing     Category = "Marketing"
	MathWorkbooks Category = "Math Workbooks"
	Ops           Category = "Ops"
)

// Categories lists the known categories in catalog order.
var Categories = []Category{Publishing, Workflow, Design, Quality, Marketing, MathWorkbooks, Ops}

func (c Category) String() string { return string(c) }

// Known reports whether c is one of Categories.
func (c Category) Known() bool {
	for _, k := range Categories {
		if k == c {
			return true
		}
	}
	return false
}

// Topic is a (category, title) pair from the catalog.
type Topic struct {
	Category Category `yaml:"category"`
	Title    string   `yaml:"title"`
}

// Post is a Topic with an assigned publication date.
type Post struct {
	Category Category
	Title    string
	Date     time.Time
}

// ISODate returns the post date as YYYY-MM-DD.
func (p Post) ISODate() string {
	return p.Date.Format(DateLayout)
}

type document struct {
	Topics []Topic `yaml:"topics"`
}

//go:embed topics.yaml
var embeddedTopics []byte

var defaultTopics = sync.OnceValues(func() ([]Topic, error) {
	return Load(bytes.NewReader(embeddedTopics))
})

// Default returns a copy of the built-in catalog.
func Default() ([]Topic, error) {
	topics, err := defaultTopics()
	if err != nil {
		return nil, err
	}
	out := make([]Topic, len(topics))
	copy(out, topics)
	return out, nil
}

// Load decodes a catalog document of the form {topics: [{category, title}]}.
// Topic contents are not validated; an empty title simply yields the fallback slug.
func Load(r io.Reader) ([]Topic, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return []Topic{}, nil
		}
		return nil, fmt.Errorf("decode topic catalog: %w", err)
	}
	if doc.Topics == nil {
		doc.Topics = []Topic{}
	}
	return doc.Topics, nil
}

// Today truncates t to midnight in its own location.
func Today(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Posts assigns dates counting backward from today so that the last topic is
// dated today and the first is dated len(topics)-1 days earlier. Output order
// matches catalog order, oldest first.
func Posts(topics []Topic, today time.Time) []Post {
	day := Today(today)
	posts := make([]Post, len(topics))
	for i, t := range topics {
		posts[i] = Post{
			Category: t.Category,
			Title:    t.Title,
			Date:     day.AddDate(0, 0, -(len(topics) - 1 - i)),
		}
	}
	return posts
}
