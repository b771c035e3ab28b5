package site

import (
	"context"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/sitegen/internal/catalog"
	"git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/render"
	"git.home.luguber.info/inful/sitegen/internal/slug"
)

// writePages renders and writes one page per post. The returned slice is in
// catalog order; entries for posts that were not written have an empty Path.
//
// Posts are grouped by slug and each group is written by a single goroutine
// in catalog order, so a slug shared by several titles always ends up holding
// the last title's page regardless of the worker count.
func (g *Generator) writePages(ctx context.Context, tpl *render.Template, posts []catalog.Post) ([]Page, error) {
	pages := make([]Page, len(posts))
	groups := groupBySlug(posts)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(max(1, g.cfg.Workers))
	for _, group := range groups {
		eg.Go(func() error {
			for _, i := range group.indexes {
				if err := ctx.Err(); err != nil {
					return err
				}
				page, err := g.writePage(tpl, posts[i], group.slug)
				if err != nil {
					return err
				}
				pages[i] = page
			}
			return nil
		})
	}
	return pages, eg.Wait()
}

func (g *Generator) writePage(tpl *render.Template, p catalog.Post, s string) (Page, error) {
	path, err := pagePath(g.cfg.PostsDir, s)
	if err != nil {
		return Page{}, errors.WrapError(err, errors.CategoryInternal, "failed to place page").
			WithContext("title", p.Title).
			Build()
	}
	html := []byte(tpl.Render(p))
	if err := writeFile(path, html); err != nil {
		return Page{}, err
	}
	g.recorder.AddFileWritten(metrics.KindPage, len(html))
	return Page{
		Title:   p.Title,
		Slug:    s,
		Path:    path,
		RelPath: g.cfg.Rel(path),
		Bytes:   len(html),
	}, nil
}

type slugGroup struct {
	slug    string
	indexes []int
}

// groupBySlug buckets post indexes by slug, ordered by first appearance.
func groupBySlug(posts []catalog.Post) []*slugGroup {
	var groups []*slugGroup
	bySlug := make(map[string]*slugGroup, len(posts))
	for i, p := range posts {
		s := slug.Slug(p.Title)
		grp, ok := bySlug[s]
		if !ok {
			grp = &slugGroup{slug: s}
			bySlug[s] = grp
			groups = append(groups, grp)
		}
		grp.indexes = append(grp.indexes, i)
	}
	return groups
}

// findCollisions reports every slug claimed by more than one post.
func findCollisions(posts []catalog.Post) []Collision {
	var out []Collision
	for _, grp := range groupBySlug(posts) {
		if len(grp.indexes) < 2 {
			continue
		}
		c := Collision{Slug: grp.slug}
		for _, i := range grp.indexes {
			c.Titles = append(c.Titles, posts[i].Title)
		}
		out = append(out, c)
	}
	return out
}

// Overwritten counts the pages replaced by a later post with the same slug.
func Overwritten(collisions []Collision) int {
	n := 0
	for _, c := range collisions {
		n += len(c.Titles) - 1
	}
	return n
}

// FindCollisions reports titles in topics that would share a page file.
func FindCollisions(topics []catalog.Topic) []Collision {
	posts := make([]catalog.Post, len(topics))
	for i, t := range topics {
		posts[i] = catalog.Post{Category: t.Category, Title: t.Title}
	}
	return findCollisions(posts)
}
