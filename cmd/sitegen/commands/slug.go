package commands

import (
	"fmt"

	"git.home.luguber.info/inful/sitegen/internal/slug"
)

// SlugCmd implements the 'slug' command.
type SlugCmd struct {
	Titles []string `arg:"" help:"Titles to convert"`
}

func (s *SlugCmd) Run(g *Global) error {
	for _, t := range s.Titles {
		if _, err := fmt.Fprintln(g.Stdout, slug.Slug(t)); err != nil {
			return err
		}
	}
	return nil
}
