package commands

import (
	"fmt"

	"git.home.luguber.info/inful/sitegen/internal/catalog"
	"git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/linkverify"
)

// VerifyCmd implements the 'verify' command.
type VerifyCmd struct{}

func (v *VerifyCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadResolved()
	if err != nil {
		return err
	}
	topics, err := catalog.Default()
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to load topic catalog").Build()
	}

	report, err := linkverify.NewVerifier(cfg, g.Logger).Verify(g.Context, topics)
	if err != nil {
		return err
	}
	for _, p := range report.Problems {
		_, _ = fmt.Fprintln(g.Stdout, p.String())
	}
	_, _ = fmt.Fprintf(g.Stdout, "Checked %d pages, %d links, %d sitemap URLs: %d problems\n",
		report.Pages, report.Links, report.URLs, len(report.Problems))

	if !report.OK() {
		return errors.ValidationError("verification found problems").
			WithContext("problems", len(report.Problems)).
			Build()
	}
	return nil
}
