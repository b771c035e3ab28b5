package linkverify

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"git.home.luguber.info/inful/sitegen/internal/catalog"
	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/index"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/site"
)

// ProblemKind classifies a verification finding.
type ProblemKind string

const (
	ProblemMissingFile   ProblemKind = "missing_file"
	ProblemBrokenLink    ProblemKind = "broken_link"
	ProblemUnparsable    ProblemKind = "unparsable"
	ProblemSlugCollision ProblemKind = "slug_collision"
	ProblemIndexMismatch ProblemKind = "index_mismatch"
)

// Problem is a single verification finding.
type Problem struct {
	Kind ProblemKind
	// Source is the site-relative file the problem was found in.
	Source string
	Target string
	Detail string
}

func (p Problem) String() string {
	s := fmt.Sprintf("%s: %s", p.Kind, p.Source)
	if p.Target != "" {
		s += " -> " + p.Target
	}
	if p.Detail != "" {
		s += " (" + p.Detail + ")"
	}
	return s
}

// Report collects the outcome of a verification.
type Report struct {
	Pages    int
	Links    int
	URLs     int
	Problems []Problem
}

// OK reports whether no problems were found.
func (r *Report) OK() bool { return len(r.Problems) == 0 }

func (r *Report) add(p Problem) { r.Problems = append(r.Problems, p) }

// Verifier checks generated output under a resolved site directory.
type Verifier struct {
	cfg    *config.Resolved
	logger *slog.Logger
}

// NewVerifier returns a verifier for cfg.
func NewVerifier(cfg *config.Resolved, logger *slog.Logger) *Verifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Verifier{cfg: cfg, logger: logger}
}

// Verify checks that topics have distinct slugs, that the index and sitemap
// are readable and agree, that every sitemap URL maps to a file, and that
// every internal link in the generated pages resolves.
func (v *Verifier) Verify(ctx context.Context, topics []catalog.Topic) (*Report, error) {
	report := &Report{}

	for _, c := range site.FindCollisions(topics) {
		report.add(Problem{
			Kind:   ProblemSlugCollision,
			Source: "catalog",
			Target: c.Slug,
			Detail: strings.Join(c.Titles, " | "),
		})
	}

	entries, err := v.readIndex()
	if err != nil {
		return nil, err
	}
	locs, err := v.readSitemap()
	if err != nil {
		return nil, err
	}
	report.URLs = len(locs)

	sitemapRel := v.cfg.Rel(v.cfg.SitemapPath)
	for _, loc := range locs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, ok := v.fileFor("/", loc); !ok {
			report.add(Problem{Kind: ProblemMissingFile, Source: sitemapRel, Target: loc})
		}
	}
	for _, e := range entries {
		if !slices.Contains(locs, e.URL) {
			report.add(Problem{
				Kind:   ProblemIndexMismatch,
				Source: v.cfg.Rel(v.cfg.IndexPath),
				Target: e.URL,
				Detail: "not listed in sitemap",
			})
		}
	}

	pages, err := filepath.Glob(filepath.Join(v.cfg.PostsDir, "*.html"))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to list pages").Build()
	}
	for _, p := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v.verifyPage(report, p)
	}
	report.Pages = len(pages)

	v.logger.Info("Verification complete",
		slog.Int("pages", report.Pages),
		slog.Int("links", report.Links),
		slog.Int("urls", report.URLs),
		logfields.Count(len(report.Problems)))
	return report, nil
}

func (v *Verifier) verifyPage(report *Report, pagePath string) {
	rel := v.cfg.Rel(pagePath)
	links, err := ExtractLinks(pagePath)
	if err != nil {
		report.add(Problem{Kind: ProblemUnparsable, Source: rel, Detail: err.Error()})
		return
	}

	// The page's own URL directory, used to resolve relative links.
	base := "/" + path.Dir(rel) + "/"
	for _, link := range links {
		if !ShouldVerifyLink(link) {
			continue
		}
		report.Links++
		if _, ok := v.fileFor(base, link.URL); !ok {
			v.logger.Debug("Broken link", logfields.Path(rel), slog.String("target", link.URL))
			report.add(Problem{Kind: ProblemBrokenLink, Source: rel, Target: link.URL, Detail: linkDetail(link)})
		}
	}
}

// linkDetail names the tag of a broken link and, when present, its text.
func linkDetail(link *Link) string {
	if link.Text == "" {
		return link.Tag
	}
	return fmt.Sprintf("%s %q", link.Tag, link.Text)
}

// fileFor maps a site URL, resolved against the URL directory base, to a file
// under the site directory. Directory URLs map to their index.html.
func (v *Verifier) fileFor(base, target string) (string, bool) {
	u, err := url.Parse(target)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "", false
	}
	p := u.Path
	if p == "" {
		return "", true
	}
	if !strings.HasPrefix(p, "/") {
		p = path.Join(base, p)
		if strings.HasSuffix(u.Path, "/") {
			p += "/"
		}
	}
	if strings.HasSuffix(p, "/") {
		p += "index.html"
	}
	clean := path.Clean(p)
	file := filepath.Join(v.cfg.SiteDir, filepath.FromSlash(strings.TrimPrefix(clean, "/")))
	info, err := os.Stat(file)
	if err != nil || info.IsDir() {
		return file, false
	}
	return file, true
}

func (v *Verifier) readIndex() ([]index.Entry, error) {
	data, err := os.ReadFile(v.cfg.IndexPath)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read post index").
			WithContext("path", v.cfg.IndexPath).
			Build()
	}
	entries, err := index.Unmarshal(data)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "post index is not valid").
			WithContext("path", v.cfg.IndexPath).
			Build()
	}
	return entries, nil
}

type urlset struct {
	URLs []struct {
		Loc string `xml:"loc"`
	} `xml:"url"`
}

func (v *Verifier) readSitemap() ([]string, error) {
	data, err := os.ReadFile(v.cfg.SitemapPath)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read sitemap").
			WithContext("path", v.cfg.SitemapPath).
			Build()
	}
	var doc urlset
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "sitemap is not valid XML").
			WithContext("path", v.cfg.SitemapPath).
			Build()
	}
	locs := make([]string, len(doc.URLs))
	for i, u := range doc.URLs {
		locs[i] = u.Loc
	}
	return locs, nil
}
