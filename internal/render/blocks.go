package render

import "strings"

const (
	headingPrefix = "## "
	bulletPrefix  = "- "
)

// RenderBlocks converts body lines into HTML blocks joined by newlines.
//
// Each line is trimmed first. Empty lines are dropped, "## " starts a
// subheading, "- " starts a single-item bulleted list and anything else is a
// paragraph. Line text is always escaped.
func RenderBlocks(lines []string) string {
	out := make([]string, 0, len(lines))
	for _, ln := range lines {
		ln = strings.TrimSpace(ln)
		switch {
		case ln == "":
			continue
		case strings.HasPrefix(ln, headingPrefix):
			out = append(out, "<h2 style='margin:18px 0 8px; font-size:20px;'>"+EscapeHTML(ln[len(headingPrefix):])+"</h2>")
		case strings.HasPrefix(ln, bulletPrefix):
			out = append(out, "<ul style='margin:10px 0 10px 18px;'><li>"+EscapeHTML(ln[len(bulletPrefix):])+"</li></ul>")
		default:
			out = append(out, "<p style='margin:10px 0;'>"+EscapeHTML(ln)+"</p>")
		}
	}
	return strings.Join(out, "\n")
}
