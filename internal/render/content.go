package render

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/sitegen/internal/catalog"
)

const (
	descriptionFormat = "%s. Practical KDP publishing notes you can apply today."
	introFormat       = "Here’s a practical approach to: %s. This is written for people publishing consistently (even if each book only earns a few dollars at first)."
)

var (
	whyItMatters = []string{
		"## Why this matters",
		"Small improvements compound. If you publish weekly, tiny optimizations in keywords, structure, and packaging become real money over time.",
		"## A simple method you can use today",
	}
	quickTakeaway = []string{
		"## Quick takeaway",
		"Pick one improvement, apply it across your next 10 books, and measure. Repeat. That’s how ‘a few dollars’ turns into consistent daily income.",
	}
)

var opsAdvice = []string{
	"- Track every title, keywords, categories, and update date in one sheet.",
	"- Use version numbers for interiors and covers to avoid uploading wrong files.",
	"- If a book is too similar to another, differentiate format (tests vs warm-ups vs quizzes).",
	"Operations is what lets you scale without headaches.",
}

// fallbackAdvice is used for categories missing from categoryAdvice.
var fallbackAdvice = opsAdvice

var categoryAdvice = map[catalog.Category][]string{
	catalog.Publishing: {
		"- Write down your book’s ‘buyer intent’ in one sentence (who buys it and why).",
		"- Pick 2–3 core phrases, then expand into 7 keyword phrases (no repetition).",
		"- Make title/subtitle match what people search, not what you wish they search.",
		"Keep it boring and accurate. Accuracy beats creativity for search traffic.",
	},
	catalog.Workflow: {
		"- Use a fixed weekly schedule: draft → format → export → upload pack → publish.",
		"- Create a checklist and never skip it (most mistakes are repeat mistakes).",
		"- Batch similar books together so you don’t context-switch all day.",
		"If your week is busy, do fewer titles—but keep the cadence.",
	},
	catalog.Design: {
		"- Use large, high-contrast title text. Mobile thumbnail readability matters.",
		"- Avoid clutter around the title area (no shapes crossing the text).",
		"- Keep margins and spacing consistent so the interior looks professional.",
		"Design is not about being fancy—it's about being clear.",
	},
	catalog.Quality: {
		"- Proof the first 10 pages and last 10 pages carefully (most issues show up there).",
		"- Make answer keys easy to locate and scan (consistent formatting).",
		"- If you include explanations, group them at the end to keep the practice flow clean.",
		"Fewer errors = fewer refunds = better long-term ranking.",
	},
	catalog.Marketing: {
		"- Start description with: who it’s for + what’s inside + how to use it.",
		"- Use short bullets for contents (readers skim).",
		"- Don’t keyword-stuff. Write for humans first.",
		"A clear description reduces bad-fit buyers and improves conversion.",
	},
	catalog.MathWorkbooks: {
		"- Give structure: sections, mini-tests, and a final review.",
		"- Put explanations at the end (keeps students from peeking too early).",
		"- Make difficulty progression obvious (easy → medium → challenge).",
		"People buy confidence. Make the progression feel achievable.",
	},
	catalog.Ops: opsAdvice,
}

// Advice returns the method lines for a category, falling back to the Ops list
// for categories the site does not know.
func Advice(c catalog.Category) []string {
	if lines, ok := categoryAdvice[c]; ok {
		return lines
	}
	return fallbackAdvice
}

// MetaDescription is the sentence used for the page's meta description.
func MetaDescription(title string) string {
	return fmt.Sprintf(descriptionFormat, title)
}

// BodyLines assembles the source lines of a post body in the line grammar
// understood by RenderBlocks.
func BodyLines(p catalog.Post) []string {
	advice := Advice(p.Category)
	lines := make([]string, 0, 1+len(whyItMatters)+len(advice)+len(quickTakeaway))
	lines = append(lines, fmt.Sprintf(introFormat, cases.Lower(language.Und).String(p.Title)))
	lines = append(lines, whyItMatters...)
	lines = append(lines, advice...)
	lines = append(lines, quickTakeaway...)
	return lines
}
