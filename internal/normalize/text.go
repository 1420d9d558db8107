package normalize

import (
	"regexp"
	"strings"
)

// Markup and administrative fragments that leak into titles and mint names
// from manual entry and the central-bank import.
var (
	htmlTagRegex    = regexp.MustCompile(`<[^>]*>`)
	whitespaceRegex = regexp.MustCompile(`\s+`)

	// Trailing clauses like "тираж: 1 000 шт." or "гурт: рифлёный" that
	// belong in dedicated fields, not in the title.
	mintageTailRegex = regexp.MustCompile(`(?i)[,;.]?\s*тираж:.*$`)
	edgeTailRegex    = regexp.MustCompile(`(?i)[,;.]?\s*гурт:.*$`)
)

var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&mdash;", "—",
	"&ndash;", "–",
	"&laquo;", "«",
	"&raquo;", "»",
	"&quot;", `"`,
	"&amp;", "&",
)

// CleanText strips markup tokens and HTML entities, drops trailing
// mintage/edge clauses, collapses internal whitespace and trims. Cleaning an
// already-clean value returns it unchanged.
func CleanText(raw string) string {
	s := htmlTagRegex.ReplaceAllString(raw, " ")
	s = entityReplacer.Replace(s)
	s = mintageTailRegex.ReplaceAllString(s, "")
	s = edgeTailRegex.ReplaceAllString(s, "")
	s = whitespaceRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
