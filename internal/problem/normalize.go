package problem

import (
	"html"
	"regexp"
	"strings"

	"github.com/leettrack/leettrack/pkg/models"
)

var (
	brRe         = regexp.MustCompile(`(?i)<br\s*/?>`)
	blockEndRe   = regexp.MustCompile(`(?i)</(p|div|ul|ol|li|pre)>`)
	tagRe        = regexp.MustCompile(`<[^>]*>`)
	blankRunRe   = regexp.MustCompile(`\n{3,}`)
	exampleRe    = regexp.MustCompile(`(?m)^\s*Example\s+\d+\s*:`)
	constraintRe = regexp.MustCompile(`(?m)^\s*Constraints\s*:`)
	listItemRe   = regexp.MustCompile(`(?is)<li[^>]*>(.*?)</li>`)
)

// stripTags converts an HTML fragment to plain text: line breaks and block
// closings become newlines, remaining tags are dropped, entities decoded and
// runs of blank lines collapsed.
func stripTags(s string) string {
	s = brRe.ReplaceAllString(s, "\n")
	s = blockEndRe.ReplaceAllString(s, "\n")
	s = tagRe.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = blankRunRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// cleanDescription strips markup from the question content and drops the
// narrative "Example N:" and "Constraints:" sections; both are re-extracted
// into structured fields elsewhere.
func cleanDescription(content string) string {
	text := stripTags(content)

	cut := len(text)
	if loc := exampleRe.FindStringIndex(text); loc != nil && loc[0] < cut {
		cut = loc[0]
	}
	if loc := constraintRe.FindStringIndex(text); loc != nil && loc[0] < cut {
		cut = loc[0]
	}
	return strings.TrimSpace(text[:cut])
}

// parseExampleTestcases pairs the upstream's alternating input/output lines
// into examples. An odd trailing line has no pairing partner and is
// discarded; that is policy, not an accident.
func parseExampleTestcases(raw string) []models.Example {
	lines := []string{}
	for _, line := range strings.Split(raw, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}

	examples := []models.Example{}
	for i := 0; i+1 < len(lines); i += 2 {
		examples = append(examples, models.Example{
			Input:       lines[i],
			Output:      lines[i+1],
			Explanation: "",
		})
	}
	return examples
}

// extractConstraints locates the labeled constraints list in the question
// HTML and returns each list item as a plain-text line, dropping empties.
func extractConstraints(content string) []string {
	idx := strings.Index(content, "Constraints:")
	if idx < 0 {
		return []string{}
	}
	section := content[idx:]
	if end := strings.Index(section, "</ul>"); end >= 0 {
		section = section[:end]
	}

	constraints := []string{}
	for _, m := range listItemRe.FindAllStringSubmatch(section, -1) {
		item := strings.TrimSpace(stripTags(m[1]))
		if item != "" {
			constraints = append(constraints, item)
		}
	}
	return constraints
}

var slugifyRe = regexp.MustCompile(`[^a-z0-9]+`)

// DeriveSlug extracts the canonical slug from a problem URL: the path
// segment following "/problems/", trailing slash trimmed. When the URL has
// no such segment it falls back to slugifying the title. Deterministic and
// pure by contract.
func DeriveSlug(url, title string) string {
	if _, after, ok := strings.Cut(url, "/problems/"); ok {
		slug := strings.Trim(after, "/")
		if i := strings.IndexAny(slug, "/?#"); i >= 0 {
			slug = slug[:i]
		}
		if slug != "" {
			return slug
		}
	}
	slug := slugifyRe.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}
