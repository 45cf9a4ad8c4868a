package immodiag

import (
	"regexp"
	"strings"
)

var (
	scriptStyleRe = regexp.MustCompile(`(?is)<(script|style)\b[^>]*>.*?</(script|style)\s*>`)
	commentRe     = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockEndRe    = regexp.MustCompile(`(?i)</(p|div|li|h[1-6])\s*>|<br\s*/?>`)
	tagRe         = regexp.MustCompile(`<[^>]*>`)
	spaceRunRe    = regexp.MustCompile(`[ \t\r\f\v\x{00a0}\x{202f}]+`)
	lineBreakRe   = regexp.MustCompile(` ?\n[ \n]*`)
)

// Sanitize converts HTML into plain text. Script and style blocks are
// removed, closing block tags become line breaks, remaining tags are
// stripped, the non-breaking space entity is decoded and whitespace runs
// are collapsed. Sanitize never fails and is idempotent; the result holds
// no '<' character.
func Sanitize(html string) string {
	s := scriptStyleRe.ReplaceAllString(html, " ")
	s = commentRe.ReplaceAllString(s, " ")
	s = blockEndRe.ReplaceAllString(s, "\n")
	s = tagRe.ReplaceAllString(s, " ")

	// Unclosed tags degrade to text; drop their opening bracket.
	s = strings.ReplaceAll(s, "<", " ")
	s = strings.ReplaceAll(s, "&nbsp;", " ")

	s = spaceRunRe.ReplaceAllString(s, " ")
	s = lineBreakRe.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}
