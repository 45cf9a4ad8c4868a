package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/immodiag"
	"github.com/tidwall/gjson"
)

// Ensure StructuredDataExtractor implements immodiag.StructuredDataExtractor at compile time.
var _ immodiag.StructuredDataExtractor = (*StructuredDataExtractor)(nil)

// StructuredDataMediaType is the script type of embedded structured data.
const StructuredDataMediaType = "application/ld+json"

// StructuredDataExtractor recovers JSON-LD records embedded in <script> blocks.
type StructuredDataExtractor struct{}

// NewStructuredDataExtractor creates a new StructuredDataExtractor.
func NewStructuredDataExtractor() *StructuredDataExtractor {
	return &StructuredDataExtractor{}
}

// ExtractStructuredData returns every object node of every parsable block,
// in document order. A top-level array is flattened one level and an
// "@graph" container contributes its members. Blocks that are not strictly
// valid JSON once line comments are removed are skipped.
func (e *StructuredDataExtractor) ExtractStructuredData(html string) []immodiag.StructuredRecord {
	if html == "" {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var records []immodiag.StructuredRecord
	doc.Find("script").Each(func(_ int, sel *goquery.Selection) {
		typ, _ := sel.Attr("type")
		if !strings.EqualFold(strings.TrimSpace(typ), StructuredDataMediaType) {
			return
		}

		raw := strings.TrimSpace(stripLineComments(sel.Text()))
		if raw == "" || !gjson.Valid(raw) {
			return
		}

		block := gjson.Parse(raw)
		if block.IsArray() {
			for _, node := range block.Array() {
				records = appendNode(records, node)
			}
			return
		}
		records = appendNode(records, block)
	})
	return records
}

func appendNode(records []immodiag.StructuredRecord, node gjson.Result) []immodiag.StructuredRecord {
	if !node.IsObject() {
		return records
	}
	if graph := member(node, "@graph"); graph.IsArray() {
		for _, n := range graph.Array() {
			if n.IsObject() {
				records = append(records, immodiag.StructuredRecord{Type: nodeType(n), JSON: n.Raw})
			}
		}
		return records
	}
	return append(records, immodiag.StructuredRecord{Type: nodeType(node), JSON: node.Raw})
}

// nodeType returns the first "@type" of node, or an empty string.
func nodeType(node gjson.Result) string {
	t := member(node, "@type")
	if t.IsArray() {
		for _, v := range t.Array() {
			if v.Type == gjson.String {
				return v.Str
			}
		}
		return ""
	}
	if t.Type == gjson.String {
		return t.Str
	}
	return ""
}

// member looks up a key verbatim, bypassing gjson path syntax which gives
// '@' a special meaning.
func member(node gjson.Result, key string) gjson.Result {
	var out gjson.Result
	node.ForEach(func(k, v gjson.Result) bool {
		if k.Str == key {
			out = v
			return false
		}
		return true
	})
	return out
}

// stripLineComments removes lines that are single-line comments.
func stripLineComments(s string) string {
	if !strings.Contains(s, "//") {
		return s
	}
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "//") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
