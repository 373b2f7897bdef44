package costrecord

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// DefaultExtension is the Noir source file extension annotations must reference.
const DefaultExtension = ".nr"

// The annotation grammar, as emitted inside flamegraph <title> elements:
//
//	{file}:{line}:{column}::{expression} ({opcodes} opcodes, {percent}%)
//
// The surrounding container (SVG, plain log, ...) is irrelevant; only this shape
// is parsed. The expression stops at the last " (N opcodes, P%)" suffix on the
// physical line and may contain HTML entities, decoded by Unescape before storage.
var (
	tagOnce sync.Once
	tagRe   *regexp.Regexp

	entityRe = regexp.MustCompile(`&(?:gt|lt|amp|quot|apos|#39);`)
	markupRe = regexp.MustCompile(`<[^>]*>`)
)

func annotationRe(ext string) *regexp.Regexp {
	return regexp.MustCompile(`([\w./\\-]+` + regexp.QuoteMeta(ext) + `):(\d+):(\d+)::([^<\n]*?) \((\d+) opcodes, (\d+(?:\.\d+)?)%\)`)
}

// Parse extracts every well-formed cost annotation from raw profiler text.
// Malformed fragments are silently skipped; Parse never fails and never returns a
// partial record. The result is sorted by (line, column) ascending.
func Parse(raw string) []Record {
	return ParseText(raw).Records()
}

// ParseText parses raw profiler text and returns an indexed ParseResult.
func ParseText(raw string) *ParseResult {
	tagOnce.Do(func() { tagRe = annotationRe(DefaultExtension) })
	return parseWith(tagRe, raw)
}

// ParseTextExt behaves like ParseText for sources using a non-default file
// extension.
func ParseTextExt(raw, ext string) *ParseResult {
	if ext == "" || ext == DefaultExtension {
		return ParseText(raw)
	}
	return parseWith(annotationRe(ext), raw)
}

func parseWith(re *regexp.Regexp, raw string) *ParseResult {
	matches := re.FindAllStringSubmatch(raw, -1)
	records := make([]Record, 0, len(matches))
	for _, m := range matches {
		line, err := strconv.Atoi(m[2])
		if err != nil || line <= 0 {
			continue
		}
		column, err := strconv.Atoi(m[3])
		if err != nil || column <= 0 {
			continue
		}
		cost, err := strconv.Atoi(m[5])
		if err != nil {
			continue
		}
		share, err := strconv.ParseFloat(m[6], 64)
		if err != nil {
			continue
		}
		records = append(records, Record{
			File:         m[1],
			Line:         line,
			Column:       column,
			Expression:   Unescape(m[4]),
			Cost:         cost,
			SharePercent: share,
		})
	}
	return newParseResult(records)
}

// Unescape strips any markup left in an expression and decodes the HTML entities
// the profiler emits. Markup is removed before decoding so that a literal "<"
// coming from &lt; survives.
func Unescape(s string) string {
	if strings.ContainsRune(s, '<') {
		s = markupRe.ReplaceAllString(s, "")
	}
	s = entityRe.ReplaceAllStringFunc(s, func(e string) string {
		switch e {
		case "&gt;":
			return ">"
		case "&lt;":
			return "<"
		case "&amp;":
			return "&"
		case "&quot;":
			return `"`
		case "&apos;", "&#39;":
			return "'"
		}
		return e
	})
	return strings.TrimSpace(s)
}
