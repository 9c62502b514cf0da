package query

import "strings"

// sqlSpan is a piece of statement text. Verbatim spans are quoted strings,
// quoted identifiers and comments.
type sqlSpan struct {
	text     string
	verbatim bool
}

// splitSQL cuts text into alternating code and verbatim spans. An
// unterminated quote or block comment runs to the end of text.
func splitSQL(text string) []sqlSpan {
	var spans []sqlSpan
	start := 0
	cut := func(end int, verbatim bool) {
		if end > start {
			spans = append(spans, sqlSpan{text: text[start:end], verbatim: verbatim})
		}
		start = end
	}
	for i := 0; i < len(text); {
		var end int
		switch rest := text[i:]; {
		case rest[0] == '\'' || rest[0] == '"' || rest[0] == '`':
			end = len(text)
			if j := strings.IndexByte(rest[1:], rest[0]); j >= 0 {
				end = i + j + 2
			}
		case strings.HasPrefix(rest, "--"):
			end = len(text)
			if j := strings.IndexByte(rest, '\n'); j >= 0 {
				end = i + j
			}
		case strings.HasPrefix(rest, "/*"):
			end = len(text)
			if j := strings.Index(rest[2:], "*/"); j >= 0 {
				end = i + j + 4
			}
		default:
			i++
			continue
		}
		cut(i, false)
		cut(end, true)
		i = end
	}
	cut(len(text), false)
	return spans
}

// mapCode rebuilds text with every code span passed through fn.
func mapCode(text string, fn func(code string) string) string {
	var b strings.Builder
	for _, span := range splitSQL(text) {
		if span.verbatim {
			b.WriteString(span.text)
		} else {
			b.WriteString(fn(span.text))
		}
	}
	return b.String()
}
