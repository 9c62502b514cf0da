package query

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

type TemporalKind int

const (
	TemporalTimestamp TemporalKind = iota
	TemporalDate
	TemporalTime
)

const timeOfDayLayout = "15:04:05"

// temporalValue reduces t to the part of it the kind names. Times of day
// are bound as text since drivers disagree on how to send them.
func temporalValue(t time.Time, kind TemporalKind) any {
	switch kind {
	case TemporalDate:
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	case TemporalTime:
		return t.Format(timeOfDayLayout)
	default:
		return t
	}
}

type namedParameter struct {
	name string
}

// bindParameters replaces named parameter markers with their bound values.
func bindParameters(args []any, params map[string]any) ([]any, error) {
	bound := make([]any, len(args))
	for i, arg := range args {
		p, ok := arg.(namedParameter)
		if !ok {
			bound[i] = arg
			continue
		}
		value, found := params[p.name]
		if !found {
			return nil, errors.Wrapf(ErrUnboundParameter, ":%s", p.name)
		}
		bound[i] = value
	}
	return bound, nil
}

// rewriteNamedParameters turns ":name" references of a textual query into
// "?" placeholders. Quoted text, comments and "::" casts are left untouched.
func rewriteNamedParameters(text string) (string, []any) {
	var args []any
	sql := mapCode(text, func(code string) string {
		var b strings.Builder
		for i := 0; i < len(code); i++ {
			ch := code[i]
			switch {
			case ch == ':' && i+1 < len(code) && code[i+1] == ':':
				b.WriteString("::")
				i++
			case ch == ':' && i+1 < len(code) && isNameStart(code[i+1]):
				j := i + 1
				for j < len(code) && isNamePart(code[j]) {
					j++
				}
				args = append(args, namedParameter{name: code[i+1 : j]})
				b.WriteByte('?')
				i = j - 1
			default:
				b.WriteByte(ch)
			}
		}
		return b.String()
	})
	return sql, args
}

func isNameStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isNamePart(ch byte) bool {
	return isNameStart(ch) || (ch >= '0' && ch <= '9')
}
