package query

import (
	"reflect"
	"regexp"

	"github.com/krew-solutions/ascetic-query-go/asceticquery/schema"
)

var entityReference = regexp.MustCompile(`(?i)\b(FROM|JOIN|UPDATE|INTO)(\s+)([A-Za-z_][A-Za-z0-9_]*)`)

// Text is a query written in the entity vocabulary: entity names following
// FROM, JOIN, UPDATE and INTO are replaced with their tables before it runs
// like a Native query.
//
//	SELECT u.name FROM User u JOIN Order o ON o.user_id = u.id WHERE u.id = :id
type Text struct {
	base
	text     string
	registry *schema.Registry
}

func newText(f *Factory, text string, resultType reflect.Type) *Text {
	q := &Text{
		base:     newBase(f, resultType),
		text:     text,
		registry: f.registry,
	}
	q.render = q.renderWindow
	q.sender = q
	return q
}

func (q *Text) ExecuteUpdate() (int64, error) {
	return q.execute(nil)
}

// SQL returns the statement with entity names replaced by table names.
// Quoted text and comments are kept as written.
func (q *Text) SQL() string {
	return mapCode(q.text, func(code string) string {
		return entityReference.ReplaceAllStringFunc(code, func(match string) string {
			groups := entityReference.FindStringSubmatch(match)
			entity, err := q.registry.Lookup(groups[3])
			if err != nil {
				return match
			}
			return groups[1] + groups[2] + entity.Table
		})
	})
}

func (q *Text) renderWindow(w *window) (string, []any, error) {
	return renderText(q.SQL(), q.dialect, w)
}
