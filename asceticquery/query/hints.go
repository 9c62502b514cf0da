package query

import (
	"fmt"
	"strings"
)

// HintComment prefixes the executed SQL with a /* ... */ comment, e.g. to tag
// queries in the database's activity view.
const HintComment = "asceticquery.comment"

func commentPrefix(hints map[string]any) string {
	value, found := hints[HintComment]
	if !found || value == nil {
		return ""
	}
	text := strings.ReplaceAll(fmt.Sprint(value), "*/", "* /")
	return "/* " + text + " */ "
}
