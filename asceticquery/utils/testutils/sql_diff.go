package testutils

import (
	"strings"
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// AssertSQL compares two statements ignoring runs of whitespace and reports
// a character diff on mismatch.
func AssertSQL(t testing.TB, expected, actual string) bool {
	t.Helper()
	expected = normalizeSQL(expected)
	actual = normalizeSQL(actual)
	if expected == actual {
		return true
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(expected, actual, false)
	t.Errorf("SQL mismatch:\nexpected: %s\nactual:   %s\ndiff:     %s", expected, actual, dmp.DiffPrettyText(diffs))
	return false
}

func normalizeSQL(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
