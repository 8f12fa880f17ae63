package loader

import (
	"regexp"
	"strings"
)

// The nested columns were serialized by a Python exporter, so cells hold
// repr() output rather than JSON: single quotes, None/True/False, and
// the odd numpy array literal.
var (
	numpyArray = regexp.MustCompile(`array\(\[.*?\], dtype=object\)`)

	pyLiterals = strings.NewReplacer(
		"None", "null",
		"True", "true",
		"False", "false",
		"'", `"`,
	)
)

// cleanJSON rewrites a quasi-JSON cell into strict JSON. The result is
// best-effort: callers treat fields that still fail to parse as absent.
func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "{}"
	}

	s = numpyArray.ReplaceAllString(s, "[]")
	s = pyLiterals.Replace(s)

	return s
}
