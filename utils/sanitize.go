package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// SanitizeText strips every tag from user text and trims it. Entities that
// the policy escapes are turned back into plain characters since the value
// is stored as JSON, not HTML.
func SanitizeText(input string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(input)))
}
