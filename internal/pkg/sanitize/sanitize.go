// Package sanitize cleans caller-supplied text before it is validated or
// stored. All names and message fields pass through here.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// StrictPolicy is safe for concurrent use.
var policy = bluemonday.StrictPolicy()

// Clean strips all HTML markup and trims surrounding whitespace.
func Clean(s string) string {
	return strings.TrimSpace(policy.Sanitize(s))
}
