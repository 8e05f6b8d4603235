package catalog

import (
	"regexp"
	"strings"
)

var (
	slugDropRe     = regexp.MustCompile(`[^a-z0-9 -]`)
	slugSpaceRe    = regexp.MustCompile(`\s+`)
	slugCollapseRe = regexp.MustCompile(`-+`)
)

// Slugify derives a URL slug from a display name: lowercase, strip anything
// outside [a-z0-9 -], whitespace to hyphens, collapse hyphen runs.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugDropRe.ReplaceAllString(slug, "")
	slug = slugSpaceRe.ReplaceAllString(slug, "-")
	slug = slugCollapseRe.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
