package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var slugRegex = regexp.MustCompile(`^[a-z0-9-]{3,80}$`)

// Route names that would shadow well-known paths if used as a slug.
var reservedSlugs = map[string]struct{}{
	"admin":         {},
	"api":           {},
	"auth":          {},
	"login":         {},
	"logout":        {},
	"unauthorized":  {},
	"editor":        {},
	"moderator":     {},
	"posts":         {},
	"jobs":          {},
	"users":         {},
	"categories":    {},
	"organizations": {},
	"media":         {},
	"metrics":       {},
	"health":        {},
}

// ValidateSlug validates slug format and reserved names for posts, jobs,
// categories, and organizations.
func ValidateSlug(slug string) error {
	if !slugRegex.MatchString(slug) {
		return fmt.Errorf("slug must be 3-80 characters and contain only lowercase letters, numbers, and hyphens")
	}

	if strings.HasPrefix(slug, "-") || strings.HasSuffix(slug, "-") {
		return fmt.Errorf("slug cannot start or end with a hyphen")
	}

	if _, exists := reservedSlugs[slug]; exists {
		return fmt.Errorf("slug is reserved")
	}

	return nil
}
