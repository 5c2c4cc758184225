package blog

import (
	"strings"
	"unicode"
)

// DeriveSlug turns a title (or an explicit override) into a URL-safe slug:
// lower-case, strip everything that is not a letter, digit, space, or hyphen,
// then collapse whitespace runs into single hyphens. Letters from any script
// are kept, so non-Latin titles produce usable slugs.
//
// Returns a *ValidationError when nothing survives the stripping.
func DeriveSlug(input string) (string, error) {
	lowered := strings.ToLower(input)

	var b strings.Builder
	for _, r := range lowered {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || r == '-' {
			b.WriteRune(r)
		}
	}

	slug := strings.Join(strings.Fields(b.String()), "-")
	if slug == "" {
		return "", NewValidationError("slug", "empty after sanitization")
	}
	return slug, nil
}

// ValidateSlug enforces the slug safety invariant before any I/O: non-empty,
// no path separators, no "..", and every rune a lower-case letter, digit, or
// hyphen. A slug that fails cannot name a file outside the content directory.
func ValidateSlug(slug string) error {
	if slug == "" {
		return &InvalidSlugError{Slug: slug, Reason: "empty"}
	}
	if strings.Contains(slug, "..") {
		return &InvalidSlugError{Slug: slug, Reason: "contains .."}
	}
	for _, r := range slug {
		switch {
		case r == '/' || r == '\\':
			return &InvalidSlugError{Slug: slug, Reason: "contains path separator"}
		case r == '-' || unicode.IsDigit(r):
			// ok
		case unicode.IsLetter(r) && r == unicode.ToLower(r):
			// ok; uncased scripts pass through ToLower unchanged
		default:
			return &InvalidSlugError{Slug: slug, Reason: "unexpected character " + string(r)}
		}
	}
	return nil
}
