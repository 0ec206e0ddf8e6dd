package normalization

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrEmptySlug is returned when a title has no slug-able characters.
var ErrEmptySlug = errors.New("title produces an empty slug")

const maxSlugSuffix = 10000

// Slugify folds s to ASCII (dropping accents), lower-cases it, drops
// everything except letters, digits, underscores, hyphens and whitespace,
// then collapses runs of hyphens/whitespace into one hyphen and trims
// leading and trailing hyphens and underscores.
func Slugify(s string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn))), s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	b.Grow(len(folded))
	pendingDash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r > unicode.MaxASCII:
			continue
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		case r == '-' || unicode.IsSpace(r):
			pendingDash = true
		}
	}
	return strings.Trim(b.String(), "-_")
}

// SlugExists reports whether a slug is already taken.
type SlugExists func(ctx context.Context, slug string) (bool, error)

// UniqueSlug returns Slugify(title) if unused, otherwise the first free
// "<base>-N" for N = 1, 2, ...
func UniqueSlug(ctx context.Context, title string, exists SlugExists) (string, error) {
	base := Slugify(title)
	if base == "" {
		return "", ErrEmptySlug
	}
	candidate := base
	for n := 1; n <= maxSlugSuffix; n++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
	return "", fmt.Errorf("no free slug for %q after %d attempts", base, maxSlugSuffix)
}
