// Package slug turns display names into URL-safe identifiers.
package slug

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// MaxLength is the longest slug Create will return.
const MaxLength = 100

// MaxAttempts bounds the suffix probing done by Unique.
const MaxAttempts = 1000

// ukrainianToLatin follows the official Ukrainian national transliteration.
// Only lowercase letters are listed because input is lowercased first.
var ukrainianToLatin = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "h", 'ґ': "g", 'д': "d", 'е': "e",
	'є': "ie", 'ж': "zh", 'з': "z", 'и': "y", 'і': "i", 'ї': "i", 'й': "i",
	'к': "k", 'л': "l", 'м': "m", 'н': "n", 'о': "o", 'п': "p", 'р': "r",
	'с': "s", 'т': "t", 'у': "u", 'ф': "f", 'х': "kh", 'ц': "ts", 'ч': "ch",
	'ш': "sh", 'щ': "shch", 'ь': "", 'ю': "iu", 'я': "ia",
}

var (
	htmlTagPattern  = regexp.MustCompile(`<[^>]*>`)
	nonSlugPattern  = regexp.MustCompile(`[^a-z0-9-]+`)
	hyphenRun       = regexp.MustCompile(`-+`)
	validSlugFormat = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// ErrExhausted is returned by Unique when no free suffix was found within MaxAttempts.
var ErrExhausted = fmt.Errorf("no unique slug found within %d attempts", MaxAttempts)

// Create converts arbitrary text into a lowercase, hyphen-separated slug.
// It never fails; text without any usable characters yields "".
func Create(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if latin, ok := ukrainianToLatin[r]; ok {
			b.WriteString(latin)
			continue
		}
		b.WriteRune(r)
	}

	s := htmlTagPattern.ReplaceAllString(b.String(), "")
	s = nonSlugPattern.ReplaceAllString(s, "-")
	s = hyphenRun.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	// Everything left is ASCII, so a byte cut is safe.
	if len(s) > MaxLength {
		s = strings.TrimRight(s[:MaxLength], "-")
	}
	return s
}

// IsValid reports whether s already has the shape Create produces.
func IsValid(s string) bool {
	return len(s) <= MaxLength+len("-1000") && validSlugFormat.MatchString(s)
}

// ExistsFunc reports whether a slug is already taken.
type ExistsFunc func(ctx context.Context, slug string) (bool, error)

// Unique returns base when it is free, otherwise base-1, base-2 and so on.
func Unique(ctx context.Context, base string, exists ExistsFunc) (string, error) {
	candidate := base
	for counter := 1; counter <= MaxAttempts; counter++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, counter)
	}
	return "", ErrExhausted
}
