package pager

import (
	"reflect"
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
)

// defaultNamespace names a reader's count-cache namespace after the item type:
// User becomes "users", *models.BlogPost becomes "blog_posts".
func defaultNamespace[T any]() string {
	name := reflect.TypeFor[T]().String()

	// drop the package qualifier but keep any generic arguments readable
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}

	snake := toSnake(name)
	if snake == "" {
		return "items"
	}
	return inflection.Plural(snake)
}

// toSnake converts s to snake_case using ASCII-aware rules. Punctuation that
// shows up in reflected type names (pointers, brackets) is stripped so the
// result is usable as a cache key prefix.
func toSnake(s string) string {
	if s == "" {
		return ""
	}

	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(runes) + len(runes)/2)

	lastUnderscore := false
	sep := func() {
		if !lastUnderscore && b.Len() > 0 {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}

	for i, r := range runes {
		switch {
		case unicode.IsUpper(r):
			if b.Len() > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || nextLower {
					sep()
				}
			}
			b.WriteRune(unicode.ToLower(r))
			lastUnderscore = false

		case unicode.IsLower(r):
			b.WriteRune(r)
			lastUnderscore = false

		case unicode.IsDigit(r):
			if b.Len() > 0 && !unicode.IsDigit(runes[i-1]) {
				sep()
			}
			b.WriteRune(r)
			lastUnderscore = false

		default:
			sep()
		}
	}

	return strings.Trim(b.String(), "_")
}
