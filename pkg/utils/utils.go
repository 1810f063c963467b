package utils

import (
	"strings"
	"unicode"
)

// SanitizeName normalizes a user-supplied display name to printable ASCII.
// Latin characters lose their diacritics, anything else non-ASCII becomes a
// dash, and surrounding whitespace is trimmed.
func SanitizeName(name string) string {
	if name == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(name))

	for _, r := range name {
		// Printable ASCII passes through untouched
		if r < 128 && unicode.IsPrint(r) {
			result.WriteRune(r)
			continue
		}

		switch {
		case unicode.Is(unicode.Latin, r):
			// For Latin characters, try to strip diacritics
			switch {
			case r >= 'À' && r <= 'Å':
				result.WriteRune('A')
			case r >= 'à' && r <= 'å':
				result.WriteRune('a')
			case r >= 'È' && r <= 'Ë':
				result.WriteRune('E')
			case r >= 'è' && r <= 'ë':
				result.WriteRune('e')
			case r >= 'Ì' && r <= 'Ï':
				result.WriteRune('I')
			case r >= 'ì' && r <= 'ï':
				result.WriteRune('i')
			case r >= 'Ò' && r <= 'Ö':
				result.WriteRune('O')
			case r >= 'ò' && r <= 'ö':
				result.WriteRune('o')
			case r >= 'Ù' && r <= 'Ü':
				result.WriteRune('U')
			case r >= 'ù' && r <= 'ü':
				result.WriteRune('u')
			case r == 'Ç':
				result.WriteRune('C')
			case r == 'ç':
				result.WriteRune('c')
			case r == 'Ñ':
				result.WriteRune('N')
			case r == 'ñ':
				result.WriteRune('n')
			default:
				result.WriteRune('-')
			}
		default:
			result.WriteRune('-')
		}
	}

	return strings.TrimSpace(result.String())
}
