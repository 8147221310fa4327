package linkedin

import (
	"regexp"
	"strings"
	"unicode"
)

// LinkedIn renders no markdown, so markdown-style emphasis is mapped onto
// Mathematical Sans-Serif Unicode glyphs instead. Characters outside
// A-Z/a-z/0-9 pass through unchanged, which makes re-formatting already
// converted text a no-op.

func toBoldRune(r rune) rune {
	switch {
	case r >= 'A' && r <= 'Z':
		return 0x1D5D4 + (r - 'A') // Mathematical Sans-Serif Bold
	case r >= 'a' && r <= 'z':
		return 0x1D5EE + (r - 'a')
	case r >= '0' && r <= '9':
		return 0x1D7EC + (r - '0')
	}

	return r
}

func toItalicRune(r rune) rune {
	switch {
	case r >= 'A' && r <= 'Z':
		return 0x1D608 + (r - 'A') // Mathematical Sans-Serif Italic
	case r >= 'a' && r <= 'z':
		return 0x1D622 + (r - 'a')
	}

	return r
}

func toBoldItalicRune(r rune) rune {
	switch {
	case r >= 'A' && r <= 'Z':
		return 0x1D63C + (r - 'A') // Mathematical Sans-Serif Bold Italic
	case r >= 'a' && r <= 'z':
		return 0x1D656 + (r - 'a')
	}

	return r
}

var (
	boldItalicStars      = regexp.MustCompile(`\*\*\*(.+?)\*\*\*`)
	boldItalicUnderlines = regexp.MustCompile(`___(.+?)___`)
	boldStars            = regexp.MustCompile(`\*\*(.+?)\*\*`)
	boldUnderlines       = regexp.MustCompile(`__(.+?)__`)
	heading              = regexp.MustCompile(`(?m)^#{1,3}[ \t]+(.+)$`)
)

func replaceDelimited(text string, re *regexp.Regexp, delimLen int, conv func(rune) rune) string {
	return re.ReplaceAllStringFunc(text, func(match string) string {
		inner := match[delimLen : len(match)-delimLen]

		return strings.Map(conv, inner)
	})
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// replaceSingleEmphasis converts *text* (or _text_) spans. The opening
// delimiter must not follow a word character and the closing one must not
// precede a word character, so mid-word asterisks and snake_case stay intact.
func replaceSingleEmphasis(text string, delim rune, conv func(rune) rune) string {
	runes := []rune(text)

	var out []rune

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != delim {
			out = append(out, r)

			continue
		}

		if i > 0 && isWordRune(runes[i-1]) {
			out = append(out, r)

			continue
		}

		// Find a closing delimiter on the same line
		end := -1

		for j := i + 1; j < len(runes); j++ {
			if runes[j] == '\n' {
				break
			}

			if runes[j] != delim {
				continue
			}

			if j == i+1 {
				break // empty span, treat the pair literally
			}

			if j+1 < len(runes) && isWordRune(runes[j+1]) {
				continue
			}

			end = j

			break
		}

		if end == -1 {
			out = append(out, r)

			continue
		}

		for _, inner := range runes[i+1 : end] {
			out = append(out, conv(inner))
		}

		i = end
	}

	return string(out)
}

// FormatPost converts markdown-style emphasis to LinkedIn-compatible
// Unicode: ***bold italic***, **bold**, *italic* (underscore variants too)
// and 1-3 level # headings, which become bold. The function is idempotent:
// applying it to its own output changes nothing.
func FormatPost(text string) string {
	result := replaceDelimited(text, boldItalicStars, 3, toBoldItalicRune)
	result = replaceDelimited(result, boldItalicUnderlines, 3, toBoldItalicRune)
	result = replaceDelimited(result, boldStars, 2, toBoldRune)
	result = replaceDelimited(result, boldUnderlines, 2, toBoldRune)
	result = replaceSingleEmphasis(result, '*', toItalicRune)
	result = replaceSingleEmphasis(result, '_', toItalicRune)
	result = heading.ReplaceAllStringFunc(result, func(match string) string {
		inner := strings.TrimLeft(match, "# \t")

		return strings.Map(toBoldRune, inner)
	})

	return result
}
