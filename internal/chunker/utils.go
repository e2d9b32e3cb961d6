package chunker

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// splitKeep cuts text at every occurrence of sep, keeping the separator at the
// end of the preceding piece so that the pieces concatenate back to text.
// An empty sep splits into runes. Returned spans are shifted by base.
func splitKeep(text string, base int, sep string) []span {
	var pieces []span

	if sep == "" {
		for i := 0; i < len(text); {
			_, size := utf8.DecodeRuneInString(text[i:])
			pieces = append(pieces, span{base + i, base + i + size})
			i += size
		}
		return pieces
	}

	start := 0
	for {
		i := strings.Index(text[start:], sep)
		if i < 0 {
			break
		}
		end := start + i + len(sep)
		pieces = append(pieces, span{base + start, base + end})
		start = end
	}
	if start < len(text) {
		pieces = append(pieces, span{base + start, base + len(text)})
	}
	return pieces
}

// trimSpan narrows sp to exclude leading and trailing whitespace.
// ok is false when the span holds only whitespace.
func trimSpan(content string, sp span) (span, bool) {
	text := content[sp.start:sp.end]
	if strings.TrimSpace(text) == "" {
		return span{}, false
	}
	lead := len(text) - len(strings.TrimLeftFunc(text, unicode.IsSpace))
	keep := len(strings.TrimRightFunc(text, unicode.IsSpace))
	return span{sp.start + lead, sp.start + keep}, true
}
