package repl

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/quant/lang"
)

// keywords are completed in addition to declared names.
var keywords = []string{
	"make", "show", "called", "for",
	string(lang.KindUnitClass),
	string(lang.KindBaseUnit),
	string(lang.KindDerivedUnit),
	string(lang.KindEntityClass),
	string(lang.KindLabel),
	string(lang.KindValue),
}

// isWordRune reports whether r can be part of a completed word: identifier
// characters, plus ':' so that commands complete too.
func isWordRune(r rune) bool {
	return r == '_' || r == ':' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// wordBounds returns the word at the cursor position and its byte boundaries
// within input. It returns an empty word when the cursor sits between two
// non-word characters.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isWordRune(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if !isWordRune(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// candidates returns the completion candidates for word: commands when it
// begins with ':', otherwise keywords and every declared name.
func candidates(in *lang.Instance, word string) []string {
	if strings.HasPrefix(word, ":") {
		list := make([]string, len(commands))
		for i, c := range commands {
			list[i] = ":" + c
		}

		return list
	}

	return append(append([]string(nil), keywords...), in.Names()...)
}

// complete returns the fuzzy matches for the word at the cursor, best first,
// together with the word boundaries. An empty word has no matches.
func complete(in *lang.Instance, input string, cursor int) (fuzzy.Matches, int, int) {
	word, start, end := wordBounds(input, cursor)
	if word == "" {
		return nil, start, end
	}

	return fuzzy.Find(word, candidates(in, word)), start, end
}

// replaceWord returns input with the bytes in [start, end) replaced by
// word, and the cursor position just after it.
func replaceWord(input string, start, end int, word string) (string, int) {
	return input[:start] + word + input[end:], start + len(word)
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within width. The selected candidate is highlighted when selecting is set.
func renderCandidateBar(matches fuzzy.Matches, selected int, selecting bool, width int) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")

	var (
		b    strings.Builder
		used int
	)

	for i, match := range matches {
		rendered := renderCandidate(match, selecting && i == selected)

		w := lipgloss.Width(rendered)
		if i > 0 {
			w += len(sep)
		}

		if i > 0 && used+w+lipgloss.Width(ellipsis) > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += w
	}

	return b.String()
}

// renderCandidate renders one candidate with its matched characters bold.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base := suggestionStyle
	if selected {
		base = selectedStyle
	}

	highlight := base.Bold(true)

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}
