// Package text provides small text-processing helpers shared by the
// summarization pipeline: character counting, byte-ceiling truncation,
// and display previews.
package text

// CountRunes counts the number of Unicode characters (runes) in the given text.
// Summary metrics are defined over characters, not bytes, so multi-byte
// characters (Japanese text, emoji, etc.) each count as one.
//
// Examples:
//
//	CountRunes("summary")   // returns 7
//	CountRunes("要約")       // returns 2
//	CountRunes("")          // returns 0
func CountRunes(text string) int {
	return len([]rune(text))
}
