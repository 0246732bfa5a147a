package text

import "unicode/utf8"

// TruncateBytes cuts text down to at most maxBytes bytes, keeping the leading
// portion. The cut never splits a UTF-8 sequence: when the byte ceiling lands
// inside a multi-byte character, the cut backs off to the previous rune
// boundary. ASCII input is therefore cut at exactly maxBytes.
//
// The second return value reports whether truncation happened.
func TruncateBytes(text string, maxBytes int) (string, bool) {
	if maxBytes < 0 {
		maxBytes = 0
	}
	if len(text) <= maxBytes {
		return text, false
	}

	cut := maxBytes
	// 途中で切るとUTF-8として壊れるので、rune境界まで戻す
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}

	return text[:cut], true
}

// Preview returns the first maxRunes characters of text, appending "..." when
// the text was longer. Used for console and web input previews.
func Preview(text string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}

	runes := []rune(text)
	if len(runes) <= maxRunes {
		return text
	}

	return string(runes[:maxRunes]) + "..."
}
