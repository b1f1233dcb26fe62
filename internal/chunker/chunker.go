// Package chunker splits long text into bounded-size segments so transcripts
// fit into outbound chat messages.
package chunker

import "strings"

// Split breaks text into segments of at most max characters. Text that
// already fits is returned as a single segment. Splitting prefers sentence
// boundaries (terminal punctuation followed by whitespace) and packs
// sentences greedily; a sentence longer than max is split on word boundaries
// the same way. Segments are trimmed and keep every word of the input in
// order. A single word longer than max becomes its own oversized segment.
func Split(text string, max int) []string {
	if max <= 0 || len(text) <= max {
		return []string{text}
	}

	var parts []string
	var cur strings.Builder

	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			parts = append(parts, s)
		}
		cur.Reset()
	}

	for _, sentence := range sentences(text) {
		if len(sentence) > max {
			flush()
			for _, word := range strings.Fields(sentence) {
				if cur.Len()+len(word) > max {
					flush()
				}
				cur.WriteString(word)
				cur.WriteByte(' ')
			}
			flush()
			continue
		}
		if cur.Len()+len(sentence) > max {
			flush()
		}
		cur.WriteString(sentence)
		cur.WriteByte(' ')
	}
	flush()

	if len(parts) == 0 {
		return []string{strings.TrimSpace(text)}
	}
	return parts
}

// sentences cuts text after runs of terminal punctuation that are followed by
// whitespace. The punctuation stays attached to its sentence.
func sentences(text string) []string {
	var out []string
	start := 0

	for i := 0; i < len(text); i++ {
		if !isTerminal(text[i]) {
			continue
		}
		j := i + 1
		for j < len(text) && isTerminal(text[j]) {
			j++
		}
		if j >= len(text) || !isSpace(text[j]) {
			i = j - 1
			continue
		}
		if s := strings.TrimSpace(text[start:j]); s != "" {
			out = append(out, s)
		}
		for j < len(text) && isSpace(text[j]) {
			j++
		}
		start = j
		i = j - 1
	}

	if start < len(text) {
		if s := strings.TrimSpace(text[start:]); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func isTerminal(c byte) bool {
	return c == '.' || c == '!' || c == '?'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
