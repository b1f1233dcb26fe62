package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_FitsInOneSegment(t *testing.T) {
	text := "Short text. Nothing to split here."

	parts := Split(text, 100)

	require.Len(t, parts, 1)
	assert.Equal(t, text, parts[0])
}

func TestSplit_PrefersSentenceBoundaries(t *testing.T) {
	text := "First sentence here. Second sentence here. Third sentence here."

	parts := Split(text, 45)

	require.Len(t, parts, 2)
	assert.Equal(t, "First sentence here. Second sentence here.", parts[0])
	assert.Equal(t, "Third sentence here.", parts[1])
}

func TestSplit_KeepsAllWordsInOrder(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 200; i++ {
		b.WriteString("word")
		b.WriteByte(byte('a' + i%26))
		if i%7 == 6 {
			b.WriteString(". ")
		} else {
			b.WriteByte(' ')
		}
	}
	text := b.String()

	parts := Split(text, 80)
	require.Greater(t, len(parts), 1)

	// No segment exceeds the limit and concatenation preserves every word.
	var got []string
	for _, p := range parts {
		assert.LessOrEqual(t, len(p), 80)
		got = append(got, strings.Fields(p)...)
	}
	assert.Equal(t, strings.Fields(text), got)
}

func TestSplit_OversizedSentenceFallsBackToWords(t *testing.T) {
	text := "one two three four five six seven eight nine ten"

	parts := Split(text, 20)

	require.Greater(t, len(parts), 1)
	for _, p := range parts {
		assert.LessOrEqual(t, len(p), 20)
	}
	assert.Equal(t, strings.Fields(text), strings.Fields(strings.Join(parts, " ")))
}

func TestSplit_SingleOversizedWord(t *testing.T) {
	word := strings.Repeat("x", 50)
	text := "tiny " + word + " tail"

	parts := Split(text, 20)

	// The long word cannot be cut; it becomes its own oversized segment.
	require.Contains(t, parts, word)
	assert.Equal(t, strings.Fields(text), strings.Fields(strings.Join(parts, " ")))
}

func TestSplit_PunctuationRunsStayAttached(t *testing.T) {
	text := "Really?! Yes... Fine then."

	parts := Split(text, 12)

	assert.Equal(t, []string{"Really?!", "Yes...", "Fine then."}, parts)
}

func TestSplit_NonPositiveMax(t *testing.T) {
	text := "whatever the text is"

	parts := Split(text, 0)

	require.Len(t, parts, 1)
	assert.Equal(t, text, parts[0])
}

func TestSplit_SegmentsAreTrimmed(t *testing.T) {
	text := "First sentence.   \n  Second sentence after odd spacing."

	parts := Split(text, 20)

	for _, p := range parts {
		assert.Equal(t, strings.TrimSpace(p), p)
		assert.NotEmpty(t, p)
	}
}
