package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", NormalizeWhitespace("  a\n\nb\t c  "))
	assert.Equal(t, "", NormalizeWhitespace("  \n\t  "))
	assert.Equal(t, "unchanged", NormalizeWhitespace("unchanged"))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "abc", TruncateRunes("abcdef", 3))
	assert.Equal(t, "abc", TruncateRunes("abc", 10))
	assert.Equal(t, "", TruncateRunes("abc", 0))

	// Cuts on rune boundaries, not bytes.
	assert.Equal(t, "hél", TruncateRunes("héllo", 3))
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"python", "java", "sql"}, Tokenize("Python, Java; SQL!"))
	assert.Empty(t, Tokenize("--- ... ///"))
}

func TestTokenizeUnicodeWords(t *testing.T) {
	assert.Equal(t, []string{"café", "crème", "brûlée"}, Tokenize("Café, crème brûlée"))

	counts := TokenCounts("café café bar")
	assert.Equal(t, 2, counts["café"])
	assert.Equal(t, 1, counts["bar"])
}

func TestTruncateRunesKeepsValidUTF8(t *testing.T) {
	text := strings.Repeat("é", 8)
	for n := 0; n <= 8; n++ {
		truncated := TruncateRunes(text, n)
		assert.True(t, utf8.ValidString(truncated))
		assert.Equal(t, n, utf8.RuneCountInString(truncated))
	}
}

func TestTokenCounts(t *testing.T) {
	counts := TokenCounts("Go go GO java")
	assert.Equal(t, 3, counts["go"])
	assert.Equal(t, 1, counts["java"])
	assert.Zero(t, counts["python"])
}

func TestChunkTextShortInputSingleChunk(t *testing.T) {
	chunker := NewTextChunker()

	chunks := chunker.ChunkText("a short paragraph", 1000, 200)
	require.Len(t, chunks, 1)
	assert.Equal(t, "a short paragraph", chunks[0])
}

func TestChunkTextRespectsMaxSize(t *testing.T) {
	chunker := NewTextChunker()

	var paras []string
	for i := 0; i < 20; i++ {
		paras = append(paras, strings.Repeat("word ", 30))
	}
	text := strings.Join(paras, "\n\n")

	chunks := chunker.ChunkText(text, 400, 50)
	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(chunk), 400+50+1)
	}
}

func TestChunkTextOverlapCarriesContext(t *testing.T) {
	chunker := NewTextChunker()

	text := strings.Repeat("alpha beta gamma delta. ", 50)
	chunks := chunker.ChunkText(text, 200, 40)
	require.Greater(t, len(chunks), 1)

	// Each follow-up chunk opens with the tail of its predecessor.
	for i := 1; i < len(chunks); i++ {
		tail := lastRunes(chunks[i-1], 40)
		assert.True(t, strings.HasPrefix(chunks[i], tail))
	}
}

func TestChunkTextCountsRunesNotBytes(t *testing.T) {
	chunker := NewTextChunker()

	// 139 runes but 179 bytes per paragraph: byte-based accounting would
	// refuse to pair paragraphs that fit the rune limit together.
	para := strings.TrimSpace(strings.Repeat("résumé ", 20))
	require.Equal(t, 139, utf8.RuneCountInString(para))
	text := strings.Join([]string{para, para, para, para}, "\n\n")

	chunks := chunker.ChunkText(text, 300, 0)
	require.Len(t, chunks, 2)
	for _, chunk := range chunks {
		assert.Equal(t, 279, utf8.RuneCountInString(chunk))
	}
}

func TestChunkTextEmptyInput(t *testing.T) {
	chunker := NewTextChunker()

	assert.Empty(t, chunker.ChunkText("", 1000, 200))
	assert.Empty(t, chunker.ChunkText("\n\n\n\n", 1000, 200))
}
