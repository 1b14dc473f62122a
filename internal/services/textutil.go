package services

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Word tokens are Unicode-aware; \w would only cover ASCII.
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// NormalizeWhitespace collapses all runs of whitespace (including newlines)
// into single spaces. Extracted resume text is normalized this way before any
// matching; the raw text is kept separately for line-based heuristics.
func NormalizeWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// TruncateRunes limits text to at most n runes. Embedding models operate on a
// fixed context window, so both sides of a comparison are cut to the same
// budget before encoding.
func TruncateRunes(text string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}

// Tokenize splits text into lower-cased word tokens.
func Tokenize(text string) []string {
	return wordPattern.FindAllString(strings.ToLower(text), -1)
}

// TokenCounts builds a multiset of the word tokens in text.
func TokenCounts(text string) map[string]int {
	counts := make(map[string]int)
	for _, tok := range Tokenize(text) {
		counts[tok]++
	}
	return counts
}

type TextChunker interface {
	ChunkText(text string, maxChunkSize int, overlap int) []string
}

type textChunker struct{}

func NewTextChunker() TextChunker {
	return &textChunker{}
}

// ChunkText splits text into chunks of at most maxChunkSize runes, preferring
// paragraph boundaries and carrying overlap runes from the previous chunk so
// embeddings keep some shared context. Used when indexing resumes into the
// vector store.
func (tc *textChunker) ChunkText(text string, maxChunkSize int, overlap int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = 1000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChunkSize {
		overlap = maxChunkSize / 4
	}

	var chunks []string
	var current strings.Builder
	currentRunes := 0

	flush := func() {
		if currentRunes == 0 {
			return
		}
		chunks = append(chunks, current.String())
		current.Reset()
		currentRunes = 0
		if overlap > 0 {
			tail := lastRunes(chunks[len(chunks)-1], overlap)
			if tail != "" {
				current.WriteString(tail)
				current.WriteString(" ")
				currentRunes = utf8.RuneCountInString(tail) + 1
			}
		}
	}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		pieces := []string{para}
		if utf8.RuneCountInString(para) > maxChunkSize {
			pieces = splitSentences(para)
		}

		for _, piece := range pieces {
			pieceRunes := utf8.RuneCountInString(piece)
			if currentRunes+pieceRunes+1 > maxChunkSize {
				flush()
			}
			if currentRunes > 0 {
				current.WriteString(" ")
				currentRunes++
			}
			current.WriteString(piece)
			currentRunes += pieceRunes
		}
	}

	if currentRunes > 0 {
		chunks = append(chunks, current.String())
	}

	return chunks
}

func splitSentences(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	var sentences []string
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f != "" {
			sentences = append(sentences, f)
		}
	}
	return sentences
}

func lastRunes(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[len(runes)-n:])
}
