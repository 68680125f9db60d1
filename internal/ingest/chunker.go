package ingest

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var sentenceEndRe = regexp.MustCompile(`([.!?।॥]+)\s+`)

// splitSentences breaks text on sentence terminators, keeping the
// terminator with its sentence. Tamil prose in the corpus uses the
// Latin period, so no script-specific handling is needed beyond the
// danda characters.
func splitSentences(text string) []string {
	marked := sentenceEndRe.ReplaceAllString(text, "$1\x00")
	parts := strings.Split(marked, "\x00")
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

// ChunkText groups sentences into chunks of roughly chunkSize
// characters. Each chunk starts with the tail of the previous one so
// retrieval does not lose context at chunk boundaries.
func ChunkText(text string, chunkSize, overlap int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= chunkSize {
		return []string{text}
	}

	sentences := splitSentences(text)
	var chunks []string
	var current strings.Builder

	flush := func() {
		chunk := strings.TrimSpace(current.String())
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		current.Reset()
		if overlap > 0 && chunk != "" {
			current.WriteString(tailOverlap(chunk, overlap))
		}
	}

	for _, sentence := range sentences {
		if current.Len() > 0 && current.Len()+len(sentence)+1 > chunkSize {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		// A single sentence longer than the budget becomes its own
		// oversized chunk rather than being cut mid-word.
		current.WriteString(sentence)
	}
	if chunk := strings.TrimSpace(current.String()); chunk != "" {
		chunks = append(chunks, chunk)
	}
	return chunks
}

// tailOverlap returns the last n characters of a chunk, extended left
// to the nearest word boundary.
func tailOverlap(chunk string, n int) string {
	if len(chunk) <= n {
		return chunk
	}
	tail := chunk[len(chunk)-n:]
	if idx := strings.IndexByte(tail, ' '); idx >= 0 && idx < len(tail)-1 {
		return tail[idx+1:]
	}
	// No word boundary in the tail; drop any partial rune at the front.
	for len(tail) > 0 && !utf8.RuneStart(tail[0]) {
		tail = tail[1:]
	}
	return tail
}
