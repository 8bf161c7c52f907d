// Package rag turns completed reports into embedded chunks and retrieves
// them by vector similarity for the Q&A feature.
package rag

import "strings"

// DefaultMaxChunkLen is the target chunk size in characters.
const DefaultMaxChunkLen = 2000

// Chunk splits text into word-boundary chunks of at most maxLen characters
// with roughly 10% overlap between consecutive chunks. maxLen <= 0 selects
// the default. Blank text yields no chunks.
func Chunk(text string, maxLen int) []string {
	if maxLen <= 0 {
		maxLen = DefaultMaxChunkLen
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	var current []string
	currentLen := 0

	for _, word := range words {
		current = append(current, word)
		currentLen += len(word) + 1
		if currentLen >= maxLen {
			chunks = append(chunks, strings.Join(current, " "))
			overlap := len(current) / 10
			if overlap < 1 {
				overlap = 1
			}
			current = append([]string(nil), current[len(current)-overlap:]...)
			currentLen = 0
			for _, w := range current {
				currentLen += len(w) + 1
			}
		}
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}
	return chunks
}
