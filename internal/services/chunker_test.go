package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkText_ShortTextSingleChunk(t *testing.T) {
	chunker := NewTextChunker()

	chunks := chunker.ChunkText("What is a goroutine?\n\nExplain channel select.", 1000, 200)

	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0], "goroutine")
	assert.Contains(t, chunks[0], "channel select")
}

func TestChunkText_SplitsOnParagraphs(t *testing.T) {
	chunker := NewTextChunker()

	paraA := strings.Repeat("alpha ", 20)
	paraB := strings.Repeat("bravo ", 20)
	text := paraA + "\n\n" + paraB

	chunks := chunker.ChunkText(text, 130, 0)

	require.Len(t, chunks, 2)
	assert.Contains(t, chunks[0], "alpha")
	assert.Contains(t, chunks[1], "bravo")
	assert.NotContains(t, chunks[1], "alpha")
}

func TestChunkText_OverlapCarriesTail(t *testing.T) {
	chunker := NewTextChunker()

	paraA := strings.Repeat("alpha ", 20)
	paraB := strings.Repeat("bravo ", 20)

	chunks := chunker.ChunkText(paraA+"\n\n"+paraB, 160, 30)

	require.Len(t, chunks, 2)
	assert.Contains(t, chunks[1], "alpha")
	assert.Contains(t, chunks[1], "bravo")
}

func TestChunkText_EmptyInput(t *testing.T) {
	chunker := NewTextChunker()
	assert.Empty(t, chunker.ChunkText("", 1000, 200))
	assert.Empty(t, chunker.ChunkText("\n\n\n\n", 1000, 200))
}

func TestChunkText_OversizedParagraphFallsBackToSentences(t *testing.T) {
	chunker := NewTextChunker()

	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString("This sentence pads out one very long paragraph about distributed systems. ")
	}

	chunks := chunker.ChunkText(b.String(), 300, 0)

	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 300+100, "chunks should stay near the size cap")
	}
}
