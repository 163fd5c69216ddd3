package services

import (
	"strings"
	"unicode/utf8"
)

// ChunkText splits resume text into pieces of at most maxChunkSize runes, cutting on
// line boundaries where possible. Each chunk after the first starts with the last
// overlap runes of its predecessor.
func ChunkText(text string, maxChunkSize int, overlap int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = 1000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChunkSize/2 {
		overlap = maxChunkSize / 4
	}

	c := &chunkBuilder{max: maxChunkSize, overlap: overlap}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// Lines longer than the room left are hard-split.
		for c.room() < utf8.RuneCountInString(line) {
			if c.fresh {
				c.flush()
				continue
			}
			runes := []rune(line)
			room := c.room()
			c.write(string(runes[:room]))
			c.flush()
			line = string(runes[room:])
		}

		c.write(line)
	}

	c.flush()
	return c.chunks
}

type chunkBuilder struct {
	max     int
	overlap int
	chunks  []string
	current []rune
	// fresh is set once current holds text beyond the carried-over overlap.
	fresh bool
}

func (c *chunkBuilder) room() int {
	used := len(c.current)
	if used > 0 {
		used++ // separator
	}
	return c.max - used
}

func (c *chunkBuilder) write(s string) {
	if len(c.current) > 0 {
		c.current = append(c.current, '\n')
	}
	c.current = append(c.current, []rune(s)...)
	c.fresh = true
}

func (c *chunkBuilder) flush() {
	if !c.fresh {
		return
	}

	chunk := strings.TrimSpace(string(c.current))
	c.chunks = append(c.chunks, chunk)

	tail := []rune(chunk)
	if len(tail) > c.overlap {
		tail = tail[len(tail)-c.overlap:]
	}
	if c.overlap == 0 {
		tail = nil
	}

	c.current = append([]rune(nil), tail...)
	c.fresh = false
}
