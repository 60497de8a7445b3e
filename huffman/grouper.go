package huffman

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

// Grouper partitions a character stream into fixed-size blocks of runes, the
// symbols of the codec. It reads the source one line at a time; each Next
// call returns the full blocks the buffered text now covers. A trailing
// partial block is held back and prefixed to the next read, and once the
// source is exhausted it is flushed as a single final block shorter than the
// group size.
//
// Grouping is rune-based, so multi-byte UTF-8 characters are never split
// across blocks.
type Grouper struct {
	r         *bufio.Reader
	groupSize int
	remainder []rune
	eof       bool
}

// NewGrouper returns a Grouper that slices r into blocks of groupSize runes.
// groupSize must be positive.
func NewGrouper(r io.Reader, groupSize int) *Grouper {
	return &Grouper{r: bufio.NewReader(r), groupSize: groupSize}
}

// Next returns the next batch of groups, one underlying read per call. A
// batch may be empty when the read did not complete a block. Next returns
// io.EOF once all input, including the flushed remainder, has been delivered.
func (g *Grouper) Next() ([]string, error) {
	if g.eof {
		return nil, io.EOF
	}
	line, err := g.r.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "huffman: reading input line")
	}
	if err == io.EOF && line == "" {
		g.eof = true
		if len(g.remainder) == 0 {
			return nil, io.EOF
		}
		last := string(g.remainder)
		g.remainder = nil
		return []string{last}, nil
	}

	text := append(g.remainder, []rune(line)...)
	var groups []string
	i := 0
	for ; i+g.groupSize <= len(text); i += g.groupSize {
		groups = append(groups, string(text[i:i+g.groupSize]))
	}
	g.remainder = text[i:]
	return groups, nil
}
