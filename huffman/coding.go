// Package huffman implements a lossless text compressor built on Huffman
// entropy coding. Input characters are grouped into fixed-size blocks, each
// block becomes a symbol with a prefix-free code derived from its frequency,
// and the output is a single self-describing container: the code table,
// followed by the bit-packed body, an end-of-data code, and zero padding to
// the byte boundary.
package huffman

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/icza/bitio"
	"github.com/pkg/errors"

	"github.com/GerardoTravesedo/data-compression/logger"
)

var (
	// ErrCorruptContainer reports a container whose header or body cannot
	// be parsed against the embedded code table.
	ErrCorruptContainer = errors.New("huffman: corrupt container")

	// ErrReservedSymbol reports input text containing one of the control
	// characters the container format reserves for framing (U+001C and
	// U+001D). Such text cannot be framed and is rejected before any
	// output is written.
	ErrReservedSymbol = errors.New("huffman: input contains a reserved separator character")

	// ErrFieldOverflow reports a symbol or code too wide for the fixed
	// header fields implied by the configured block size.
	ErrFieldOverflow = errors.New("huffman: value exceeds a fixed header field")

	// ErrInvalidBlockSize reports a non-positive block size.
	ErrInvalidBlockSize = errors.New("huffman: block size must be positive")
)

// Option configures an encode or decode call.
type Option func(*config)

type config struct {
	log logger.Logger
}

// WithLogger routes the codec's trace output (frequency tables, code map
// entries) to l. The default discards it.
func WithLogger(l logger.Logger) Option {
	return func(c *config) { c.log = l }
}

func newConfig(opts []Option) config {
	cfg := config{log: logger.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Encode compresses the file at inputPath into a container at outputPath.
// blockSize is the number of characters grouped into one symbol and
// headerLengthBits the width of the header's byte-count field; decoding the
// container requires the same headerLengthBits value (see HeaderLengthBits).
//
// The container is written to a temporary file beside outputPath and renamed
// into place only on success, so a failed encode never leaves a truncated
// file that could pass for a valid container.
func Encode(inputPath, outputPath string, blockSize, headerLengthBits int, opts ...Option) error {
	cfg := newConfig(opts)
	if blockSize < 1 {
		return errors.Wrapf(ErrInvalidBlockSize, "block size %d", blockSize)
	}
	if headerLengthBits < HeaderLengthBits(blockSize) {
		return errors.Wrapf(ErrFieldOverflow,
			"%d header length bits cannot frame blocks of %d characters",
			headerLengthBits, blockSize)
	}

	in, err := os.Open(inputPath)
	if err != nil {
		return errors.Wrapf(err, "huffman: opening %s", inputPath)
	}
	defer in.Close()

	freq, err := countSymbols(NewGrouper(in, blockSize))
	if err != nil {
		return errors.Wrapf(err, "huffman: counting symbols in %s", inputPath)
	}
	cfg.log.Debugf("symbol occurrences: %v (%d distinct)", freq, len(freq))

	codes, err := BuildCodeMap(freq)
	if err != nil {
		return err
	}
	for s, c := range codes {
		cfg.log.Debugf("code %s -> %q", c, s)
	}

	if _, err := in.Seek(0, io.SeekStart); err != nil {
		return errors.Wrapf(err, "huffman: rewinding %s", inputPath)
	}
	return writeFile(outputPath, func(w io.Writer) error {
		return encodeTo(w, NewGrouper(in, blockSize), codes, headerLengthBits)
	})
}

// Decode reverses Encode: it parses the code table embedded at the start of
// the container at inputPath and writes the decoded text to outputPath.
// headerLengthBits must match the value the container was encoded with.
func Decode(inputPath, outputPath string, headerLengthBits int, opts ...Option) error {
	cfg := newConfig(opts)
	if headerLengthBits < 1 {
		return errors.Errorf("huffman: header length bits must be positive, have %d", headerLengthBits)
	}

	in, err := os.Open(inputPath)
	if err != nil {
		return errors.Wrapf(err, "huffman: opening %s", inputPath)
	}
	defer in.Close()

	br := NewBitReader(bufio.NewReader(in))
	codes, longest, err := readHeader(br, headerLengthBits)
	if err != nil {
		return errors.Wrapf(err, "huffman: parsing header of %s", inputPath)
	}
	cfg.log.Debugf("decoded %d code table entries, longest code %d bits", len(codes), longest)

	return writeFile(outputPath, func(w io.Writer) error {
		return decodeBody(w, br, codes, longest)
	})
}

// countSymbols runs one grouped pass over the input, tallies symbol
// occurrences, and injects the end-of-data symbol with count 1.
func countSymbols(g *Grouper) (map[string]int, error) {
	freq := make(map[string]int)
	for {
		groups, err := g.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		for _, s := range groups {
			if strings.ContainsAny(s, mapEnd+eofMark) {
				return nil, errors.Wrapf(ErrReservedSymbol, "symbol %q", s)
			}
			freq[s]++
		}
	}
	freq[eofMark] = 1
	return freq, nil
}

// encodeTo writes the full container: header, the code of every grouped
// input symbol in document order, the EOF code, and zero padding to the next
// byte boundary.
func encodeTo(w io.Writer, g *Grouper, codes map[string]Code, headerBits int) error {
	bw := bitio.NewWriter(w)
	if err := writeHeader(bw, codes, headerBits); err != nil {
		return err
	}
	for {
		groups, err := g.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		for _, s := range groups {
			c, ok := codes[s]
			if !ok {
				return errors.Errorf("huffman: symbol %q missing from code map", s)
			}
			if err := bw.WriteBits(uint64(c.bits), c.length); err != nil {
				return err
			}
		}
	}
	c := codes[eofMark]
	if err := bw.WriteBits(uint64(c.bits), c.length); err != nil {
		return err
	}
	if _, err := bw.Align(); err != nil {
		return err
	}
	return bw.Close()
}

// decodeBody matches body bits against the code table one bit at a time.
// Prefix freedom makes the first exact match unambiguous. Decoding stops at
// the EOF symbol, leaving any padding bits unread; a candidate that reaches
// the longest known code length without matching means the container is
// corrupt or the header and body are out of sync.
func decodeBody(w io.Writer, br *BitReader, codes map[Code]string, longest int) error {
	var cand Code
	for {
		bit, ok, err := br.ReadBit()
		if err != nil {
			return err
		}
		if !ok {
			return errors.Wrap(ErrCorruptContainer, "body ended before the end-of-data symbol")
		}
		cand = cand.appendBit(bit)
		symbol, hit := codes[cand]
		if !hit {
			if cand.Len() >= longest {
				return errors.Wrapf(ErrCorruptContainer, "no code matches %s", cand)
			}
			continue
		}
		if symbol == eofMark {
			return nil
		}
		if _, err := io.WriteString(w, symbol); err != nil {
			return errors.Wrap(err, "huffman: writing decoded symbol")
		}
		cand = Code{}
	}
}

// writeFile runs fn against a buffered temporary file in outputPath's
// directory and renames it into place only after everything flushed cleanly.
func writeFile(path string, fn func(io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return errors.Wrapf(err, "huffman: creating temporary output near %s", path)
	}
	defer func() {
		if tmp != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	buf := bufio.NewWriter(tmp)
	if err := fn(buf); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return errors.Wrap(err, "huffman: flushing output")
	}
	name := tmp.Name()
	if err := tmp.Close(); err != nil {
		tmp = nil
		os.Remove(name)
		return errors.Wrap(err, "huffman: closing output")
	}
	tmp = nil
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return errors.Wrapf(err, "huffman: moving output into %s", path)
	}
	return nil
}
