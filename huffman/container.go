package huffman

import (
	"math"
	"sort"
	"unicode/utf8"

	"github.com/icza/bitio"
	"github.com/pkg/errors"
)

// Container layout, in bit order as written:
//
//	repeat per code map entry:
//	  byteCount = headerLengthBits bits, number of UTF-8 bytes of the symbol
//	  symbol    = byteCount raw UTF-8 bytes
//	  codeLen   = 5 bits (1..31)
//	  code      = codeLen bits, most significant bit first
//	terminator entry:
//	  byteCount = headerLengthBits bits, always 1
//	  symbol    = the MAP_END byte 0x1D; no code fields follow
//	body:
//	  the code of each input symbol, in document order
//	  the code of the EOF symbol
//	  zero padding to the next byte boundary
//
// Readers recognize the end of the header solely by decoding the MAP_END
// symbol, and stop consuming body bits the moment the EOF symbol decodes, so
// the padding is never read.
const (
	// mapEnd is the reserved symbol terminating the code table.
	mapEnd = ""
	// eofMark is the reserved symbol appended after the last real symbol.
	eofMark = ""

	// codeLengthBits is the fixed width of the header field holding a
	// code's bit count.
	codeLengthBits = 5
)

// HeaderLengthBits returns the width of the header field recording a
// symbol's UTF-8 byte count: enough bits to count blockSize characters of up
// to four bytes each. Encoder and decoder must be given the same value for
// the same container.
func HeaderLengthBits(blockSize int) int {
	if blockSize < 1 {
		return 0
	}
	return int(math.Ceil(math.Log2(float64(blockSize * 4))))
}

func writeHeaderEntry(w *bitio.Writer, symbol string, code Code, headerBits int) error {
	raw := []byte(symbol)
	if len(raw) >= 1<<uint(headerBits) {
		return errors.Wrapf(ErrFieldOverflow,
			"symbol %q is %d UTF-8 bytes, too wide for a %d-bit length field",
			symbol, len(raw), headerBits)
	}
	if code.length < 1 || code.length > MaxCodeLength {
		return errors.Wrapf(ErrFieldOverflow, "code %s for symbol %q", code, symbol)
	}
	if err := w.WriteBits(uint64(len(raw)), byte(headerBits)); err != nil {
		return err
	}
	if _, err := w.Write(raw); err != nil {
		return err
	}
	if err := w.WriteBits(uint64(code.length), codeLengthBits); err != nil {
		return err
	}
	return w.WriteBits(uint64(code.bits), code.length)
}

// writeHeader serializes the code map followed by the terminator entry.
// Entries go out in sorted symbol order so identical inputs always produce
// byte-identical containers.
func writeHeader(w *bitio.Writer, codes map[string]Code, headerBits int) error {
	symbols := make([]string, 0, len(codes))
	for s := range codes {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	for _, s := range symbols {
		if err := writeHeaderEntry(w, s, codes[s], headerBits); err != nil {
			return err
		}
	}
	if err := w.WriteBits(1, byte(headerBits)); err != nil {
		return err
	}
	_, err := w.Write([]byte(mapEnd))
	return err
}

// readHeader parses code table entries until the MAP_END terminator and
// returns the code→symbol map together with the longest code length seen.
func readHeader(br *BitReader, headerBits int) (map[Code]string, int, error) {
	decode := make(map[Code]string)
	longest := 0
	for {
		nBytes, got, err := br.ReadBits(headerBits)
		if err != nil {
			return nil, 0, err
		}
		if got < headerBits {
			return nil, 0, errors.Wrap(ErrCorruptContainer, "truncated symbol length field")
		}
		if nBytes == 0 {
			return nil, 0, errors.Wrap(ErrCorruptContainer, "zero-length symbol in header")
		}
		raw, gotBytes, err := br.ReadBytes(int(nBytes))
		if err != nil {
			return nil, 0, err
		}
		if gotBytes < int(nBytes) {
			return nil, 0, errors.Wrapf(ErrCorruptContainer,
				"truncated symbol: want %d bytes, have %d", nBytes, gotBytes)
		}
		if !utf8.Valid(raw) {
			return nil, 0, errors.Wrapf(ErrCorruptContainer, "symbol bytes % x are not UTF-8", raw)
		}
		symbol := string(raw)
		if symbol == mapEnd {
			return decode, longest, nil
		}

		codeLen, got, err := br.ReadBits(codeLengthBits)
		if err != nil {
			return nil, 0, err
		}
		if got < codeLengthBits {
			return nil, 0, errors.Wrapf(ErrCorruptContainer, "truncated code length for symbol %q", symbol)
		}
		if codeLen == 0 {
			return nil, 0, errors.Wrapf(ErrCorruptContainer, "zero-length code for symbol %q", symbol)
		}
		codeBits, got, err := br.ReadBits(int(codeLen))
		if err != nil {
			return nil, 0, err
		}
		if got < int(codeLen) {
			return nil, 0, errors.Wrapf(ErrCorruptContainer, "truncated code for symbol %q", symbol)
		}

		c := Code{bits: uint32(codeBits), length: uint8(codeLen)}
		if prev, dup := decode[c]; dup {
			return nil, 0, errors.Wrapf(ErrCorruptContainer,
				"code %s assigned to both %q and %q", c, prev, symbol)
		}
		decode[c] = symbol
		if int(codeLen) > longest {
			longest = int(codeLen)
		}
	}
}
