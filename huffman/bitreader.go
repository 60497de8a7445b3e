package huffman

import (
	"io"

	"github.com/pkg/errors"
)

// BitReader serves bit-level reads from a byte stream, most significant bit
// of each byte first. It buffers a single byte and refills only once that
// byte is fully drained, so it never pulls more than one byte ahead of the
// bits it has handed out.
//
// Running out of data is not an error: reads simply come back short. Only a
// real failure of the underlying source surfaces as an error.
type BitReader struct {
	src     io.Reader
	cur     byte
	left    int // unread bits remaining in cur
	done    bool
	scratch [1]byte
}

// NewBitReader returns a BitReader over r, positioned at its first byte.
func NewBitReader(r io.Reader) *BitReader {
	return &BitReader{src: r}
}

func (br *BitReader) refill() error {
	for {
		n, err := br.src.Read(br.scratch[:])
		if n > 0 {
			br.cur = br.scratch[0]
			br.left = 8
			return nil
		}
		if err == io.EOF {
			br.done = true
			return nil
		}
		if err != nil {
			br.done = true
			return errors.Wrap(err, "huffman: reading source byte")
		}
	}
}

// ReadBits returns the next n bits of the stream packed into the low end of
// value, first bit highest. got reports how many bits were actually read; it
// is smaller than n only when the source runs out, and zero once nothing
// remains. n must be at most 64.
func (br *BitReader) ReadBits(n int) (value uint64, got int, err error) {
	for got < n {
		if br.left == 0 {
			if br.done {
				return value, got, nil
			}
			if err = br.refill(); err != nil {
				return value, got, err
			}
			if br.done {
				return value, got, nil
			}
		}
		br.left--
		value = value<<1 | uint64(br.cur>>uint(br.left)&1)
		got++
	}
	return value, got, nil
}

// ReadBit is the single-bit iteration step. ok is false once the source is
// exhausted.
func (br *BitReader) ReadBit() (bit byte, ok bool, err error) {
	v, got, err := br.ReadBits(1)
	return byte(v), got == 1, err
}

// ReadBytes reassembles n whole bytes from the bit stream, which need not be
// byte-aligned within it. got counts the complete bytes available; a short
// count means the source ran out.
func (br *BitReader) ReadBytes(n int) (out []byte, got int, err error) {
	out = make([]byte, 0, n)
	for i := 0; i < n; i++ {
		v, g, err := br.ReadBits(8)
		if err != nil {
			return out, len(out), err
		}
		if g < 8 {
			return out, len(out), nil
		}
		out = append(out, byte(v))
	}
	return out, n, nil
}
