package huffman

// MaxCodeLength is the longest code the container format can describe: the
// header stores each code's bit count in a 5-bit field.
const MaxCodeLength = 31

// Code is a single Huffman code of up to MaxCodeLength bits. The bits are
// right-aligned in the value, first bit highest, so Code is comparable and
// serves directly as a map key on both the encode and decode side.
type Code struct {
	bits   uint32
	length uint8
}

// Len returns the number of bits in the code.
func (c Code) Len() int { return int(c.length) }

// Bits returns the code bits right-aligned in the low end of the result.
func (c Code) Bits() uint32 { return c.bits }

func (c Code) appendBit(b byte) Code {
	return Code{bits: c.bits<<1 | uint32(b&1), length: c.length + 1}
}

// isPrefixOf reports whether c is a proper prefix of other.
func (c Code) isPrefixOf(other Code) bool {
	if c.length >= other.length {
		return false
	}
	return other.bits>>(other.length-c.length) == c.bits
}

// String renders the code as a binary literal, e.g. "0110".
func (c Code) String() string {
	out := make([]byte, c.length)
	for i := range out {
		out[i] = '0' + byte(c.bits>>(uint(c.length)-1-uint(i))&1)
	}
	return string(out)
}
