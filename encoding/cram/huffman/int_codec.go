package huffman

import "github.com/singerma/cramtools/encoding/cram/bitio"

// IntCodec is the canonical Huffman codec over an arbitrary int32
// alphabet (CRAM's HUFFMAN_INT data-series encoding).
type IntCodec struct {
	b *book
}

// NewIntCodec builds a canonical Huffman codebook from values and their
// assigned bit lengths (spec.md §4.1). len(values) must equal
// len(bitLengths).
func NewIntCodec(values []int32, bitLengths []uint32) (*IntCodec, error) {
	b, err := buildBook(values, bitLengths)
	if err != nil {
		return nil, err
	}
	return &IntCodec{b: b}, nil
}

// Read decodes the next integer from bis.
func (c *IntCodec) Read(bis *bitio.Reader) (int32, error) {
	return c.b.read(bis)
}

// Write encodes symbol to bos and returns the number of bits written.
func (c *IntCodec) Write(bos *bitio.Writer, symbol int32) (int, error) {
	return c.b.write(bos, symbol)
}

// BitsFor returns the number of bits symbol's canonical code occupies.
func (c *IntCodec) BitsFor(symbol int32) (uint32, error) {
	return c.b.bitsFor(symbol)
}
