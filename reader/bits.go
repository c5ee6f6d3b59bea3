package reader

import "github.com/jsphweid/tabdex/taberr"

// BitReader reads bits most significant first, as the GPX BCFZ stream is
// packed.
type BitReader struct {
	data []byte
	pos  int
	bit  int
}

func NewBitReader(data []byte) *BitReader {
	return &BitReader{data: data, bit: 8, pos: -1}
}

func (b *BitReader) readBit() (int, error) {
	if b.bit >= 8 {
		if b.pos+1 >= len(b.data) {
			return 0, taberr.Malformedf("bcfz", len(b.data), "bit stream ended early")
		}
		b.pos++
		b.bit = 0
	}
	v := int(b.data[b.pos]>>(7-b.bit)) & 1
	b.bit++
	return v, nil
}

// ReadBits reads count bits, first bit read is the most significant.
func (b *BitReader) ReadBits(count int) (int, error) {
	v := 0
	for i := count - 1; i >= 0; i-- {
		bit, err := b.readBit()
		if err != nil {
			return 0, err
		}
		v |= bit << i
	}
	return v, nil
}

// ReadBitsReversed reads count bits, first bit read is the least significant.
func (b *BitReader) ReadBitsReversed(count int) (int, error) {
	v := 0
	for i := 0; i < count; i++ {
		bit, err := b.readBit()
		if err != nil {
			return 0, err
		}
		v |= bit << i
	}
	return v, nil
}

func (b *BitReader) ReadByte() (byte, error) {
	v, err := b.ReadBits(8)
	return byte(v), err
}
