package bitbuffer

import (
	"encoding/binary"
	"io"

	"github.com/ntabee/CSBitVectors/bverrors"
)

func maskLow(n int) uint64 {
	if n <= 0 {
		return 0
	}
	if n >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(n)) - 1
}

// BitBuffer is the immutable, read-only view of a bit sequence once a
// Builder is done writing to it. Bits are stored MSB-first within each
// 64-bit word: bit i lives at word i/64, mask 1 << (63 - i%64).
type BitBuffer struct {
	words  []uint64
	length uint64
}

// Len returns the number of stored bits.
func (b *BitBuffer) Len() uint64 { return b.length }

// NumWords returns the number of 64-bit words backing the buffer.
func (b *BitBuffer) NumWords() int { return len(b.words) }

// Word returns the raw word at index i, for collaborators (bitvector,
// rrr) that need direct access to the backing store. Callers must not
// mutate the returned value's source.
func (b *BitBuffer) Word(i int) uint64 { return b.words[i] }

// Get reads a single bit. Returns OutOfBounds for i >= Len().
func (b *BitBuffer) Get(i uint64) (bool, error) {
	if i >= b.length {
		return false, bverrors.NewOutOfBounds(i, b.length)
	}
	wordIdx := i / 64
	bitPos := i % 64
	mask := uint64(1) << (63 - bitPos)
	return b.words[wordIdx]&mask != 0, nil
}

// Fetch64 reads width bits starting at bit position pos, MSB-first,
// right-justified in the returned value.
func (b *BitBuffer) Fetch64(pos uint64, width int) (uint64, error) {
	if width < 0 || width > 64 {
		return 0, bverrors.NewInvalidWidth(width)
	}
	if width == 0 {
		return 0, nil
	}
	if pos+uint64(width) > b.length {
		return 0, bverrors.NewOutOfBounds(pos, b.length)
	}
	wordIdx := pos / 64
	bitOff := int(pos % 64)
	available := 64 - bitOff
	if width <= available {
		shift := available - width
		return (b.words[wordIdx] >> uint(shift)) & maskLow(width), nil
	}
	highPart := b.words[wordIdx] & maskLow(available)
	remaining := width - available
	lowPart := (b.words[wordIdx+1] >> uint(64-remaining)) & maskLow(remaining)
	return (highPart << uint(remaining)) | lowPart, nil
}

// Equal reports whether two buffers hold identical bits.
func (b *BitBuffer) Equal(other *BitBuffer) bool {
	if other == nil {
		return false
	}
	if b.length != other.length {
		return false
	}
	for i := range b.words {
		if b.words[i] != other.words[i] {
			return false
		}
	}
	return true
}

// WriteTo serializes the buffer as length:u64, nwords:i32, then
// nwords x u64 words, all little-endian.
func (b *BitBuffer) WriteTo(w io.Writer) (int64, error) {
	var n int64
	if err := binary.Write(w, binary.LittleEndian, b.length); err != nil {
		return n, err
	}
	n += 8
	if err := binary.Write(w, binary.LittleEndian, int32(len(b.words))); err != nil {
		return n, err
	}
	n += 4
	for _, word := range b.words {
		if err := binary.Write(w, binary.LittleEndian, word); err != nil {
			return n, err
		}
		n += 8
	}
	return n, nil
}

// Read deserializes a BitBuffer previously written by WriteTo.
func Read(r io.Reader) (*BitBuffer, error) {
	var length uint64
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return nil, err
	}
	var nwords int32
	if err := binary.Read(r, binary.LittleEndian, &nwords); err != nil {
		return nil, err
	}
	words := make([]uint64, nwords)
	for i := range words {
		if err := binary.Read(r, binary.LittleEndian, &words[i]); err != nil {
			return nil, err
		}
	}
	return &BitBuffer{words: words, length: length}, nil
}

// Builder is the single-owner, single-writer mutation surface for a
// BitBuffer. Push/Set/PushRuns must not be interleaved from concurrent
// goroutines; once Build is called the Builder should not be reused.
type Builder struct {
	words  []uint64
	length uint64
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder { return &Builder{} }

// NewBuilderWithCapacity returns an empty Builder pre-sized to hold
// capacityBits without further reallocation.
func NewBuilderWithCapacity(capacityBits uint64) *Builder {
	return &Builder{words: make([]uint64, 0, (capacityBits+63)/64)}
}

// Len returns the number of bits written so far.
func (b *Builder) Len() uint64 { return b.length }

func (b *Builder) growTo(nWords uint64) {
	for uint64(len(b.words)) < nWords {
		b.words = append(b.words, 0)
	}
}

// Get reads a single bit. Returns OutOfBounds for i >= Len().
func (b *Builder) Get(i uint64) (bool, error) {
	if i >= b.length {
		return false, bverrors.NewOutOfBounds(i, b.length)
	}
	wordIdx := i / 64
	bitPos := i % 64
	mask := uint64(1) << (63 - bitPos)
	return b.words[wordIdx]&mask != 0, nil
}

// Set writes bit i, growing the buffer's length to i+1 if it is
// currently shorter.
func (b *Builder) Set(i uint64, v bool) {
	wordIdx := i / 64
	bitPos := i % 64
	b.growTo(wordIdx + 1)
	mask := uint64(1) << (63 - bitPos)
	if v {
		b.words[wordIdx] |= mask
	} else {
		b.words[wordIdx] &^= mask
	}
	if i+1 > b.length {
		b.length = i + 1
	}
}

// Push appends the low width bits of value, MSB-first, advancing the
// write cursor. Crossing a word boundary splits the write into two
// aligned sub-writes.
func (b *Builder) Push(value uint64, width int) error {
	if width < 0 || width > 64 {
		return bverrors.NewInvalidWidth(width)
	}
	if width == 0 {
		return nil
	}
	value &= maskLow(width)
	pos := b.length
	wordIdx := pos / 64
	bitOff := int(pos % 64)
	available := 64 - bitOff
	b.growTo(wordIdx + 1)
	if width <= available {
		shift := available - width
		b.words[wordIdx] |= value << uint(shift)
	} else {
		highPart := (value >> uint(width-available)) & maskLow(available)
		b.words[wordIdx] |= highPart
		remaining := width - available
		b.growTo(wordIdx + 2)
		lowPart := value & maskLow(remaining)
		b.words[wordIdx+1] |= lowPart << uint(64-remaining)
	}
	b.length += uint64(width)
	return nil
}

// PushRuns appends count copies of bit, using word-aligned bulk writes
// for the interior and Push for the unaligned head/tail.
func (b *Builder) PushRuns(bit bool, count uint64) {
	if count == 0 {
		return
	}
	bitOff := b.length % 64
	if bitOff != 0 {
		avail := 64 - bitOff
		n := avail
		if count < n {
			n = count
		}
		var v uint64
		if bit {
			v = maskLow(int(n))
		}
		_ = b.Push(v, int(n))
		count -= n
	}
	fillWord := uint64(0)
	if bit {
		fillWord = ^uint64(0)
	}
	for count >= 64 {
		b.words = append(b.words, fillWord)
		b.length += 64
		count -= 64
	}
	if count > 0 {
		var v uint64
		if bit {
			v = maskLow(int(count))
		}
		_ = b.Push(v, int(count))
	}
}

// Build finalizes the Builder into an immutable BitBuffer view. The
// Builder should not be used again afterwards.
func (b *Builder) Build() *BitBuffer {
	return &BitBuffer{words: b.words, length: b.length}
}
