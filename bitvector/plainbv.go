package bitvector

import (
	"encoding/binary"
	"io"
	"math/bits"

	csbitvectors "github.com/ntabee/CSBitVectors"
	"github.com/ntabee/CSBitVectors/bitbuffer"
	"github.com/ntabee/CSBitVectors/bverrors"
)

const (
	small = 64
	large = 512
	ratio = large / small
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

// PlainBV is an uncompressed succinct bit vector with a two-level rank
// index (SMALL=64, LARGE=512) and binary-search-assisted select. It is
// immutable once returned by Builder.Build.
type PlainBV struct {
	words []uint64 // LSB-first within each word, bit-reversed from bitbuffer's MSB-first storage
	n     uint64
	s1    uint64
	r     []uint64 // r[j] = rank_1(j*LARGE)
	built bool
}

// Builder accumulates bits using the same MSB-first Push/Set surface as
// bitbuffer.Builder (it wraps one), and performs the bit-reversal and
// rank-index construction in Build.
type Builder struct {
	bb   *bitbuffer.Builder
	opts csbitvectors.BuildOptions
}

// NewBuilder returns an empty Builder.
func NewBuilder(opts ...csbitvectors.Option) *Builder {
	return &Builder{bb: bitbuffer.NewBuilder(), opts: csbitvectors.ApplyOptions(opts)}
}

// Len returns the number of bits written so far.
func (b *Builder) Len() uint64 { return b.bb.Len() }

// Set writes bit i, growing the buffer as needed.
func (b *Builder) Set(i uint64, v bool) { b.bb.Set(i, v) }

// Push appends the low width bits of value, MSB-first.
func (b *Builder) Push(value uint64, width int) error { return b.bb.Push(value, width) }

// PushRuns appends count copies of bit.
func (b *Builder) PushRuns(bit bool, count uint64) { b.bb.PushRuns(bit, count) }

// Build finalizes the Builder: bit-reverses each word of the underlying
// BitBuffer (crossing the MSB-first/LSB-first convention boundary
// exactly once) and constructs the two-level rank index.
func (b *Builder) Build() *PlainBV {
	src := b.bb.Build()
	n := src.Len()
	nWords := src.NumWords()
	words := make([]uint64, nWords)
	for i := 0; i < nWords; i++ {
		words[i] = bits.Reverse64(src.Word(i))
	}

	numLarge := (nWords + ratio - 1) / ratio
	r := make([]uint64, numLarge)
	running := uint64(0)
	for j := 0; j < numLarge; j++ {
		r[j] = running
		end := (j + 1) * ratio
		if end > nWords {
			end = nWords
		}
		for wi := j * ratio; wi < end; wi++ {
			running += uint64(bits.OnesCount64(words[wi]))
		}
	}

	b.opts.Logger.LogBuild("bitvector", "n", n, "words", nWords, "s1", running, "rank_samples", numLarge)
	return &PlainBV{words: words, n: n, s1: running, r: r, built: true}
}

// Size returns the number of stored bits.
func (v *PlainBV) Size() uint64 { return v.n }

// SizeB returns the number of bits equal to b.
func (v *PlainBV) SizeB(b bool) uint64 {
	if b {
		return v.s1
	}
	return v.n - v.s1
}

func (v *PlainBV) validBits(wordIdx int) int {
	if wordIdx == len(v.words)-1 {
		return int(v.n - uint64(wordIdx)*64)
	}
	return 64
}

// Get returns the bit at position i.
func (v *PlainBV) Get(i uint64) (bool, error) {
	if !v.built {
		return false, bverrors.ErrNotBuilt
	}
	if i >= v.n {
		return false, bverrors.NewOutOfBounds(i, v.n)
	}
	wordIdx := i / 64
	bitPos := i % 64
	return v.words[wordIdx]&(uint64(1)<<bitPos) != 0, nil
}

// Rank returns the number of bits equal to b in [0, i).
func (v *PlainBV) Rank(i uint64, b bool) (uint64, error) {
	if !v.built {
		return 0, bverrors.ErrNotBuilt
	}
	if i > v.n {
		return 0, bverrors.NewOutOfBounds(i, v.n)
	}
	if i == 0 {
		return 0, nil
	}
	ip := i - 1
	qLarge := ip / large
	qSmall := ip / small
	rPrime := ip % small

	rank1 := v.r[qLarge]
	for wi := qLarge * ratio; wi < qSmall; wi++ {
		rank1 += uint64(bits.OnesCount64(v.words[wi]))
	}
	rank1 += uint64(bits.OnesCount64(v.words[qSmall] & maskLow(int(rPrime)+1)))

	if b {
		return rank1, nil
	}
	return i - rank1, nil
}

// Select returns the position of the k-th (0-indexed) bit equal to b.
func (v *PlainBV) Select(k uint64, b bool) (uint64, error) {
	if !v.built {
		return 0, bverrors.ErrNotBuilt
	}
	sizeB := v.SizeB(b)
	if k >= sizeB {
		return 0, bverrors.NewOutOfBounds(k, sizeB)
	}

	countBefore := func(j int) uint64 {
		if b {
			return v.r[j]
		}
		return uint64(j)*large - v.r[j]
	}

	lo, hi := 0, len(v.r)-1
	best := 0
	for lo <= hi {
		mid := lo + (hi-lo)/2
		if countBefore(mid) <= k {
			best = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}

	remainder := k - countBefore(best)
	wordIdx := best * ratio
	for {
		valid := v.validBits(wordIdx)
		word := v.words[wordIdx] & maskLow(valid)
		var cnt int
		if b {
			cnt = bits.OnesCount64(word)
		} else {
			cnt = valid - bits.OnesCount64(word)
		}
		if remainder < uint64(cnt) {
			break
		}
		remainder -= uint64(cnt)
		wordIdx++
	}

	word := v.words[wordIdx] & maskLow(v.validBits(wordIdx))
	if !b {
		word = (^word) & maskLow(v.validBits(wordIdx))
	}
	pos, ok := selectInWord(word, int(remainder))
	if !ok {
		return 0, bverrors.NewOutOfBounds(k, sizeB)
	}
	return uint64(wordIdx)*64 + uint64(pos), nil
}

// Equal reports whether two PlainBVs store the same bits and index.
func (v *PlainBV) Equal(other *PlainBV) bool {
	if other == nil || v.n != other.n || v.s1 != other.s1 {
		return false
	}
	if len(v.words) != len(other.words) || len(v.r) != len(other.r) {
		return false
	}
	for i := range v.words {
		if v.words[i] != other.words[i] {
			return false
		}
	}
	for i := range v.r {
		if v.r[i] != other.r[i] {
			return false
		}
	}
	return true
}

// WriteTo serializes n, s1, the word array, and the rank samples, all
// little-endian.
func (v *PlainBV) WriteTo(w io.Writer) (int64, error) {
	var n int64
	if err := binary.Write(w, binary.LittleEndian, v.n); err != nil {
		return n, err
	}
	n += 8
	if err := binary.Write(w, binary.LittleEndian, v.s1); err != nil {
		return n, err
	}
	n += 8
	if err := binary.Write(w, binary.LittleEndian, int32(len(v.words))); err != nil {
		return n, err
	}
	n += 4
	for _, word := range v.words {
		if err := binary.Write(w, binary.LittleEndian, word); err != nil {
			return n, err
		}
		n += 8
	}
	if err := binary.Write(w, binary.LittleEndian, int32(len(v.r))); err != nil {
		return n, err
	}
	n += 4
	for _, sum := range v.r {
		if err := binary.Write(w, binary.LittleEndian, sum); err != nil {
			return n, err
		}
		n += 8
	}
	return n, nil
}

// Read deserializes a PlainBV previously written by WriteTo.
func Read(r io.Reader) (*PlainBV, error) {
	v := &PlainBV{built: true}
	if err := binary.Read(r, binary.LittleEndian, &v.n); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &v.s1); err != nil {
		return nil, err
	}
	var nWords int32
	if err := binary.Read(r, binary.LittleEndian, &nWords); err != nil {
		return nil, err
	}
	v.words = make([]uint64, nWords)
	for i := range v.words {
		if err := binary.Read(r, binary.LittleEndian, &v.words[i]); err != nil {
			return nil, err
		}
	}
	var nR int32
	if err := binary.Read(r, binary.LittleEndian, &nR); err != nil {
		return nil, err
	}
	v.r = make([]uint64, nR)
	for i := range v.r {
		if err := binary.Read(r, binary.LittleEndian, &v.r[i]); err != nil {
			return nil, err
		}
	}
	return v, nil
}
