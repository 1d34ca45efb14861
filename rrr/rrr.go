package rrr

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/bits"

	csbitvectors "github.com/ntabee/CSBitVectors"
	"github.com/ntabee/CSBitVectors/bitbuffer"
	"github.com/ntabee/CSBitVectors/bitvector"
	"github.com/ntabee/CSBitVectors/bverrors"
	"github.com/ntabee/CSBitVectors/eliasfano"
)

// ErrInvariantViolation is raised by Builder.Build, only when
// csbitvectors.DebugAssertions is enabled, if re-deriving a block from
// its stored (class, offset) does not reproduce the source bits.
var ErrInvariantViolation = errors.New("rrr: class/offset round-trip did not reproduce source block")

func maskLow(n int) uint64 {
	if n <= 0 {
		return 0
	}
	if n >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(n)) - 1
}

// RRRBV is a Raman-Raman-Rao compressed bit vector. It is immutable
// once returned by Builder.Build.
type RRRBV struct {
	n                uint64
	s1               uint64
	classCodes       *bitbuffer.BitBuffer
	offsetCodes      *bitbuffer.BitBuffer
	rankSamples      *eliasfano.EliasFanoSeq
	offsetPosSamples *eliasfano.EliasFanoSeq
	numBlocks        int
}

// Builder is the single-owner, single-writer construction surface for
// an RRRBV. It exposes the same Set/Push/PushRuns surface as
// bitvector.Builder for laying down the source bits.
type Builder struct {
	src  *bitbuffer.Builder
	opts csbitvectors.BuildOptions
}

// NewBuilder returns an empty Builder.
func NewBuilder(opts ...csbitvectors.Option) *Builder {
	return &Builder{src: bitbuffer.NewBuilder(), opts: csbitvectors.ApplyOptions(opts)}
}

// Len returns the number of source bits written so far.
func (b *Builder) Len() uint64 { return b.src.Len() }

// Set writes bit i of the source sequence, growing as needed.
func (b *Builder) Set(i uint64, v bool) { b.src.Set(i, v) }

// Push appends the low width bits of value, MSB-first.
func (b *Builder) Push(value uint64, width int) error { return b.src.Push(value, width) }

// PushRuns appends count copies of bit.
func (b *Builder) PushRuns(bit bool, count uint64) { b.src.PushRuns(bit, count) }

// Build performs the single linear block-encoding pass described in
// the component design: pad the source to a multiple of t bits (so
// every block read is in-bounds instead of needing a special
// zero-padded fetch), then for every block compute its class and
// enumerative offset, sampling the running rank and offset_codes bit
// position every f-th block into two EliasFanoSeq indexes.
func (b *Builder) Build() *RRRBV {
	n := b.src.Len()
	numBlocks := int((n + t - 1) / t)
	padded := uint64(numBlocks) * t
	if padded > n {
		b.src.PushRuns(false, padded-n)
	}
	src := b.src.Build()

	numSuperBlocks := (numBlocks + f - 1) / f

	rankSamplesBuilder := eliasfano.NewBuilder(uint64(numSuperBlocks), n)
	maxBitsForOffset := 0
	for c := 0; c <= t; c++ {
		if bitsForClass(c) > maxBitsForOffset {
			maxBitsForOffset = bitsForClass(c)
		}
	}
	offsetUpperBound := uint64(numBlocks) * uint64(maxBitsForOffset)
	offsetPosSamplesBuilder := eliasfano.NewBuilder(uint64(numSuperBlocks), offsetUpperBound+1)

	classCodes := bitbuffer.NewBuilderWithCapacity(uint64(numBlocks) * bitsPerClass)
	offsetCodes := bitbuffer.NewBuilder()

	running := uint64(0)
	for i := 0; i < numBlocks; i++ {
		if i%f == 0 {
			_ = rankSamplesBuilder.Push(running)
			_ = offsetPosSamplesBuilder.Push(offsetCodes.Len())
		}

		blockVal, _ := src.Fetch64(uint64(i)*t, t)
		class := bits.OnesCount64(blockVal)
		offset := offsetOf(blockVal, class)

		if csbitvectors.DebugAssertions {
			if got := ofOffset(offset, class); got != blockVal {
				panic(fmt.Errorf("%w: block %d, class %d, offset %d: got %#x want %#x",
					ErrInvariantViolation, i, class, offset, got, blockVal))
			}
		}

		_ = classCodes.Push(uint64(class), bitsPerClass)
		_ = offsetCodes.Push(offset, bitsForClass(class))

		running += uint64(class)
	}

	rv := &RRRBV{
		n:                n,
		s1:               running,
		classCodes:       classCodes.Build(),
		offsetCodes:      offsetCodes.Build(),
		rankSamples:      rankSamplesBuilder.Build(),
		offsetPosSamples: offsetPosSamplesBuilder.Build(),
		numBlocks:        numBlocks,
	}
	b.opts.Logger.LogBuild("rrr", "n", n, "blocks", numBlocks, "super_blocks", numSuperBlocks)
	return rv
}

// Size returns the number of stored bits.
func (v *RRRBV) Size() uint64 { return v.n }

// SizeB returns the number of bits equal to b.
func (v *RRRBV) SizeB(b bool) uint64 {
	if b {
		return v.s1
	}
	return v.n - v.s1
}

func (v *RRRBV) classOfBlock(i int) int {
	c, _ := v.classCodes.Fetch64(uint64(i)*bitsPerClass, bitsPerClass)
	return int(c)
}

func (v *RRRBV) offsetPosOfBlock(i int) uint64 {
	sb := i / f
	p, _ := v.offsetPosSamples.Get(uint64(sb))
	for j := sb * f; j < i; j++ {
		p += uint64(bitsForClass(v.classOfBlock(j)))
	}
	return p
}

func (v *RRRBV) fetchBlock(i int) uint64 {
	class := v.classOfBlock(i)
	if class == 0 {
		return 0
	}
	if class == t {
		return maskLow(t)
	}
	pos := v.offsetPosOfBlock(i)
	width := bitsForClass(class)
	offset, _ := v.offsetCodes.Fetch64(pos, width)
	return ofOffset(offset, class)
}

// Get returns the bit at position i (access(i) in the component design).
func (v *RRRBV) Get(i uint64) (bool, error) {
	if i >= v.n {
		return false, bverrors.NewOutOfBounds(i, v.n)
	}
	b := int(i / t)
	class := v.classOfBlock(b)
	if class == 0 {
		return false, nil
	}
	if class == t {
		return true, nil
	}
	blk := v.fetchBlock(b)
	intra := int(i % t)
	return (blk>>uint(t-1-intra))&1 != 0, nil
}

// Rank returns the number of bits equal to b in [0, i).
func (v *RRRBV) Rank(i uint64, b bool) (uint64, error) {
	if i > v.n {
		return 0, bverrors.NewOutOfBounds(i, v.n)
	}
	if i == 0 {
		return 0, nil
	}
	rank1, err := v.rank1(i)
	if err != nil {
		return 0, err
	}
	if b {
		return rank1, nil
	}
	return i - rank1, nil
}

// rank1 computes rank_1(i), i in (0, n]. It indexes super-blocks and
// blocks by ip = i-1, the last bit position actually being counted, the
// same convention PlainBV.Rank uses (bitvector/plainbv.go): i itself may
// equal n exactly on a super-block boundary, where i/s would overrun the
// last stored rankSamples entry, but ip/s never does.
func (v *RRRBV) rank1(i uint64) (uint64, error) {
	ip := i - 1
	sb := int(ip / s)
	base, err := v.rankSamples.Get(uint64(sb))
	if err != nil {
		return 0, err
	}

	if uint64(sb+1) < v.rankSamples.Len() {
		next, err := v.rankSamples.Get(uint64(sb + 1))
		if err != nil {
			return 0, err
		}
		delta := next - base
		if delta == 0 {
			return base, nil
		}
		if delta == uint64(s) {
			return base + (i - uint64(sb)*uint64(s)), nil
		}
	}

	blockIdx := int(ip / t)
	rank := base
	for j := sb * f; j < blockIdx; j++ {
		rank += uint64(v.classOfBlock(j))
	}
	intra := int(ip%t) + 1
	blk := v.fetchBlock(blockIdx)
	rank += uint64(bits.OnesCount64(blk >> uint(t-intra)))
	return rank, nil
}

// Select returns the position of the k-th (0-indexed) bit equal to b.
func (v *RRRBV) Select(k uint64, b bool) (uint64, error) {
	sizeB := v.SizeB(b)
	if k >= sizeB {
		return 0, bverrors.NewOutOfBounds(k, sizeB)
	}

	numSuperBlocks := int(v.rankSamples.Len())
	countBefore := func(j int) uint64 {
		val, _ := v.rankSamples.Get(uint64(j))
		if b {
			return val
		}
		return uint64(j)*uint64(s) - val
	}

	lo, hi := 0, numSuperBlocks-1
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

	if best+1 < numSuperBlocks {
		next, _ := v.rankSamples.Get(uint64(best + 1))
		base, _ := v.rankSamples.Get(uint64(best))
		delta := next - base
		if b && delta == uint64(s) {
			return uint64(best)*uint64(s) + remainder, nil
		}
		if !b && delta == 0 {
			return uint64(best)*uint64(s) + remainder, nil
		}
	}

	blockIdx := best * f
	for blockIdx < v.numBlocks {
		class := v.classOfBlock(blockIdx)
		cnt := class
		if !b {
			cnt = t - class
		}
		if remainder < uint64(cnt) {
			break
		}
		remainder -= uint64(cnt)
		blockIdx++
	}

	blk := v.fetchBlock(blockIdx)
	word := bits.Reverse64(blk << uint(64-t))
	if !b {
		word = (^word) & maskLow(t)
	}
	pos, ok := bitvector.SelectInWord(word, int(remainder))
	if !ok {
		return 0, bverrors.NewOutOfBounds(k, sizeB)
	}
	return uint64(blockIdx)*t + uint64(pos), nil
}

// Equal reports whether two RRRBVs encode the same bits.
func (v *RRRBV) Equal(other *RRRBV) bool {
	if other == nil {
		return false
	}
	return v.n == other.n && v.s1 == other.s1 && v.numBlocks == other.numBlocks &&
		v.classCodes.Equal(other.classCodes) && v.offsetCodes.Equal(other.offsetCodes) &&
		v.rankSamples.Equal(other.rankSamples) && v.offsetPosSamples.Equal(other.offsetPosSamples)
}

// WriteTo serializes n, s1, class_codes, offset_codes, rank_samples,
// offset_pos_samples.
func (v *RRRBV) WriteTo(w io.Writer) (int64, error) {
	var n int64
	if err := binary.Write(w, binary.LittleEndian, v.n); err != nil {
		return n, err
	}
	n += 8
	if err := binary.Write(w, binary.LittleEndian, v.s1); err != nil {
		return n, err
	}
	n += 8
	for _, part := range []io.WriterTo{v.classCodes, v.offsetCodes, v.rankSamples, v.offsetPosSamples} {
		wn, err := part.WriteTo(w)
		n += wn
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// Read deserializes an RRRBV previously written by WriteTo.
func Read(r io.Reader) (*RRRBV, error) {
	v := &RRRBV{}
	if err := binary.Read(r, binary.LittleEndian, &v.n); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &v.s1); err != nil {
		return nil, err
	}
	classCodes, err := bitbuffer.Read(r)
	if err != nil {
		return nil, err
	}
	v.classCodes = classCodes
	offsetCodes, err := bitbuffer.Read(r)
	if err != nil {
		return nil, err
	}
	v.offsetCodes = offsetCodes
	rankSamples, err := eliasfano.Read(r)
	if err != nil {
		return nil, err
	}
	v.rankSamples = rankSamples
	offsetPosSamples, err := eliasfano.Read(r)
	if err != nil {
		return nil, err
	}
	v.offsetPosSamples = offsetPosSamples
	v.numBlocks = int((v.n + t - 1) / t)
	return v, nil
}
