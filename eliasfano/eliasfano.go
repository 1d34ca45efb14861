package eliasfano

import (
	"encoding/binary"
	"io"
	"math/bits"

	csbitvectors "github.com/ntabee/CSBitVectors"
	"github.com/ntabee/CSBitVectors/bitbuffer"
	"github.com/ntabee/CSBitVectors/bitvector"
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

func computeEll(nCap, u uint64) int {
	if nCap == 0 {
		return 0
	}
	q := u / nCap
	if q == 0 {
		return 0
	}
	return bits.Len64(q) - 1
}

// EliasFanoSeq is a succinct, immutable encoding of a non-decreasing
// integer sequence in [0, U], built by one Builder.
type EliasFanoSeq struct {
	nCap    uint64
	u       uint64
	ell     int
	mask    uint64
	lows    *bitbuffer.BitBuffer
	highs   *bitvector.PlainBV
	count   uint64
	lastVal uint64
}

// Builder is the single-owner, single-writer construction surface for
// an EliasFanoSeq.
type Builder struct {
	nCap    uint64
	u       uint64
	ell     int
	mask    uint64
	lows    *bitbuffer.Builder
	highs   *bitvector.Builder
	count   uint64
	lastVal uint64
	opts    csbitvectors.BuildOptions
}

// NewBuilder declares the capacity n_cap and the upper bound U that
// every subsequently pushed value must respect.
func NewBuilder(nCap, u uint64, opts ...csbitvectors.Option) *Builder {
	ell := computeEll(nCap, u)
	return &Builder{
		nCap:  nCap,
		u:     u,
		ell:   ell,
		mask:  maskLow(ell),
		lows:  bitbuffer.NewBuilder(),
		highs: bitvector.NewBuilder(),
		opts:  csbitvectors.ApplyOptions(opts),
	}
}

// Len returns the number of values pushed so far.
func (b *Builder) Len() uint64 { return b.count }

// Push appends v, which must be >= the previously pushed value and
// <= U, and must not exceed n_cap total pushes.
func (b *Builder) Push(v uint64) error {
	if b.count >= b.nCap {
		return bverrors.NewCapacityExceeded(b.nCap)
	}
	if v > b.u {
		return bverrors.NewUpperBoundExceeded(v, b.u)
	}
	if v < b.lastVal {
		return bverrors.NewOrderViolation(v, b.lastVal)
	}
	low := v & b.mask
	if b.ell > 0 {
		if err := b.lows.Push(low, b.ell); err != nil {
			return err
		}
	}
	high := v >> uint(b.ell)
	b.highs.Set(high+b.count, true)
	b.lastVal = v
	b.count++
	return nil
}

// Build finalizes the Builder into an immutable EliasFanoSeq.
func (b *Builder) Build() *EliasFanoSeq {
	b.opts.Logger.LogBuild("eliasfano", "ell", b.ell, "count", b.count, "n_cap", b.nCap)
	return &EliasFanoSeq{
		nCap:    b.nCap,
		u:       b.u,
		ell:     b.ell,
		mask:    b.mask,
		lows:    b.lows.Build(),
		highs:   b.highs.Build(),
		count:   b.count,
		lastVal: b.lastVal,
	}
}

// Len returns the number of stored values.
func (e *EliasFanoSeq) Len() uint64 { return e.count }

// Get returns the i-th stored value.
func (e *EliasFanoSeq) Get(i uint64) (uint64, error) {
	if i >= e.count {
		return 0, bverrors.NewOutOfBounds(i, e.count)
	}
	sel, err := e.highs.Select(i, true)
	if err != nil {
		return 0, err
	}
	high := sel - i
	if e.ell == 0 {
		return high, nil
	}
	low, err := e.lows.Fetch64(i*uint64(e.ell), e.ell)
	if err != nil {
		return 0, err
	}
	return (high << uint(e.ell)) | low, nil
}

// Equal reports whether two EliasFanoSeq values encode the same
// sequence under the same parameters.
func (e *EliasFanoSeq) Equal(other *EliasFanoSeq) bool {
	if other == nil {
		return false
	}
	return e.nCap == other.nCap && e.u == other.u && e.ell == other.ell &&
		e.mask == other.mask && e.count == other.count && e.lastVal == other.lastVal &&
		e.lows.Equal(other.lows) && e.highs.Equal(other.highs)
}

// WriteTo serializes ell, mask, U, n_cap, count, last_val, lows, highs.
func (e *EliasFanoSeq) WriteTo(w io.Writer) (int64, error) {
	var n int64
	fields := []any{int32(e.ell), e.mask, e.u, e.nCap, e.count, e.lastVal}
	for _, f := range fields {
		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return n, err
		}
		switch f.(type) {
		case int32:
			n += 4
		default:
			n += 8
		}
	}
	wn, err := e.lows.WriteTo(w)
	n += wn
	if err != nil {
		return n, err
	}
	wn, err = e.highs.WriteTo(w)
	n += wn
	return n, err
}

// Read deserializes an EliasFanoSeq previously written by WriteTo.
func Read(r io.Reader) (*EliasFanoSeq, error) {
	e := &EliasFanoSeq{}
	var ell int32
	if err := binary.Read(r, binary.LittleEndian, &ell); err != nil {
		return nil, err
	}
	e.ell = int(ell)
	if err := binary.Read(r, binary.LittleEndian, &e.mask); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &e.u); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &e.nCap); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &e.count); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &e.lastVal); err != nil {
		return nil, err
	}
	lows, err := bitbuffer.Read(r)
	if err != nil {
		return nil, err
	}
	e.lows = lows
	highs, err := bitvector.Read(r)
	if err != nil {
		return nil, err
	}
	e.highs = highs
	return e, nil
}
