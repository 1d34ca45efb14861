package csbitvectors

import "io"

// Vector is the small capability abstraction shared by bitvector.PlainBV
// and rrr.RRRBV for callers that want to select an implementation at
// runtime without caring which one. Neither concrete type needs to
// import this package to satisfy it — it exists purely as a structural
// contract; virtual dispatch is not warranted on the query hot path, so
// this is used sparingly, at call sites that genuinely need to be
// generic over "some bit vector."
type Vector interface {
	// Size returns the number of stored bits.
	Size() uint64
	// SizeB returns the number of bits equal to b.
	SizeB(b bool) uint64
	// Get returns the bit at position i.
	Get(i uint64) (bool, error)
	// Rank returns the number of bits equal to b in [0, i).
	Rank(i uint64, b bool) (uint64, error)
	// Select returns the position of the k-th (0-indexed) bit equal to b.
	Select(k uint64, b bool) (uint64, error)
	// WriteTo serializes the vector.
	WriteTo(w io.Writer) (int64, error)
}
