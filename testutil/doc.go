// Package testutil provides testing utilities shared across this
// module's packages.
//
// This package is intended for use in tests only. It provides helpers
// for generating random bit patterns and monotone integer sequences,
// the two raw materials every succinct structure in this module is
// built from and checked against.
//
// # Random Bit Generation
//
//	rng := testutil.NewRNG(seed)
//	bits := rng.RandomBits(10000, 0.3) // ~30% of bits set
//
// # Random Monotone Sequences
//
//	vals := rng.SortedUint64s(1000, 1<<20) // non-decreasing, in [0, U]
package testutil
