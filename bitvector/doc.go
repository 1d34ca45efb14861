// Package bitvector implements PlainBV, an uncompressed succinct bit
// vector: a two-level rank index plus a binary-search-assisted select,
// built on top of package bitbuffer.
//
// PlainBV stores words bit-reversed relative to bitbuffer's MSB-first
// convention, so that the rank/select kernels reduce to plain LSB-first
// popcount and select-in-word operations. The reversal happens once, in
// Builder.Build, which is the single place the MSB-first/LSB-first
// convention boundary is crossed.
package bitvector
