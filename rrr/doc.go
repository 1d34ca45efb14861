// Package rrr implements RRRBV, a Raman-Raman-Rao compressed bit vector:
// the bit sequence is cut into fixed-size blocks, each block is stored
// as a (class, offset) pair via enumerative coding, and super-block
// samples (held in two eliasfano.EliasFanoSeq indexes) make rank and
// select run in O(1) amortized time without ever materializing the
// full uncompressed bit sequence.
package rrr
