// Package eliasfano implements EliasFanoSeq, a succinct encoding of a
// non-decreasing integer sequence: n*ceil(log2(U/n)) + 2n + o(n) bits.
// It is built on package bitbuffer (for the low bits) and package
// bitvector (for the high-bit unary marks), and is itself the index
// substrate package rrr uses for its super-block samples.
package eliasfano
