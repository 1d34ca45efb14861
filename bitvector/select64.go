package bitvector

import "math/bits"

// byteSelectTable[v][k] holds the 0-indexed bit position (0..7) of the
// k-th set bit in byte value v, or -1 if v has fewer than k+1 set bits.
// Built once, in the package's init, and read-only thereafter — the same "global table,
// computed once at load time" discipline used for the binomial table in
// package rrr.
var byteSelectTable [256][8]int8

func init() {
	for v := 0; v < 256; v++ {
		k := 0
		for bitPos := 0; bitPos < 8; bitPos++ {
			if v&(1<<bitPos) != 0 {
				byteSelectTable[v][k] = int8(bitPos)
				k++
			}
		}
		for ; k < 8; k++ {
			byteSelectTable[v][k] = -1
		}
	}
}

// selectInWord returns the position (0..63, LSB-first: bit 0 is the
// least significant bit) of the k-th (0-indexed) set bit in word. The
// broadword kernel described in the design reduces to a byte-wise
// popcount scan guided by a precomputed per-byte select table, which is
// the constant-time ("at most 8 lookups") equivalent of the classic
// nibble parallel-prefix-sum technique.
func selectInWord(word uint64, k int) (int, bool) {
	for byteIdx := 0; byteIdx < 8; byteIdx++ {
		bv := byte(word >> uint(8*byteIdx))
		pc := bits.OnesCount8(bv)
		if k < pc {
			p := byteSelectTable[bv][k]
			return byteIdx*8 + int(p), true
		}
		k -= pc
	}
	return 0, false
}

// SelectInWord is the exported form of the broadword select64 kernel,
// reused by package rrr to locate a bit within a decoded block.
func SelectInWord(word uint64, k int) (int, bool) {
	return selectInWord(word, k)
}
