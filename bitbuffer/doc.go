// Package bitbuffer implements BitBuffer, the append-only / random-write
// bit container every other structure in this module is built on top of.
//
// A BitBuffer stores bits MSB-first within each 64-bit word: bit i lives
// at word i/64, mask 1 << (63 - i%64). Builder is the single-owner,
// single-writer mutation surface (Push/Set/PushRuns); BitBuffer is the
// read-only view returned once writing is done, which is what gets
// embedded in built PlainBV/EliasFanoSeq/RRRBV values.
package bitbuffer
