// Package csbitvectors is the root of a small succinct bit-vector
// library: an uncompressed rank/select bit vector (package bitvector),
// an RRR-compressed bit vector (package rrr), an Elias-Fano monotone
// sequence (package eliasfano), all built on a leaf bit container
// (package bitbuffer).
//
// # Quick Start
//
//	b := bitvector.NewBuilder()
//	b.Set(3, true)
//	b.Set(100, true)
//	v := b.Build()
//	v.Rank(50, true)  // 1
//	v.Select(1, true) // 100
//
// This root package itself exports only the ambient pieces shared
// across the four leaf packages: a capability interface for callers
// who want to pick a bit-vector implementation at runtime (Vector), a
// structured-logging wrapper matching the rest of the module's
// diagnostics, the build options every Builder accepts (BuildOptions,
// Option, WithLogger, ApplyOptions), and the debug-assertion toggle used
// by package rrr.
package csbitvectors
