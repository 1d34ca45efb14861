// Package main implements bvstat, a small inspection tool for
// serialized PlainBV and RRRBV files: it prints their bit count,
// popcount, and serialized size so a caller can sanity-check how much
// space a structure actually took before shipping it.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/ntabee/CSBitVectors/bitvector"
	"github.com/ntabee/CSBitVectors/rrr"
)

var kind = flag.String("type", "plain", "structure type stored in the file: \"plain\" or \"rrr\"")

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [-type plain|rrr] <file>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	path := flag.Arg(0)
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	sizeB := uint64(info.Size())

	var n, s1 uint64

	switch *kind {
	case "plain":
		v, err := bitvector.Read(f)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		n = v.Size()
		s1 = v.SizeB(true)
	case "rrr":
		v, err := rrr.Read(f)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		n = v.Size()
		s1 = v.SizeB(true)
	default:
		fmt.Fprintf(os.Stderr, "unknown -type %q, want \"plain\" or \"rrr\"\n", *kind)
		os.Exit(1)
	}

	var bitsPerElement float64
	if n > 0 {
		bitsPerElement = float64(sizeB*8) / float64(n)
	}

	fmt.Printf("type:        %s\n", *kind)
	fmt.Printf("bits (n):    %s\n", humanize.Comma(int64(n)))
	fmt.Printf("ones:        %s\n", humanize.Comma(int64(s1)))
	fmt.Printf("zeros:       %s\n", humanize.Comma(int64(n-s1)))
	fmt.Printf("size:        %s (%s bytes)\n", humanize.Bytes(sizeB), humanize.Comma(int64(sizeB)))
	fmt.Printf("bits/elem:   %.4f\n", bitsPerElement)
}
