package bitvector

import (
	"bytes"
	"math/rand"
	"sync"
	"testing"

	"github.com/bits-and-blooms/bitset"
	"github.com/ntabee/CSBitVectors/bverrors"
	"github.com/ntabee/CSBitVectors/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildFromPositions(t *testing.T, n uint64, positions []uint64) *PlainBV {
	t.Helper()
	b := NewBuilder()
	b.PushRuns(false, n)
	for _, p := range positions {
		b.Set(p, true)
	}
	return b.Build()
}

func TestScenarioS1(t *testing.T) {
	positions := []uint64{0, 511, 512, 1000, 2000, 2015, 2016, 2017, 3000}
	v := buildFromPositions(t, 3001, positions)

	for k, want := range positions {
		got, err := v.Select(uint64(k), true)
		require.NoError(t, err)
		assert.EqualValues(t, want, got)
	}

	rank, err := v.Rank(3001, true)
	require.NoError(t, err)
	assert.EqualValues(t, 9, rank)

	g, err := v.Get(2016)
	require.NoError(t, err)
	assert.True(t, g)

	g, err = v.Get(2015)
	require.NoError(t, err)
	assert.True(t, g)
}

func TestInvariantRank0Plus1EqualsI(t *testing.T) {
	positions := []uint64{0, 511, 512, 1000, 2000, 2015, 2016, 2017, 3000}
	v := buildFromPositions(t, 3001, positions)
	for i := uint64(0); i <= v.Size(); i++ {
		r1, err := v.Rank(i, true)
		require.NoError(t, err)
		r0, err := v.Rank(i, false)
		require.NoError(t, err)
		assert.Equal(t, i, r0+r1)
	}
}

func TestInvariantGetMatchesRankDelta(t *testing.T) {
	positions := []uint64{3, 4, 70, 512, 513, 1023}
	v := buildFromPositions(t, 1024, positions)
	for i := uint64(0); i < v.Size(); i++ {
		got, err := v.Get(i)
		require.NoError(t, err)
		r1a, err := v.Rank(i+1, true)
		require.NoError(t, err)
		r1b, err := v.Rank(i, true)
		require.NoError(t, err)
		assert.Equal(t, got, (r1a-r1b) == 1)
	}
}

func TestSelectThenRankRoundTrip(t *testing.T) {
	positions := []uint64{0, 511, 512, 1000, 2000, 2015, 2016, 2017, 3000}
	v := buildFromPositions(t, 3001, positions)
	for b := 0; b < 2; b++ {
		bb := b == 1
		size := v.SizeB(bb)
		for k := uint64(0); k < size; k++ {
			pos, err := v.Select(k, bb)
			require.NoError(t, err)
			g, err := v.Get(pos)
			require.NoError(t, err)
			assert.Equal(t, bb, g)
			r, err := v.Rank(pos, bb)
			require.NoError(t, err)
			assert.Equal(t, k, r)
		}
	}
}

func TestBoundaryEmptyAndSingleBit(t *testing.T) {
	empty := NewBuilder().Build()
	assert.EqualValues(t, 0, empty.Size())
	r, err := empty.Rank(0, true)
	require.NoError(t, err)
	assert.EqualValues(t, 0, r)

	single := buildFromPositions(t, 1, []uint64{0})
	r1, err := single.Rank(1, true)
	require.NoError(t, err)
	assert.EqualValues(t, 1, r1)
}

func TestAllZeroAndAllOne(t *testing.T) {
	b := NewBuilder()
	b.PushRuns(false, 700)
	allZero := b.Build()
	_, err := allZero.Select(0, true)
	assert.Error(t, err)
	r, err := allZero.Rank(700, false)
	require.NoError(t, err)
	assert.EqualValues(t, 700, r)

	b2 := NewBuilder()
	b2.PushRuns(true, 700)
	allOne := b2.Build()
	pos, err := allOne.Select(699, true)
	require.NoError(t, err)
	assert.EqualValues(t, 699, pos)
}

func TestBoundarySizesOnWordAndBlockEdges(t *testing.T) {
	for _, n := range []uint64{63, 64, 512, 2016, 2017} {
		b := NewBuilder()
		b.PushRuns(false, n)
		if n > 0 {
			b.Set(n-1, true)
		}
		v := b.Build()
		r, err := v.Rank(n, true)
		require.NoError(t, err)
		assert.EqualValues(t, 1, r)
	}
}

func TestOutOfBoundsErrors(t *testing.T) {
	v := buildFromPositions(t, 10, []uint64{0, 5})
	_, err := v.Get(10)
	assert.Error(t, err)
	_, err = v.Rank(11, true)
	assert.Error(t, err)
	_, err = v.Select(v.SizeB(true), true)
	assert.Error(t, err)
}

func TestNotBuiltErrors(t *testing.T) {
	// A PlainBV that never went through Builder.Build carries built == false.
	v := &PlainBV{}
	_, err := v.Get(0)
	assert.ErrorIs(t, err, bverrors.ErrNotBuilt)
	_, err = v.Rank(0, true)
	assert.ErrorIs(t, err, bverrors.ErrNotBuilt)
	_, err = v.Select(0, true)
	assert.ErrorIs(t, err, bverrors.ErrNotBuilt)
}

func TestSerializationRoundTrip(t *testing.T) {
	positions := []uint64{0, 511, 512, 1000, 2000, 2015, 2016, 2017, 3000}
	v := buildFromPositions(t, 3001, positions)

	var buf bytes.Buffer
	_, err := v.WriteTo(&buf)
	require.NoError(t, err)

	v2, err := Read(&buf)
	require.NoError(t, err)
	assert.True(t, v.Equal(v2))
	for i := uint64(0); i < v.Size(); i++ {
		g1, _ := v.Get(i)
		g2, _ := v2.Get(i)
		assert.Equal(t, g1, g2)
	}
}

func TestRandomizedAgainstNaive(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, n := range []uint64{0, 1, 63, 64, 65, 511, 512, 513, 1000, 2016, 2017, 5000} {
		bits := make([]bool, n)
		for i := range bits {
			bits[i] = rng.Intn(2) == 1
		}
		b := NewBuilder()
		b.PushRuns(false, n)
		for i, bit := range bits {
			if bit {
				b.Set(uint64(i), true)
			}
		}
		v := b.Build()

		naiveRank := func(i uint64, want bool) uint64 {
			var c uint64
			for j := uint64(0); j < i; j++ {
				if bits[j] == want {
					c++
				}
			}
			return c
		}
		for i := uint64(0); i <= n; i += max64(1, n/37+1) {
			r1, err := v.Rank(i, true)
			require.NoError(t, err)
			assert.Equal(t, naiveRank(i, true), r1)
		}
	}
}

func max64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}

// TestAgainstBitsetOracle cross-checks Get, Rank and Select against
// github.com/bits-and-blooms/bitset, an independently implemented and
// separately tested bit-storage library, so a bug shared between this
// package's own test fixtures and its implementation cannot hide.
func TestAgainstBitsetOracle(t *testing.T) {
	rng := testutil.NewRNG(99)
	const n = 20000
	bits := rng.RandomBits(n, 0.37)

	oracle := bitset.New(n)
	b := NewBuilder()
	b.PushRuns(false, n)
	for i, set := range bits {
		if set {
			oracle.Set(uint(i))
			b.Set(uint64(i), true)
		}
	}
	v := b.Build()

	for i := uint64(0); i < n; i++ {
		got, err := v.Get(i)
		require.NoError(t, err)
		assert.Equal(t, oracle.Test(uint(i)), got, "Get mismatch at %d", i)
	}

	oracleRank := func(i uint64) uint64 {
		var c uint64
		for j := uint64(0); j < i; j++ {
			if oracle.Test(uint(j)) {
				c++
			}
		}
		return c
	}
	for i := uint64(0); i <= n; i += 173 {
		r, err := v.Rank(i, true)
		require.NoError(t, err)
		assert.Equal(t, oracleRank(i), r, "Rank mismatch at %d", i)
	}

	oraclePositions := make([]uint64, 0, oracle.Count())
	for i, ok := oracle.NextSet(0); ok; i, ok = oracle.NextSet(i + 1) {
		oraclePositions = append(oraclePositions, uint64(i))
	}
	for k := 0; k < len(oraclePositions); k += 31 {
		pos, err := v.Select(uint64(k), true)
		require.NoError(t, err)
		assert.Equal(t, oraclePositions[k], pos, "Select mismatch at k=%d", k)
	}
}

func TestConcurrentReadOnlyQueries(t *testing.T) {
	positions := []uint64{0, 511, 512, 1000, 2000, 2015, 2016, 2017, 3000}
	v := buildFromPositions(t, 3001, positions)

	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for i := 0; i < 200; i++ {
				idx := uint64(rng.Intn(int(v.Size()) + 1))
				_, _ = v.Rank(idx, true)
				_, _ = v.Get(idx % v.Size())
				if v.SizeB(true) > 0 {
					_, _ = v.Select(uint64(rng.Intn(int(v.SizeB(true)))), true)
				}
			}
		}(int64(g))
	}
	wg.Wait()
}
