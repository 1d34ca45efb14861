package eliasfano

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarioS2(t *testing.T) {
	input := []uint64{0, 0, 7, 7, 100, 1000, 99999}
	b := NewBuilder(7, 99999)
	for _, v := range input {
		require.NoError(t, b.Push(v))
	}
	ef := b.Build()
	for i, want := range input {
		got, err := ef.Get(uint64(i))
		require.NoError(t, err)
		assert.EqualValues(t, want, got)
	}

	assert.Error(t, b.Push(99998)) // CapacityExceeded, already at n_cap
}

func TestOrderViolation(t *testing.T) {
	b := NewBuilder(3, 1000)
	require.NoError(t, b.Push(5))
	err := b.Push(3)
	assert.Error(t, err)
}

func TestUpperBoundExceeded(t *testing.T) {
	b := NewBuilder(3, 1000)
	err := b.Push(1001)
	assert.Error(t, err)
}

func TestCapacityExceeded(t *testing.T) {
	b := NewBuilder(2, 1000)
	require.NoError(t, b.Push(1))
	require.NoError(t, b.Push(2))
	err := b.Push(3)
	assert.Error(t, err)
}

func TestMonotoneCorrectness(t *testing.T) {
	input := []uint64{0, 1, 1, 2, 50, 50, 50, 1000, 1000000}
	b := NewBuilder(uint64(len(input)), 1000000)
	for _, v := range input {
		require.NoError(t, b.Push(v))
	}
	ef := b.Build()
	for i, want := range input {
		got, err := ef.Get(uint64(i))
		require.NoError(t, err)
		assert.EqualValues(t, want, got)
	}
}

func TestSerializationRoundTrip(t *testing.T) {
	input := []uint64{0, 0, 7, 7, 100, 1000, 99999}
	b := NewBuilder(7, 99999)
	for _, v := range input {
		require.NoError(t, b.Push(v))
	}
	ef := b.Build()

	var buf bytes.Buffer
	_, err := ef.WriteTo(&buf)
	require.NoError(t, err)

	ef2, err := Read(&buf)
	require.NoError(t, err)
	assert.True(t, ef.Equal(ef2))
	for i := range input {
		g1, _ := ef.Get(uint64(i))
		g2, _ := ef2.Get(uint64(i))
		assert.Equal(t, g1, g2)
	}
}

func TestZeroEllAllValuesShareTopBits(t *testing.T) {
	b := NewBuilder(4, 3) // U/n_cap == 0, so ell == 0
	for _, v := range []uint64{0, 1, 2, 3} {
		require.NoError(t, b.Push(v))
	}
	ef := b.Build()
	for i, want := range []uint64{0, 1, 2, 3} {
		got, err := ef.Get(uint64(i))
		require.NoError(t, err)
		assert.EqualValues(t, want, got)
	}
}
