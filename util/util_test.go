package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFractionArithmetic(t *testing.T) {
	third := NewFraction(1, 3)

	assert := assert.New(t)
	assert.Equal(Fraction{Num: 1, Den: 1}, third.Add(third).Add(third))
	assert.Equal(Fraction{Num: 1, Den: 6}, third.Sub(NewFraction(2, 12)))
	assert.Equal(Fraction{Num: 1, Den: 9}, third.Mul(third))
	assert.Equal(Fraction{Num: -1, Den: 2}, NewFraction(2, -4))
	assert.Equal(-1, third.Cmp(NewFraction(1, 2)))
	assert.Equal(0, third.Cmp(NewFraction(2, 6)))
	assert.Equal("1/3", third.String())
}

func TestFractionZeroValueIsZero(t *testing.T) {
	var zero Fraction

	assert := assert.New(t)
	assert.Equal(NewFraction(1, 4), zero.Add(NewFraction(1, 4)))
	assert.Equal(int64(0), zero.Round())
}

func TestFractionRound(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(int64(3), NewFraction(5, 2).Round())
	assert.Equal(int64(2), NewFraction(7, 3).Round())
	assert.Equal(int64(-3), NewFraction(-5, 2).Round())
	assert.Equal(int64(274), NewFraction(1920, 7).Round())
}

func TestGCDAndClamp(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(6, GCD(12, -18))
	assert.Equal(5, GCD(0, 5))
	assert.Equal(127, Clamp(200, 0, 127))
	assert.Equal(0.5, Clamp(0.5, 0.0, 1.0))
	assert.Equal(int64(6), Sum([]int{1, 2, 3}))
}

func TestSortedKeys(t *testing.T) {
	keys := SortedKeys(map[string]int{"b": 1, "a": 2, "c": 3})

	assert.Equal(t, []string{"a", "b", "c"}, keys)
}

func TestGatherTabPaths(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.gp5", "a.GP3", "notes.txt", "sub/c.gp"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0777))
		require.NoError(t, os.WriteFile(path, nil, 0666))
	}

	paths, err := GatherTabPaths(dir, 0)
	require.NoError(t, err)
	limited, err := GatherTabPaths(dir, 2)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal([]string{
		filepath.Join(dir, "a.GP3"),
		filepath.Join(dir, "b.gp5"),
		filepath.Join(dir, "sub/c.gp"),
	}, paths)
	assert.Len(limited, 2)
}
