package table

import (
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectionOrder(t *testing.T) {
	s := NewSelection()
	assert.True(t, s.Add(4))
	assert.True(t, s.Add(1))
	assert.False(t, s.Add(4), "re-adding keeps the original position")
	assert.True(t, s.Add(9))

	assert.Equal(t, []int{4, 1, 9}, s.Handles())
	first, ok := s.First()
	require.True(t, ok)
	assert.Equal(t, 4, first)
	last, _ := s.Last()
	assert.Equal(t, 9, last)

	assert.True(t, s.Remove(1))
	assert.False(t, s.Remove(1))
	assert.Equal(t, []int{4, 9}, s.Handles())
	assert.Equal(t, 2, s.Len())
}

func TestSelectionRetain(t *testing.T) {
	s := NewSelection()
	for _, h := range []int{5, 2, 7, 3} {
		s.Add(h)
	}
	removed := s.Retain(roaring.BitmapOf(2, 3, 100))
	assert.Equal(t, []int{5, 7}, removed)
	assert.Equal(t, []int{2, 3}, s.Handles())
	assert.False(t, s.Has(5))
	assert.True(t, s.Has(3))

	assert.Nil(t, s.Retain(roaring.BitmapOf(2, 3)))
}

func TestSelectionClear(t *testing.T) {
	s := NewSelection()
	s.Add(1)
	s.Add(2)
	assert.Equal(t, []int{1, 2}, s.Clear())
	assert.Zero(t, s.Len())
	_, ok := s.First()
	assert.False(t, ok)
}

func TestParseSelectionMode(t *testing.T) {
	m, err := ParseSelectionMode("multi-row")
	require.NoError(t, err)
	assert.Equal(t, SelectionMultiRow, m)

	m, err = ParseSelectionMode("")
	require.NoError(t, err)
	assert.Equal(t, SelectionRow, m)

	_, err = ParseSelectionMode("cell")
	assert.EqualError(t, err, `unknown selection mode "cell"`)
}
