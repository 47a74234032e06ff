package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocate(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		sizes   map[string]ColumnSize
		want    []float64
		kinds   []SizeKind
	}{
		{
			name:    "all shared",
			headers: []string{"A", "B", "C", "D"},
			want:    []float64{122.5, 122.5, 122.5, 122.5},
			kinds:   []SizeKind{SizeShared, SizeShared, SizeShared, SizeShared},
		},
		{
			name:    "explicit takes its size, the other column the rest",
			headers: []string{"Name", "Age"},
			sizes:   map[string]ColumnSize{"Age": {Size: 200, Kind: SizeExplicit}},
			want:    []float64{500 - 10 - 200, 200},
			kinds:   []SizeKind{SizeShared, SizeExplicit},
		},
		{
			name:    "preferred columns split by weight",
			headers: []string{"A", "B"},
			sizes: map[string]ColumnSize{
				"A": {Size: 30, Kind: SizePreferred},
				"B": {Size: 60, Kind: SizePreferred},
			},
			want:  []float64{490.0 / 3, 490.0 * 2 / 3},
			kinds: []SizeKind{SizePreferred, SizePreferred},
		},
		{
			name:    "explicit below the floor is clamped",
			headers: []string{"A", "B"},
			sizes:   map[string]ColumnSize{"A": {Size: 3, Kind: SizeExplicit}},
			want:    []float64{45, 445},
			kinds:   []SizeKind{SizeExplicit, SizeShared},
		},
		{
			name:    "overflowing explicit columns floor the rest",
			headers: []string{"A", "B"},
			sizes:   map[string]ColumnSize{"A": {Size: 600, Kind: SizeExplicit}},
			want:    []float64{600, 45},
			kinds:   []SizeKind{SizeExplicit, SizeShared},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Allocate(tt.headers, tt.sizes, 500, 10, 45)
			require.Len(t, got, len(tt.want))
			for i, w := range got {
				assert.InDelta(t, tt.want[i], w.Px, 1e-9, "column %d", i)
				assert.Equal(t, tt.kinds[i], w.Kind, "column %d", i)
				assert.InDelta(t, w.Px/490*100, w.Percent, 1e-9)
			}
		})
	}
}

func TestAllocateEmpty(t *testing.T) {
	assert.Nil(t, Allocate(nil, nil, 500, 10, 45))
}

func TestCells(t *testing.T) {
	widths := []Width{{Px: 33.4}, {Px: 33.3}, {Px: 33.3}}
	got := Cells(widths, 100)
	assert.Equal(t, 100, sum(got))
	assert.Equal(t, []int{34, 33, 33}, got)

	// Floors past the total are kept; the host clips.
	assert.Equal(t, []int{60, 60}, Cells([]Width{{Px: 60}, {Px: 60}}, 100))

	assert.Equal(t, []int{10, 10, 10}, Cells([]Width{{Px: 10}, {Px: 10}, {Px: 10}}, 40))
}

func TestSizeKindString(t *testing.T) {
	assert.Equal(t, "shared", SizeShared.String())
	assert.Equal(t, "preferred", SizePreferred.String())
	assert.Equal(t, "explicit", SizeExplicit.String())
}
