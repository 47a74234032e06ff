package table

import (
	"testing"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareValues(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		a, b any
		want int
	}{
		{"ints", 2, 10, -1},
		{"mixed numbers", 2.5, 2, 1},
		{"uint vs int", uint8(7), 7, 0},
		{"numeric not lexical", 9, 10, -1},
		{"strings", "b", "a", 1},
		{"numeric strings stay strings", "9", "10", 1},
		{"times", now, now.Add(time.Hour), -1},
		{"nil first", nil, 0, -1},
		{"nil last", "x", nil, 1},
		{"both nil", nil, nil, 0},
		{"bools", false, true, -1},
		{"int64 above 2^53", int64(9007199254740993), int64(9007199254740992), 1},
		{"uint64 above 2^53", uint64(1<<63 + 1), uint64(1 << 63), 1},
		{"max uint64 vs negative", uint64(1<<64 - 1), int64(-1), 1},
		{"negative vs unsigned", int8(-1), uint(0), -1},
		{"negatives", int64(-9007199254740993), int32(-5), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, compareValues(tt.a, tt.b))
		})
	}
}

func TestToggleSortCycle(t *testing.T) {
	p := NewPipeline()
	assert.Equal(t, SortedAscending, p.ToggleSort("a"))
	assert.Equal(t, SortedAscending, p.ToggleSort("b"))
	assert.Equal(t, []SortRule{{Prop: "a"}, {Prop: "b"}}, p.Rules())

	assert.Equal(t, SortedDescending, p.ToggleSort("a"))
	assert.Equal(t, SortedDescending, p.State("a"))
	assert.Equal(t, Unsorted, p.ToggleSort("a"))
	assert.Equal(t, []SortRule{{Prop: "b"}}, p.Rules())

	p.ResetSort()
	assert.Empty(t, p.Rules())
	assert.Equal(t, Unsorted, p.State("b"))
}

func TestPipelineIdentityWhenInactive(t *testing.T) {
	p := NewPipeline()
	p.Reset(records(5))
	p.Derive()
	assert.False(t, p.Active())
	assert.Equal(t, 5, p.Len())
	assert.Equal(t, 3, p.At(3))
	assert.Equal(t, 4, p.IndexOf(4))
	assert.Equal(t, -1, p.IndexOf(5))
	assert.Equal(t, uint64(5), p.Members().GetCardinality())
}

func TestPipelineSecondaryRuleBreaksTies(t *testing.T) {
	p := NewPipeline()
	p.Reset([]Item{
		Record{"id": 0, "g": "b", "n": 2},
		Record{"id": 1, "g": "a", "n": 9},
		Record{"id": 2, "g": "b", "n": 1},
		Record{"id": 3, "g": "a", "n": 3},
	})
	p.SetRules([]SortRule{{Prop: "g"}, {Prop: "n", Dir: Descending}})
	p.Derive()

	var got []int
	for i := range p.Len() {
		got = append(got, p.At(i))
	}
	assert.Equal(t, []int{1, 3, 0, 2}, got)
	assert.Equal(t, 2, p.IndexOf(0))
}

func TestPipelineSortsLargeIntegersExactly(t *testing.T) {
	p := NewPipeline()
	p.Reset([]Item{
		Record{"id": int64(9007199254740993)},
		Record{"id": int64(9007199254740992)},
	})
	p.SetRules([]SortRule{{Prop: "id"}})
	p.Derive()

	assert.Equal(t, 1, p.At(0))
	assert.Equal(t, 0, p.At(1))
}

func TestPipelineFilterMembers(t *testing.T) {
	p := NewPipeline()
	p.Reset(records(10))
	p.SetFilter(func(it Item) bool { return it.Value("even").(bool) })
	p.Derive()

	require.Equal(t, 5, p.Len())
	assert.Equal(t, roaring.BitmapOf(0, 2, 4, 6, 8).ToArray(), p.Members().ToArray())
	assert.Equal(t, -1, p.IndexOf(3))
	assert.Equal(t, 2, p.IndexOf(4))
}
