package table

import (
	"math"
	"sort"
)

// SizeKind classifies how a column's width is decided.
type SizeKind int

const (
	// SizeShared columns have no record and take an equal share of slack.
	SizeShared SizeKind = iota
	// SizePreferred columns compete for slack in proportion to their size.
	SizePreferred
	// SizeExplicit columns have a fixed width set by the user or renderer.
	SizeExplicit
)

func (k SizeKind) String() string {
	switch k {
	case SizePreferred:
		return "preferred"
	case SizeExplicit:
		return "explicit"
	default:
		return "shared"
	}
}

// ColumnSize is the recorded sizing intent for one column.
type ColumnSize struct {
	Size        float64
	DefaultSize float64
	Kind        SizeKind
}

// Width is an allocated column width.
type Width struct {
	Px      float64 // absolute width
	Percent float64 // share of the content width, 0–100
	Kind    SizeKind
}

// Allocate distributes containerWidth minus padding among headers.
//
// Explicit columns keep their pixel size. Everything left is shared by the
// remaining columns: preferred columns weigh their recorded size, columns
// without a record weigh available/len(headers). No width drops below
// minSize. There is no incremental form: one column's change can move
// every preferred share.
func Allocate(headers []string, sizes map[string]ColumnSize, containerWidth, padding, minSize float64) []Width {
	n := len(headers)
	if n == 0 {
		return nil
	}
	content := containerWidth - padding

	explicitTotal := 0.0
	for _, h := range headers {
		if s, ok := sizes[h]; ok && s.Kind == SizeExplicit {
			explicitTotal += math.Max(s.Size, minSize)
		}
	}
	available := math.Max(content-explicitTotal, 0)
	implicit := available / float64(n)

	weights := make([]float64, n)
	weightTotal := 0.0
	for i, h := range headers {
		s, ok := sizes[h]
		switch {
		case ok && s.Kind == SizeExplicit:
			continue
		case ok && s.Kind == SizePreferred:
			weights[i] = math.Max(s.Size, 0)
		default:
			weights[i] = implicit
		}
		weightTotal += weights[i]
	}

	out := make([]Width, n)
	for i, h := range headers {
		s, ok := sizes[h]
		var w Width
		switch {
		case ok && s.Kind == SizeExplicit:
			w = Width{Px: math.Max(s.Size, minSize), Kind: SizeExplicit}
		default:
			share := 0.0
			if weightTotal > 0 {
				share = available * weights[i] / weightTotal
			}
			kind := SizeShared
			if ok {
				kind = SizePreferred
			}
			w = Width{Px: math.Max(share, minSize), Kind: kind}
		}
		if content > 0 {
			w.Percent = w.Px / content * 100
		}
		out[i] = w
	}
	return out
}

// Cells rounds widths to whole terminal cells. When the widths fit in total
// the leftover cells go to the largest fractional remainders, so the sum
// matches the fractional sum.
func Cells(widths []Width, total int) []int {
	out := make([]int, len(widths))
	sum := 0.0
	floors := 0
	for i, w := range widths {
		out[i] = int(math.Floor(w.Px))
		floors += out[i]
		sum += w.Px
	}
	target := min(int(math.Round(sum)), total)
	left := target - floors
	if left <= 0 {
		return out
	}
	order := make([]int, len(widths))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ra := widths[order[a]].Px - math.Floor(widths[order[a]].Px)
		rb := widths[order[b]].Px - math.Floor(widths[order[b]].Px)
		return ra > rb
	})
	for i := 0; left > 0 && len(order) > 0; i = (i + 1) % len(order) {
		out[order[i]]++
		left--
	}
	return out
}
