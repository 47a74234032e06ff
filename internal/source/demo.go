package source

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/Akashdeep-Patra/zippy-table/internal/table"
)

var demoWords = []string{
	"amber", "basil", "cedar", "delta", "ember", "fjord", "gravel", "harbor",
	"indigo", "juniper", "kelp", "lumen", "maple", "nectar", "onyx", "pebble",
}

// Demo returns n synthetic records. The same n and now always yield the
// same records.
func Demo(n int, now time.Time) *Set {
	rng := rand.New(rand.NewPCG(uint64(n), 0x7a74))
	set := &Set{
		Name:  "demo",
		Props: []string{"id", "name", "size", "done", "progress", "updated"},
		Kinds: map[string]string{
			"id":       "number",
			"size":     "bytes",
			"done":     "bool",
			"progress": "progress",
			"updated":  "time",
		},
		Records: make([]table.Record, n),
	}
	for i := range n {
		set.Records[i] = table.Record{
			"id":       i,
			"name":     fmt.Sprintf("%s-%s-%05d", demoWords[rng.IntN(len(demoWords))], demoWords[rng.IntN(len(demoWords))], i),
			"size":     rng.Int64N(8 << 30),
			"done":     rng.IntN(4) == 0,
			"progress": float64(rng.IntN(101)) / 100,
			"updated":  now.Add(-time.Duration(1 + rng.Int64N(int64(90*24*time.Hour)))),
		}
	}
	return set
}
