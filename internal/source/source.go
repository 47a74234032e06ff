// Package source loads records for the table from local files, a git
// history or a synthetic generator.
package source

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"
	"unicode"

	"golang.org/x/sync/errgroup"

	"github.com/Akashdeep-Patra/zippy-table/internal/table"
)

// ErrUnsupportedFormat is returned for files whose extension no loader
// understands.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Set is a batch of records plus the prop order they were read in.
type Set struct {
	Name    string
	Props   []string
	Kinds   map[string]string // renderer hints by prop; may be nil
	Records []table.Record
}

// Items returns the records as table items, preserving identity.
func (s *Set) Items() []table.Item {
	items := make([]table.Item, len(s.Records))
	for i, r := range s.Records {
		items[i] = r
	}
	return items
}

// Len is the number of records.
func (s *Set) Len() int { return len(s.Records) }

// addProp appends p unless it is already known.
func (s *Set) addProp(p string) {
	if !slices.Contains(s.Props, p) {
		s.Props = append(s.Props, p)
	}
}

// LoadFile reads one file, picking the decoder from its extension.
func LoadFile(path string) (*Set, error) {
	var (
		set *Set
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		set, err = loadJSON(path)
	case ".jsonl", ".ndjson":
		set, err = loadJSONLines(path)
	case ".csv":
		set, err = loadDelimited(path, ',')
	case ".tsv":
		set, err = loadDelimited(path, '\t')
	default:
		return nil, fmt.Errorf("%s: %w %q", path, ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	set.Name = filepath.Base(path)
	return set, nil
}

// LoadAll reads every path concurrently and concatenates the results in
// argument order.
func LoadAll(ctx context.Context, paths []string) (*Set, error) {
	sets := make([]*Set, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := LoadFile(p)
			if err != nil {
				return err
			}
			sets[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return Merge(sets...), nil
}

// Merge concatenates sets. Props keep their first-seen order.
func Merge(sets ...*Set) *Set {
	out := &Set{}
	var names []string
	for _, s := range sets {
		if s == nil {
			continue
		}
		names = append(names, s.Name)
		for _, p := range s.Props {
			out.addProp(p)
		}
		for p, k := range s.Kinds {
			if out.Kinds == nil {
				out.Kinds = make(map[string]string)
			}
			if _, ok := out.Kinds[p]; !ok {
				out.Kinds[p] = k
			}
		}
		out.Records = append(out.Records, s.Records...)
	}
	out.Name = strings.Join(names, ", ")
	return out
}

// Column is one configured table column.
type Column struct {
	Header   string
	Prop     string
	Renderer string
}

// Columns infers one column per prop. Renderer kinds come from the set's
// hints, else from the first non-nil value of the prop.
func Columns(s *Set) []Column {
	cols := make([]Column, 0, len(s.Props))
	for _, p := range s.Props {
		kind := s.Kinds[p]
		if kind == "" {
			kind = inferKind(s.Records, p)
		}
		cols = append(cols, Column{Header: Header(p), Prop: p, Renderer: kind})
	}
	return cols
}

// Header turns a prop like "created_at" into "Created at".
func Header(prop string) string {
	h := strings.NewReplacer("_", " ", "-", " ").Replace(prop)
	r := []rune(h)
	if len(r) == 0 {
		return h
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func inferKind(records []table.Record, prop string) string {
	for _, r := range records {
		switch v := r[prop].(type) {
		case nil:
			continue
		case int, int64, float64:
			return "number"
		case bool:
			return "bool"
		case time.Time:
			return "time"
		case string:
			if _, err := time.Parse(time.RFC3339, v); err == nil {
				return "time"
			}
			return table.DefaultKind
		default:
			return table.DefaultKind
		}
	}
	return table.DefaultKind
}
