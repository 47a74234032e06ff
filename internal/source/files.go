package source

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/Akashdeep-Patra/zippy-table/internal/table"
)

// maxLine bounds a single JSON Lines record.
const maxLine = 4 << 20

func loadJSON(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.UseNumber()
	var raw []map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding array of objects: %w", err)
	}
	set := &Set{Records: make([]table.Record, 0, len(raw))}
	for _, obj := range raw {
		set.Records = append(set.Records, record(obj))
	}
	set.Props = collectProps(set.Records)
	return set, nil
}

func loadJSONLines(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	set := &Set{}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), maxLine)
	line := 0
	for sc.Scan() {
		line++
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 {
			continue
		}
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.UseNumber()
		var obj map[string]any
		if err := dec.Decode(&obj); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		set.Records = append(set.Records, record(obj))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	set.Props = collectProps(set.Records)
	return set, nil
}

func loadDelimited(path string, comma rune) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.ReuseRecord = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return &Set{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	set := &Set{Props: slices.Clone(header)}
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rec := make(table.Record, len(header))
		for i, p := range header {
			if i < len(row) {
				rec[p] = parseField(row[i])
			}
		}
		set.Records = append(set.Records, rec)
	}
	return set, nil
}

// parseField turns numeric-looking text into numbers and true/false into
// bools. Everything else stays a string.
func parseField(s string) any {
	t := strings.TrimSpace(s)
	if t == "" {
		return nil
	}
	if n, err := strconv.ParseInt(t, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(t, 64); err == nil {
		return f
	}
	switch strings.ToLower(t) {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}

// record converts decoded JSON numbers to int64 or float64.
func record(obj map[string]any) table.Record {
	rec := make(table.Record, len(obj))
	for k, v := range obj {
		if n, ok := v.(json.Number); ok {
			if i, err := n.Int64(); err == nil {
				v = i
			} else if f, err := n.Float64(); err == nil {
				v = f
			} else {
				v = n.String()
			}
		}
		rec[k] = v
	}
	return rec
}

// collectProps returns the union of keys. JSON objects carry no key order
// once decoded into maps, so props are sorted, with "id" and "name" first.
func collectProps(records []table.Record) []string {
	seen := make(map[string]struct{})
	for _, r := range records {
		for k := range r {
			seen[k] = struct{}{}
		}
	}
	props := make([]string, 0, len(seen))
	for k := range seen {
		props = append(props, k)
	}
	slices.SortFunc(props, func(a, b string) int {
		ra, rb := propRank(a), propRank(b)
		if ra != rb {
			return ra - rb
		}
		return strings.Compare(a, b)
	})
	return props
}

func propRank(p string) int {
	switch p {
	case "id":
		return 0
	case "name":
		return 1
	}
	return 2
}
