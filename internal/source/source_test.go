package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akashdeep-Patra/zippy-table/internal/table"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadCSV(t *testing.T) {
	p := writeFile(t, t.TempDir(), "people.csv", "name,age,score,active\nada,36,9.5,true\nbob,,7,false\n")
	set, err := LoadFile(p)
	require.NoError(t, err)

	assert.Equal(t, "people.csv", set.Name)
	assert.Equal(t, []string{"name", "age", "score", "active"}, set.Props)
	require.Equal(t, 2, set.Len())
	assert.Equal(t, table.Record{"name": "ada", "age": int64(36), "score": 9.5, "active": true}, set.Records[0])
	assert.Nil(t, set.Records[1]["age"])
	assert.Equal(t, int64(7), set.Records[1]["score"])
}

func TestLoadTSVShortRows(t *testing.T) {
	p := writeFile(t, t.TempDir(), "x.tsv", "a\tb\n1\n")
	set, err := LoadFile(p)
	require.NoError(t, err)
	require.Equal(t, 1, set.Len())
	assert.Equal(t, int64(1), set.Records[0]["a"])
	_, ok := set.Records[0]["b"]
	assert.False(t, ok)
}

func TestLoadJSON(t *testing.T) {
	p := writeFile(t, t.TempDir(), "items.json", `[{"zeta":1,"name":"a","id":7,"ratio":0.5},{"extra":true}]`)
	set, err := LoadFile(p)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "extra", "ratio", "zeta"}, set.Props)
	assert.Equal(t, int64(7), set.Records[0]["id"])
	assert.Equal(t, 0.5, set.Records[0]["ratio"])
}

func TestLoadJSONLines(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "items.jsonl", "{\"id\":1}\n\n{\"id\":2}\n")
	set, err := LoadFile(p)
	require.NoError(t, err)
	assert.Equal(t, 2, set.Len())

	bad := writeFile(t, dir, "bad.ndjson", "{\"id\":1}\n{oops}\n")
	_, err = LoadFile(bad)
	assert.ErrorContains(t, err, "line 2")
}

func TestLoadUnsupported(t *testing.T) {
	_, err := LoadFile("table.xlsx")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadAllKeepsArgumentOrder(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.csv", "id,name\n1,one\n2,two\n")
	b := writeFile(t, dir, "b.jsonl", "{\"id\":3,\"size\":10}\n")

	set, err := LoadAll(context.Background(), []string{a, b})
	require.NoError(t, err)
	assert.Equal(t, "a.csv, b.jsonl", set.Name)
	assert.Equal(t, []string{"id", "name", "size"}, set.Props)
	require.Equal(t, 3, set.Len())
	assert.Equal(t, int64(3), set.Records[2]["id"])

	_, err = LoadAll(context.Background(), []string{a, filepath.Join(dir, "missing.csv")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestColumnsInferKinds(t *testing.T) {
	set := &Set{
		Props: []string{"created_at", "count", "ok", "label", "empty"},
		Kinds: map[string]string{"label": "text"},
		Records: []table.Record{
			{"created_at": nil, "count": nil},
			{"created_at": "2026-05-01T10:00:00Z", "count": int64(3), "ok": false, "label": 5},
		},
	}
	cols := Columns(set)
	require.Len(t, cols, 5)
	assert.Equal(t, Column{Header: "Created at", Prop: "created_at", Renderer: "time"}, cols[0])
	assert.Equal(t, "number", cols[1].Renderer)
	assert.Equal(t, "bool", cols[2].Renderer)
	assert.Equal(t, "text", cols[3].Renderer)
	assert.Equal(t, "text", cols[4].Renderer)
}

func TestDemoIsDeterministic(t *testing.T) {
	now := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	a, b := Demo(100, now), Demo(100, now)
	assert.Equal(t, a.Records, b.Records)
	require.Equal(t, 100, a.Len())
	for _, r := range a.Records {
		p := r["progress"].(float64)
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
		assert.True(t, r["updated"].(time.Time).Before(now))
	}
	assert.Equal(t, "progress", Columns(a)[4].Renderer)
}

func TestParseLog(t *testing.T) {
	out := "abc1234\x00Ada\x00ada@example.com\x001700000000\x00Fix: scroll\x00def5678\x01\n" +
		"def5678\x00Bob\x00bob@example.com\x001690000000\x00Initial\x00\x01\n" +
		"broken\x00entry\x01"
	records := parseLog(out)
	require.Len(t, records, 2)
	assert.Equal(t, "abc1234", records[0]["hash"])
	assert.Equal(t, "Fix: scroll", records[0]["subject"])
	assert.Equal(t, time.Unix(1700000000, 0), records[0]["date"])
	assert.Equal(t, "", records[1]["parents"])
}

func TestGitLogOutsideRepo(t *testing.T) {
	_, err := GitLog(context.Background(), t.TempDir(), 10)
	assert.ErrorIs(t, err, ErrNotARepo)
}
