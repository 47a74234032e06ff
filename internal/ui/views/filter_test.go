package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akashdeep-Patra/zippy-table/internal/table"
)

func TestParseFilter(t *testing.T) {
	props := []string{"name", "size", "owner"}
	rec := table.Record{"name": "Report.pdf", "size": 2048, "owner": "dana"}

	tests := []struct {
		query string
		want  bool
	}{
		{"report", true},
		{"REPORT", true},
		{"2048", true},
		{"name:report", true},
		{"owner:report", false},
		{"Owner:DANA", true},
		{"report dana", true},
		{"report eve", false},
		{"size:20", true},
		{"color:red", false}, // unknown prop is plain text
		{"name:", true},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			f := ParseFilter(tt.query, props)
			require.NotNil(t, f)
			assert.Equal(t, tt.want, f(rec))
		})
	}
}

func TestParseFilterEmpty(t *testing.T) {
	assert.Nil(t, ParseFilter("", []string{"a"}))
	assert.Nil(t, ParseFilter("   ", []string{"a"}))
}

func TestParseFilterNilValues(t *testing.T) {
	f := ParseFilter("x", []string{"missing"})
	assert.False(t, f(table.Record{}))
}
