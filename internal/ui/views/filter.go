package views

import (
	"strings"

	"github.com/spf13/cast"

	"github.com/Akashdeep-Patra/zippy-table/internal/table"
)

// ParseFilter turns a query into a table filter. Whitespace-separated terms
// must all match. A term "prop:text" matches text inside that prop only;
// a bare term matches any of props. Matching ignores case. An empty query
// returns nil, which shows every row.
func ParseFilter(query string, props []string) table.Filter {
	type term struct {
		prop string
		text string
	}
	var terms []term
	for _, f := range strings.Fields(query) {
		t := term{text: strings.ToLower(f)}
		if p, text, ok := strings.Cut(f, ":"); ok && p != "" && containsFold(props, p) {
			t = term{prop: canonical(props, p), text: strings.ToLower(text)}
		}
		terms = append(terms, t)
	}
	if len(terms) == 0 {
		return nil
	}

	return func(it table.Item) bool {
		for _, t := range terms {
			if t.prop != "" {
				if !matches(it.Value(t.prop), t.text) {
					return false
				}
				continue
			}
			hit := false
			for _, p := range props {
				if matches(it.Value(p), t.text) {
					hit = true
					break
				}
			}
			if !hit {
				return false
			}
		}
		return true
	}
}

func matches(v any, text string) bool {
	return strings.Contains(strings.ToLower(cast.ToString(v)), text)
}

func containsFold(props []string, p string) bool {
	return canonical(props, p) != ""
}

func canonical(props []string, p string) string {
	for _, q := range props {
		if strings.EqualFold(q, p) {
			return q
		}
	}
	return ""
}
