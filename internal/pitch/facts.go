package pitch

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Facts is the structured summary produced by the optional pre-pass over the
// document context. It is evidence for the composing call, nothing more.
type Facts struct {
	RevenueMetrics []string `json:"revenue_metrics,omitempty"`
	Customers      []string `json:"customers,omitempty"`
	Team           []string `json:"team,omitempty"`
	MarketSize     []string `json:"market_size,omitempty"`
	Competitors    []string `json:"competitors,omitempty"`
	Product        []string `json:"product,omitempty"`
	Funding        []string `json:"funding,omitempty"`
}

func (f *Facts) fields() []struct {
	label  string
	values *[]string
} {
	return []struct {
		label  string
		values *[]string
	}{
		{"revenue_metrics", &f.RevenueMetrics},
		{"customers", &f.Customers},
		{"team", &f.Team},
		{"market_size", &f.MarketSize},
		{"competitors", &f.Competitors},
		{"product", &f.Product},
		{"funding", &f.Funding},
	}
}

// Empty reports whether no fact was extracted.
func (f *Facts) Empty() bool {
	if f == nil {
		return true
	}
	for _, fld := range f.fields() {
		if len(*fld.values) > 0 {
			return false
		}
	}
	return true
}

// Render formats the facts as a bullet list for the composing prompt.
func (f *Facts) Render() string {
	if f.Empty() {
		return ""
	}
	var b strings.Builder
	for _, fld := range f.fields() {
		if len(*fld.values) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s:\n", strings.ToUpper(strings.ReplaceAll(fld.label, "_", " ")))
		for _, v := range *fld.values {
			fmt.Fprintf(&b, "- %s\n", v)
		}
	}
	return strings.TrimSpace(b.String())
}

// parseFacts accepts lists, single strings or numbers for each key; models are
// not consistent about the shape.
func parseFacts(raw string) (*Facts, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}
	var facts Facts
	for _, fld := range facts.fields() {
		*fld.values = toStrings(obj[fld.label])
	}
	return &facts, nil
}

func toStrings(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		if s := strings.TrimSpace(t); s != "" {
			return []string{s}
		}
		return nil
	case []any:
		var out []string
		for _, item := range t {
			out = append(out, toStrings(item)...)
		}
		return out
	case map[string]any:
		b, err := json.Marshal(t)
		if err != nil {
			return nil
		}
		return []string{string(b)}
	default:
		return []string{fmt.Sprint(t)}
	}
}
