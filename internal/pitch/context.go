package pitch

import (
	"fmt"
	"strings"

	"github.com/hetulpatel/PitchDeck/internal/extract"
)

const (
	DefaultMaxContextChars = 5000
	contextHeaderPrefix    = "=== Content from "
	maxHighlightsPerBucket = 5
	maxHighlightChars      = 300
)

// BuildContext joins every non-empty document under a header naming its file,
// then caps the result at limit runes.
func BuildContext(docs []extract.Document, limit int) string {
	var b strings.Builder
	for _, d := range docs {
		if strings.TrimSpace(d.Text) == "" {
			continue
		}
		fmt.Fprintf(&b, "\n\n%s%s ===\n%s\n", contextHeaderPrefix, d.Filename, d.Text)
	}
	if limit <= 0 {
		limit = DefaultMaxContextChars
	}
	out, _ := extract.Truncate(b.String(), limit)
	return out
}

// Category is a heuristic bucket for document lines.
type Category string

const (
	CategoryFinancials  Category = "financials"
	CategoryTeam        Category = "team"
	CategoryProduct     Category = "product"
	CategoryMarket      Category = "market"
	CategoryCompetitors Category = "competitors"
)

var categoryOrder = []Category{
	CategoryFinancials,
	CategoryCompetitors,
	CategoryMarket,
	CategoryTeam,
	CategoryProduct,
}

var categoryKeywords = map[Category][]string{
	CategoryFinancials:  {"revenue", "arr", "mrr", "profit", "margin", "burn", "runway", "ebitda", "$", "growth", "customers", "churn", "ltv", "cac"},
	CategoryCompetitors: {"competitor", "competition", "versus", " vs ", "alternative", "incumbent", "differentiat"},
	CategoryMarket:      {"market", "tam", "sam", "som", "industry size", "segment", "cagr"},
	CategoryTeam:        {"team", "founder", "ceo", "cto", "coo", "engineer", "hired", "advisor", "experience", "previously"},
	CategoryProduct:     {"product", "platform", "feature", "launch", "roadmap", "technology", "api", "app", "patent"},
}

// Highlights holds document lines grouped by category.
type Highlights map[Category][]string

// TagContext buckets each line of the context by keyword. It is best-effort:
// a line lands in the first matching category and misclassification is expected.
func TagContext(context string) Highlights {
	out := Highlights{}
	for _, raw := range strings.Split(context, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, contextHeaderPrefix) {
			continue
		}
		lower := " " + strings.ToLower(line) + " "
		for _, cat := range categoryOrder {
			if len(out[cat]) >= maxHighlightsPerBucket {
				continue
			}
			if containsAny(lower, categoryKeywords[cat]) {
				snippet, _ := extract.Truncate(line, maxHighlightChars)
				out[cat] = append(out[cat], snippet)
				break
			}
		}
	}
	return out
}

// Render formats highlights for inclusion in a prompt. Empty highlights render
// as the empty string.
func (h Highlights) Render() string {
	var b strings.Builder
	for _, cat := range categoryOrder {
		lines := h[cat]
		if len(lines) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s:\n", strings.ToUpper(string(cat)))
		for _, l := range lines {
			fmt.Fprintf(&b, "- %s\n", l)
		}
	}
	return strings.TrimSpace(b.String())
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
