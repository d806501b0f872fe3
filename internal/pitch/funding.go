package pitch

import "strings"

const (
	DefaultStage         = "seed"
	defaultFundingAmount = "$5M"
)

var fundingAmounts = map[string]string{
	"pre-seed": "$500K-$1M",
	"seed":     "$2-3M",
	"series-a": "$10-15M",
	"series-b": "$30-50M",
}

var stageLabels = map[string]string{
	"pre-seed": "Pre-Seed",
	"seed":     "Seed",
	"series-a": "Series A",
	"series-b": "Series B",
}

// NormalizeStage lower-cases a stage label and joins words with hyphens.
// An empty stage becomes DefaultStage.
func NormalizeStage(stage string) string {
	s := strings.ToLower(strings.TrimSpace(stage))
	if s == "" {
		return DefaultStage
	}
	s = strings.NewReplacer("_", "-", " ", "-").Replace(s)
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	if s == "preseed" {
		return "pre-seed"
	}
	return s
}

// FundingAmount maps a stage to the display funding range.
func FundingAmount(stage string) string {
	if amt, ok := fundingAmounts[NormalizeStage(stage)]; ok {
		return amt
	}
	return defaultFundingAmount
}

// StageLabel is the human-readable name of a stage.
func StageLabel(stage string) string {
	s := NormalizeStage(stage)
	if label, ok := stageLabels[s]; ok {
		return label
	}
	return s
}
