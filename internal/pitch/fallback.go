package pitch

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Fallback builds a pitch from the form fields alone. It is deterministic:
// the same request always yields the same text.
func Fallback(req Request) Pitch {
	req.Normalize()
	stage := StageLabel(req.FundingStage)
	amount := FundingAmount(req.FundingStage)
	traction := req.Traction
	if traction == "" {
		traction = "early customer validation and a growing pipeline"
	}
	problem := sentence(req.Problem)
	solution := sentence(req.Solution)

	summary := strings.Join([]string{
		fmt.Sprintf("%s is building the next category leader in %s.", req.CompanyName, req.Industry),
		fmt.Sprintf("The problem: %s", problem),
		fmt.Sprintf("Our solution: %s", solution),
		fmt.Sprintf("Traction to date: %s.", strings.TrimRight(traction, ".")),
		fmt.Sprintf("We are raising a %s round of %s to accelerate growth and capture the %s opportunity.", stage, amount, req.Industry),
	}, " ")

	opportunity := strings.Join([]string{
		fmt.Sprintf("THE PROBLEM: %s Teams across %s lose time and money to this every day, and existing tools have not closed the gap.", problem, req.Industry),
		fmt.Sprintf("OUR SOLUTION: %s %s turns this into a repeatable, measurable workflow that customers can adopt quickly.", solution, req.CompanyName),
		fmt.Sprintf("MARKET: %s is a large and growing market, and the shift toward modern tooling creates a window for a focused new entrant.", req.Industry),
		fmt.Sprintf("BUSINESS MODEL: Recurring revenue from customers in %s, with expansion as usage grows.", req.Industry),
	}, "\n\n")

	whyUs := strings.Join([]string{
		fmt.Sprintf("TRACTION: %s.", strings.TrimRight(traction, ".")),
		fmt.Sprintf("TEAM: The %s team combines deep %s domain knowledge with the execution speed to win.", req.CompanyName, req.Industry),
		fmt.Sprintf("USE OF FUNDS: The %s %s round funds product development, go-to-market, and key hires.", amount, stage),
		fmt.Sprintf("VISION: %s aims to become the default choice in %s.", req.CompanyName, req.Industry),
	}, "\n\n")

	return Pitch{
		CompanyName:      req.CompanyName,
		ExecutiveSummary: summary,
		Opportunity:      opportunity,
		WhyUs:            whyUs,
		Contact:          req.Contact,
		GenerationMethod: MethodFallback,
	}
}

func sentence(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	if !strings.HasSuffix(s, ".") && !strings.HasSuffix(s, "!") && !strings.HasSuffix(s, "?") {
		s += "."
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
