package pitch

import (
	"fmt"
	"strings"
)

const (
	composeSystemPrompt = "You are an expert pitch consultant. Create detailed, compelling, data-driven investor pitches. Always use specific information from uploaded documents when provided. Respond only with JSON."
	factsSystemPrompt   = "You are a meticulous analyst. Extract only facts that are stated in the provided documents. Never invent numbers. Respond only with JSON."
)

func buildFactsPrompt(context string) string {
	return strings.Join([]string{
		"Read the following company documents and extract the key facts an investor would care about.",
		"Quote numbers exactly as written. Leave a list empty when the documents say nothing about it.",
		"Return EXACTLY this JSON format:",
		`{"revenue_metrics": [], "customers": [], "team": [], "market_size": [], "competitors": [], "product": [], "funding": []}`,
		"",
		"DOCUMENTS:",
		context,
	}, "\n")
}

func buildComposePrompt(req Request, context string, highlights Highlights, facts *Facts) string {
	amount := FundingAmount(req.FundingStage)
	traction := req.Traction
	if traction == "" {
		traction = "Early stage"
	}
	docs := strings.TrimSpace(context)
	if docs == "" {
		docs = "No documents uploaded"
	}

	var b strings.Builder
	b.WriteString("You are a world-class venture capital pitch consultant. Create an exceptional 2-3 page investor pitch.\n\n")
	b.WriteString("COMPANY INFORMATION:\n")
	fmt.Fprintf(&b, "- Company: %s\n", req.CompanyName)
	fmt.Fprintf(&b, "- Industry: %s\n", req.Industry)
	fmt.Fprintf(&b, "- Problem: %s\n", req.Problem)
	fmt.Fprintf(&b, "- Solution: %s\n", req.Solution)
	fmt.Fprintf(&b, "- Stage: %s\n", StageLabel(req.FundingStage))
	fmt.Fprintf(&b, "- Traction: %s\n", traction)
	fmt.Fprintf(&b, "- Funding Sought: %s\n", amount)
	if req.Contact != "" {
		fmt.Fprintf(&b, "- Contact: %s\n", req.Contact)
	}

	b.WriteString("\nUPLOADED DOCUMENT CONTENT:\n")
	b.WriteString(docs)
	b.WriteString("\n")

	if rendered := highlights.Render(); rendered != "" {
		b.WriteString("\nKEY HIGHLIGHTS FROM DOCUMENTS:\n")
		b.WriteString(rendered)
		b.WriteString("\n")
	}
	if rendered := facts.Render(); rendered != "" {
		b.WriteString("\nVERIFIED FACTS (use these numbers verbatim):\n")
		b.WriteString(rendered)
		b.WriteString("\n")
	}

	b.WriteString("\nINSTRUCTIONS:\n")
	b.WriteString("1. If documents were uploaded, incorporate their specific metrics, data, and information.\n")
	b.WriteString("2. Use real numbers from the documents; do not make up different ones.\n")
	fmt.Fprintf(&b, "3. If no documents were provided, use realistic metrics based on %s standards.\n", req.Industry)
	b.WriteString("\nCREATE EXACTLY THESE 3 SECTIONS:\n")
	fmt.Fprintf(&b, "EXECUTIVE SUMMARY (300 words): what %s does, the problem, the solution, traction, market, team, and the %s ask.\n", req.CompanyName, amount)
	b.WriteString("THE OPPORTUNITY (500 words): the problem, our solution, market size (TAM/SAM/SOM), business model, competitive advantage.\n")
	fmt.Fprintf(&b, "WHY %s (300 words): traction, team, use of the %s, 18-month milestones, vision.\n", strings.ToUpper(req.CompanyName), amount)
	b.WriteString("\nReturn as JSON with string values for keys: executive_summary, opportunity, why_us, company_name")
	return b.String()
}
