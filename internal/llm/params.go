package llm

import (
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Reasoning models reject max_tokens and any temperature other than the default.
var reasoningPrefixes = []string{"o1", "o3", "o4", "gpt-5"}

// IsReasoningModel reports whether model belongs to a family that takes
// max_completion_tokens instead of max_tokens.
func IsReasoningModel(model string) bool {
	m := strings.ToLower(strings.TrimSpace(model))
	if i := strings.LastIndex(m, "/"); i >= 0 {
		m = m[i+1:]
	}
	for _, p := range reasoningPrefixes {
		if m == p || strings.HasPrefix(m, p+"-") {
			return true
		}
	}
	return false
}

// applyTokenParams is the only place output bounds and temperature are set.
// A zero temperature is omitted on the wire, so callers pass a positive one.
func applyTokenParams(req *openai.ChatCompletionRequest, model string, maxTokens int, temperature float32) {
	if IsReasoningModel(model) {
		req.MaxCompletionTokens = maxTokens
		req.MaxTokens = 0
		req.Temperature = 0
		return
	}
	req.MaxTokens = maxTokens
	req.Temperature = temperature
}
