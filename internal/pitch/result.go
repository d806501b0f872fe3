package pitch

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Method records how a pitch was produced.
type Method string

const (
	MethodAI       Method = "ai"
	MethodFallback Method = "fallback"
)

// Pitch is the fixed-shape result returned to the caller.
type Pitch struct {
	CompanyName      string `json:"company_name"`
	ExecutiveSummary string `json:"executive_summary"`
	Opportunity      string `json:"opportunity"`
	WhyUs            string `json:"why_us"`
	Contact          string `json:"contact,omitempty"`
	GenerationMethod Method `json:"generation_method"`
	Error            string `json:"error,omitempty"`
}

var textKeys = []string{"company_name", "executive_summary", "opportunity", "why_us", "contact"}

const pitchSchemaJSON = `{
  "type": "object",
  "required": ["executive_summary", "opportunity", "why_us"],
  "properties": {
    "company_name":      {"type": "string"},
    "executive_summary": {"type": "string", "minLength": 1},
    "opportunity":       {"type": "string", "minLength": 1},
    "why_us":            {"type": "string", "minLength": 1},
    "contact":           {"type": "string"}
  }
}`

var pitchSchema = jsonschema.MustCompileString("pitch.json", pitchSchemaJSON)

// parsePitch decodes a structured reply into a Pitch. Sections the model
// returned as objects or lists are flattened to text before validation.
func parsePitch(raw string) (*Pitch, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}
	for _, key := range textKeys {
		if v, ok := obj[key]; ok {
			obj[key] = flattenSection(v)
		}
	}
	if err := pitchSchema.Validate(obj); err != nil {
		return nil, fmt.Errorf("reply does not match schema: %w", err)
	}

	b, err := json.Marshal(obj)
	if err != nil {
		return nil, err
	}
	var p Pitch
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, err
	}
	p.ExecutiveSummary = strings.TrimSpace(p.ExecutiveSummary)
	p.Opportunity = strings.TrimSpace(p.Opportunity)
	p.WhyUs = strings.TrimSpace(p.WhyUs)
	if p.ExecutiveSummary == "" || p.Opportunity == "" || p.WhyUs == "" {
		return nil, fmt.Errorf("reply has blank sections")
	}
	p.GenerationMethod = MethodAI
	p.Error = ""
	return &p, nil
}

// decodeObject extracts the outermost {...} from raw and decodes it.
func decodeObject(raw string) (map[string]any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty llm response")
	}
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in llm response")
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw[start:end+1]), &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

func flattenSection(v any) any {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		lines := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := flattenSection(item).(string); ok && strings.TrimSpace(s) != "" {
				lines = append(lines, s)
			}
		}
		return strings.Join(lines, "\n\n")
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		lines := make([]string, 0, len(keys))
		for _, k := range keys {
			s, _ := flattenSection(t[k]).(string)
			if strings.TrimSpace(s) == "" {
				continue
			}
			lines = append(lines, fmt.Sprintf("%s: %s", strings.ToUpper(strings.ReplaceAll(k, "_", " ")), s))
		}
		return strings.Join(lines, "\n\n")
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
