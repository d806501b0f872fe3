package pitch

import (
	"fmt"
	"strings"
)

// Upload is one file attached to a pitch request. In JSON bodies Data is base64.
type Upload struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type,omitempty"`
	Data        []byte `json:"data"`
}

// Request is the pitch form. It lives for a single HTTP call.
type Request struct {
	CompanyName  string   `json:"company_name"`
	Industry     string   `json:"industry"`
	Problem      string   `json:"problem"`
	Solution     string   `json:"solution"`
	FundingStage string   `json:"funding_stage"`
	Traction     string   `json:"traction,omitempty"`
	Contact      string   `json:"contact,omitempty"`
	Files        []Upload `json:"files,omitempty"`
}

// ValidationError lists required fields that were empty.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "Missing required fields: " + strings.Join(e.Missing, ", ")
}

// Normalize trims every text field and canonicalises the funding stage.
func (r *Request) Normalize() {
	r.CompanyName = strings.TrimSpace(r.CompanyName)
	r.Industry = strings.TrimSpace(r.Industry)
	r.Problem = strings.TrimSpace(r.Problem)
	r.Solution = strings.TrimSpace(r.Solution)
	r.Traction = strings.TrimSpace(r.Traction)
	r.Contact = strings.TrimSpace(r.Contact)
	r.FundingStage = NormalizeStage(r.FundingStage)
}

// Validate returns a *ValidationError when any required field is blank.
func (r *Request) Validate() error {
	if r == nil {
		return &ValidationError{Missing: []string{"company_name", "industry", "problem", "solution"}}
	}
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"company_name", r.CompanyName},
		{"industry", r.Industry},
		{"problem", r.Problem},
		{"solution", r.Solution},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

func (r *Request) String() string {
	return fmt.Sprintf("%s (%s, %s, %d files)", r.CompanyName, r.Industry, r.FundingStage, len(r.Files))
}
