package pitch

import (
	"context"
	"fmt"
	"time"

	"github.com/hetulpatel/PitchDeck/internal/extract"
	"github.com/hetulpatel/PitchDeck/internal/logging"
	"github.com/hetulpatel/PitchDeck/internal/metrics"
)

const fallbackNotice = "AI generation failed; fallback template used"

// Completer is the structured-reply call the generator needs from an LLM client.
type Completer interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Config controls the generator. A nil LLM means every pitch uses the fallback.
type Config struct {
	LLM             Completer
	MaxContextChars int
	TwoStage        bool
}

// Generator turns a validated request plus extracted documents into a Pitch.
// It holds no per-request state and is safe for concurrent use.
type Generator struct {
	llm        Completer
	maxContext int
	twoStage   bool
}

// Outcome is a finished generation with the intermediate values that shaped it.
type Outcome struct {
	Pitch    Pitch
	Context  string
	Facts    *Facts
	Err      error
	Duration time.Duration
}

// NewGenerator creates a Generator.
func NewGenerator(cfg Config) *Generator {
	maxContext := cfg.MaxContextChars
	if maxContext <= 0 {
		maxContext = DefaultMaxContextChars
	}
	return &Generator{
		llm:        cfg.LLM,
		maxContext: maxContext,
		twoStage:   cfg.TwoStage,
	}
}

// AIEnabled reports whether an LLM is configured.
func (g *Generator) AIEnabled() bool {
	return g != nil && g.llm != nil
}

// TwoStage reports whether the facts pre-pass is enabled.
func (g *Generator) TwoStage() bool {
	return g != nil && g.twoStage
}

// Generate validates req and produces a pitch. The only error returned is a
// *ValidationError; every failure after validation is absorbed by the fallback
// and reported in Outcome.Err.
func (g *Generator) Generate(ctx context.Context, req Request, docs []extract.Document) (*Outcome, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	out := &Outcome{Context: BuildContext(docs, g.maxContext)}
	if !g.AIEnabled() {
		out.Pitch = Fallback(req)
		out.Duration = time.Since(start)
		metrics.PitchGenerations.WithLabelValues(string(MethodFallback)).Inc()
		return out, nil
	}

	if g.twoStage && out.Context != "" {
		facts, err := g.extractFacts(ctx, out.Context)
		if err != nil {
			logging.Warnf("[pitch] facts pre-pass for %s skipped: %v", req.CompanyName, err)
		} else {
			out.Facts = facts
		}
	}

	p, err := g.compose(ctx, req, out.Context, out.Facts)
	if err != nil {
		logging.Errorf("[pitch] generation for %s failed, using fallback: %v", req.CompanyName, err)
		fb := Fallback(req)
		fb.Error = fallbackNotice
		out.Pitch = fb
		out.Err = err
	} else {
		out.Pitch = *p
	}
	out.Duration = time.Since(start)
	metrics.PitchGenerations.WithLabelValues(string(out.Pitch.GenerationMethod)).Inc()
	return out, nil
}

func (g *Generator) extractFacts(ctx context.Context, docContext string) (*Facts, error) {
	raw, err := g.call(ctx, "facts", factsSystemPrompt, buildFactsPrompt(docContext))
	if err != nil {
		return nil, err
	}
	facts, err := parseFacts(raw)
	if err != nil {
		return nil, fmt.Errorf("pitch: parse facts: %w", err)
	}
	return facts, nil
}

func (g *Generator) compose(ctx context.Context, req Request, docContext string, facts *Facts) (*Pitch, error) {
	prompt := buildComposePrompt(req, docContext, TagContext(docContext), facts)
	raw, err := g.call(ctx, "compose", composeSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}
	p, err := parsePitch(raw)
	if err != nil {
		return nil, fmt.Errorf("pitch: parse reply: %w", err)
	}
	// Caller-supplied identity always wins over whatever the model echoed.
	p.CompanyName = req.CompanyName
	p.Contact = req.Contact
	return p, nil
}

func (g *Generator) call(ctx context.Context, stage, system, user string) (string, error) {
	start := time.Now()
	raw, err := g.llm.CompleteJSON(ctx, system, user)
	metrics.LLMDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.LLMCalls.WithLabelValues(stage, "error").Inc()
		return "", fmt.Errorf("pitch: %s call: %w", stage, err)
	}
	metrics.LLMCalls.WithLabelValues(stage, "ok").Inc()
	logging.Debugf("[pitch] %s call returned %d bytes in %s", stage, len(raw), time.Since(start).Round(time.Millisecond))
	return raw, nil
}
