// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package copywriter generates outreach draft content through a generative
// text model: proposal emails, short comments, video summaries, and a
// relevance screen that gates draft generation.
package copywriter

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/bes2/outreach-engine/pkg/types"
)

// errorMarker prefixes draft content produced from a failed generation
// call. Content carrying it is stored for review visibility but must never
// be published; drafts list flags it.
const errorMarker = "[generation-error]"

// ErrorContent wraps a generation failure as visibly-marked draft content.
func ErrorContent(err error) string {
	return fmt.Sprintf("%s %v", errorMarker, err)
}

// IsErrorContent reports whether draft content records a generation failure.
func IsErrorContent(content string) bool {
	return strings.HasPrefix(content, errorMarker)
}

// Generator is the text-generation collaborator: an opaque, potentially
// failing string transform.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Copywriter builds prompts for one target creator and runs them through a
// Generator. It satisfies the hunt pipeline's Drafter interface.
type Copywriter struct {
	gen Generator
	cfg types.GenerationConfig
}

// New builds a Copywriter over the given generator.
func New(gen Generator, cfg types.GenerationConfig) *Copywriter {
	return &Copywriter{gen: gen, cfg: cfg}
}

// OutreachEmail drafts a proposal email for the creator. A generation
// failure yields marked error content, never an empty draft.
func (c *Copywriter) OutreachEmail(ctx context.Context, item types.EnrichedItem, lead *types.Lead) string {
	prompt := OutreachEmailPrompt(item, lead, c.cfg.AppVideoURL)
	text, err := c.gen.Generate(ctx, prompt)
	if err != nil {
		return ErrorContent(err)
	}
	return text
}

// ShortComment drafts a short comment to post under the video.
func (c *Copywriter) ShortComment(ctx context.Context, item types.EnrichedItem) string {
	prompt := ShortCommentPrompt(item, c.cfg.AppVideoURL)
	text, err := c.gen.Generate(ctx, prompt)
	if err != nil {
		return ErrorContent(err)
	}
	return text
}

// Summarize condenses video content to a few sentences. Content too short
// to summarize yields a fixed notice instead of a model call.
func (c *Copywriter) Summarize(ctx context.Context, content string) string {
	if len([]rune(content)) < 100 {
		return "내용이 부족하여 요약할 수 없습니다."
	}
	text, err := c.gen.Generate(ctx, SummaryPrompt(content))
	if err != nil {
		return ErrorContent(err)
	}
	return text
}

// RelevanceResult is the outcome of a relevance analysis. Structured marks
// whether the model returned the requested JSON shape; when false, Raw
// carries the unparsed output and Score falls back to a neutral 0.5.
type RelevanceResult struct {
	Structured bool
	Score      float64
	Reason     string
	Keywords   []string
	Raw        string
}

// jsonBlock extracts the first brace-delimited object from model output.
var jsonBlock = regexp.MustCompile(`\{[^{}]*\}`)

// AnalyzeRelevance scores how well the video content fits the campaign.
// The raw-text fallback is explicit: a miss on the JSON shape is a valid
// unstructured result, not an error.
func AnalyzeRelevance(ctx context.Context, gen Generator, content string) RelevanceResult {
	if content == "" {
		return RelevanceResult{Structured: true, Score: 0, Reason: "내용 없음"}
	}

	text, err := gen.Generate(ctx, RelevancePrompt(content))
	if err != nil {
		return RelevanceResult{Score: 0.5, Raw: ErrorContent(err)}
	}

	block := jsonBlock.FindString(text)
	if block != "" {
		var parsed struct {
			Score    float64  `json:"score"`
			Reason   string   `json:"reason"`
			Keywords []string `json:"keywords_found"`
		}
		if json.Unmarshal([]byte(block), &parsed) == nil {
			return RelevanceResult{
				Structured: true,
				Score:      parsed.Score,
				Reason:     parsed.Reason,
				Keywords:   parsed.Keywords,
				Raw:        text,
			}
		}
	}
	return RelevanceResult{Score: 0.5, Raw: text}
}

// Relevant reports whether the item clears the configured relevance
// threshold. The hunt pipeline consults it before generating drafts.
func (c *Copywriter) Relevant(ctx context.Context, item types.EnrichedItem) bool {
	minScore := c.cfg.MinRelevance
	if minScore <= 0 {
		minScore = 0.5
	}
	result := AnalyzeRelevance(ctx, c.gen, item.Description)
	return result.Score >= minScore
}
