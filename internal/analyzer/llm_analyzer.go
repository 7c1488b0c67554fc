package analyzer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/job-copilot/internal/llm"
	"github.com/jonathan/job-copilot/internal/prompts"
	"github.com/jonathan/job-copilot/internal/types"
)

const promptFile = "analyzer.json"

// LLMAnalyzer implements Analyzer on top of an llm.Client. Every response is
// validated against the embedded output schema before it is trusted.
type LLMAnalyzer struct {
	client llm.Client
}

// NewLLMAnalyzer creates an analyzer backed by the given LLM client.
func NewLLMAnalyzer(client llm.Client) *LLMAnalyzer {
	return &LLMAnalyzer{client: client}
}

// Extract turns a raw job posting into a structured description.
func (a *LLMAnalyzer) Extract(ctx context.Context, rawText string) (*types.StructuredJob, error) {
	prompt := prompts.Format(prompts.MustGet(promptFile, "extract_job"), map[string]string{
		"RawText": rawText,
	})

	var job types.StructuredJob
	if err := a.generate(ctx, prompt, llm.TierStandard, "extract_job", &job); err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	return &job, nil
}

// Score rates how well the profile fits the structured job.
func (a *LLMAnalyzer) Score(ctx context.Context, profile *types.Profile, job *types.StructuredJob) (*Ranking, error) {
	prompt, err := a.profileJobPrompt("score_job", profile, job)
	if err != nil {
		return nil, fmt.Errorf("score: %w", err)
	}

	var ranking Ranking
	if err := a.generate(ctx, prompt, llm.TierAdvanced, "score_job", &ranking); err != nil {
		return nil, fmt.Errorf("score: %w", err)
	}
	return &ranking, nil
}

// Tailor produces resume edit suggestions for the job.
func (a *LLMAnalyzer) Tailor(ctx context.Context, profile *types.Profile, job *types.StructuredJob) (*Tailoring, error) {
	prompt, err := a.profileJobPrompt("tailor_resume", profile, job)
	if err != nil {
		return nil, fmt.Errorf("tailor: %w", err)
	}

	var tailoring Tailoring
	if err := a.generate(ctx, prompt, llm.TierAdvanced, "tailor_resume", &tailoring); err != nil {
		return nil, fmt.Errorf("tailor: %w", err)
	}
	return &tailoring, nil
}

// ParseResume turns raw resume text into a structured profile.
func (a *LLMAnalyzer) ParseResume(ctx context.Context, resumeText string) (*types.Profile, error) {
	prompt := prompts.Format(prompts.MustGet(promptFile, "parse_resume"), map[string]string{
		"ResumeText": resumeText,
	})

	var profile types.Profile
	if err := a.generate(ctx, prompt, llm.TierStandard, "parse_resume", &profile); err != nil {
		return nil, fmt.Errorf("parse resume: %w", err)
	}
	return &profile, nil
}

// profileJobPrompt renders a prompt that takes the profile and the job as
// JSON blocks.
func (a *LLMAnalyzer) profileJobPrompt(key string, profile *types.Profile, job *types.StructuredJob) (string, error) {
	profileJSON, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal profile: %w", err)
	}
	jobJSON, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal job: %w", err)
	}

	return prompts.Format(prompts.MustGet(promptFile, key), map[string]string{
		"Profile": string(profileJSON),
		"Job":     string(jobJSON),
	}), nil
}

// generate runs one LLM round-trip: call, schema-validate, unmarshal.
func (a *LLMAnalyzer) generate(ctx context.Context, prompt string, tier llm.ModelTier, schema string, out any) error {
	raw, err := a.client.GenerateJSON(ctx, prompt, tier)
	if err != nil {
		return fmt.Errorf("llm call failed: %w", err)
	}

	if err := validateAgainstSchema(schema, raw); err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("failed to parse llm response: %w", err)
	}
	return nil
}
