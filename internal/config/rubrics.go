package config

import "github.com/ironquill/assesspoint/internal/domain"

// DefaultSectionConfig is the fixed experience-level -> section config
// mapping table referenced by spec.md §4.4's Parse operation. Values are
// (questionCount, timeMinutes) per section; all sections default enabled.
var DefaultSectionConfig = map[domain.ExperienceLevel]map[domain.Section]domain.SectionConfig{
	domain.ExperienceFresher: {
		domain.SectionObjective:   {Enabled: true, QuestionCount: 10, TimeMinutes: 15, Weight: 30},
		domain.SectionSubjective: {Enabled: true, QuestionCount: 2, TimeMinutes: 15, Weight: 30},
		domain.SectionProgramming: {Enabled: true, QuestionCount: 1, TimeMinutes: 30, Weight: 40},
	},
	domain.ExperienceJunior: {
		domain.SectionObjective:   {Enabled: true, QuestionCount: 12, TimeMinutes: 18, Weight: 30},
		domain.SectionSubjective: {Enabled: true, QuestionCount: 2, TimeMinutes: 20, Weight: 30},
		domain.SectionProgramming: {Enabled: true, QuestionCount: 2, TimeMinutes: 40, Weight: 40},
	},
	domain.ExperienceMid: {
		domain.SectionObjective:   {Enabled: true, QuestionCount: 12, TimeMinutes: 18, Weight: 25},
		domain.SectionSubjective: {Enabled: true, QuestionCount: 3, TimeMinutes: 25, Weight: 35},
		domain.SectionProgramming: {Enabled: true, QuestionCount: 2, TimeMinutes: 45, Weight: 40},
	},
	domain.ExperienceSenior: {
		domain.SectionObjective:   {Enabled: true, QuestionCount: 10, TimeMinutes: 15, Weight: 20},
		domain.SectionSubjective: {Enabled: true, QuestionCount: 4, TimeMinutes: 30, Weight: 40},
		domain.SectionProgramming: {Enabled: true, QuestionCount: 2, TimeMinutes: 45, Weight: 40},
	},
	domain.ExperienceLead: {
		domain.SectionObjective:   {Enabled: true, QuestionCount: 8, TimeMinutes: 12, Weight: 15},
		domain.SectionSubjective: {Enabled: true, QuestionCount: 5, TimeMinutes: 35, Weight: 45},
		domain.SectionProgramming: {Enabled: true, QuestionCount: 2, TimeMinutes: 40, Weight: 40},
	},
	domain.ExperienceExecutive: {
		domain.SectionObjective:   {Enabled: false, QuestionCount: 0, TimeMinutes: 0, Weight: 0},
		domain.SectionSubjective: {Enabled: true, QuestionCount: 6, TimeMinutes: 45, Weight: 70},
		domain.SectionProgramming: {Enabled: true, QuestionCount: 1, TimeMinutes: 30, Weight: 30},
	},
}

// DefaultSectionWeights is used by the Evaluation Engine (C10) when a JD's
// config carries no explicit weight for a section (spec.md §4.10 step 3).
var DefaultSectionWeights = map[domain.Section]int{
	domain.SectionObjective:   30,
	domain.SectionSubjective:  30,
	domain.SectionProgramming: 40,
}

// DefaultCutoffScore is the recommendation-banding cutoff when a JD does not
// override it (spec.md §4.10 step 5).
const DefaultCutoffScore = 60

// DefaultResumeMatchThreshold gates onboarding when a JD does not override
// it (spec.md §4.6 UploadResume).
const DefaultResumeMatchThreshold = 60

// DefaultNumSets is how many AssessmentSets GenerateLink produces when a JD
// does not specify NumSets explicitly (spec.md §4.5, N in [1,10]).
const DefaultNumSets = 3

// ModelRate is a model's per-million-token cost used by the LLM Gateway's cost
// estimate (spec.md §4.2).
type ModelRate struct {
	PromptPerMillion     float64
	CompletionPerMillion float64
}

// ModelCostRates is a small table of well-known OpenAI-compatible model
// rates (USD per million tokens). Unknown models fall back to
// DefaultModelRate.
var ModelCostRates = map[string]ModelRate{
	"openai/gpt-4o-mini":        {PromptPerMillion: 0.15, CompletionPerMillion: 0.60},
	"openai/gpt-4o":             {PromptPerMillion: 2.50, CompletionPerMillion: 10.00},
	"anthropic/claude-3-haiku":  {PromptPerMillion: 0.25, CompletionPerMillion: 1.25},
	"meta-llama/llama-3.1-8b-instruct": {PromptPerMillion: 0.05, CompletionPerMillion: 0.05},
}

// DefaultModelRate is used for models absent from ModelCostRates.
var DefaultModelRate = ModelRate{PromptPerMillion: 0.50, CompletionPerMillion: 1.50}

// EstimateCostUSD computes the dollar cost of one call given token counts.
func EstimateCostUSD(model string, promptTokens, completionTokens int) float64 {
	rate, ok := ModelCostRates[model]
	if !ok {
		rate = DefaultModelRate
	}
	return float64(promptTokens)/1_000_000*rate.PromptPerMillion +
		float64(completionTokens)/1_000_000*rate.CompletionPerMillion
}
