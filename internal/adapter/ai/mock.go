package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ironquill/assesspoint/internal/domain"
)

// MockClient is a deterministic, zero-dependency domain.AIClient for local
// dev / CI without network access. cmd/server does not select it: the server
// always builds the real Gateway, whether or not LLM_API_KEY is set. It produces
// shapes good enough to exercise C4/C5/C10 end to end without ever calling
// out. It never errors and never refuses, so the negative paths (refusal,
// malformed JSON, rate limiting) are not reachable through this stand-in.
type MockClient struct{}

// NewMockClient constructs a MockClient.
func NewMockClient() *MockClient { return &MockClient{} }

// ChatJSON inspects the prompt for a handful of keywords to decide which
// canned shape to return. This mirrors the teacher's "fixture-driven fake"
// style rather than a generic stub that returns the same blob regardless of
// caller.
func (m *MockClient) ChatJSON(_ domain.Context, systemPrompt, userPrompt string, _ int) (string, error) {
	combined := strings.ToLower(systemPrompt + " " + userPrompt)
	switch {
	case strings.Contains(combined, "parse") && strings.Contains(combined, "job description"):
		return mockParsedContent(), nil
	case strings.Contains(combined, "objective") && strings.Contains(combined, "question"):
		return mockObjectiveBatch(), nil
	case strings.Contains(combined, "subjective") && strings.Contains(combined, "question"):
		return mockSubjectiveBatch(), nil
	case strings.Contains(combined, "programming") && strings.Contains(combined, "question"):
		return mockProgrammingBatch(), nil
	case strings.Contains(combined, "evaluat") || strings.Contains(combined, "rubric"):
		return mockSubjectiveScore(), nil
	case strings.Contains(combined, "resume") && strings.Contains(combined, "match"):
		return mockResumeMatch(), nil
	case strings.Contains(combined, "follow-up") || strings.Contains(combined, "followup"):
		return mockFollowUp(), nil
	default:
		return `{"result":"ok"}`, nil
	}
}

// Embed returns a fixed-length deterministic pseudo-embedding derived from a
// cheap rolling hash of the input text, so that identical or near-identical
// text yields a high cosine similarity — enough to exercise the plagiarism
// checker's threshold logic without a real embedding model.
func (m *MockClient) Embed(_ domain.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = pseudoEmbedding(t, 32)
	}
	return out, nil
}

// CleanCoTResponse is a no-op passthrough; the mock never emits <think> blocks.
func (m *MockClient) CleanCoTResponse(_ domain.Context, response string) (string, error) {
	return response, nil
}

func pseudoEmbedding(text string, dims int) []float32 {
	vec := make([]float32, dims)
	var h uint32 = 2166136261
	for i := 0; i < len(text); i++ {
		h ^= uint32(text[i])
		h *= 16777619
		vec[i%dims] += float32(h%1000) / 1000.0
	}
	var norm float32
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return vec
	}
	norm = sqrtApprox(norm)
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

// sqrtApprox avoids importing math for a single call site; Newton's method
// converges to float32 precision in a handful of iterations for the small
// magnitudes produced by pseudoEmbedding.
func sqrtApprox(x float32) float32 {
	if x <= 0 {
		return 0
	}
	z := x
	for i := 0; i < 10; i++ {
		z -= (z*z - x) / (2 * z)
	}
	return z
}

func mockParsedContent() string {
	b, _ := json.Marshal(domain.ParsedContent{
		Role:            "Backend Software Engineer",
		TechnicalSkills: []string{"Go", "PostgreSQL", "Kafka", "Docker"},
		SoftSkills:      []string{"communication", "ownership"},
		YearsExperience: 3,
		Summary:         "Mock-parsed summary of the job description.",
	})
	return string(b)
}

func mockObjectiveBatch() string {
	q := []domain.ObjectiveQuestion{
		{
			QuestionID: "mock-obj-1",
			Text:       "Which statement about Go's garbage collector is true?",
			Options: []domain.Option{
				{Text: "It is a concurrent, tri-color mark-and-sweep collector", IsCorrect: true},
				{Text: "It requires manual memory management", IsCorrect: false},
				{Text: "It only runs at process exit", IsCorrect: false},
				{Text: "It is a generational copying collector", IsCorrect: false},
			},
			Points:     5,
			Difficulty: "medium",
		},
	}
	b, _ := json.Marshal(map[string]any{"questions": q})
	return string(b)
}

func mockSubjectiveBatch() string {
	q := []domain.SubjectiveQuestion{
		{
			QuestionID:     "mock-subj-1",
			Text:           "Describe how you would design a rate limiter for a public API.",
			ExpectedAnswer: "Token bucket or sliding window, keyed by client, backed by a shared store.",
			Rubric:         "Award points for correctness of the chosen algorithm, handling of distributed state, and edge cases.",
			MaxWords:       300,
			Points:         10,
			Difficulty:     "medium",
		},
	}
	b, _ := json.Marshal(map[string]any{"questions": q})
	return string(b)
}

func mockProgrammingBatch() string {
	q := []domain.ProgrammingQuestion{
		{
			QuestionID: "mock-prog-1",
			Text:       "Write a function that returns the kth largest element in an unsorted array.",
			TestCases: []domain.TestCase{
				{Input: "[3,2,1,5,6,4]\n2", ExpectedOutput: "5", Weight: 1, Hidden: false},
				{Input: "[3,2,3,1,2,4,5,5,6]\n4", ExpectedOutput: "4", Weight: 1, Hidden: true},
			},
			Points:     15,
			Difficulty: "medium",
		},
	}
	b, _ := json.Marshal(map[string]any{"questions": q})
	return string(b)
}

func mockSubjectiveScore() string {
	return `{"score":75,"feedback":"Covers the core algorithm; missing discussion of burst handling."}`
}

func mockResumeMatch() string {
	return `{"matchScore":72,"matchedSkills":["Go","PostgreSQL"],"missingSkills":["Kafka"]}`
}

func mockFollowUp() string {
	return fmt.Sprintf(`{"text":%q,"rationale":"probe depth on the candidate's previous answer"}`,
		"Can you walk me through how that approach would behave under a burst of 10x normal traffic?")
}
