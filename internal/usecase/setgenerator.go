package usecase

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/ironquill/assesspoint/internal/domain"
	obsctx "github.com/ironquill/assesspoint/internal/observability"
)

// SetGeneratorService generates AssessmentSets for a JD via the LLM Gateway
// (C5). Per-section calls within a set, and sets themselves, run
// sequentially to respect spec.md §5's provider-rate-limit ordering rule.
type SetGeneratorService struct {
	Sets domain.SetRepository
	AI   domain.AIClient
}

// NewSetGeneratorService constructs a SetGeneratorService.
func NewSetGeneratorService(sets domain.SetRepository, ai domain.AIClient) *SetGeneratorService {
	return &SetGeneratorService{Sets: sets, AI: ai}
}

// interSetDelay is the small pause between sequential set generations, per
// spec.md §5's rate-limit ordering rule.
const interSetDelay = 500 * time.Millisecond

// GenerateSets produces numSets AssessmentSets for jd and persists them
// atomically. A failure in any section of a set aborts that set — partial
// sets are never persisted.
func (s *SetGeneratorService) GenerateSets(ctx domain.Context, jd *domain.JobDescription, numSets int) ([]string, error) {
	tr := otel.Tracer("usecase.setgenerator")
	ctx, span := tr.Start(ctx, "SetGeneratorService.GenerateSets")
	defer span.End()
	lg := obsctx.LoggerFromContext(ctx)

	if numSets < 1 {
		numSets = 1
	}
	if numSets > 10 {
		numSets = 10
	}

	sets := make([]*domain.AssessmentSet, 0, numSets)
	for i := 0; i < numSets; i++ {
		set, err := s.generateOneSet(ctx, jd, i)
		if err != nil {
			return nil, fmt.Errorf("op=setgenerator.generate_sets: set %d: %w", i, err)
		}
		sets = append(sets, set)
		if i < numSets-1 {
			time.Sleep(interSetDelay)
		}
	}

	if err := s.Sets.CreateMany(ctx, sets); err != nil {
		return nil, fmt.Errorf("op=setgenerator.generate_sets: persist: %w", err)
	}

	ids := make([]string, len(sets))
	for i, st := range sets {
		ids[i] = st.ID
	}
	lg.Info("generated assessment sets", slog.String("jd_id", jd.ID), slog.Int("count", len(ids)))
	return ids, nil
}

func (s *SetGeneratorService) generateOneSet(ctx domain.Context, jd *domain.JobDescription, index int) (*domain.AssessmentSet, error) {
	set := &domain.AssessmentSet{
		ID:        domain.NewID(),
		JDID:      jd.ID,
		Index:     index,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}

	for _, section := range domain.SectionOrder {
		cfg, ok := jd.Config.Sections[section]
		if !ok || !cfg.Enabled || cfg.QuestionCount <= 0 {
			continue
		}

		raw, err := s.AI.ChatJSON(ctx, sectionSystemPrompt(section), sectionUserPrompt(jd, section, cfg.QuestionCount), 2048)
		if err != nil {
			return nil, fmt.Errorf("%w: section %s: %v", domain.ErrLLMUnavailable, section, err)
		}

		items, err := extractQuestionArray(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: section %s: %v", domain.ErrLLMBadJSON, section, err)
		}

		switch section {
		case domain.SectionObjective:
			set.Objective = normalizeObjective(items)
		case domain.SectionSubjective:
			set.Subjective = normalizeSubjective(items)
		case domain.SectionProgramming:
			set.Programming = normalizeProgramming(items)
		}
	}

	set.Finalize()
	if err := set.Validate(); err != nil {
		return nil, fmt.Errorf("%w: generated set failed validation: %v", domain.ErrValidation, err)
	}
	return set, nil
}

func sectionSystemPrompt(section domain.Section) string {
	switch section {
	case domain.SectionObjective:
		return `Generate multiple-choice questions. Return JSON {"questions":[{"text":string,"options":[{"text":string,"isCorrect":bool}],"points":int,"difficulty":string}]}. Exactly one option must have isCorrect=true.`
	case domain.SectionSubjective:
		return `Generate free-text questions. Return JSON {"questions":[{"text":string,"expectedAnswer":string,"rubric":string,"maxWords":int,"points":int,"difficulty":string}]}.`
	case domain.SectionProgramming:
		return `Generate coding problems. Return JSON {"questions":[{"text":string,"testCases":[{"input":string,"expectedOutput":string,"weight":int,"hidden":bool}],"points":int,"difficulty":string}]}. At least one sample (hidden=false) and one hidden test case per problem.`
	default:
		return ""
	}
}

func sectionUserPrompt(jd *domain.JobDescription, section domain.Section, count int) string {
	var role, skills string
	if jd.ParsedContent != nil {
		role = jd.ParsedContent.Role
		skills = strings.Join(jd.ParsedContent.TechnicalSkills, ", ")
	}
	prompt := fmt.Sprintf("Role: %s\nLevel: %s\nSkills: %s\nGenerate %d %s questions.",
		role, jd.Config.ExperienceLevel, skills, count, section)
	if sc, ok := jd.Config.Sections[section]; ok && sc.Rubric != "" {
		prompt += fmt.Sprintf("\nGrading rubric: %s", sc.Rubric)
	}
	return prompt
}

// extractQuestionArray accepts either a top-level array or an object whose
// first array-valued property holds the question list, per spec.md §4.5.
func extractQuestionArray(raw string) ([]map[string]any, error) {
	var asArray []map[string]any
	if err := json.Unmarshal([]byte(raw), &asArray); err == nil {
		return asArray, nil
	}

	var asObject map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &asObject); err != nil {
		return nil, fmt.Errorf("neither array nor object: %w", err)
	}
	if qs, ok := asObject["questions"]; ok {
		var items []map[string]any
		if err := json.Unmarshal(qs, &items); err == nil {
			return items, nil
		}
	}
	for _, v := range asObject {
		var items []map[string]any
		if err := json.Unmarshal(v, &items); err == nil {
			return items, nil
		}
	}
	return nil, fmt.Errorf("no array-valued property found")
}

func normalizeObjective(items []map[string]any) []domain.ObjectiveQuestion {
	out := make([]domain.ObjectiveQuestion, 0, len(items))
	for i, it := range items {
		q := domain.ObjectiveQuestion{
			QuestionID: questionID(it, domain.SectionObjective, i),
			Text:       str(it["text"]),
			Points:     intOrDefault(it["points"], 10),
			Difficulty: strOrDefault(it["difficulty"], "medium"),
		}
		if opts, ok := it["options"].([]any); ok {
			for _, o := range opts {
				om, ok := o.(map[string]any)
				if !ok {
					continue
				}
				q.Options = append(q.Options, domain.Option{
					Text:      str(om["text"]),
					IsCorrect: boolOrDefault(om["isCorrect"], false),
				})
			}
		}
		out = append(out, q)
	}
	return out
}

func normalizeSubjective(items []map[string]any) []domain.SubjectiveQuestion {
	out := make([]domain.SubjectiveQuestion, 0, len(items))
	for i, it := range items {
		out = append(out, domain.SubjectiveQuestion{
			QuestionID:     questionID(it, domain.SectionSubjective, i),
			Text:           str(it["text"]),
			ExpectedAnswer: str(it["expectedAnswer"]),
			Rubric:         str(it["rubric"]),
			MaxWords:       intOrDefault(it["maxWords"], 300),
			Points:         intOrDefault(it["points"], 10),
			Difficulty:     strOrDefault(it["difficulty"], "medium"),
		})
	}
	return out
}

func normalizeProgramming(items []map[string]any) []domain.ProgrammingQuestion {
	out := make([]domain.ProgrammingQuestion, 0, len(items))
	for i, it := range items {
		q := domain.ProgrammingQuestion{
			QuestionID: questionID(it, domain.SectionProgramming, i),
			Text:       str(it["text"]),
			Points:     intOrDefault(it["points"], 20),
			Difficulty: strOrDefault(it["difficulty"], "medium"),
		}
		if cases, ok := it["testCases"].([]any); ok {
			for _, c := range cases {
				cm, ok := c.(map[string]any)
				if !ok {
					continue
				}
				expected := cm["expectedOutput"]
				if expected == nil {
					expected = cm["output"]
				}
				q.TestCases = append(q.TestCases, domain.TestCase{
					Input:          str(cm["input"]),
					ExpectedOutput: str(expected),
					Weight:         intOrDefault(cm["weight"], 1),
					Hidden:         boolOrDefault(cm["hidden"], false),
				})
			}
		}
		out = append(out, q)
	}
	return out
}

func questionID(it map[string]any, section domain.Section, i int) string {
	if id, ok := it["questionId"].(string); ok && id != "" {
		return id
	}
	return fmt.Sprintf("%s_%d", section, i)
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func strOrDefault(v any, def string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return def
}

func intOrDefault(v any, def int) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case string:
		if parsed, err := strconv.Atoi(n); err == nil {
			return parsed
		}
	}
	return def
}

func boolOrDefault(v any, def bool) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return def
}
