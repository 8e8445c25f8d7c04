package usecase

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/ironquill/assesspoint/internal/config"
	"github.com/ironquill/assesspoint/internal/domain"
	obsctx "github.com/ironquill/assesspoint/internal/observability"
	"github.com/ironquill/assesspoint/pkg/textx"
)

// jdExtractionSystemPrompt is the system prompt used to parse a raw JD into
// ParsedContent via the LLM Gateway (C2).
const jdExtractionSystemPrompt = `You extract structured information from a job description.
Return strict JSON: {"role":string,"technicalSkills":[string],"softSkills":[string],"yearsExperience":int,"summary":string}.`

// JDLifecycleService implements the JD state machine (C4).
type JDLifecycleService struct {
	JDs domain.JDRepository
	Sets *SetGeneratorService
	AI  domain.AIClient
}

// NewJDLifecycleService constructs a JDLifecycleService.
func NewJDLifecycleService(jds domain.JDRepository, sets *SetGeneratorService, ai domain.AIClient) *JDLifecycleService {
	return &JDLifecycleService{JDs: jds, Sets: sets, AI: ai}
}

// Upload creates a JD in the draft state.
func (s *JDLifecycleService) Upload(ctx domain.Context, companyID, recruiterID, title, rawText string) (*domain.JobDescription, error) {
	tr := otel.Tracer("usecase.jdlifecycle")
	ctx, span := tr.Start(ctx, "JDLifecycleService.Upload")
	defer span.End()

	if companyID == "" || recruiterID == "" || strings.TrimSpace(rawText) == "" {
		return nil, fmt.Errorf("%w: companyId, recruiterId and rawText are required", domain.ErrValidation)
	}

	now := time.Now().UTC()
	jd := &domain.JobDescription{
		ID:          domain.NewID(),
		CompanyID:   companyID,
		RecruiterID: recruiterID,
		Title:       title,
		RawText:     textx.SanitizeText(rawText),
		Status:      domain.JDStatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.JDs.Create(ctx, jd); err != nil {
		return nil, fmt.Errorf("op=jdlifecycle.upload: %w", err)
	}
	return jd, nil
}

// Parse idempotently extracts ParsedContent via the LLM Gateway and derives
// default section config from experienceLevel, per spec.md §4.4.
func (s *JDLifecycleService) Parse(ctx domain.Context, jdID string, level domain.ExperienceLevel) (*domain.JobDescription, error) {
	tr := otel.Tracer("usecase.jdlifecycle")
	ctx, span := tr.Start(ctx, "JDLifecycleService.Parse")
	defer span.End()
	lg := obsctx.LoggerFromContext(ctx)

	jd, err := s.JDs.Get(ctx, jdID)
	if err != nil {
		return nil, err
	}
	if jd.Status == domain.JDStatusParsed && jd.ParsedContent != nil {
		return jd, nil
	}

	out, callErr := s.AI.ChatJSON(ctx, jdExtractionSystemPrompt, jd.RawText, 1024)
	if callErr != nil {
		parseErrs := append(jd.ParsingMeta.ParseErrors, callErr.Error())
		_ = s.JDs.UpdateFields(ctx, jdID, jd.Version, map[string]any{
			"status": domain.JDStatusDraft,
			"parsingMeta": domain.ParsingMeta{
				ParseErrors:   parseErrs,
				ParseAttempts: jd.ParsingMeta.ParseAttempts + 1,
			},
		})
		lg.Error("jd parse failed", slog.String("jd_id", jdID), slog.Any("error", callErr))
		return nil, fmt.Errorf("op=jdlifecycle.parse: %w", callErr)
	}

	parsed, perr := parseJDContent(out)
	if perr != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLLMBadJSON, perr)
	}

	sectionCfg, ok := config.DefaultSectionConfig[level]
	if !ok {
		sectionCfg = config.DefaultSectionConfig[domain.ExperienceMid]
	}
	total := 0
	for _, sc := range sectionCfg {
		if sc.Enabled {
			total += sc.TimeMinutes
		}
	}

	now := time.Now().UTC()
	cfg := jd.Config
	cfg.ExperienceLevel = level
	cfg.Sections = sectionCfg
	cfg.TotalTimeMinutes = total

	fields := map[string]any{
		"status":        domain.JDStatusParsed,
		"parsedContent": parsed,
		"parsingMeta": domain.ParsingMeta{
			ParsedAt:      &now,
			ParseAttempts: jd.ParsingMeta.ParseAttempts + 1,
		},
		"config": cfg,
	}
	if err := s.JDs.UpdateFields(ctx, jdID, jd.Version, fields); err != nil {
		return nil, fmt.Errorf("op=jdlifecycle.parse: %w", err)
	}
	return s.JDs.Get(ctx, jdID)
}

// UpdateConfig rejects all field changes except EndTime once now >= StartTime.
func (s *JDLifecycleService) UpdateConfig(ctx domain.Context, jdID string, cfg domain.AssessmentConfig) (*domain.JobDescription, error) {
	tr := otel.Tracer("usecase.jdlifecycle")
	ctx, span := tr.Start(ctx, "JDLifecycleService.UpdateConfig")
	defer span.End()

	jd, err := s.JDs.Get(ctx, jdID)
	if err != nil {
		return nil, err
	}
	if jd.Config.IsLocked {
		return nil, fmt.Errorf("%w: config is locked", domain.ErrConflict)
	}

	started := jdStarted(jd)
	if started {
		jd.Config.EndTime = cfg.EndTime
	} else {
		jd.Config = cfg
	}

	total := 0
	for _, sc := range jd.Config.Sections {
		if sc.Enabled {
			total += sc.TimeMinutes
		}
	}
	jd.Config.TotalTimeMinutes = total

	if err := s.JDs.UpdateFields(ctx, jdID, jd.Version, map[string]any{"config": jd.Config}); err != nil {
		if started {
			return nil, fmt.Errorf("%w: config test has started, only endTime may change", domain.ErrConflict)
		}
		return nil, fmt.Errorf("op=jdlifecycle.update_config: %w", err)
	}
	return s.JDs.Get(ctx, jdID)
}

func jdStarted(jd *domain.JobDescription) bool {
	return jd.Config.StartTime != nil && !time.Now().UTC().Before(*jd.Config.StartTime)
}

// UpdateSkills replaces the JD's parsed technical/soft skills. Forbidden
// once the test has started, per spec.md §4.4.
func (s *JDLifecycleService) UpdateSkills(ctx domain.Context, jdID string, technicalSkills, softSkills []string) (*domain.JobDescription, error) {
	tr := otel.Tracer("usecase.jdlifecycle")
	ctx, span := tr.Start(ctx, "JDLifecycleService.UpdateSkills")
	defer span.End()

	jd, err := s.JDs.Get(ctx, jdID)
	if err != nil {
		return nil, err
	}
	if jd.Config.IsLocked {
		return nil, fmt.Errorf("%w: config is locked", domain.ErrConflict)
	}
	if jdStarted(jd) {
		return nil, fmt.Errorf("%w: skills cannot change once the test has started", domain.ErrConflict)
	}

	parsed := domain.ParsedContent{}
	if jd.ParsedContent != nil {
		parsed = *jd.ParsedContent
	}
	parsed.TechnicalSkills = technicalSkills
	parsed.SoftSkills = softSkills

	if err := s.JDs.UpdateFields(ctx, jdID, jd.Version, map[string]any{"parsedContent": parsed}); err != nil {
		return nil, fmt.Errorf("op=jdlifecycle.update_skills: %w", err)
	}
	return s.JDs.Get(ctx, jdID)
}

// UpdateRubrics replaces the per-section grading rubric text. Forbidden once
// the test has started, per spec.md §4.4.
func (s *JDLifecycleService) UpdateRubrics(ctx domain.Context, jdID string, rubrics map[domain.Section]string) (*domain.JobDescription, error) {
	tr := otel.Tracer("usecase.jdlifecycle")
	ctx, span := tr.Start(ctx, "JDLifecycleService.UpdateRubrics")
	defer span.End()

	jd, err := s.JDs.Get(ctx, jdID)
	if err != nil {
		return nil, err
	}
	if jd.Config.IsLocked {
		return nil, fmt.Errorf("%w: config is locked", domain.ErrConflict)
	}
	if jdStarted(jd) {
		return nil, fmt.Errorf("%w: rubrics cannot change once the test has started", domain.ErrConflict)
	}

	cfg := jd.Config
	if cfg.Sections == nil {
		cfg.Sections = map[domain.Section]domain.SectionConfig{}
	}
	for section, rubric := range rubrics {
		sc := cfg.Sections[section]
		sc.Rubric = rubric
		cfg.Sections[section] = sc
	}

	if err := s.JDs.UpdateFields(ctx, jdID, jd.Version, map[string]any{"config": cfg}); err != nil {
		return nil, fmt.Errorf("op=jdlifecycle.update_rubrics: %w", err)
	}
	return s.JDs.Get(ctx, jdID)
}

// Lock freezes the JD's assessment config.
func (s *JDLifecycleService) Lock(ctx domain.Context, jdID string) error {
	jd, err := s.JDs.Get(ctx, jdID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	cfg := jd.Config
	cfg.IsLocked = true
	cfg.LockedAt = &now
	return s.JDs.UpdateFields(ctx, jdID, jd.Version, map[string]any{"config": cfg})
}

// Unlock releases the config freeze.
func (s *JDLifecycleService) Unlock(ctx domain.Context, jdID string) error {
	jd, err := s.JDs.Get(ctx, jdID)
	if err != nil {
		return err
	}
	cfg := jd.Config
	cfg.IsLocked = false
	return s.JDs.UpdateFields(ctx, jdID, jd.Version, map[string]any{"config": cfg})
}

// GenerateLink mints a unique assessment link and synchronously invokes the
// Set Generator (C5), per spec.md §4.4.
func (s *JDLifecycleService) GenerateLink(ctx domain.Context, jdID string, numSets int) (*domain.JobDescription, error) {
	tr := otel.Tracer("usecase.jdlifecycle")
	ctx, span := tr.Start(ctx, "JDLifecycleService.GenerateLink")
	defer span.End()
	lg := obsctx.LoggerFromContext(ctx)

	jd, err := s.JDs.Get(ctx, jdID)
	if err != nil {
		return nil, err
	}
	if jd.Status != domain.JDStatusParsed && jd.Status != domain.JDStatusReady {
		return nil, fmt.Errorf("%w: jd must be parsed or ready to generate a link", domain.ErrConflict)
	}
	if jd.Config.StartTime == nil || jd.Config.EndTime == nil || !jd.Config.StartTime.Before(*jd.Config.EndTime) {
		return nil, fmt.Errorf("%w: startTime must be before endTime", domain.ErrValidation)
	}
	if numSets <= 0 {
		numSets = config.DefaultNumSets
	}

	link, err := s.mintUniqueLink(ctx)
	if err != nil {
		return nil, fmt.Errorf("op=jdlifecycle.generate_link: %w", err)
	}

	if err := s.JDs.UpdateFields(ctx, jdID, jd.Version, map[string]any{
		"status": domain.JDStatusGeneratingSets,
	}); err != nil {
		return nil, fmt.Errorf("op=jdlifecycle.generate_link: %w", err)
	}

	setIDs, genErr := s.Sets.GenerateSets(ctx, jd, numSets)
	if genErr != nil {
		lg.Error("set generation failed, reverting jd to parsed", slog.String("jd_id", jdID), slog.Any("error", genErr))
		reverted, gerr := s.JDs.Get(ctx, jdID)
		if gerr == nil {
			_ = s.JDs.UpdateFields(ctx, jdID, reverted.Version, map[string]any{
				"status": domain.JDStatusParsed,
				"parsingMeta": domain.ParsingMeta{
					ParseErrors:   append(reverted.ParsingMeta.ParseErrors, genErr.Error()),
					ParseAttempts: reverted.ParsingMeta.ParseAttempts,
				},
			})
		}
		return nil, fmt.Errorf("op=jdlifecycle.generate_link: %w", genErr)
	}

	reverted, err := s.JDs.Get(ctx, jdID)
	if err != nil {
		return nil, err
	}
	if err := s.JDs.UpdateFields(ctx, jdID, reverted.Version, map[string]any{
		"status":         domain.JDStatusReady,
		"assessmentLink": link,
		"setIds":         setIDs,
	}); err != nil {
		return nil, fmt.Errorf("op=jdlifecycle.generate_link: %w", err)
	}
	return s.JDs.Get(ctx, jdID)
}

func parseJDContent(raw string) (*domain.ParsedContent, error) {
	var p domain.ParsedContent
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *JDLifecycleService) mintUniqueLink(ctx domain.Context) (string, error) {
	for attempt := 0; attempt < 10; attempt++ {
		link, err := domain.NewAssessmentLink()
		if err != nil {
			return "", err
		}
		exists, err := s.JDs.LinkExists(ctx, link)
		if err != nil {
			return "", err
		}
		if !exists {
			return link, nil
		}
	}
	return "", fmt.Errorf("%w: exhausted attempts minting a unique assessment link", domain.ErrInfrastructure)
}

// Delete cascades AssessmentSet deletion; forbidden once the JD is active.
func (s *JDLifecycleService) Delete(ctx domain.Context, jdID string) error {
	jd, err := s.JDs.Get(ctx, jdID)
	if err != nil {
		return err
	}
	if jd.Status == domain.JDStatusActive {
		return fmt.Errorf("%w: cannot delete an active jd", domain.ErrConflict)
	}
	if s.Sets != nil {
		if err := s.Sets.Sets.DeleteByJD(ctx, jdID); err != nil {
			return fmt.Errorf("op=jdlifecycle.delete: cascade sets: %w", err)
		}
	}
	return s.JDs.Delete(ctx, jdID)
}
