package domain

import "time"

// JDRepository persists JobDescription documents (C1/C4).
//
//go:generate mockery --name=JDRepository --with-expecter --filename=jd_repository.go
type JDRepository interface {
	Create(ctx Context, jd *JobDescription) error
	Get(ctx Context, id string) (*JobDescription, error)
	GetByAssessmentLink(ctx Context, link string) (*JobDescription, error)
	ListByCompany(ctx Context, companyID string, limit, offset int) ([]*JobDescription, error)
	// UpdateFields applies a partial field-set update and increments Version,
	// matching the "update by id, never full read-modify-write" rule of
	// spec.md §4.1.
	UpdateFields(ctx Context, id string, expectedVersion int, fields map[string]any) error
	Delete(ctx Context, id string) error
	LinkExists(ctx Context, link string) (bool, error)
	IncrementStat(ctx Context, id string, field string, delta int) error
}

// SetRepository persists AssessmentSet documents (C1/C5).
//
//go:generate mockery --name=SetRepository --with-expecter --filename=set_repository.go
type SetRepository interface {
	CreateMany(ctx Context, sets []*AssessmentSet) error
	Get(ctx Context, id string) (*AssessmentSet, error)
	ListByJD(ctx Context, jdID string) ([]*AssessmentSet, error)
	ListActiveByJD(ctx Context, jdID string) ([]*AssessmentSet, error)
	DeleteByJD(ctx Context, jdID string) error
}

// CandidateRepository persists CandidateAssessment documents (C1/C6/C7).
//
//go:generate mockery --name=CandidateRepository --with-expecter --filename=candidate_repository.go
type CandidateRepository interface {
	Create(ctx Context, c *CandidateAssessment) error
	Get(ctx Context, id string) (*CandidateAssessment, error)
	GetByCandidateAndJD(ctx Context, candidateID, jdID string) (*CandidateAssessment, error)
	GetBySessionToken(ctx Context, token string) (*CandidateAssessment, error)
	ListByJD(ctx Context, jdID string, limit, offset int) ([]*CandidateAssessment, error)
	UpdateFields(ctx Context, id string, expectedVersion int, fields map[string]any) error
	IncrementProctoringCounters(ctx Context, id string, events ProctoringStats) error
}

// AnswerRepository persists AssessmentAnswer documents (C1/C7/C8).
//
//go:generate mockery --name=AnswerRepository --with-expecter --filename=answer_repository.go
type AnswerRepository interface {
	GetOrCreate(ctx Context, candidateAssessmentID string, section Section) (*AssessmentAnswer, error)
	Get(ctx Context, candidateAssessmentID string, section Section) (*AssessmentAnswer, error)
	ListByCandidate(ctx Context, candidateAssessmentID string) ([]*AssessmentAnswer, error)
	// UpsertEntry updates or inserts the answer entry keyed by questionID
	// without replacing the whole Entries array, per spec.md §4.7's
	// "concurrent saves... must not lose prior entries" rule.
	UpsertEntry(ctx Context, candidateAssessmentID string, section Section, entry AnswerEntry) error
	UpdateFields(ctx Context, candidateAssessmentID string, section Section, expectedVersion int, fields map[string]any) error
}

// ProctoringRepository persists ProctoringEvent records (C1/C9).
//
//go:generate mockery --name=ProctoringRepository --with-expecter --filename=proctoring_repository.go
type ProctoringRepository interface {
	Create(ctx Context, e *ProctoringEvent) error
	ListByCandidate(ctx Context, candidateAssessmentID string, limit, offset int) ([]*ProctoringEvent, error)
	MarkReviewed(ctx Context, id, reviewedBy, note string) error
}

// EvaluationRepository persists Evaluation records (C1/C10).
//
//go:generate mockery --name=EvaluationRepository --with-expecter --filename=evaluation_repository.go
type EvaluationRepository interface {
	Upsert(ctx Context, e *Evaluation) error
	GetByCandidate(ctx Context, candidateAssessmentID string) (*Evaluation, error)
	ListByJD(ctx Context, jdID string, limit, offset int) ([]*Evaluation, error)
	RecordDecision(ctx Context, candidateAssessmentID string, decision AdminDecision, by, note string) error
}

// InterviewRepository persists InterviewMetadata/FollowUpQuestion (C1/C11).
//
//go:generate mockery --name=InterviewRepository --with-expecter --filename=interview_repository.go
type InterviewRepository interface {
	GetOrCreateMetadata(ctx Context, candidateAssessmentID string, baseQuestionCount, minQ, maxQ int) (*InterviewMetadata, error)
	UpdateMetadata(ctx Context, m *InterviewMetadata) error
	CreateFollowUp(ctx Context, f *FollowUpQuestion) error
	ListFollowUps(ctx Context, candidateAssessmentID string) ([]*FollowUpQuestion, error)
	RecentQuestions(ctx Context, candidateAssessmentID string, n int) ([]string, error)
}

// AuditRepository records admin actions (decisions, proctoring review).
//
//go:generate mockery --name=AuditRepository --with-expecter --filename=audit_repository.go
type AuditRepository interface {
	Record(ctx Context, actorID, action, targetType, targetID string, detail map[string]any) error
	List(ctx Context, targetType, targetID string, limit, offset int) ([]AuditEntry, error)
}

// AuditEntry is one row of the admin audit log.
type AuditEntry struct {
	ID         string         `json:"id"`
	ActorID    string         `json:"actorId"`
	Action     string         `json:"action"`
	TargetType string         `json:"targetType"`
	TargetID   string         `json:"targetId"`
	Detail     map[string]any `json:"detail,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
}

// AIClient is the LLM Gateway port (C2). ChatJSON is the uniform
// prompt-to-structured-JSON operation; Embed backs the plagiarism
// similarity check; CleanCoTResponse strips chain-of-thought wrapper text
// reasoning models sometimes emit before the JSON payload.
//
//go:generate mockery --name=AIClient --with-expecter --filename=ai_client.go
type AIClient interface {
	ChatJSON(ctx Context, systemPrompt, userPrompt string, maxTokens int) (string, error)
	Embed(ctx Context, texts []string) ([][]float32, error)
	CleanCoTResponse(ctx Context, response string) (string, error)
}

// SandboxClient is the Sandbox Gateway port (C3).
//
//go:generate mockery --name=SandboxClient --with-expecter --filename=sandbox_client.go
type SandboxClient interface {
	Execute(ctx Context, sourceCode, languageID, stdin string, limits ExecutionLimits) (*SubmissionResult, error)
	RunTestCases(ctx Context, sourceCode, languageID string, tests []TestCase) ([]CaseResult, error)
	ListLanguages(ctx Context) ([]Language, error)
}

// ExecutionLimits bounds one sandbox submission.
type ExecutionLimits struct {
	CPUTimeSeconds float64
	MemoryKB       int
}

// SubmissionResult is a single sandbox submission's outcome.
type SubmissionResult struct {
	Stdout       string
	Stderr       string
	ExitCode     int
	TimedOut     bool
	CompileError string
}

// Language is one sandbox-supported language.
type Language struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TextExtractor pulls plain text out of an uploaded resume document (C6).
//
//go:generate mockery --name=TextExtractor --with-expecter --filename=text_extractor.go
type TextExtractor interface {
	Extract(ctx Context, fileName string, data []byte) (string, error)
}

// PlagiarismChecker is the pluggable plagiarism-detection port referenced in
// spec.md §9's Open Questions; this repo's concrete implementation lives in
// internal/usecase/plagiarism.go.
//
//go:generate mockery --name=PlagiarismChecker --with-expecter --filename=plagiarism_checker.go
type PlagiarismChecker interface {
	Check(ctx Context, jdID, questionID, candidateAssessmentID, text string) (*PlagiarismBlock, error)
}

// OTPStore issues and validates one-time passcodes with TTL (C6).
//
//go:generate mockery --name=OTPStore --with-expecter --filename=otp_store.go
type OTPStore interface {
	Issue(ctx Context, email, purpose string, ttl time.Duration) (code string, err error)
	Verify(ctx Context, email, purpose, code string, maxAttempts int) (ok bool, err error)
}

// RateLimiter is a generic token-bucket limiter port. CodeExecService uses it
// to cap Run/Submit calls per candidate assessment.
//
//go:generate mockery --name=RateLimiter --with-expecter --filename=rate_limiter.go
type RateLimiter interface {
	Allow(ctx Context, key string, cost int) (allowed bool, retryAfter time.Duration, err error)
}

// Notifier dispatches best-effort email notifications (C6 OTP/invite,
// C10 report-ready).
//
//go:generate mockery --name=Notifier --with-expecter --filename=notifier.go
type Notifier interface {
	SendOTP(ctx Context, email, code string) error
	SendInvite(ctx Context, email, assessmentURL string) error
	SendReportReady(ctx Context, email, candidateAssessmentID string) error
}

// ProctoringEventBus decouples HTTP ingest from severity classification and
// persistence (C9), matching spec.md §5's "proctoring appends do not require
// the candidate lock."
//
//go:generate mockery --name=ProctoringEventBus --with-expecter --filename=proctoring_event_bus.go
type ProctoringEventBus interface {
	Publish(ctx Context, raw ProctoringEventRaw) error
}

// ProctoringEventRaw is the unclassified event as received from the
// candidate's browser, before severity derivation.
type ProctoringEventRaw struct {
	CandidateAssessmentID string
	Type                  ProctoringEventType
	Section               Section
	QuestionID             string
	Evidence               map[string]any
	ScreenshotRef          string
	OccurredAt             time.Time
}
