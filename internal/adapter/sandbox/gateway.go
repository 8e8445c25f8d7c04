// Package sandbox implements the Sandbox Gateway (C3): code execution via a
// Judge0-compatible submit/poll HTTP API.
package sandbox

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ironquill/assesspoint/internal/adapter/observability"
	"github.com/ironquill/assesspoint/internal/config"
	"github.com/ironquill/assesspoint/internal/domain"
)

// TestCaseSeparator joins/splits batched stdin and stdout for RunTestCases
// per spec.md §4.3.
const TestCaseSeparator = "---TEST_CASE_SEPARATOR---"

// Gateway implements domain.SandboxClient against a Judge0-compatible API.
type Gateway struct {
	cfg          config.Config
	httpc        *http.Client
	pollInterval time.Duration
	maxPolls     int
	batchSize    int
	breaker      *observability.CircuitBreaker
}

// New constructs a Sandbox Gateway.
func New(cfg config.Config) *Gateway {
	transport := otelhttp.NewTransport(http.DefaultTransport,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return fmt.Sprintf("Sandbox %s %s", r.Method, r.URL.Path)
		}),
	)
	return &Gateway{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 30 * time.Second, Transport: transport},
		pollInterval: firstNonZero(cfg.SandboxPollInterval, time.Second),
		maxPolls:     firstNonZeroInt(cfg.SandboxMaxPolls, 10),
		batchSize:    firstNonZeroInt(cfg.SandboxBatchSize, 5),
		breaker:      observability.NewCircuitBreaker("sandbox", 5, 30*time.Second),
	}
}

func firstNonZero(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}

func firstNonZeroInt(n, fallback int) int {
	if n <= 0 {
		return fallback
	}
	return n
}

// WithHTTPClient overrides the gateway's HTTP client; used by tests against
// an httptest.Server.
func (g *Gateway) WithHTTPClient(c *http.Client) *Gateway {
	g.httpc = c
	return g
}

type submissionRequest struct {
	SourceCode     string  `json:"source_code"`
	LanguageID     string  `json:"language_id"`
	Stdin          string  `json:"stdin"`
	CPUTimeLimit   float64 `json:"cpu_time_limit,omitempty"`
	MemoryLimitKB  int     `json:"memory_limit,omitempty"`
}

type submissionCreated struct {
	Token string `json:"token"`
}

type submissionStatus struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

type submissionPoll struct {
	Stdout        *string          `json:"stdout"`
	Stderr        *string          `json:"stderr"`
	CompileOutput *string          `json:"compile_output"`
	Status        submissionStatus `json:"status"`
	Time          string           `json:"time"`
	Memory        int              `json:"memory"`
}

// statusInQueue / statusProcessing are Judge0's well-known in-flight status
// ids; anything else (3=Accepted, 4+=various failures) is terminal.
const (
	statusInQueue    = 1
	statusProcessing = 2
)

// Execute submits one program for execution and polls until it reaches a
// terminal status, a fixed 1s interval up to SandboxMaxPolls times
// (spec.md §4.3).
func (g *Gateway) Execute(ctx domain.Context, sourceCode, languageID, stdin string, limits domain.ExecutionLimits) (*domain.SubmissionResult, error) {
	var result *domain.SubmissionResult
	callErr := g.breaker.Call(func() error {
		token, err := g.submit(ctx, sourceCode, languageID, stdin, limits)
		if err != nil {
			return fmt.Errorf("%w: submit: %v", domain.ErrSandboxUnavailable, err)
		}

		for attempt := 0; attempt < g.maxPolls; attempt++ {
			poll, err := g.poll(ctx, token)
			if err != nil {
				return fmt.Errorf("%w: poll: %v", domain.ErrSandboxUnavailable, err)
			}
			if poll.Status.ID != statusInQueue && poll.Status.ID != statusProcessing {
				result = toSubmissionResult(poll)
				return nil
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(g.pollInterval):
			}
		}

		return fmt.Errorf("%w: exceeded %d polls", domain.ErrSandboxTimeout, g.maxPolls)
	})
	if callErr != nil {
		if strings.Contains(callErr.Error(), "circuit breaker") {
			return nil, fmt.Errorf("%w: %v", domain.ErrSandboxUnavailable, callErr)
		}
		return nil, callErr
	}
	return result, nil
}

func toSubmissionResult(p *submissionPoll) *domain.SubmissionResult {
	result := &domain.SubmissionResult{}
	if p.Stdout != nil {
		result.Stdout = *p.Stdout
	}
	if p.Stderr != nil {
		result.Stderr = *p.Stderr
	}
	if p.CompileOutput != nil {
		result.CompileError = *p.CompileOutput
	}
	switch p.Status.ID {
	case 3: // Accepted
		result.ExitCode = 0
	case 5: // Time Limit Exceeded
		result.TimedOut = true
	default:
		result.ExitCode = p.Status.ID
	}
	return result
}

func (g *Gateway) submit(ctx domain.Context, sourceCode, languageID, stdin string, limits domain.ExecutionLimits) (string, error) {
	req := submissionRequest{
		SourceCode:    base64.StdEncoding.EncodeToString([]byte(sourceCode)),
		LanguageID:    languageID,
		Stdin:         base64.StdEncoding.EncodeToString([]byte(stdin)),
		CPUTimeLimit:  limits.CPUTimeSeconds,
		MemoryLimitKB: limits.MemoryKB,
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	url := strings.TrimRight(g.cfg.SandboxBaseURL, "/") + "/submissions?base64_encoded=true&wait=false"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if g.cfg.SandboxAPIKey != "" {
		httpReq.Header.Set("X-Auth-Token", g.cfg.SandboxAPIKey)
	}

	resp, err := g.httpc.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}

	var created submissionCreated
	if err := json.Unmarshal(body, &created); err != nil {
		return "", fmt.Errorf("decode submission response: %w", err)
	}
	return created.Token, nil
}

func (g *Gateway) poll(ctx domain.Context, token string) (*submissionPoll, error) {
	url := fmt.Sprintf("%s/submissions/%s?base64_encoded=true",
		strings.TrimRight(g.cfg.SandboxBaseURL, "/"), token)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if g.cfg.SandboxAPIKey != "" {
		httpReq.Header.Set("X-Auth-Token", g.cfg.SandboxAPIKey)
	}

	resp, err := g.httpc.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}

	var raw struct {
		Stdout        *string          `json:"stdout"`
		Stderr        *string          `json:"stderr"`
		CompileOutput *string          `json:"compile_output"`
		Status        submissionStatus `json:"status"`
		Time          string           `json:"time"`
		Memory        int              `json:"memory"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode poll response: %w", err)
	}

	decode := func(s *string) *string {
		if s == nil {
			return nil
		}
		b, err := base64.StdEncoding.DecodeString(*s)
		if err != nil {
			return s
		}
		out := string(b)
		return &out
	}

	poll := &submissionPoll{
		Stdout:        decode(raw.Stdout),
		Stderr:        decode(raw.Stderr),
		CompileOutput: decode(raw.CompileOutput),
		Status:        raw.Status,
		Time:          raw.Time,
		Memory:        raw.Memory,
	}
	return poll, nil
}

// RunTestCases batches tests into groups of g.batchSize, joining inputs with
// TestCaseSeparator in a single submission, then splits stdout on the same
// marker and pairs outputs to inputs by index (spec.md §4.3). A failing
// batch produces per-test error records rather than aborting the remaining
// batches (fail-open per-batch).
func (g *Gateway) RunTestCases(ctx domain.Context, sourceCode, languageID string, tests []domain.TestCase) ([]domain.CaseResult, error) {
	results := make([]domain.CaseResult, len(tests))

	for start := 0; start < len(tests); start += g.batchSize {
		end := start + g.batchSize
		if end > len(tests) {
			end = len(tests)
		}
		batch := tests[start:end]

		inputs := make([]string, len(batch))
		for i, tc := range batch {
			inputs[i] = tc.Input
		}
		stdin := strings.Join(inputs, "\n"+TestCaseSeparator+"\n")

		res, err := g.Execute(ctx, sourceCode, languageID, stdin, domain.ExecutionLimits{CPUTimeSeconds: 5, MemoryKB: 262144})
		if err != nil {
			slog.Warn("sandbox batch failed, recording per-test errors",
				slog.Int("batchStart", start), slog.Int("batchSize", len(batch)), slog.Any("error", err))
			for i, tc := range batch {
				results[start+i] = domain.CaseResult{
					Input: tc.Input, ExpectedOutput: tc.ExpectedOutput, Hidden: tc.Hidden,
					ActualOutput: err.Error(), Passed: false,
				}
			}
			continue
		}

		if res.CompileError != "" {
			for i, tc := range batch {
				results[start+i] = domain.CaseResult{
					Input: tc.Input, ExpectedOutput: tc.ExpectedOutput, Hidden: tc.Hidden,
					ActualOutput: res.CompileError, Passed: false,
				}
			}
			continue
		}

		outputs := strings.Split(res.Stdout, TestCaseSeparator)
		for i, tc := range batch {
			var actual string
			if i < len(outputs) {
				actual = outputs[i]
			}
			passed := normalizeOutput(actual) == normalizeOutput(tc.ExpectedOutput)
			results[start+i] = domain.CaseResult{
				Input:          tc.Input,
				ExpectedOutput: tc.ExpectedOutput,
				ActualOutput:   strings.TrimSpace(actual),
				Passed:         passed,
				Hidden:         tc.Hidden,
			}
		}
	}

	return results, nil
}

// normalizeOutput applies spec.md §4.3's comparison rule: normalize CRLF,
// trim trailing whitespace line-by-line, compare as strings.
func normalizeOutput(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// ListLanguages returns the sandbox's supported language list.
func (g *Gateway) ListLanguages(ctx domain.Context) ([]domain.Language, error) {
	url := strings.TrimRight(g.cfg.SandboxBaseURL, "/") + "/languages"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if g.cfg.SandboxAPIKey != "" {
		httpReq.Header.Set("X-Auth-Token", g.cfg.SandboxAPIKey)
	}

	resp, err := g.httpc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSandboxUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: status %d", domain.ErrSandboxUnavailable, resp.StatusCode)
	}

	var langs []domain.Language
	if err := json.NewDecoder(resp.Body).Decode(&langs); err != nil {
		return nil, fmt.Errorf("decode languages: %w", err)
	}
	return langs, nil
}
