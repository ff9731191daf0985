package analysis

import (
	"context"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/Sauravdeep01/ResumeAnalyser/internal/shared/metrics"
	"github.com/Sauravdeep01/ResumeAnalyser/internal/shared/telemetry"
)

// Scorer invokes a generative model and returns its free-text reply.
type Scorer interface {
	GenerateContent(ctx context.Context, model string, prompt string) (string, error)
	// IsQuotaErr reports whether err is a rate-limit/quota-exhaustion error,
	// which means the next candidate model may still succeed.
	IsQuotaErr(err error) bool
}

// DefaultModels is the ordered fallback chain, most capable and cheapest
// first. First success wins; a quota error advances to the next entry.
var DefaultModels = []string{
	"gemini-2.0-flash",
	"gemini-2.0-flash-lite",
	"gemini-1.5-flash",
}

// Orchestrator turns extracted resume text plus a role/job-description string
// into a Result. It is total: every failure mode degrades to FallbackResult,
// never to an error.
type Orchestrator struct {
	Scorer Scorer
	Models []string
}

// NewOrchestrator builds an Orchestrator with the default model chain.
// A nil scorer means no credential is configured; Analyze then returns the
// fallback immediately (degraded mode, not an error).
func NewOrchestrator(scorer Scorer) *Orchestrator {
	return &Orchestrator{Scorer: scorer, Models: DefaultModels}
}

// Analyze scores resumeText against jobDescription. One model call is
// outstanding at a time; candidates are tried strictly in order.
func (o *Orchestrator) Analyze(ctx context.Context, resumeText, jobDescription string) Result {
	metrics.IncAnalysisStarted()
	start := metrics.NowMillis()
	defer func() {
		metrics.ObserveAnalysisDurationMs(metrics.NowMillis() - start)
	}()

	if o == nil || o.Scorer == nil {
		telemetry.Warn("analysis.degraded", map[string]any{"reason": "no AI credential configured"})
		metrics.IncAnalysisFallback()
		return FallbackResult("")
	}

	prompt := BuildPrompt(resumeText, jobDescription)

	var lastErr error
	for _, model := range o.Models {
		reply, err := o.Scorer.GenerateContent(ctx, model, prompt)
		if err == nil {
			result, ok := parseResult(reply)
			if ok {
				telemetry.Info("analysis.scored", map[string]any{"model": model})
				metrics.IncAnalysisScored()
				return result
			}
			lastErr = errNoJSON
			telemetry.Warn("analysis.parse_failed", map[string]any{"model": model})
			break
		}

		lastErr = err
		if o.Scorer.IsQuotaErr(err) {
			telemetry.Warn("analysis.quota_exhausted", map[string]any{
				"model": model,
				"error": err.Error(),
			})
			continue
		}

		telemetry.Error("analysis.failed", map[string]any{
			"model": model,
			"error": err.Error(),
		})
		break
	}

	metrics.IncAnalysisFallback()
	msg := "Analysis failed: Unknown error"
	if lastErr != nil {
		msg = "Analysis failed: " + lastErr.Error()
	}
	return FallbackResult(msg)
}

type noJSONError struct{}

func (noJSONError) Error() string { return "no valid JSON found in AI response" }

var errNoJSON = noJSONError{}

// parseResult pulls the first brace-delimited JSON object out of the model's
// free-text reply. Models sometimes wrap the JSON in prose or code fences, so
// this is a substring match rather than strict whole-response parsing.
func parseResult(reply string) (Result, bool) {
	open := strings.Index(reply, "{")
	close := strings.LastIndex(reply, "}")
	if open < 0 || close <= open {
		return Result{}, false
	}
	raw := reply[open : close+1]
	if !gjson.Valid(raw) {
		return Result{}, false
	}

	parsed := gjson.Parse(raw)
	result := Result{
		ATSScore:         clampScore(int(parsed.Get("atsScore").Int())),
		KeywordMatch:     clampScore(int(parsed.Get("keywordMatch").Int())),
		MissingKeywords:  stringList(parsed.Get("missingKeywords")),
		FormattingIssues: stringList(parsed.Get("formattingIssues")),
		Improvements:     stringList(parsed.Get("improvements")),
		Summary:          parsed.Get("summary").String(),
	}
	if result.Summary == "" {
		result.Summary = "No analysis available."
	}
	return result, true
}

func stringList(value gjson.Result) []string {
	items := value.Array()
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := item.String(); s != "" {
			out = append(out, s)
		}
	}
	return out
}
