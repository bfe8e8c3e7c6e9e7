// server/internal/ai/analyzer.go
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"foodbridge-api-server/config"
	"foodbridge-api-server/internal/models"
	"foodbridge-api-server/internal/service"
)

// Gemini model candidates, tried in order until one answers.
var modelCandidates = []string{
	"gemini-2.0-flash",
	"gemini-1.5-flash",
	"gemini-1.5-flash-latest",
}

const geminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s"

// Analyzer scores donation freshness via Gemini, degrading to a
// deterministic rule-based score when the API is unconfigured or fails.
type Analyzer struct {
	apiKey string
	client *http.Client
	now    func() time.Time
}

func New(cfg config.AIConfig) *Analyzer {
	return &Analyzer{
		apiKey: cfg.GeminiAPIKey,
		client: &http.Client{Timeout: 15 * time.Second},
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (a *Analyzer) Analyze(ctx context.Context, foodName, description string, availableTill time.Time) service.Analysis {
	if a.apiKey == "" {
		return a.fallback(foodName, description, availableTill)
	}

	result, err := a.callGemini(ctx, foodName, description, availableTill)
	if err != nil {
		log.Printf("AI analysis failed, using fallback: %v", err)
		return a.fallback(foodName, description, availableTill)
	}
	return result
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
	GenerationConfig struct {
		Temperature float64 `json:"temperature"`
	} `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type analysisPayload struct {
	FreshnessRiskLevel  string `json:"freshnessRiskLevel"`
	PickupPriorityScore int    `json:"pickupPriorityScore"`
	Reason              string `json:"reason"`
}

func (a *Analyzer) callGemini(ctx context.Context, foodName, description string, availableTill time.Time) (service.Analysis, error) {
	hoursLeft := availableTill.Sub(a.now()).Hours()

	prompt := fmt.Sprintf(`You are a food safety triage assistant for a surplus food donation platform.
Food item: %q
Description: %q
Hours until pickup deadline: %.1f

Respond with STRICT JSON only, no markdown, matching exactly:
{"freshnessRiskLevel":"low|medium|high","pickupPriorityScore":1-5,"reason":"one short sentence"}`,
		foodName, description, hoursLeft)

	var reqBody geminiRequest
	reqBody.Contents = []geminiContent{{Parts: []geminiPart{{Text: prompt}}}}
	reqBody.GenerationConfig.Temperature = 0.1

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return service.Analysis{}, err
	}

	var lastErr error
	for _, model := range modelCandidates {
		url := fmt.Sprintf(geminiEndpoint, model, a.apiKey)
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return service.Analysis{}, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := a.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("model %s returned status %d", model, resp.StatusCode)
			continue
		}

		var gr geminiResponse
		if err := json.Unmarshal(body, &gr); err != nil {
			lastErr = err
			continue
		}
		if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
			lastErr = fmt.Errorf("model %s returned no candidates", model)
			continue
		}

		parsed, err := parseAnalysis(gr.Candidates[0].Content.Parts[0].Text)
		if err != nil {
			lastErr = err
			continue
		}
		return parsed, nil
	}

	return service.Analysis{}, lastErr
}

// parseAnalysis tolerates markdown fences and surrounding prose around
// the JSON object.
func parseAnalysis(text string) (service.Analysis, error) {
	raw := extractJSON(text)
	if raw == "" {
		return service.Analysis{}, fmt.Errorf("no JSON object in model response")
	}

	var p analysisPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return service.Analysis{}, fmt.Errorf("malformed analysis JSON: %w", err)
	}

	switch p.FreshnessRiskLevel {
	case models.RiskLow, models.RiskMedium, models.RiskHigh:
	default:
		return service.Analysis{}, fmt.Errorf("unknown risk level %q", p.FreshnessRiskLevel)
	}
	if p.PickupPriorityScore < 1 || p.PickupPriorityScore > 5 {
		return service.Analysis{}, fmt.Errorf("priority score %d out of range", p.PickupPriorityScore)
	}

	return service.Analysis{
		FreshnessRiskLevel:  p.FreshnessRiskLevel,
		PickupPriorityScore: p.PickupPriorityScore,
		Reason:              p.Reason,
	}, nil
}

func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if after, ok := strings.CutPrefix(text, "```json"); ok {
		text = after
	} else if after, ok := strings.CutPrefix(text, "```"); ok {
		text = after
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return text[start : end+1]
}

// Keyword lists for the rule-based fallback.
var (
	highRiskKeywords   = []string{"meat", "fish", "seafood", "milk", "dairy", "egg", "cream"}
	mediumRiskKeywords = []string{"cooked", "rice", "gravy", "curry", "paneer"}
)

// fallback is the deterministic score used when Gemini is unavailable.
// It combines perishability keywords with the time remaining before the
// pickup deadline.
func (a *Analyzer) fallback(foodName, description string, availableTill time.Time) service.Analysis {
	text := strings.ToLower(foodName + " " + description)

	riskScore := 0
	for _, kw := range highRiskKeywords {
		if strings.Contains(text, kw) {
			riskScore += 3
			break
		}
	}
	for _, kw := range mediumRiskKeywords {
		if strings.Contains(text, kw) {
			riskScore += 2
			break
		}
	}

	hoursLeft := availableTill.Sub(a.now()).Hours()
	switch {
	case hoursLeft <= 4:
		riskScore += 3
	case hoursLeft <= 10:
		riskScore += 2
	case hoursLeft <= 24:
		riskScore++
	}
	if hoursLeft > 48 {
		riskScore--
	}

	switch {
	case riskScore >= 5:
		return service.Analysis{
			FreshnessRiskLevel:  models.RiskHigh,
			PickupPriorityScore: 5,
			Reason:              "Highly perishable item with a tight pickup window.",
		}
	case riskScore >= 3:
		return service.Analysis{
			FreshnessRiskLevel:  models.RiskMedium,
			PickupPriorityScore: 4,
			Reason:              "Perishable item, pickup recommended soon.",
		}
	default:
		return service.Analysis{
			FreshnessRiskLevel:  models.RiskLow,
			PickupPriorityScore: 2,
			Reason:              "Low perishability or generous pickup window.",
		}
	}
}
