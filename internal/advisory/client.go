// Package advisory requests a non-authoritative second opinion on the
// extracted data from a generative model. The prompt contract restricts the
// model to format-only verification against fixed rules; the verdict is
// attached to responses for transparency but never overrides the arbitrated
// decision, and every failure here is treated by callers as "skip".
package advisory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/common"
)

// Verdict is the advisory opinion.
type Verdict struct {
	OverallVerdict string  `json:"overall_verdict"` // AGREES | DISAGREES | INCONCLUSIVE
	Confidence     float64 `json:"confidence"`
	Notes          string  `json:"notes"`
}

const verdictSchemaJSON = `{
	"type": "object",
	"properties": {
		"overall_verdict": {"type": "string", "enum": ["AGREES", "DISAGREES", "INCONCLUSIVE"]},
		"confidence": {"type": "number", "minimum": 0, "maximum": 1},
		"notes": {"type": "string"}
	},
	"required": ["overall_verdict", "confidence", "notes"]
}`

var verdictSchema = jsonschema.MustCompileString("verdict.json", verdictSchemaJSON)

// Client calls the Gemini generateContent endpoint.
type Client struct {
	cfg    common.AdvisoryConfig
	http   *http.Client
	logger *slog.Logger
}

// NewClient returns nil when no API key is configured; callers must treat a
// nil client as "advisory absent".
func NewClient(cfg common.AdvisoryConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.APIKey == "" {
		logger.Warn("advisory.disabled", "reason", "GEMINI_API_KEY not set")
		return nil
	}
	logger.Info("advisory.enabled", "model", cfg.Model)
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Verify asks the model whether the validation results look consistent with
// the fixed format rules. Any failure returns an error the caller swallows.
func (c *Client) Verify(ctx context.Context, extracted map[string]any, validations map[string]any) (*Verdict, error) {
	if c == nil {
		return nil, common.CapabilityAbsent("advisory")
	}

	prompt, err := buildPrompt(extracted, validations)
	if err != nil {
		return nil, common.CapabilityFailed("advisory", err)
	}

	body := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]any{{"text": prompt}}},
		},
	}
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.Model, c.cfg.APIKey)

	raw, _, err := sendJSON(ctx, c.http, url, body, nil, c.logger)
	if err != nil {
		return nil, common.CapabilityFailed("advisory", err)
	}

	var gc struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(raw, &gc); err != nil {
		return nil, common.CapabilityFailed("advisory", fmt.Errorf("decode response: %w", err))
	}
	if len(gc.Candidates) == 0 || len(gc.Candidates[0].Content.Parts) == 0 {
		return nil, common.CapabilityFailed("advisory", fmt.Errorf("no candidates in response"))
	}

	verdict := parseVerdict(gc.Candidates[0].Content.Parts[0].Text)
	return &verdict, nil
}

// parseVerdict tolerates markdown code fences around the JSON. Anything
// unparseable or schema-invalid degrades to INCONCLUSIVE rather than error:
// an ill-formed opinion is still an opinion we can attach.
func parseVerdict(text string) Verdict {
	text = strings.TrimSpace(text)
	if strings.Contains(text, "```") {
		parts := strings.SplitN(text, "```", 3)
		if len(parts) >= 2 {
			text = parts[1]
		}
		text = strings.TrimPrefix(text, "json")
	}
	text = strings.TrimSpace(text)

	inconclusive := Verdict{
		OverallVerdict: "INCONCLUSIVE",
		Confidence:     0.5,
		Notes:          "Unable to parse advisory response",
	}

	var decoded any
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		return inconclusive
	}
	if err := verdictSchema.Validate(decoded); err != nil {
		return inconclusive
	}

	var v Verdict
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return inconclusive
	}
	return v
}
