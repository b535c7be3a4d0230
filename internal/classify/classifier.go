// Package classify is the local statistical prediction capability. A weight
// model is loaded from disk when available; otherwise predictions fall back
// to a deterministic rule over missing critical documents. Both paths
// produce the same Prediction shape, so callers never care which ran.
package classify

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/constants"
	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/common"
	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/extract"
)

// Prediction is the classifier capability output.
type Prediction struct {
	Label      constants.DecisionLabel `json:"prediction"`
	Confidence float64                 `json:"confidence"`
	Reasons    []string                `json:"reasons"`
	ModelType  string                  `json:"model_type"`
	Features   map[string]float64      `json:"features"`
}

// weightModel is a linear scorer: score(label) = bias + w·features.
type weightModel struct {
	Labels  []string                      `json:"labels"`
	Bias    map[string]float64            `json:"bias"`
	Weights map[string]map[string]float64 `json:"weights"`
}

// Classifier scores document features into a decision label.
type Classifier struct {
	model  *weightModel
	logger *slog.Logger
}

// NewClassifier loads the weight model from cfg.ModelPath. A missing or
// unreadable model is not an error: the classifier stays usable through its
// rule-based fallback.
func NewClassifier(cfg common.ClassifierConfig, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Classifier{logger: logger}

	model, err := loadModel(cfg.ModelPath)
	if err != nil {
		logger.Warn("classify.model_unavailable", "path", cfg.ModelPath, "error", err)
		return c
	}
	c.model = model
	logger.Info("classify.model_loaded", "path", cfg.ModelPath, "labels", len(model.Labels))
	return c
}

// Loaded reports whether the weight model is in memory.
func (c *Classifier) Loaded() bool {
	return c.model != nil
}

// Predict scores the fragments. Model failures degrade to the rule-based
// fallback; Predict never returns an error.
func (c *Classifier) Predict(frags []extract.TextFragment) Prediction {
	features := ExtractFeatures(frags)

	if c.model == nil {
		return c.fallback(features)
	}

	pred, err := c.model.score(features)
	if err != nil {
		c.logger.Error("classify.predict_failed", "error", err)
		return c.fallback(features)
	}
	pred.Reasons = generateReasons(features)
	pred.Features = features
	return pred
}

func (m *weightModel) score(features map[string]float64) (Prediction, error) {
	if len(m.Labels) == 0 {
		return Prediction{}, fmt.Errorf("model has no labels")
	}

	scores := make([]float64, len(m.Labels))
	for i, label := range m.Labels {
		s := m.Bias[label]
		for feat, w := range m.Weights[label] {
			s += w * features[feat]
		}
		scores[i] = s
	}

	best := 0
	for i := range scores {
		if scores[i] > scores[best] {
			best = i
		}
	}

	// softmax over label scores for a calibrated-ish confidence
	var sum float64
	maxScore := scores[best]
	for _, s := range scores {
		sum += math.Exp(s - maxScore)
	}
	confidence := 1.0 / sum

	return Prediction{
		Label:      constants.DecisionLabel(m.Labels[best]),
		Confidence: confidence,
		ModelType:  "weights",
	}, nil
}

// fallback is the rule-based prediction used when no model is available:
// decision follows the count of missing critical documents.
func (c *Classifier) fallback(features map[string]float64) Prediction {
	missingCritical := 0
	for _, field := range []string{"gst_present", "pan_present", "udyam_present"} {
		if features[field] == 0 {
			missingCritical++
		}
	}

	var pred Prediction
	switch missingCritical {
	case 0:
		pred = Prediction{
			Label:      constants.DecisionApprove,
			Confidence: 0.8,
			Reasons:    []string{"All critical documents present"},
		}
	case 1:
		pred = Prediction{
			Label:      constants.DecisionNeedMore,
			Confidence: 0.6,
			Reasons:    []string{"One critical document missing"},
		}
	default:
		pred = Prediction{
			Label:      constants.DecisionReject,
			Confidence: 0.4,
			Reasons:    []string{"Multiple critical documents missing"},
		}
	}
	pred.ModelType = "rule_based_fallback"
	pred.Features = features
	return pred
}

func loadModel(path string) (*weightModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	var m weightModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if len(m.Labels) == 0 {
		return nil, fmt.Errorf("model has no labels")
	}
	return &m, nil
}

// generateReasons explains the feature vector in decision terms, capped at
// the three most important.
func generateReasons(features map[string]float64) []string {
	var reasons []string

	if features["gst_present"] == 0 {
		reasons = append(reasons, "GST certificate not found")
	}
	if features["pan_present"] == 0 {
		reasons = append(reasons, "PAN card not found")
	}
	if features["udyam_present"] == 0 {
		reasons = append(reasons, "Udyam certificate not found")
	}
	if features["signature_present"] == 0 {
		reasons = append(reasons, "Signature not found")
	}
	if features["gst_days_to_expiry"] < 0 {
		reasons = append(reasons, "GST certificate expired")
	}
	if features["udyam_days_to_expiry"] < 0 {
		reasons = append(reasons, "Udyam certificate expired")
	}
	if features["price_consistency"] == 0 {
		reasons = append(reasons, "Price inconsistency detected")
	}

	if len(reasons) > 3 {
		reasons = reasons[:3]
	}
	return reasons
}
