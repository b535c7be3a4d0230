package classify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/constants"
	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/common"
	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/extract"
)

func frag(text string) extract.TextFragment {
	return extract.TextFragment{
		Page:       1,
		Line:       "1",
		Text:       text,
		SourceType: constants.SourceNativeText,
		Confidence: 1.0,
	}
}

func TestClassifierFallback(t *testing.T) {
	c := NewClassifier(common.ClassifierConfig{
		ModelPath: filepath.Join(t.TempDir(), "missing.json"),
	}, nil)
	require.False(t, c.Loaded())

	t.Run("all present approves", func(t *testing.T) {
		pred := c.Predict([]extract.TextFragment{
			frag("GSTIN: 27ABCDE1234F1Z5"),
			frag("PAN: ABCDE1234F"),
			frag("UDYAM-MH-12-1234567"),
		})
		assert.Equal(t, constants.DecisionApprove, pred.Label)
		assert.Equal(t, 0.8, pred.Confidence)
		assert.Equal(t, "rule_based_fallback", pred.ModelType)
	})

	t.Run("one missing asks for more", func(t *testing.T) {
		pred := c.Predict([]extract.TextFragment{
			frag("GSTIN: 27ABCDE1234F1Z5"),
			frag("PAN: ABCDE1234F"),
		})
		assert.Equal(t, constants.DecisionNeedMore, pred.Label)
		assert.Equal(t, 0.6, pred.Confidence)
	})

	t.Run("two missing rejects", func(t *testing.T) {
		pred := c.Predict([]extract.TextFragment{frag("GSTIN: 27ABCDE1234F1Z5")})
		assert.Equal(t, constants.DecisionReject, pred.Label)
		assert.Equal(t, 0.4, pred.Confidence)
	})

	t.Run("empty input rejects", func(t *testing.T) {
		pred := c.Predict(nil)
		assert.Equal(t, constants.DecisionReject, pred.Label)
	})
}

func TestClassifierWeightModel(t *testing.T) {
	model := `{
		"labels": ["APPROVE", "REJECT"],
		"bias": {"APPROVE": 0, "REJECT": 0.5},
		"weights": {
			"APPROVE": {"gst_present": 2.0, "pan_present": 2.0},
			"REJECT": {}
		}
	}`
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(model), 0o644))

	c := NewClassifier(common.ClassifierConfig{ModelPath: path}, nil)
	require.True(t, c.Loaded())

	pred := c.Predict([]extract.TextFragment{
		frag("GSTIN: 27ABCDE1234F1Z5"),
		frag("PAN: ABCDE1234F"),
	})
	assert.Equal(t, constants.DecisionApprove, pred.Label)
	assert.Equal(t, "weights", pred.ModelType)
	assert.Greater(t, pred.Confidence, 0.5)
	assert.NotNil(t, pred.Features)
}

func TestLoadModelErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := loadModel(filepath.Join(t.TempDir(), "none.json"))
		assert.Error(t, err)
	})

	t.Run("invalid json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
		_, err := loadModel(path)
		assert.Error(t, err)
	})

	t.Run("no labels", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"labels": []}`), 0o644))
		_, err := loadModel(path)
		assert.Error(t, err)
	})
}

func TestExtractFeatures(t *testing.T) {
	f := ExtractFeatures([]extract.TextFragment{
		frag("GSTIN: 27ABCDE1234F1Z5"),
		frag("Quotation dated 15/08/2026, signature below"),
	})

	assert.Equal(t, 1.0, f["gst_present"])
	assert.Equal(t, 0.0, f["pan_present"])
	assert.Equal(t, 1.0, f["signature_present"])
	assert.Equal(t, 1.0, f["quotation_present"])
	assert.Equal(t, 1.0, f["num_dates_found"])
	assert.Equal(t, 1.0, f["num_pages"])
	assert.Greater(t, f["text_length"], 0.0)
}
