package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/constants"
)

func TestCompletenessScore(t *testing.T) {
	t.Run("all present", func(t *testing.T) {
		extracted := map[string]any{
			constants.FieldGSTNumber:     "27ABCDE1234F1Z5",
			constants.FieldPANNumber:     "ABCDE1234F",
			constants.FieldUdyamNumber:   "UDYAM-MH-12-1234567",
			constants.FieldCompanyName:   "Acme Pvt Ltd",
			constants.FieldSignature:     "authorized signatory",
			constants.FieldQuotationDate: "15/08/2026",
		}
		res := CompletenessScore(extracted, nil)
		assert.Equal(t, 100.0, res.Score)
		assert.Equal(t, 6, res.Present)
		assert.Empty(t, res.MissingFields)
	})

	t.Run("half present", func(t *testing.T) {
		extracted := map[string]any{
			constants.FieldGSTNumber:   "27ABCDE1234F1Z5",
			constants.FieldPANNumber:   "ABCDE1234F",
			constants.FieldUdyamNumber: "UDYAM-MH-12-1234567",
		}
		res := CompletenessScore(extracted, nil)
		assert.Equal(t, 50.0, res.Score)
		assert.Equal(t, "50.0%", res.Percentage)
		assert.Contains(t, res.MissingFields, constants.FieldSignature)
	})

	t.Run("empty strings do not count", func(t *testing.T) {
		res := CompletenessScore(map[string]any{constants.FieldGSTNumber: ""}, nil)
		assert.Equal(t, 0, res.Present)
	})

	t.Run("string slices count when non-empty", func(t *testing.T) {
		res := CompletenessScore(
			map[string]any{"names": []string{"a"}},
			[]string{"names"},
		)
		assert.Equal(t, 100.0, res.Score)
	})
}
