package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateGST(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		valid     bool
		errSubstr string
	}{
		{name: "valid", input: "27ABCDE1234F1Z5", valid: true},
		{name: "lowercase accepted", input: "27abcde1234f1z5", valid: true},
		{name: "surrounding space trimmed", input: " 27ABCDE1234F1Z5 ", valid: true},
		{name: "empty", input: "", errSubstr: "Empty GST"},
		{name: "too short", input: "27ABCDE1234F1Z", errSubstr: "got 14"},
		{name: "too long", input: "27ABCDE1234F1Z55", errSubstr: "got 16"},
		{name: "missing Z", input: "27ABCDE1234F1X5", errSubstr: "Invalid GST format"},
		{name: "bad state code", input: "00ABCDE1234F1Z5", errSubstr: "Invalid state code: 00"},
		{name: "dropped state code 25", input: "25ABCDE1234F1Z5", errSubstr: "Invalid state code: 25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateGST(tt.input)
			assert.Equal(t, tt.valid, res.Valid)
			if tt.errSubstr != "" {
				assert.Contains(t, res.Error, tt.errSubstr)
			}
		})
	}
}

func TestValidateGSTLengthProperty(t *testing.T) {
	// every length other than 15 fails citing length
	base := "27ABCDE1234F1Z5"
	for n := 0; n <= 30; n++ {
		if n == 15 {
			continue
		}
		candidate := strings.Repeat("2", n)
		if n <= len(base) {
			candidate = base[:n]
		}
		res := ValidateGST(candidate)
		require.False(t, res.Valid, "length %d must be invalid", n)
		if n > 0 {
			assert.Contains(t, res.Error, "must be 15 chars")
		}
	}
}

func TestValidateGSTEmbeddedPAN(t *testing.T) {
	res := ValidateGST("27ABCDE1234F1Z5")
	require.True(t, res.Valid)
	assert.Equal(t, "ABCDE1234F", res.PAN)
	assert.Equal(t, "27", res.StateCode)

	// embedded portion must itself pass the PAN validator
	pan := ValidatePAN(res.PAN)
	assert.True(t, pan.Valid)
}

func TestValidateGSTBadEmbeddedPAN(t *testing.T) {
	// digits where the PAN alpha block should be; shape check rejects first
	res := ValidateGST("2712CDE1234F1Z5")
	assert.False(t, res.Valid)
}
