package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePAN(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		valid     bool
		errSubstr string
	}{
		{name: "valid", input: "ABCDE1234F", valid: true},
		{name: "lowercase accepted", input: "abcde1234f", valid: true},
		{name: "empty", input: "", errSubstr: "Empty PAN"},
		{name: "too short", input: "ABCDE1234", errSubstr: "got 9"},
		{name: "too long", input: "ABCDE1234FX", errSubstr: "got 11"},
		{name: "digit in alpha block", input: "AB1DE1234F", errSubstr: "Invalid PAN format"},
		{name: "letter in digit block", input: "ABCDE12X4F", errSubstr: "Invalid PAN format"},
		{name: "digit at tail", input: "ABCDE12345", errSubstr: "Invalid PAN format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidatePAN(tt.input)
			assert.Equal(t, tt.valid, res.Valid)
			if tt.valid {
				assert.Equal(t, "ABCDE1234F", res.FullNumber)
			}
			if tt.errSubstr != "" {
				assert.Contains(t, res.Error, tt.errSubstr)
			}
		})
	}
}
