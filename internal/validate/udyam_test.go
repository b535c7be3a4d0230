package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUdyam(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		valid     bool
		errSubstr string
	}{
		{name: "valid seven digit", input: "UDYAM-MH-12-1234567", valid: true},
		{name: "valid six digit", input: "UDYAM-KA-01-123456", valid: true},
		{name: "lowercase accepted", input: "udyam-mh-12-1234567", valid: true},
		{name: "empty", input: "", errSubstr: "Empty Udyam"},
		{name: "wrong prefix", input: "UDYAN-MH-12-1234567", errSubstr: "Invalid Udyam format"},
		{name: "digit state", input: "UDYAM-1H-12-1234567", errSubstr: "Invalid Udyam format"},
		{name: "short sequence", input: "UDYAM-MH-12-12345", errSubstr: "Invalid Udyam format"},
		{name: "missing part", input: "UDYAM-MH-1234567", errSubstr: "Invalid Udyam format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateUdyam(tt.input)
			assert.Equal(t, tt.valid, res.Valid)
			if tt.errSubstr != "" {
				assert.Contains(t, res.Error, tt.errSubstr)
			}
		})
	}
}

func TestValidateUdyamParts(t *testing.T) {
	res := ValidateUdyam("UDYAM-MH-12-1234567")
	assert.True(t, res.Valid)
	assert.Equal(t, "MH", res.State)
	assert.Equal(t, "12", res.District)
	assert.Equal(t, "1234567", res.Registration)
	assert.Equal(t, "UDYAM-MH-12-1234567", res.FullNumber)
}
