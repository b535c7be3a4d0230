package validate

import (
	"fmt"
	"strings"
)

// ConsistencyResult is the outcome of the GST/PAN cross-document check.
type ConsistencyResult struct {
	Consistent bool   `json:"consistent"`
	Error      string `json:"error,omitempty"`
	Message    string `json:"message,omitempty"`
	GSTPAN     string `json:"gst_pan,omitempty"`
	PAN        string `json:"pan,omitempty"`
}

// CheckGSTPANConsistency verifies that the PAN embedded in a GST number
// (characters 3-12) equals the PAN on record.
func CheckGSTPANConsistency(gst, pan string) ConsistencyResult {
	if gst == "" || pan == "" {
		return ConsistencyResult{Error: "Missing GST or PAN"}
	}

	gst = strings.ToUpper(strings.TrimSpace(gst))
	pan = strings.ToUpper(strings.TrimSpace(pan))

	if len(gst) < 12 {
		return ConsistencyResult{Error: "Invalid GST"}
	}
	gstPAN := gst[2:12]

	if gstPAN == pan {
		return ConsistencyResult{
			Consistent: true,
			Message:    "PAN matches",
			GSTPAN:     gstPAN,
			PAN:        pan,
		}
	}
	return ConsistencyResult{
		Error:   "PAN mismatch",
		GSTPAN:  gstPAN,
		PAN:     pan,
		Message: fmt.Sprintf("GST contains PAN %s, but PAN card shows %s", gstPAN, pan),
	}
}
