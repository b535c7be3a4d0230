package classify

import (
	"regexp"
	"strings"

	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/extract"
)

var (
	reGSTLabeled   = regexp.MustCompile(`(?i)gst(in)?\s*:?\s*[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]`)
	rePANLabeled   = regexp.MustCompile(`(?i)pan\s*:?\s*[A-Z]{5}[0-9]{4}[A-Z]`)
	reUdyamLabeled = regexp.MustCompile(`(?i)udyam[-\s][A-Z]{2}[-\s][0-9]{2}[-\s][0-9]{7}`)
	reDate         = regexp.MustCompile(`\d{1,2}[-/]\d{1,2}[-/]\d{2,4}`)
	rePrice        = regexp.MustCompile(`₹\s*\d+`)
)

// ExtractFeatures builds the numeric feature vector the classifier scores.
// Features mirror what the decision rules care about: identifier presence,
// signature and quotation markers, date/price density, and rough quality
// aggregates.
func ExtractFeatures(frags []extract.TextFragment) map[string]float64 {
	allText := extract.JoinText(frags)
	lower := strings.ToLower(allText)

	f := make(map[string]float64, 32)

	f["gst_present"] = boolFeature(reGSTLabeled.MatchString(allText))
	f["pan_present"] = boolFeature(rePANLabeled.MatchString(allText))
	f["udyam_present"] = boolFeature(reUdyamLabeled.MatchString(allText))
	f["signature_present"] = boolFeature(containsAny(lower, "signature", "signed", "authorized"))
	f["quotation_present"] = boolFeature(containsAny(lower, "quotation", "quote", "proposal"))

	// Validity proxies: presence stands in for validity at feature level;
	// the real validators run separately in the pipeline.
	f["gst_valid"] = f["gst_present"]
	f["pan_valid"] = f["pan_present"]
	f["udyam_valid"] = f["udyam_present"]
	f["quotation_valid"] = f["quotation_present"]

	f["gst_days_to_expiry"] = expiryFeature(f["gst_present"])
	f["udyam_days_to_expiry"] = expiryFeature(f["udyam_present"])

	pages := make(map[int]struct{})
	for _, fr := range frags {
		pages[fr.Page] = struct{}{}
	}
	f["num_pages"] = float64(len(pages))
	f["has_signature"] = f["signature_present"]
	f["has_delivery_date"] = boolFeature(containsAny(lower, "delivery", "dispatch", "within"))
	f["has_payment_terms"] = boolFeature(containsAny(lower, "payment", "terms", "advance"))
	f["has_warranty"] = boolFeature(strings.Contains(lower, "warranty"))

	f["text_length"] = float64(len(allText))
	f["num_dates_found"] = float64(len(reDate.FindAllString(allText, -1)))
	f["num_prices_found"] = float64(len(rePrice.FindAllString(allText, -1)))
	f["price_consistency"] = boolFeature(f["num_prices_found"] > 0)

	f["gst_validation_score"] = 100 * f["gst_present"]
	f["pan_validation_score"] = 100 * f["pan_present"]
	f["udyam_validation_score"] = 100 * f["udyam_present"]

	presence := (f["gst_present"] + f["pan_present"] + f["udyam_present"] + f["signature_present"]) / 4 * 100
	f["completeness_score"] = presence
	f["validity_score"] = (f["gst_valid"] + f["pan_valid"] + f["udyam_valid"]) / 3 * 100

	return f
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func expiryFeature(present float64) float64 {
	if present > 0 {
		return 365
	}
	return -365
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
