package validate

// Set collects per-field validation results for one document set. Nil
// members mean the check never ran (field absent).
type Set struct {
	GST               *GSTResult          `json:"gst_number,omitempty"`
	PAN               *PANResult          `json:"pan_number,omitempty"`
	Udyam             *UdyamResult        `json:"udyam_number,omitempty"`
	Date              *DateResult         `json:"quotation_date,omitempty"`
	Signature         *SignatureResult    `json:"signature,omitempty"`
	NameConsistency   *NameResult         `json:"name_consistency,omitempty"`
	GSTPANConsistency *ConsistencyResult  `json:"gst_pan_consistency,omitempty"`
	Completeness      *CompletenessResult `json:"completeness,omitempty"`
}

// IdentifierValid reports whether the named identifier field validated.
func (s *Set) IdentifierValid(field string) bool {
	if s == nil {
		return false
	}
	switch field {
	case "gst_number":
		return s.GST != nil && s.GST.Valid
	case "pan_number":
		return s.PAN != nil && s.PAN.Valid
	case "udyam_number":
		return s.Udyam != nil && s.Udyam.Valid
	}
	return false
}

// SignatureFound reports whether the signature check ran and found one.
func (s *Set) SignatureFound() bool {
	return s != nil && s.Signature != nil && s.Signature.Found
}

// NamesConsistent defaults to true when the check never ran.
func (s *Set) NamesConsistent() bool {
	if s == nil || s.NameConsistency == nil {
		return true
	}
	return s.NameConsistency.Consistent
}
