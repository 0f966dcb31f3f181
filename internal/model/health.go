package model

// HealthProfile is the input handed to the health-risk advisor: donor
// demographics plus whichever lab values were provided.
type HealthProfile struct {
	Name          string   `json:"name"`
	Age           int      `json:"age"`
	Gender        Gender   `json:"gender"`
	SugarLevel    *float64 `json:"sugar_level,omitempty"`
	UricAcidLevel *float64 `json:"uric_acid_level,omitempty"`
	WBCCount      *float64 `json:"wbc_count,omitempty"`
	RBCCount      *float64 `json:"rbc_count,omitempty"`
	Hemoglobin    *float64 `json:"hemoglobin,omitempty"`
	PlateletCount *float64 `json:"platelet_count,omitempty"`
}

// Assessment is the structured health-risk result. It is never absent:
// when the advisor fails the deterministic fallback produces one.
type Assessment struct {
	Summary             string `json:"summary"`
	NotificationMessage string `json:"notification_message"`
	FullText            string `json:"full_text"`
	Confidence          int    `json:"confidence"`
	HasAbnormalities    bool   `json:"has_abnormalities"`
}
