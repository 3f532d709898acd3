package model

import "time"

// ReportDimension is one banded dimension row in a report snapshot
type ReportDimension struct {
	Code       string   `json:"code"`
	Name       string   `json:"name"`
	Score      *float64 `json:"score"`
	Band       string   `json:"band"`
	Overridden bool     `json:"overridden"`
}

// ReportIndex is one banded aggregate index row
type ReportIndex struct {
	Name  string   `json:"name"`
	Score *float64 `json:"score"`
	Band  string   `json:"band"`
}

// ReportSnapshot is the data handed to the external renderer once an
// assessment is approved. Rendering and delivery live outside this service.
type ReportSnapshot struct {
	CaseID          string            `json:"caseId"`
	InstrumentID    string            `json:"instrumentId"`
	InstrumentTitle string            `json:"instrumentTitle"`
	Respondent      string            `json:"respondent,omitempty"`
	Dimensions      []ReportDimension `json:"dimensions"`
	Indices         []ReportIndex     `json:"indices"`
	Hits            []RuleHit         `json:"hits"`
	Confidence      Confidence        `json:"confidence"`
	ReviewedBy      string            `json:"reviewedBy"`
	ApprovedAt      time.Time         `json:"approvedAt"`
	GeneratedAt     time.Time         `json:"generatedAt"`
}
