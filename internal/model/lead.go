package model

import "time"

// LeadSource identifies where a lead was discovered.
type LeadSource string

const (
	SourceReddit  LeadSource = "reddit"
	SourceTwitter LeadSource = "twitter"
	SourceDiscord LeadSource = "discord"
	SourceManual  LeadSource = "manual"
	SourceImport  LeadSource = "import"
)

// Valid reports whether s is a known lead source.
func (s LeadSource) Valid() bool {
	switch s {
	case SourceReddit, SourceTwitter, SourceDiscord, SourceManual, SourceImport:
		return true
	}
	return false
}

// LeadStatus tracks a lead through the outreach funnel.
type LeadStatus string

const (
	LeadNew       LeadStatus = "new"
	LeadContacted LeadStatus = "contacted"
	LeadResponded LeadStatus = "responded"
	LeadConverted LeadStatus = "converted"
	LeadRejected  LeadStatus = "rejected"
)

// Valid reports whether s is a known lead status.
func (s LeadStatus) Valid() bool {
	switch s {
	case LeadNew, LeadContacted, LeadResponded, LeadConverted, LeadRejected:
		return true
	}
	return false
}

// Lead is a potential community member discovered on an external platform
// or entered manually. Scoring fields are filled by the intent scorer.
type Lead struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	Name            string     `json:"name,omitempty"`
	Email           string     `json:"email,omitempty"`
	Username        string     `json:"username,omitempty"`
	ProfileURL      string     `json:"profile_url,omitempty"`
	Source          LeadSource `json:"source"`
	Status          LeadStatus `json:"status"`
	Content         string     `json:"content,omitempty"`
	IntentScore     float64    `json:"intent_score"`
	QualityGrade    string     `json:"quality_grade,omitempty"` // A, B, C, D
	Interests       []string   `json:"interests,omitempty"`
	PainPoints      []string   `json:"pain_points,omitempty"`
	Summary         string     `json:"summary,omitempty"`
	ContactMethod   string     `json:"contact_method,omitempty"`
	ContactCount    int        `json:"contact_count"`
	LastContacted   *time.Time `json:"last_contacted,omitempty"`
	ConvertedAt     *time.Time `json:"converted_at,omitempty"`
	ConversionValue float64    `json:"conversion_value,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
