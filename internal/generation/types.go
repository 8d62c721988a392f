package generation

import "time"

// TemplateType is the seniority level a resume is written for.
type TemplateType string

const (
	TemplateFresher TemplateType = "fresher"
	TemplateMid     TemplateType = "mid"
	TemplateSenior  TemplateType = "senior"
)

// Valid reports whether t is one of the known template types.
func (t TemplateType) Valid() bool {
	switch t {
	case TemplateFresher, TemplateMid, TemplateSenior:
		return true
	default:
		return false
	}
}

// ExperienceEntry is a single position in a candidate's work history.
type ExperienceEntry struct {
	Company      string     `json:"company" bson:"company"`
	Position     string     `json:"position" bson:"position"`
	StartDate    time.Time  `json:"startDate" bson:"startDate"`
	EndDate      *time.Time `json:"endDate,omitempty" bson:"endDate,omitempty"`
	Description  string     `json:"description,omitempty" bson:"description,omitempty"`
	Achievements []string   `json:"achievements,omitempty" bson:"achievements,omitempty"`
}

// Request is the structured input for one generation call.
type Request struct {
	Skills            []string
	ExperienceHistory []ExperienceEntry
	JobDescription    string
	TemplateType      TemplateType
}

// GeneratedSections is the only output shape of a generation call.
// All four fields are always present in JSON, possibly empty.
type GeneratedSections struct {
	Summary    string `json:"summary" bson:"summary"`
	Skills     string `json:"skills" bson:"skills"`
	Experience string `json:"experience" bson:"experience"`
	Education  string `json:"education" bson:"education"`
}

// Source names the path that produced a set of sections.
type Source string

const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
	SourceMock     Source = "mock"
)

// Outcome describes a finished generation call.
type Outcome struct {
	Sections GeneratedSections
	Source   Source
	Attempts int
	// Err is the absorbed failure that caused a fallback, if any.
	Err error
}
