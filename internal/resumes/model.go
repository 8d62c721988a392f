package resumes

import (
	"time"

	"resume-maker/internal/generation"
)

const (
	MaxTitleLength          = 100
	MaxJobDescriptionLength = 10000

	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Metadata tracks record lifecycle.
type Metadata struct {
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt" bson:"updatedAt"`
	Version    int       `json:"version" bson:"version"`
	IsEditable bool      `json:"isEditable" bson:"isEditable"`
}

// Resume is a stored resume with its generation inputs and output.
type Resume struct {
	ID                string                        `json:"id" bson:"_id"`
	UserID            string                        `json:"userId,omitempty" bson:"userId,omitempty"`
	SessionID         string                        `json:"sessionId,omitempty" bson:"sessionId,omitempty"`
	Title             string                        `json:"title,omitempty" bson:"title,omitempty"`
	TemplateType      generation.TemplateType       `json:"templateType" bson:"templateType"`
	Skills            []string                      `json:"skills" bson:"skills"`
	ExperienceHistory []generation.ExperienceEntry  `json:"experienceHistory" bson:"experienceHistory"`
	JobDescription    string                        `json:"jobDescription,omitempty" bson:"jobDescription,omitempty"`
	GeneratedSections *generation.GeneratedSections `json:"generatedSections,omitempty" bson:"generatedSections,omitempty"`
	GenerationSource  generation.Source             `json:"generationSource,omitempty" bson:"generationSource,omitempty"`
	Metadata          Metadata                      `json:"metadata" bson:"metadata"`
}

// GenerationRequest returns the generator input stored on r.
func (r Resume) GenerationRequest() generation.Request {
	return generation.Request{
		Skills:            r.Skills,
		ExperienceHistory: r.ExperienceHistory,
		JobDescription:    r.JobDescription,
		TemplateType:      r.TemplateType,
	}
}

// Sort keys accepted by List.
const (
	SortByCreatedAt    = "createdAt"
	SortByUpdatedAt    = "updatedAt"
	SortByTemplateType = "templateType"

	SortAsc  = "asc"
	SortDesc = "desc"
)

// Query filters and paginates List.
type Query struct {
	UserID       string
	SessionID    string
	TemplateType generation.TemplateType
	SortBy       string
	SortOrder    string
	Page         int
	Limit        int
}

// Offset is the number of records skipped before the page.
func (q Query) Offset() int {
	return (q.Page - 1) * q.Limit
}

// Page is one page of List results.
type Page struct {
	Items      []Resume
	Total      int
	Page       int
	Limit      int
	TotalPages int
	HasNext    bool
	HasPrev    bool
}

func newPage(items []Resume, total int, q Query) Page {
	totalPages := 0
	if q.Limit > 0 {
		totalPages = (total + q.Limit - 1) / q.Limit
	}
	if items == nil {
		items = []Resume{}
	}
	return Page{
		Items:      items,
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: totalPages,
		HasNext:    q.Page < totalPages,
		HasPrev:    q.Page > 1,
	}
}

// CreateInput is the payload for Service.Create.
type CreateInput struct {
	UserID            string
	SessionID         string
	Title             string
	TemplateType      generation.TemplateType
	Skills            []string
	ExperienceHistory []generation.ExperienceEntry
	JobDescription    string
	GeneratedSections *generation.GeneratedSections
	// Generate defaults to true; ignored when GeneratedSections is supplied.
	Generate *bool
}

// UpdateInput is a partial update. Nil fields are left unchanged.
type UpdateInput struct {
	Title             *string
	TemplateType      *generation.TemplateType
	Skills            *[]string
	ExperienceHistory *[]generation.ExperienceEntry
	JobDescription    *string
	GeneratedSections *generation.GeneratedSections
	IsEditable        *bool
}

func (u UpdateInput) empty() bool {
	return !u.touchesContent() && u.IsEditable == nil
}

func (u UpdateInput) touchesContent() bool {
	return u.Title != nil || u.TemplateType != nil || u.Skills != nil ||
		u.ExperienceHistory != nil || u.JobDescription != nil || u.GeneratedSections != nil
}
