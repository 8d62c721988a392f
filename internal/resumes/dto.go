package resumes

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"resume-maker/internal/generation"
)

// Date accepts RFC 3339 timestamps or plain YYYY-MM-DD dates.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("invalid date %q", raw)
}

type experienceRequest struct {
	Company      string   `json:"company" binding:"required,max=200"`
	Position     string   `json:"position" binding:"required,max=200"`
	StartDate    Date     `json:"startDate"`
	EndDate      *Date    `json:"endDate"`
	Description  string   `json:"description" binding:"max=2000"`
	Achievements []string `json:"achievements" binding:"omitempty,dive,required"`
}

func (e experienceRequest) entry() generation.ExperienceEntry {
	out := generation.ExperienceEntry{
		Company:      strings.TrimSpace(e.Company),
		Position:     strings.TrimSpace(e.Position),
		StartDate:    e.StartDate.Time,
		Description:  strings.TrimSpace(e.Description),
		Achievements: e.Achievements,
	}
	if e.EndDate != nil && !e.EndDate.IsZero() {
		end := e.EndDate.Time
		out.EndDate = &end
	}
	return out
}

func entries(in []experienceRequest) []generation.ExperienceEntry {
	if in == nil {
		return nil
	}
	out := make([]generation.ExperienceEntry, 0, len(in))
	for _, e := range in {
		out = append(out, e.entry())
	}
	return out
}

type createRequest struct {
	UserID            string                        `json:"userId" binding:"max=200"`
	Title             string                        `json:"title" binding:"max=100"`
	TemplateType      string                        `json:"templateType" binding:"omitempty,oneof=fresher mid senior"`
	Skills            []string                      `json:"skills" binding:"required,min=1,dive,required"`
	ExperienceHistory []experienceRequest           `json:"experienceHistory" binding:"omitempty,dive"`
	JobDescription    string                        `json:"jobDescription" binding:"max=10000"`
	GeneratedSections *generation.GeneratedSections `json:"generatedSections"`
	Generate          *bool                         `json:"generate"`
}

func (r createRequest) input(sessionID string) CreateInput {
	return CreateInput{
		UserID:            r.UserID,
		SessionID:         sessionID,
		Title:             r.Title,
		TemplateType:      generation.TemplateType(r.TemplateType),
		Skills:            r.Skills,
		ExperienceHistory: entries(r.ExperienceHistory),
		JobDescription:    r.JobDescription,
		GeneratedSections: r.GeneratedSections,
		Generate:          r.Generate,
	}
}

type updateRequest struct {
	Title             *string                       `json:"title" binding:"omitempty,max=100"`
	TemplateType      *string                       `json:"templateType" binding:"omitempty,oneof=fresher mid senior"`
	Skills            []string                      `json:"skills" binding:"omitempty,dive,required"`
	ExperienceHistory []experienceRequest           `json:"experienceHistory" binding:"omitempty,dive"`
	JobDescription    *string                       `json:"jobDescription" binding:"omitempty,max=10000"`
	GeneratedSections *generation.GeneratedSections `json:"generatedSections"`
	IsEditable        *bool                         `json:"isEditable"`
}

func (r updateRequest) input() UpdateInput {
	in := UpdateInput{
		Title:             r.Title,
		JobDescription:    r.JobDescription,
		GeneratedSections: r.GeneratedSections,
		IsEditable:        r.IsEditable,
	}
	if r.TemplateType != nil {
		t := generation.TemplateType(*r.TemplateType)
		in.TemplateType = &t
	}
	if r.Skills != nil {
		skills := r.Skills
		in.Skills = &skills
	}
	if r.ExperienceHistory != nil {
		history := entries(r.ExperienceHistory)
		in.ExperienceHistory = &history
	}
	return in
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
