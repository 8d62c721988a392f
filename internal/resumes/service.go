package resumes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-maker/internal/generation"
	"resume-maker/internal/shared/cache"
	"resume-maker/internal/shared/telemetry"
	"resume-maker/internal/shared/util"
)

// Generator produces resume sections. *generation.Client satisfies it.
type Generator interface {
	Generate(ctx context.Context, req generation.Request) generation.Outcome
}

// Service contains business logic for resumes.
type Service struct {
	Repo      Repo
	Generator Generator
	// Cache holds model-produced sections keyed by request hash. Optional.
	Cache cache.Cache
	Now   func() time.Time
	NewID func() string
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

// Create validates input, generates sections when requested and stores the resume.
func (s *Service) Create(ctx context.Context, in CreateInput) (Resume, error) {
	if in.TemplateType == "" {
		in.TemplateType = generation.TemplateFresher
	}
	resume := Resume{
		ID:                s.newID(),
		UserID:            strings.TrimSpace(in.UserID),
		SessionID:         strings.TrimSpace(in.SessionID),
		Title:             strings.TrimSpace(in.Title),
		TemplateType:      in.TemplateType,
		Skills:            trimAll(in.Skills),
		ExperienceHistory: in.ExperienceHistory,
		JobDescription:    strings.TrimSpace(in.JobDescription),
		GeneratedSections: in.GeneratedSections,
	}
	if err := validate(resume); err != nil {
		return Resume{}, err
	}

	generate := in.Generate == nil || *in.Generate
	if resume.GeneratedSections == nil && generate {
		sections, source := s.generate(ctx, resume.GenerationRequest())
		resume.GeneratedSections = &sections
		resume.GenerationSource = source
	}

	now := s.now()
	resume.Metadata = Metadata{CreatedAt: now, UpdatedAt: now, Version: 1, IsEditable: true}
	if err := s.Repo.Create(ctx, resume); err != nil {
		return Resume{}, err
	}
	telemetry.Info("resume.created", map[string]any{
		"resume_id":     resume.ID,
		"session_id":    resume.SessionID,
		"template_type": string(resume.TemplateType),
		"source":        string(resume.GenerationSource),
	})
	return resume, nil
}

// Get returns a resume owned by sessionID. Other sessions' resumes are reported as not found.
func (s *Service) Get(ctx context.Context, sessionID, id string) (Resume, error) {
	if strings.TrimSpace(id) == "" {
		return Resume{}, ErrInvalidInput
	}
	resume, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Resume{}, err
	}
	if sessionID != "" && resume.SessionID != sessionID {
		return Resume{}, ErrNotFound
	}
	return resume, nil
}

// List returns a page of resumes matching q.
func (s *Service) List(ctx context.Context, q Query) (Page, error) {
	q, err := normalizeQuery(q)
	if err != nil {
		return Page{}, err
	}
	items, total, err := s.Repo.List(ctx, q)
	if err != nil {
		return Page{}, err
	}
	return newPage(items, total, q), nil
}

// ListBySession returns every resume of a session, newest first.
func (s *Service) ListBySession(ctx context.Context, sessionID string) ([]Resume, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrInvalidInput
	}
	return s.listAll(ctx, Query{SessionID: sessionID})
}

// ListByUser returns every resume of a user, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]Resume, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidInput
	}
	return s.listAll(ctx, Query{UserID: userID})
}

func (s *Service) listAll(ctx context.Context, q Query) ([]Resume, error) {
	q.SortBy = SortByCreatedAt
	q.SortOrder = SortDesc
	q.Limit = MaxLimit
	var out []Resume
	for q.Page = 1; ; q.Page++ {
		items, total, err := s.Repo.List(ctx, q)
		if err != nil {
			return nil, err
		}
		out = append(out, items...)
		if len(items) == 0 || len(out) >= total {
			break
		}
	}
	if out == nil {
		out = []Resume{}
	}
	return out, nil
}

// Update applies a partial update and bumps the version.
func (s *Service) Update(ctx context.Context, sessionID, id string, in UpdateInput) (Resume, error) {
	if in.empty() {
		return Resume{}, fmt.Errorf("%w: at least one field is required", ErrInvalidInput)
	}
	resume, err := s.Get(ctx, sessionID, id)
	if err != nil {
		return Resume{}, err
	}
	if !resume.Metadata.IsEditable && in.touchesContent() {
		return Resume{}, ErrNotEditable
	}

	if in.Title != nil {
		resume.Title = strings.TrimSpace(*in.Title)
	}
	if in.TemplateType != nil {
		resume.TemplateType = *in.TemplateType
	}
	if in.Skills != nil {
		resume.Skills = trimAll(*in.Skills)
	}
	if in.ExperienceHistory != nil {
		resume.ExperienceHistory = *in.ExperienceHistory
	}
	if in.JobDescription != nil {
		resume.JobDescription = strings.TrimSpace(*in.JobDescription)
	}
	if in.GeneratedSections != nil {
		sections := *in.GeneratedSections
		resume.GeneratedSections = &sections
		resume.GenerationSource = ""
	}
	if in.IsEditable != nil {
		resume.Metadata.IsEditable = *in.IsEditable
	}
	if err := validate(resume); err != nil {
		return Resume{}, err
	}
	return s.save(ctx, resume)
}

// Regenerate re-runs generation on the stored inputs.
func (s *Service) Regenerate(ctx context.Context, sessionID, id string) (Resume, error) {
	resume, err := s.Get(ctx, sessionID, id)
	if err != nil {
		return Resume{}, err
	}
	if !resume.Metadata.IsEditable {
		return Resume{}, ErrNotEditable
	}
	sections, source := s.generate(ctx, resume.GenerationRequest())
	resume.GeneratedSections = &sections
	resume.GenerationSource = source
	return s.save(ctx, resume)
}

// Delete removes a resume owned by sessionID.
func (s *Service) Delete(ctx context.Context, sessionID, id string) error {
	if _, err := s.Get(ctx, sessionID, id); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	telemetry.Info("resume.deleted", map[string]any{"resume_id": id, "session_id": sessionID})
	return nil
}

func (s *Service) save(ctx context.Context, resume Resume) (Resume, error) {
	prev := resume.Metadata.Version
	resume.Metadata.Version = prev + 1
	resume.Metadata.UpdatedAt = s.now()
	if err := s.Repo.Update(ctx, resume, prev); err != nil {
		return Resume{}, err
	}
	return resume, nil
}

// generate returns cached model output when present; otherwise it calls the
// generator and caches the result only when it came from the model.
func (s *Service) generate(ctx context.Context, req generation.Request) (generation.GeneratedSections, generation.Source) {
	if s.Generator == nil {
		return generation.SynthesizeFallback(req), generation.SourceFallback
	}

	key, keyErr := sectionsCacheKey(req)
	if s.Cache != nil && keyErr == nil {
		raw, err := s.Cache.Get(ctx, key)
		switch {
		case err == nil:
			var sections generation.GeneratedSections
			if json.Unmarshal(raw, &sections) == nil {
				return sections, generation.SourceModel
			}
		case !errors.Is(err, cache.ErrMiss):
			telemetry.Warn("resume.cache_get_failed", map[string]any{"error": err})
		}
	}

	out := s.Generator.Generate(ctx, req)
	if out.Source == generation.SourceModel && s.Cache != nil && keyErr == nil {
		if raw, err := json.Marshal(out.Sections); err == nil {
			if err := s.Cache.Set(ctx, key, raw); err != nil {
				telemetry.Warn("resume.cache_set_failed", map[string]any{"error": err})
			}
		}
	}
	return out.Sections, out.Source
}

func sectionsCacheKey(req generation.Request) (string, error) {
	raw, err := json.Marshal(struct {
		Skills            []string                     `json:"skills"`
		ExperienceHistory []generation.ExperienceEntry `json:"experienceHistory"`
		JobDescription    string                       `json:"jobDescription"`
		TemplateType      generation.TemplateType      `json:"templateType"`
	}{req.Skills, req.ExperienceHistory, req.JobDescription, req.TemplateType})
	if err != nil {
		return "", err
	}
	return util.HashBytes(raw), nil
}

func validate(r Resume) error {
	if !r.TemplateType.Valid() {
		return fmt.Errorf("%w: templateType must be one of fresher, mid, senior", ErrInvalidInput)
	}
	if len(r.Skills) == 0 {
		return fmt.Errorf("%w: at least one skill is required", ErrInvalidInput)
	}
	for _, skill := range r.Skills {
		if skill == "" {
			return fmt.Errorf("%w: skills must not be empty", ErrInvalidInput)
		}
	}
	if len(r.Title) > MaxTitleLength {
		return fmt.Errorf("%w: title must be at most %d characters", ErrInvalidInput, MaxTitleLength)
	}
	if len(r.JobDescription) > MaxJobDescriptionLength {
		return fmt.Errorf("%w: jobDescription must be at most %d characters", ErrInvalidInput, MaxJobDescriptionLength)
	}
	for i, exp := range r.ExperienceHistory {
		if strings.TrimSpace(exp.Company) == "" || strings.TrimSpace(exp.Position) == "" {
			return fmt.Errorf("%w: experienceHistory[%d] requires company and position", ErrInvalidInput, i)
		}
		if exp.StartDate.IsZero() {
			return fmt.Errorf("%w: experienceHistory[%d] requires startDate", ErrInvalidInput, i)
		}
		if exp.EndDate != nil && exp.EndDate.Before(exp.StartDate) {
			return fmt.Errorf("%w: experienceHistory[%d] endDate precedes startDate", ErrInvalidInput, i)
		}
	}
	return nil
}

func normalizeQuery(q Query) (Query, error) {
	if q.Page == 0 {
		q.Page = DefaultPage
	}
	if q.Limit == 0 {
		q.Limit = DefaultLimit
	}
	if q.Page < 1 {
		return q, fmt.Errorf("%w: page must be at least 1", ErrInvalidInput)
	}
	if q.Limit < 1 || q.Limit > MaxLimit {
		return q, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidInput, MaxLimit)
	}
	if q.Page-1 > math.MaxInt32/q.Limit {
		return q, fmt.Errorf("%w: page is out of range", ErrInvalidInput)
	}
	switch q.SortBy {
	case "":
		q.SortBy = SortByCreatedAt
	case SortByCreatedAt, SortByUpdatedAt, SortByTemplateType:
	default:
		return q, fmt.Errorf("%w: sortBy must be one of createdAt, updatedAt, templateType", ErrInvalidInput)
	}
	switch q.SortOrder {
	case "":
		q.SortOrder = SortDesc
	case SortAsc, SortDesc:
	default:
		return q, fmt.Errorf("%w: sortOrder must be asc or desc", ErrInvalidInput)
	}
	if q.TemplateType != "" && !q.TemplateType.Valid() {
		return q, fmt.Errorf("%w: templateType must be one of fresher, mid, senior", ErrInvalidInput)
	}
	return q, nil
}

func trimAll(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}
