package resumes

import (
	"context"
	"sort"
	"sync"

	"resume-maker/internal/generation"
	"resume-maker/internal/shared/metrics"
)

// MemoryRepo stores resumes in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Resume
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Resume)}
}

// Create stores the resume.
func (r *MemoryRepo) Create(ctx context.Context, resume Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	metrics.IncRepoOp("memory", "create")
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[resume.ID] = clone(resume)
	return nil
}

// GetByID returns a resume by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	metrics.IncRepoOp("memory", "get")
	r.mu.RLock()
	defer r.mu.RUnlock()
	resume, ok := r.byID[id]
	if !ok {
		return Resume{}, ErrNotFound
	}
	return clone(resume), nil
}

// List filters, sorts and pages the stored resumes.
func (r *MemoryRepo) List(ctx context.Context, q Query) ([]Resume, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	metrics.IncRepoOp("memory", "list")

	r.mu.RLock()
	matched := make([]Resume, 0, len(r.byID))
	for _, resume := range r.byID {
		if matches(resume, q) {
			matched = append(matched, resume)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return less(matched[i], matched[j], q)
	})

	total := len(matched)
	offset := q.Offset()
	if offset < 0 || offset >= total {
		return []Resume{}, total, nil
	}
	end := total
	if q.Limit > 0 && offset+q.Limit < end {
		end = offset + q.Limit
	}
	out := make([]Resume, 0, end-offset)
	for _, resume := range matched[offset:end] {
		out = append(out, clone(resume))
	}
	return out, total, nil
}

// Update replaces a resume when the stored version matches prevVersion.
func (r *MemoryRepo) Update(ctx context.Context, resume Resume, prevVersion int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	metrics.IncRepoOp("memory", "update")
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.byID[resume.ID]
	if !ok {
		return ErrNotFound
	}
	if current.Metadata.Version != prevVersion {
		return ErrConflict
	}
	r.byID[resume.ID] = clone(resume)
	return nil
}

// Delete removes a resume by ID.
func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	metrics.IncRepoOp("memory", "delete")
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// Ping always succeeds.
func (r *MemoryRepo) Ping(ctx context.Context) error {
	return ctx.Err()
}

func matches(resume Resume, q Query) bool {
	if q.UserID != "" && resume.UserID != q.UserID {
		return false
	}
	if q.SessionID != "" && resume.SessionID != q.SessionID {
		return false
	}
	if q.TemplateType != "" && resume.TemplateType != q.TemplateType {
		return false
	}
	return true
}

// less orders by the query's sort key, breaking ties by newest first and then ID.
func less(a, b Resume, q Query) bool {
	var cmp int
	switch q.SortBy {
	case SortByUpdatedAt:
		cmp = compareTime(a.Metadata.UpdatedAt.UnixNano(), b.Metadata.UpdatedAt.UnixNano())
	case SortByTemplateType:
		cmp = compareString(string(a.TemplateType), string(b.TemplateType))
	default:
		cmp = compareTime(a.Metadata.CreatedAt.UnixNano(), b.Metadata.CreatedAt.UnixNano())
	}
	if cmp != 0 {
		if q.SortOrder == SortAsc {
			return cmp < 0
		}
		return cmp > 0
	}
	if c := compareTime(a.Metadata.CreatedAt.UnixNano(), b.Metadata.CreatedAt.UnixNano()); c != 0 {
		return c > 0
	}
	return a.ID < b.ID
}

func compareTime(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// clone copies the slices and pointers of r so callers cannot mutate stored state.
func clone(r Resume) Resume {
	out := r
	if r.Skills != nil {
		out.Skills = append([]string(nil), r.Skills...)
	}
	if r.ExperienceHistory != nil {
		out.ExperienceHistory = make([]generation.ExperienceEntry, len(r.ExperienceHistory))
		for i, exp := range r.ExperienceHistory {
			if exp.Achievements != nil {
				exp.Achievements = append([]string(nil), exp.Achievements...)
			}
			if exp.EndDate != nil {
				end := *exp.EndDate
				exp.EndDate = &end
			}
			out.ExperienceHistory[i] = exp
		}
	}
	if r.GeneratedSections != nil {
		sections := *r.GeneratedSections
		out.GeneratedSections = &sections
	}
	return out
}

var _ Repo = (*MemoryRepo)(nil)
