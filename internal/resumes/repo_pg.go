package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"resume-maker/internal/generation"
	"resume-maker/internal/shared/metrics"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const resumeColumns = `id, user_id, session_id, title, template_type, skills, experience_history,
    job_description, generated_sections, generation_source, version, is_editable, created_at, updated_at`

var pgSortColumns = map[string]string{
	SortByCreatedAt:    "created_at",
	SortByUpdatedAt:    "updated_at",
	SortByTemplateType: "template_type",
}

// Create inserts a resume.
func (r *PGRepo) Create(ctx context.Context, resume Resume) error {
	metrics.IncRepoOp("postgres", "create")
	args, err := insertArgs(resume)
	if err != nil {
		return err
	}
	const query = `
INSERT INTO resumes (
    id, user_id, session_id, title, template_type, skills, experience_history,
    job_description, generated_sections, generation_source, version, is_editable, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	if _, err := r.DB.ExecContext(ctx, query, args...); err != nil {
		metrics.IncError("pg_resume_repo", "create_error")
		return fmt.Errorf("insert resume: %w", err)
	}
	return nil
}

// GetByID returns a resume by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Resume, error) {
	metrics.IncRepoOp("postgres", "get")
	query := `SELECT ` + resumeColumns + ` FROM resumes WHERE id = $1 LIMIT 1`
	resume, err := scanResume(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		metrics.IncError("pg_resume_repo", "get_error")
		return Resume{}, err
	}
	return resume, nil
}

// List returns one page of matching resumes and the total match count.
func (r *PGRepo) List(ctx context.Context, q Query) ([]Resume, int, error) {
	metrics.IncRepoOp("postgres", "list")
	where, args := pgFilter(q)

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM resumes`+where, args...).Scan(&total); err != nil {
		metrics.IncError("pg_resume_repo", "count_error")
		return nil, 0, fmt.Errorf("count resumes: %w", err)
	}

	query := `SELECT ` + resumeColumns + ` FROM resumes` + where + pgOrder(q) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	rows, err := r.DB.QueryContext(ctx, query, append(args, q.Limit, q.Offset())...)
	if err != nil {
		metrics.IncError("pg_resume_repo", "list_error")
		return nil, 0, fmt.Errorf("list resumes: %w", err)
	}
	defer rows.Close()

	out := []Resume{}
	for rows.Next() {
		resume, err := scanResume(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, resume)
	}
	return out, total, rows.Err()
}

// Update replaces a resume when the stored version matches prevVersion.
func (r *PGRepo) Update(ctx context.Context, resume Resume, prevVersion int) error {
	metrics.IncRepoOp("postgres", "update")
	args, err := insertArgs(resume)
	if err != nil {
		return err
	}
	const query = `
UPDATE resumes SET
    user_id = $2, session_id = $3, title = $4, template_type = $5, skills = $6,
    experience_history = $7, job_description = $8, generated_sections = $9,
    generation_source = $10, version = $11, is_editable = $12, updated_at = $13
WHERE id = $1 AND version = $14`
	// created_at is immutable, so the insert layout is cut before it.
	updateArgs := append(args[:12:12], resume.Metadata.UpdatedAt, prevVersion)
	res, err := r.DB.ExecContext(ctx, query, updateArgs...)
	if err != nil {
		metrics.IncError("pg_resume_repo", "update_error")
		return fmt.Errorf("update resume: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return r.missingOrConflict(ctx, resume.ID)
	}
	return nil
}

func (r *PGRepo) missingOrConflict(ctx context.Context, id string) error {
	var version int
	err := r.DB.QueryRowContext(ctx, `SELECT version FROM resumes WHERE id = $1`, id).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return ErrConflict
}

// Delete removes a resume by ID.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	metrics.IncRepoOp("postgres", "delete")
	res, err := r.DB.ExecContext(ctx, `DELETE FROM resumes WHERE id = $1`, id)
	if err != nil {
		metrics.IncError("pg_resume_repo", "delete_error")
		return fmt.Errorf("delete resume: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Ping checks database connectivity.
func (r *PGRepo) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}

func pgFilter(q Query) (string, []any) {
	var clauses []string
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if q.UserID != "" {
		add("user_id", q.UserID)
	}
	if q.SessionID != "" {
		add("session_id", q.SessionID)
	}
	if q.TemplateType != "" {
		add("template_type", string(q.TemplateType))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func pgOrder(q Query) string {
	column, ok := pgSortColumns[q.SortBy]
	if !ok {
		column = "created_at"
	}
	dir := "DESC"
	if q.SortOrder == SortAsc {
		dir = "ASC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, created_at DESC, id ASC", column, dir)
}

func insertArgs(resume Resume) ([]any, error) {
	skills, err := json.Marshal(nonNilStrings(resume.Skills))
	if err != nil {
		return nil, fmt.Errorf("encode skills: %w", err)
	}
	history := resume.ExperienceHistory
	if history == nil {
		history = []generation.ExperienceEntry{}
	}
	experience, err := json.Marshal(history)
	if err != nil {
		return nil, fmt.Errorf("encode experience history: %w", err)
	}
	var sections any
	if resume.GeneratedSections != nil {
		raw, err := json.Marshal(resume.GeneratedSections)
		if err != nil {
			return nil, fmt.Errorf("encode generated sections: %w", err)
		}
		sections = string(raw)
	}
	return []any{
		resume.ID,
		nullString(resume.UserID),
		resume.SessionID,
		resume.Title,
		string(resume.TemplateType),
		string(skills),
		string(experience),
		resume.JobDescription,
		sections,
		string(resume.GenerationSource),
		resume.Metadata.Version,
		resume.Metadata.IsEditable,
		resume.Metadata.CreatedAt,
		resume.Metadata.UpdatedAt,
	}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResume(row rowScanner) (Resume, error) {
	var (
		resume     Resume
		userID     sql.NullString
		template   string
		skills     []byte
		experience []byte
		sections   []byte
		source     string
	)
	if err := row.Scan(
		&resume.ID,
		&userID,
		&resume.SessionID,
		&resume.Title,
		&template,
		&skills,
		&experience,
		&resume.JobDescription,
		&sections,
		&source,
		&resume.Metadata.Version,
		&resume.Metadata.IsEditable,
		&resume.Metadata.CreatedAt,
		&resume.Metadata.UpdatedAt,
	); err != nil {
		return Resume{}, err
	}
	resume.UserID = userID.String
	resume.TemplateType = generation.TemplateType(template)
	resume.GenerationSource = generation.Source(source)
	if len(skills) > 0 {
		if err := json.Unmarshal(skills, &resume.Skills); err != nil {
			return Resume{}, fmt.Errorf("decode skills: %w", err)
		}
	}
	if len(experience) > 0 {
		if err := json.Unmarshal(experience, &resume.ExperienceHistory); err != nil {
			return Resume{}, fmt.Errorf("decode experience history: %w", err)
		}
	}
	if len(sections) > 0 {
		var gs generation.GeneratedSections
		if err := json.Unmarshal(sections, &gs); err != nil {
			return Resume{}, fmt.Errorf("decode generated sections: %w", err)
		}
		resume.GeneratedSections = &gs
	}
	return resume, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

var _ Repo = (*PGRepo)(nil)
