package resumes

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"resume-maker/internal/generation"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func resumeRow(id string, now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "session_id", "title", "template_type", "skills", "experience_history",
		"job_description", "generated_sections", "generation_source", "version", "is_editable", "created_at", "updated_at",
	}).AddRow(
		id, nil, "s1", "Backend", "senior",
		[]byte(`["Go","SQL"]`),
		[]byte(`[{"company":"Acme","position":"Engineer","startDate":"2020-01-01T00:00:00Z"}]`),
		"jd",
		[]byte(`{"summary":"S","skills":"K","experience":"E","education":"Ed"}`),
		"model", 2, true, now, now,
	)
}

func TestPGRepoCreate(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()
	resume := Resume{
		ID:           "r1",
		SessionID:    "s1",
		Title:        "Backend",
		TemplateType: generation.TemplateMid,
		Skills:       []string{"Go"},
		Metadata:     Metadata{CreatedAt: now, UpdatedAt: now, Version: 1, IsEditable: true},
	}

	mock.ExpectExec("INSERT INTO resumes").
		WithArgs(
			"r1",
			nil, // user_id
			"s1",
			"Backend",
			"mid",
			`["Go"]`,
			`[]`,
			"",
			nil, // generated_sections
			"",
			1,
			true,
			now,
			now,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), resume); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByID(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()
	mock.ExpectQuery("SELECT .* FROM resumes WHERE id = \\$1").
		WithArgs("r1").
		WillReturnRows(resumeRow("r1", now))

	got, err := repo.GetByID(context.Background(), "r1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.TemplateType != generation.TemplateSenior || len(got.Skills) != 2 || got.UserID != "" {
		t.Fatalf("unexpected resume %+v", got)
	}
	if got.GeneratedSections == nil || got.GeneratedSections.Education != "Ed" {
		t.Fatalf("sections not decoded: %+v", got.GeneratedSections)
	}
	if len(got.ExperienceHistory) != 1 || got.ExperienceHistory[0].Company != "Acme" {
		t.Fatalf("experience not decoded: %+v", got.ExperienceHistory)
	}
	if got.Metadata.Version != 2 || got.GenerationSource != generation.SourceModel {
		t.Fatalf("unexpected metadata %+v source %q", got.Metadata, got.GenerationSource)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT .* FROM resumes WHERE id = \\$1").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoListBuildsFilterAndOrder(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()
	q := Query{SessionID: "s1", TemplateType: generation.TemplateSenior, SortBy: SortByUpdatedAt, SortOrder: SortAsc, Page: 2, Limit: 5}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM resumes WHERE session_id = $1 AND template_type = $2")).
		WithArgs("s1", "senior").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(6))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE session_id = $1 AND template_type = $2 ORDER BY updated_at ASC, created_at DESC, id ASC LIMIT $3 OFFSET $4")).
		WithArgs("s1", "senior", 5, 5).
		WillReturnRows(resumeRow("r6", now))

	items, total, err := repo.List(context.Background(), q)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 6 || len(items) != 1 || items[0].ID != "r6" {
		t.Fatalf("unexpected result total=%d items=%+v", total, items)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpdate(t *testing.T) {
	now := time.Now().UTC()
	resume := Resume{
		ID:           "r1",
		SessionID:    "s1",
		TemplateType: generation.TemplateMid,
		Skills:       []string{"Go"},
		Metadata:     Metadata{CreatedAt: now, UpdatedAt: now, Version: 3, IsEditable: true},
	}

	t.Run("success", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec("UPDATE resumes SET").
			WithArgs("r1", nil, "s1", "", "mid", `["Go"]`, `[]`, "", nil, "", 3, true, now, 2).
			WillReturnResult(sqlmock.NewResult(0, 1))
		if err := repo.Update(context.Background(), resume, 2); err != nil {
			t.Fatalf("Update: %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("ExpectationsWereMet: %v", err)
		}
	})

	t.Run("conflict", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec("UPDATE resumes SET").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT version FROM resumes WHERE id = \\$1").
			WithArgs("r1").
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(5))
		if err := repo.Update(context.Background(), resume, 2); !errors.Is(err, ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec("UPDATE resumes SET").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT version FROM resumes WHERE id = \\$1").
			WithArgs("r1").
			WillReturnRows(sqlmock.NewRows([]string{"version"}))
		if err := repo.Update(context.Background(), resume, 2); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestPGRepoDelete(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("DELETE FROM resumes WHERE id = \\$1").
		WithArgs("r1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM resumes WHERE id = \\$1").
		WithArgs("r2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "r1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(context.Background(), "r2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGOrderDefaultsToCreatedAt(t *testing.T) {
	got := pgOrder(Query{SortBy: "bogus"})
	if got != " ORDER BY created_at DESC, created_at DESC, id ASC" {
		t.Fatalf("unexpected order clause %q", got)
	}
}
