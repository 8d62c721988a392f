package resumes

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"resume-maker/internal/generation"
)

func seedResume(id, session string, tpl generation.TemplateType, created time.Time) Resume {
	return Resume{
		ID:           id,
		SessionID:    session,
		TemplateType: tpl,
		Skills:       []string{"Go"},
		Metadata:     Metadata{CreatedAt: created, UpdatedAt: created, Version: 1, IsEditable: true},
	}
}

func TestMemoryRepoGetReturnsCopy(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	in := seedResume("r1", "s1", generation.TemplateMid, time.Now())
	in.GeneratedSections = &generation.GeneratedSections{Summary: "S"}
	if err := repo.Create(ctx, in); err != nil {
		t.Fatalf("Create: %v", err)
	}

	in.Skills[0] = "mutated"
	got, err := repo.GetByID(ctx, "r1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Skills[0] != "Go" {
		t.Fatalf("stored skills changed through caller slice: %v", got.Skills)
	}
	got.GeneratedSections.Summary = "changed"
	again, _ := repo.GetByID(ctx, "r1")
	if again.GeneratedSections.Summary != "S" {
		t.Fatalf("stored sections changed through returned pointer")
	}

	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryRepoListFiltersSortsAndPages(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		tpl := generation.TemplateMid
		if i%2 == 0 {
			tpl = generation.TemplateSenior
		}
		if err := repo.Create(ctx, seedResume(fmt.Sprintf("r%d", i), "s1", tpl, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	_ = repo.Create(ctx, seedResume("other", "s2", generation.TemplateMid, base))

	items, total, err := repo.List(ctx, Query{SessionID: "s1", SortBy: SortByCreatedAt, SortOrder: SortDesc, Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 5 || len(items) != 2 {
		t.Fatalf("total=%d len=%d, want 5 and 2", total, len(items))
	}
	if items[0].ID != "r4" || items[1].ID != "r3" {
		t.Fatalf("unexpected order %s,%s", items[0].ID, items[1].ID)
	}

	items, _, _ = repo.List(ctx, Query{SessionID: "s1", SortBy: SortByCreatedAt, SortOrder: SortAsc, Page: 3, Limit: 2})
	if len(items) != 1 || items[0].ID != "r4" {
		t.Fatalf("unexpected last page %+v", items)
	}

	items, total, _ = repo.List(ctx, Query{SessionID: "s1", TemplateType: generation.TemplateSenior, Page: 1, Limit: 10})
	if total != 3 || len(items) != 3 {
		t.Fatalf("template filter total=%d len=%d", total, len(items))
	}

	items, total, _ = repo.List(ctx, Query{SessionID: "s1", Page: 9, Limit: 10})
	if total != 5 || len(items) != 0 {
		t.Fatalf("out of range page total=%d len=%d", total, len(items))
	}
}

func TestMemoryRepoListTemplateSortBreaksTiesByNewest(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_ = repo.Create(ctx, seedResume("a", "s", generation.TemplateMid, base))
	_ = repo.Create(ctx, seedResume("b", "s", generation.TemplateMid, base.Add(time.Hour)))
	_ = repo.Create(ctx, seedResume("c", "s", generation.TemplateFresher, base))

	items, _, err := repo.List(ctx, Query{SortBy: SortByTemplateType, SortOrder: SortAsc, Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	got := []string{items[0].ID, items[1].ID, items[2].ID}
	want := []string{"c", "b", "a"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestMemoryRepoUpdateChecksVersion(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	r := seedResume("r1", "s1", generation.TemplateMid, time.Now())
	_ = repo.Create(ctx, r)

	r.Title = "New"
	r.Metadata.Version = 2
	if err := repo.Update(ctx, r, 1); err != nil {
		t.Fatalf("Update: %v", err)
	}
	r.Metadata.Version = 3
	if err := repo.Update(ctx, r, 1); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	r.ID = "missing"
	if err := repo.Update(ctx, r, 2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryRepoDelete(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	_ = repo.Create(ctx, seedResume("r1", "s1", generation.TemplateMid, time.Now()))

	if err := repo.Delete(ctx, "r1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, "r1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestMemoryRepoHonorsCanceledContext(t *testing.T) {
	repo := NewMemoryRepo()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := repo.Create(ctx, seedResume("r1", "s1", generation.TemplateMid, time.Now())); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if err := repo.Ping(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled from Ping, got %v", err)
	}
}
