package resumes

import "context"

// Repo defines persistence operations for resumes.
type Repo interface {
	Create(ctx context.Context, resume Resume) error
	GetByID(ctx context.Context, id string) (Resume, error)
	// List returns the page selected by a normalized query and the total match count.
	List(ctx context.Context, q Query) ([]Resume, int, error)
	// Update replaces the record if its stored version still equals prevVersion.
	Update(ctx context.Context, resume Resume, prevVersion int) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}
