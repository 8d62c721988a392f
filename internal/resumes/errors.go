package resumes

import "errors"

var (
	// ErrNotFound indicates the resume does not exist or belongs to another session.
	ErrNotFound = errors.New("resume not found")

	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotEditable is returned when content edits target a locked resume.
	ErrNotEditable = errors.New("resume is not editable")

	// ErrConflict indicates a concurrent update changed the stored version.
	ErrConflict = errors.New("resume was modified concurrently")
)
