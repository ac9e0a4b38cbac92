package reward

import "errors"

var (
	// ErrProjectIncomplete is returned when resolving a project with an open stage.
	ErrProjectIncomplete = errors.New("project has incomplete stages")
	// ErrNoProject is returned when there is nothing to resolve.
	ErrNoProject = errors.New("no project")
)
