package content

import "errors"

var (
	// ErrTemplateNotFound is returned when no template has the requested id.
	ErrTemplateNotFound = errors.New("template not found")
	// ErrEquipmentNotFound is returned when no equipment has the requested id.
	ErrEquipmentNotFound = errors.New("equipment not found")
	// ErrInvalidTemplate is returned when a catalog entry cannot produce a project.
	ErrInvalidTemplate = errors.New("invalid template")
	// ErrEmptyCatalog is returned when a catalog payload has no templates.
	ErrEmptyCatalog = errors.New("catalog has no templates")
)
