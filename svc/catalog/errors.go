package catalog

import "errors"

var (
	ErrEmptyCatalog  = errors.New("catalog: at least one plan tier is required")
	ErrPlanIDMissing = errors.New("catalog: plan tier has no provider plan id")
	ErrSlugMissing   = errors.New("catalog: plan tier has no slug")
	ErrDuplicateSlug = errors.New("catalog: slug or alias is used by more than one tier")
	ErrInvalidFile   = errors.New("catalog: invalid plans file")
)
