package models

// Equipment is a row of the equipment catalog.
type Equipment struct {
	ID          int64  `json:"id"`
	Name        string `json:"name" validate:"required"`
	MuscleGroup string `json:"muscle_group"`
}

// CatalogExercise is a row of the read-only exercise catalog.
type CatalogExercise struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Muscle    string `json:"muscle"`
	Equipment string `json:"equipment"`
	ImageURL  string `json:"image_url"`
}

// CatalogQuery filters and pages the exercise catalog.
type CatalogQuery struct {
	Page      int
	Limit     int
	Name      string
	Muscle    string
	Equipment string
}

const (
	DefaultCatalogLimit = 20
	MaxCatalogLimit     = 100
)

// Offset returns the row offset of the 1-based page.
func (q CatalogQuery) Offset() int {
	page := q.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * q.PageSize()
}

// PageSize returns Limit clamped to [1, MaxCatalogLimit], defaulting to DefaultCatalogLimit.
func (q CatalogQuery) PageSize() int {
	switch {
	case q.Limit <= 0:
		return DefaultCatalogLimit
	case q.Limit > MaxCatalogLimit:
		return MaxCatalogLimit
	}
	return q.Limit
}
