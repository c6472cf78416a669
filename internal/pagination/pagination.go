package pagination

import (
	"gorm.io/gorm"
)

// Sort orders accepted by listing endpoints.
const (
	SortDateAsc  = "date"
	SortDateDesc = "-date"
)

// DefaultLimit caps unbounded administrative listings.
const DefaultLimit = 100

// ListRequest holds listing parameters parsed from query strings.
// A zero Limit means no limit and an empty Sort keeps the store order.
type ListRequest struct {
	Limit int    `form:"limit" binding:"omitempty,min=1,max=1000"`
	Sort  string `form:"sort" binding:"omitempty,record_sort"`
}

// Defaults fills in the administrative defaults: the first DefaultLimit
// records, newest first.
func (l *ListRequest) Defaults() {
	if l.Limit == 0 {
		l.Limit = DefaultLimit
	}
	if l.Sort == "" {
		l.Sort = SortDateDesc
	}
}

// Apply returns a GORM scope that applies the requested order and limit.
func Apply(req ListRequest) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch req.Sort {
		case SortDateAsc:
			db = db.Order("date ASC")
		case SortDateDesc:
			db = db.Order("date DESC")
		}
		if req.Limit > 0 {
			db = db.Limit(req.Limit)
		}
		return db
	}
}
