// Package repository holds the gorm query templates the services are built
// on. Repositories are cheap values bound to a *gorm.DB, so a service binds
// them per call to either the request-scoped handle or a transaction.
package repository

import (
	"gorm.io/gorm"
)

// Window is a 0-indexed page request translated to offset/limit.
type Window struct {
	Page int
	Size int
}

func (w Window) Offset() int { return w.Page * w.Size }

func paginate(w Window) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(w.Offset()).Limit(w.Size)
	}
}

// containsClause matches a case-sensitive substring against title OR content.
// LIKE is case-insensitive on SQLite and on MySQL's default collations, so a
// position function is used per dialect instead.
func containsClause(db *gorm.DB) string {
	switch db.Dialector.Name() {
	case "sqlite":
		return "(instr(title, ?) > 0 OR instr(content, ?) > 0)"
	case "postgres":
		return "(strpos(title, ?) > 0 OR strpos(content, ?) > 0)"
	default:
		return "(LOCATE(?, CAST(title AS BINARY)) > 0 OR LOCATE(?, CAST(content AS BINARY)) > 0)"
	}
}
