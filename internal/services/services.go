package services

import (
	"gorm.io/gorm"

	"github.com/yungbote/roadmaphub-backend/internal/pkg/dbctx"
)

// runInTx reuses the caller's transaction when one is threaded through
// dbc, otherwise opens a new one. Multi-write service operations go
// through here so they apply as a single logical unit.
func runInTx(db *gorm.DB, dbc dbctx.Context, fn func(dbc dbctx.Context) error) error {
	if dbc.Tx != nil {
		return fn(dbc)
	}
	if db == nil {
		return fn(dbc)
	}
	return db.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: dbc.Ctx, Tx: tx})
	})
}
