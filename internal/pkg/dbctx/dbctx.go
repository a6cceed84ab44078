package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context bundles a request context with an optional GORM transaction.
// Services open their own transaction when Tx is nil and reuse the
// caller's when it is set.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}
