package repository

import (
	"context"

	"gorm.io/gorm"
)

// conn returns tx when the caller is inside a transaction, otherwise the
// repository's own pool handle. Either way the result carries ctx.
func conn(ctx context.Context, db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

func paginate(page, limit, def, max int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > max {
		limit = def
	}
	return page, limit, (page - 1) * limit
}
