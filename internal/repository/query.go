package repository

import (
	"context"
	"fmt"
	"strings"

	"admincore/internal/apperrors"
	"admincore/internal/model"

	"gorm.io/gorm"
)

// Resolver builds unexecuted, chainable read queries per entity. Callers
// terminate them with Find/First/Count; "not found" surfaces at that fetch
// boundary, not here.
type Resolver struct {
	db *gorm.DB
}

func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// Index returns a query over all records of the prototype's type.
func (r *Resolver) Index(ctx context.Context, proto model.Entity) *gorm.DB {
	return GetDB(ctx, r.db).Model(proto)
}

// Show returns a query filtered to rows matching column = key. The column is
// validated against the entity's schema before it reaches SQL.
func (r *Resolver) Show(ctx context.Context, proto model.Entity, key interface{}, column string) (*gorm.DB, error) {
	if !HasColumn(proto, column) {
		return nil, fmt.Errorf("%w: %s does not exist on %s", apperrors.ErrInvalidColumn, column, proto.TableName())
	}
	return GetDB(ctx, r.db).Model(proto).Where(column+" = ?", key), nil
}

// Search narrows a query to rows whose text columns contain the term,
// case-insensitively. Entities without text columns pass through unchanged.
func Search(q *gorm.DB, proto model.Entity, term string) *gorm.DB {
	term = strings.TrimSpace(term)
	if term == "" {
		return q
	}
	cols := StringColumns(proto)
	if len(cols) == 0 {
		return q
	}
	conds := make([]string, 0, len(cols))
	args := make([]interface{}, 0, len(cols))
	for _, col := range cols {
		conds = append(conds, "LOWER("+col+") LIKE ?")
		args = append(args, "%"+strings.ToLower(term)+"%")
	}
	return q.Where(strings.Join(conds, " OR "), args...)
}
