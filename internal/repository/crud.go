package repository

import (
	"context"
	"fmt"
	"slices"

	"admincore/internal/apperrors"
	"admincore/internal/model"

	"gorm.io/gorm"
)

// Executor performs generic create/update/delete operations against any
// registered entity. Accepting model.Entity makes an unknown entity type a
// compile-time error; column names still get validated at runtime because
// they arrive from callers as strings.
type Executor struct {
	db *gorm.DB
}

func NewExecutor(db *gorm.DB) *Executor {
	return &Executor{db: db}
}

// Create inserts a typed record and leaves its generated id on the value.
func (e *Executor) Create(ctx context.Context, rec model.Entity) error {
	return GetDB(ctx, e.db).Create(rec).Error
}

// CreateMany bulk-inserts field maps for the prototype's entity type.
// Columns outside the entity's fillable set are dropped, mirroring
// mass-assignment protection. Empty input is a no-op success.
func (e *Executor) CreateMany(ctx context.Context, proto model.Entity, rows []map[string]interface{}) error {
	if len(rows) == 0 {
		return nil
	}
	fillable := proto.Fillable()
	filtered := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		clean := make(map[string]interface{}, len(row))
		for col, val := range row {
			if slices.Contains(fillable, col) {
				clean[col] = val
			}
		}
		filtered = append(filtered, clean)
	}
	return GetDB(ctx, e.db).Table(proto.TableName()).Create(filtered).Error
}

// Update applies a partial update: only the supplied fields change. Merging
// request-over-existing is the orchestration layer's job, not this one's.
// A field outside the fillable set fails with ErrInvalidColumn.
func (e *Executor) Update(ctx context.Context, rec model.Entity, fields map[string]interface{}) error {
	fillable := rec.Fillable()
	for col := range fields {
		if !slices.Contains(fillable, col) {
			return fmt.Errorf("%w: %s is not fillable on %s", apperrors.ErrInvalidColumn, col, rec.TableName())
		}
	}
	return GetDB(ctx, e.db).Model(rec).Updates(fields).Error
}

// Delete removes a record. Entities configured for soft deletion get a
// tombstone instead of a physical delete; when the schema carries an
// updated_by column the acting profile is stamped first so the tombstone
// stays attributable.
func (e *Executor) Delete(ctx context.Context, rec model.Entity, actor *uint) error {
	db := GetDB(ctx, e.db)
	if rec.UsesSoftDelete() && actor != nil && HasColumn(rec, "updated_by") {
		if err := db.Model(rec).Update("updated_by", *actor).Error; err != nil {
			return err
		}
	}
	return db.Delete(rec).Error
}

// DeleteMany removes every row whose column matches one of the keys.
// Fails with ErrInvalidColumn for columns absent from the schema; an empty
// key list is a no-op success.
func (e *Executor) DeleteMany(ctx context.Context, proto model.Entity, keys []uint, column string) error {
	if !HasColumn(proto, column) {
		return fmt.Errorf("%w: %s does not exist on %s", apperrors.ErrInvalidColumn, column, proto.TableName())
	}
	if len(keys) == 0 {
		return nil
	}
	return GetDB(ctx, e.db).Where(column+" IN ?", keys).Delete(proto).Error
}
