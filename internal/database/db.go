package database

import (
	"admincore/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM and migrates
// every registered entity.
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate auto-migrates the entity registry.
func Migrate(db *gorm.DB) error {
	protos := model.All()
	models := make([]interface{}, 0, len(protos))
	for _, p := range protos {
		models = append(models, p)
	}
	return db.AutoMigrate(models...)
}
