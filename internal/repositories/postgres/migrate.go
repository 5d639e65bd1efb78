package postgres

import (
	"github.com/yoockh/yoostory/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the relational tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Profile{},
		&models.WorkExperience{},
		&models.Project{},
		&models.ConversationTurn{},
	)
}
