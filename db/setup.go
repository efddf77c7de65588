package db

import (
	"github.com/ahurasense/ahurasense/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDatabase(dsn string) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})

	if err != nil {
		return err
	}

	return nil
}

func MigrateDatabase() error {
	return Migrate(DB)
}

// Migrate runs the schema migration against an explicit connection so tests
// can reuse it with their own database.
func Migrate(conn *gorm.DB) error {
	entities := []interface{}{
		&models.User{},
		&models.Workspace{},
		&models.WorkspaceMembership{},
		&models.Project{},
		&models.ProjectMembership{},
		&models.IssueStatus{},
		&models.Issue{},
		&models.Sprint{},
		&models.Label{},
		&models.IssueComment{},
		&models.IssueAttachment{},
		&models.IssueHistory{},
		&models.IssueWatcher{},
		&models.Notification{},
	}

	migrator := conn.Migrator()

	for _, entity := range entities {
		if !migrator.HasTable(entity) {
			if err := conn.AutoMigrate(entity); err != nil {
				return err
			}
		}
	}

	return nil
}
