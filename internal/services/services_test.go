package services

import (
	"fmt"
	"testing"

	"github.com/M-Alradhi/gradproject-api/internal/database"
	"github.com/M-Alradhi/gradproject-api/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory database with the full schema. The connection
// pool is capped at one so concurrent fan-out writers share the same
// in-memory database instead of each getting an empty one.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.ProjectIdea{},
		&models.IdeaTeamMember{},
		&models.Project{},
		&models.ProjectSupervisor{},
		&models.ProjectMember{},
		&models.Task{},
		&models.TaskFile{},
		&models.MeetingRequest{},
		&models.Meeting{},
		&models.Notification{},
	))

	database.SetDB(db)

	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

func createUser(t *testing.T, db *gorm.DB, name string, role models.UserRole) *models.User {
	t.Helper()

	user := &models.User{
		Name:         name,
		Email:        fmt.Sprintf("%s@example.edu", name),
		PasswordHash: "x",
		Role:         role,
	}
	if role == models.RoleStudent {
		user.StudentNumber = fmt.Sprintf("S-%s", name)
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createAvailableIdea(t *testing.T, db *gorm.DB, title string, supervisorID uint64) *models.ProjectIdea {
	t.Helper()

	idea := &models.ProjectIdea{
		Title:        title,
		Description:  "test idea",
		Status:       models.IdeaStatusAvailable,
		SupervisorID: &supervisorID,
	}
	require.NoError(t, db.Create(idea).Error)
	return idea
}
