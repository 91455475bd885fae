package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Sibling task rows are looked up by (project_id, title) on every
		// submit/grade fan-out.
		{"tasks", "idx_tasks_project_title_status", "project_id, title, status"},
		{"tasks", "idx_tasks_student_status", "student_id, status"},

		// Member resolution falls back to email and student number lookups.
		{"users", "idx_users_email_lower", "email"},
		{"users", "idx_users_student_number", "student_number"},
		{"users", "idx_users_supervisor_id", "supervisor_id"},
		{"users", "idx_users_project_id", "project_id"},

		{"idea_team_members", "idx_idea_members_idea_id", "idea_id"},
		{"project_members", "idx_project_members_project_id", "project_id"},

		{"notifications", "idx_notifications_user_id", "user_id"},
		{"meetings", "idx_meetings_supervisor_date", "supervisor_id, date"},
	}

	for _, idx := range indexes {
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			fmt.Printf("Index %s already exists, skipping\n", idx.name)
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		fmt.Printf("Created index %s on %s(%s)\n", idx.name, idx.table, idx.columns)
	}

	return nil
}
