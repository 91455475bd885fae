package dto

import (
	"time"

	"github.com/M-Alradhi/gradproject-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID            uint64          `json:"id"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	Role          models.UserRole `json:"role"`
	StudentNumber string          `json:"student_number,omitempty"`
	Department    string          `json:"department,omitempty"`
	SupervisorID  *uint64         `json:"supervisor_id,omitempty"`
	ProjectID     *uint64         `json:"project_id,omitempty"`

	SelectedIdeaID    *uint64 `json:"selected_idea_id,omitempty"`
	SelectedIdeaTitle string  `json:"selected_idea_title,omitempty"`
}

// TeamMemberDTO represents a roster entry in API responses
type TeamMemberDTO struct {
	ID            uint64          `json:"id"`
	UserID        *uint64         `json:"user_id,omitempty"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	StudentNumber string          `json:"student_number,omitempty"`
	Role          models.TeamRole `json:"role"`
	Approved      bool            `json:"approved"`
	ApprovedAt    *time.Time      `json:"approved_at,omitempty"`
}

// IdeaDTO represents a project idea in API responses
type IdeaDTO struct {
	ID              uint64            `json:"id"`
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	Department      string            `json:"department,omitempty"`
	Status          models.IdeaStatus `json:"status"`
	TeamStatus      models.TeamStatus `json:"team_status,omitempty"`
	StudentID       *uint64           `json:"student_id,omitempty"`
	SupervisorID    *uint64           `json:"supervisor_id,omitempty"`
	SelectedByID    *uint64           `json:"selected_by_id,omitempty"`
	SelectedByName  string            `json:"selected_by_name,omitempty"`
	SelectedAt      *time.Time        `json:"selected_at,omitempty"`
	ProjectID       *uint64           `json:"project_id,omitempty"`
	RejectionReason string            `json:"rejection_reason,omitempty"`
	TeamMembers     []TeamMemberDTO   `json:"team_members,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID           uint64               `json:"id"`
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	Department   string               `json:"department,omitempty"`
	IdeaID       *uint64              `json:"idea_id,omitempty"`
	SupervisorID *uint64              `json:"supervisor_id,omitempty"`
	StudentID    *uint64              `json:"student_id,omitempty"`
	Status       models.ProjectStatus `json:"status"`
	Progress     int                  `json:"progress"`
	StartDate    *time.Time           `json:"start_date,omitempty"`
	EndDate      *time.Time           `json:"end_date,omitempty"`
	Members      []TeamMemberDTO      `json:"members,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:                user.ID,
		Name:              user.Name,
		Email:             user.Email,
		Role:              user.Role,
		StudentNumber:     user.StudentNumber,
		Department:        user.Department,
		SupervisorID:      user.SupervisorID,
		ProjectID:         user.ProjectID,
		SelectedIdeaID:    user.SelectedIdeaID,
		SelectedIdeaTitle: user.SelectedIdeaTitle,
	}
}

// ToTeamMemberDTO converts an IdeaTeamMember model to TeamMemberDTO
func ToTeamMemberDTO(m models.IdeaTeamMember) TeamMemberDTO {
	return TeamMemberDTO{
		ID:            m.ID,
		UserID:        m.UserID,
		Name:          m.Name,
		Email:         m.Email,
		StudentNumber: m.StudentNumber,
		Role:          m.Role,
		Approved:      m.Approved,
		ApprovedAt:    m.ApprovedAt,
	}
}

// ToIdeaDTO converts a ProjectIdea model to IdeaDTO
func ToIdeaDTO(idea models.ProjectIdea) IdeaDTO {
	dto := IdeaDTO{
		ID:              idea.ID,
		Title:           idea.Title,
		Description:     idea.Description,
		Department:      idea.Department,
		Status:          idea.Status,
		TeamStatus:      idea.TeamStatus,
		StudentID:       idea.StudentID,
		SupervisorID:    idea.SupervisorID,
		SelectedByID:    idea.SelectedByID,
		SelectedByName:  idea.SelectedByName,
		SelectedAt:      idea.SelectedAt,
		ProjectID:       idea.ProjectID,
		RejectionReason: idea.RejectionReason,
		CreatedAt:       idea.CreatedAt,
	}
	for _, m := range idea.TeamMembers {
		dto.TeamMembers = append(dto.TeamMembers, ToTeamMemberDTO(m))
	}
	return dto
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	dto := ProjectDTO{
		ID:           project.ID,
		Title:        project.Title,
		Description:  project.Description,
		Department:   project.Department,
		IdeaID:       project.IdeaID,
		SupervisorID: project.SupervisorID,
		StudentID:    project.StudentID,
		Status:       project.Status,
		Progress:     project.Progress,
		StartDate:    project.StartDate,
		EndDate:      project.EndDate,
		CreatedAt:    project.CreatedAt,
	}
	for _, m := range project.Members {
		dto.Members = append(dto.Members, TeamMemberDTO{
			ID:            m.ID,
			UserID:        m.UserID,
			Name:          m.Name,
			Email:         m.Email,
			StudentNumber: m.StudentNumber,
			Role:          m.Role,
			Approved:      m.Approved,
		})
	}
	return dto
}
