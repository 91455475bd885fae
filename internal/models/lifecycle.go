package models

// Legal state transitions per entity. Services consult these tables before
// writing a status; anything not listed is rejected.

var ideaTransitions = map[IdeaStatus][]IdeaStatus{
	IdeaStatusAvailable:           {IdeaStatusTaken, IdeaStatusRejected},
	IdeaStatusTaken:               {IdeaStatusAvailable, IdeaStatusApproved, IdeaStatusRejected},
	IdeaStatusPending:             {IdeaStatusApproved, IdeaStatusRejected},
	IdeaStatusPendingTeamApproval: {IdeaStatusPending, IdeaStatusApproved, IdeaStatusRejected},
}

func CanTransitionIdea(from, to IdeaStatus) bool {
	for _, s := range ideaTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Project: active<->suspended is reversible; archived and deleted are
// reachable from anywhere; deleted is a soft flag, not row removal.
var projectTransitions = map[ProjectStatus][]ProjectStatus{
	ProjectStatusPending:   {ProjectStatusActive, ProjectStatusRejected, ProjectStatusArchived, ProjectStatusDeleted},
	ProjectStatusActive:    {ProjectStatusSuspended, ProjectStatusCompleted, ProjectStatusArchived, ProjectStatusDeleted},
	ProjectStatusSuspended: {ProjectStatusActive, ProjectStatusArchived, ProjectStatusDeleted},
	ProjectStatusCompleted: {ProjectStatusArchived, ProjectStatusDeleted},
	ProjectStatusRejected:  {ProjectStatusArchived, ProjectStatusDeleted},
	ProjectStatusArchived:  {ProjectStatusDeleted},
}

func CanTransitionProject(from, to ProjectStatus) bool {
	for _, s := range projectTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

var taskTransitions = map[TaskStatus][]TaskStatus{
	TaskStatusPending:   {TaskStatusSubmitted},
	TaskStatusSubmitted: {TaskStatusGraded},
}

func CanTransitionTask(from, to TaskStatus) bool {
	for _, s := range taskTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

var meetingRequestTransitions = map[MeetingRequestStatus][]MeetingRequestStatus{
	MeetingRequestStatusPending: {MeetingRequestStatusApproved, MeetingRequestStatusRejected},
}

func CanTransitionMeetingRequest(from, to MeetingRequestStatus) bool {
	for _, s := range meetingRequestTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
