package projects_enums

type ProjectStatus string

const (
	ProjectStatusActive     ProjectStatus = "active"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusOnHold     ProjectStatus = "on-hold"
	ProjectStatusInProgress ProjectStatus = "in-progress"
)

// IsKnown reports whether s is one of the predefined statuses. Other values
// are still stored verbatim.
func (s ProjectStatus) IsKnown() bool {
	switch s {
	case ProjectStatusActive, ProjectStatusCompleted, ProjectStatusOnHold, ProjectStatusInProgress:
		return true
	default:
		return false
	}
}
