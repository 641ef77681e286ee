package domain

// SubtaskStatus has two states and toggles freely between them.
type SubtaskStatus string

const (
	SubtaskInProgress SubtaskStatus = "in_progress"
	SubtaskCompleted  SubtaskStatus = "completed"
)

// Valid reports whether s is one of the two known states.
func (s SubtaskStatus) Valid() bool {
	return s == SubtaskInProgress || s == SubtaskCompleted
}

// Toggled returns the opposite state.
func (s SubtaskStatus) Toggled() SubtaskStatus {
	if s == SubtaskCompleted {
		return SubtaskInProgress
	}
	return SubtaskCompleted
}
