package domain

// EntityKind identifies a level of the ownership chain. The set is closed:
// resolver and error reporting switch over it exhaustively.
type EntityKind string

const (
	KindUser    EntityKind = "user"
	KindBoard   EntityKind = "board"
	KindColumn  EntityKind = "column"
	KindTask    EntityKind = "task"
	KindSubtask EntityKind = "subtask"
)

func (k EntityKind) String() string { return string(k) }
