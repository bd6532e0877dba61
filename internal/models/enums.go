package models

import "strings"

// TaskStatus is the workflow column of a task.
type TaskStatus string

const (
	TaskStatusNone       TaskStatus = "NONE"
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
	TaskStatusBlocked    TaskStatus = "BLOCKED"
	TaskStatusCanceled   TaskStatus = "CANCELED"
)

var taskStatuses = map[string]TaskStatus{
	"NONE":        TaskStatusNone,
	"TODO":        TaskStatusTodo,
	"IN_PROGRESS": TaskStatusInProgress,
	"DONE":        TaskStatusDone,
	"BLOCKED":     TaskStatusBlocked,
	"CANCELED":    TaskStatusCanceled,
}

// ParseTaskStatus maps free-form input to a status. Blank or unknown input yields NONE.
func ParseTaskStatus(raw string) TaskStatus {
	if s, ok := taskStatuses[strings.ToUpper(strings.TrimSpace(raw))]; ok {
		return s
	}
	return TaskStatusNone
}

// TaskIcon classifies the kind of work a task represents.
type TaskIcon string

const (
	TaskIconNone          TaskIcon = "NONE"
	TaskIconBug           TaskIcon = "BUG"
	TaskIconFeature       TaskIcon = "FEATURE"
	TaskIconDocumentation TaskIcon = "DOCUMENTATION"
	TaskIconRefactor      TaskIcon = "REFACTOR"
	TaskIconTest          TaskIcon = "TEST"
	TaskIconMaintenance   TaskIcon = "MAINTENANCE"
)

var taskIcons = map[string]TaskIcon{
	"NONE":          TaskIconNone,
	"BUG":           TaskIconBug,
	"FEATURE":       TaskIconFeature,
	"DOCUMENTATION": TaskIconDocumentation,
	"REFACTOR":      TaskIconRefactor,
	"TEST":          TaskIconTest,
	"MAINTENANCE":   TaskIconMaintenance,
}

// ParseTaskIcon maps free-form input to an icon. Blank or unknown input yields NONE.
func ParseTaskIcon(raw string) TaskIcon {
	if i, ok := taskIcons[strings.ToUpper(strings.TrimSpace(raw))]; ok {
		return i
	}
	return TaskIconNone
}
